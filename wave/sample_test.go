package wave

import (
	"math"
	"testing"
)

func TestU8ToF32(t *testing.T) {
	for _, c := range []struct {
		in   byte
		want float32
	}{
		{0x00, -1.0},
		{0xFF, 1.0},
	} {
		if got := U8ToF32(c.in); got != c.want {
			t.Errorf("U8ToF32(%#x) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestS16ToF32(t *testing.T) {
	for _, c := range []struct {
		name string
		in   []byte
		want float32
	}{
		{"min", []byte{0x00, 0x80}, -1.0},
		{"max", []byte{0xFF, 0x7F}, 32767.0 / 32768.0},
		{"zero", []byte{0x00, 0x00}, 0.0},
	} {
		t.Run(c.name, func(t *testing.T) {
			if got := S16ToF32(c.in); got != c.want {
				t.Errorf("S16ToF32(%v) = %v, want %v", c.in, got, c.want)
			}
		})
	}
}

func TestS32ToF32(t *testing.T) {
	for _, c := range []struct {
		name string
		in   []byte
		want float32
	}{
		{"min", []byte{0x00, 0x00, 0x00, 0x80}, -1.0},
		{"zero", []byte{0x00, 0x00, 0x00, 0x00}, 0.0},
	} {
		t.Run(c.name, func(t *testing.T) {
			if got := S32ToF32(c.in); got != c.want {
				t.Errorf("S32ToF32(%v) = %v, want %v", c.in, got, c.want)
			}
		})
	}
}

func TestS24ToF32Sign(t *testing.T) {
	// 0x000000 -> 0
	if got := S24ToF32([]byte{0x00, 0x00, 0x00}); got != 0 {
		t.Errorf("S24ToF32(zero) = %v, want 0", got)
	}
	// top byte 0x80 in the assembled 32-bit word means the most negative
	// value: bytes little-endian low,mid,high placed as (b0<<8)|(b1<<16)|(b2<<24).
	if got := S24ToF32([]byte{0x00, 0x00, 0x80}); got != -1.0 {
		t.Errorf("S24ToF32(min) = %v, want -1.0", got)
	}
}

func TestF32ToF32PassThrough(t *testing.T) {
	want := float32(0.5)
	bits := math.Float32bits(want)
	b := []byte{byte(bits), byte(bits >> 8), byte(bits >> 16), byte(bits >> 24)}
	if got := F32ToF32(b); got != want {
		t.Errorf("F32ToF32 = %v, want %v", got, want)
	}
}

func TestF64ToF32Narrowing(t *testing.T) {
	want := 0.25
	bits := math.Float64bits(want)
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(bits >> (8 * i))
	}
	if got := F64ToF32(b); got != float32(want) {
		t.Errorf("F64ToF32 = %v, want %v", got, float32(want))
	}
}

// The A-law and mu-law decoders are spot-checked against individual ITU-T
// G.711 values below; the full 256-entry reference tables are not
// reproduced here.
func TestALawToF32SpotChecks(t *testing.T) {
	// 0x55 XOR 0x55 = 0, segment 0, mantissa 0 -> magnitude 8, sign bit
	// clear (a&0x80 == 0) so the magnitude is negated: -8/32768.
	if got, want := ALawToF32(0x55), float32(-8)/32768.0; got != want {
		t.Errorf("ALawToF32(0x55) = %v, want %v", got, want)
	}
}

func TestMuLawToF32SpotChecks(t *testing.T) {
	// 0xFF: u = NOT 0xFF = 0x00. mantissa bits all zero, segment 0.
	// magnitude = (0<<3 + 0x84) << 0 = 0x84. u&0x80 == 0 so result =
	// magnitude - 0x84 = 0.
	if got := MuLawToF32(0xFF); got != 0.0 {
		t.Errorf("MuLawToF32(0xFF) = %v, want 0", got)
	}

	// 0x7F is bit 0xFF with the sign bit flipped: mu-law has two
	// representations of zero (positive and negative), and both decode to
	// the same magnitude-zero sample.
	if got := MuLawToF32(0x7F); got != 0.0 {
		t.Errorf("MuLawToF32(0x7F) = %v, want 0", got)
	}
}

func TestMuLawAllBytesNoPanic(t *testing.T) {
	for i := 0; i < 256; i++ {
		_ = MuLawToF32(byte(i))
		_ = ALawToF32(byte(i))
	}
}

func TestConverterForUnsupported(t *testing.T) {
	if c := converterFor(FormatADPCM, 4); c != nil {
		t.Error("converterFor(ADPCM) should be nil: no converter for Microsoft ADPCM")
	}
	if c := converterFor(FormatPCM, 8); c != nil {
		t.Error("converterFor(PCM, 8 bytes) should be nil: unsupported width")
	}
}
