package wave

import (
	"errors"
	"fmt"

	"github.com/pulsewav/wavstream/bytesource"
)

// Format tags as they appear in the "fmt " chunk's wFormatTag field.
const (
	FormatPCM        uint16 = 0x0001
	FormatADPCM      uint16 = 0x0002
	FormatIEEEFloat  uint16 = 0x0003
	FormatALaw       uint16 = 0x0006
	FormatMuLaw      uint16 = 0x0007
	FormatExtensible uint16 = 0xFFFE
)

// FormatDescriptor is the parsed "fmt " chunk. It is immutable once a
// Decoder has been opened.
type FormatDescriptor struct {
	FormatTag      uint16
	Channels       uint16
	SampleRate     uint32
	AvgBytesPerSec uint32
	BlockAlign     uint16
	BitsPerSample  uint16

	// ExtendedSize, ValidBitsPerSample, ChannelMask and SubFormat are only
	// populated when the "fmt " chunk was 40 bytes (WAVEFORMATEXTENSIBLE).
	ExtendedSize       uint16
	ValidBitsPerSample uint16
	ChannelMask        uint32
	SubFormat          [16]byte
}

// translatedFormatTag resolves the effective encoding: if FormatTag is
// FormatExtensible, the true tag is carried in the first two bytes of
// SubFormat; otherwise it is FormatTag itself.
func (f FormatDescriptor) translatedFormatTag() uint16 {
	if f.FormatTag == FormatExtensible {
		return getU16(f.SubFormat[:2])
	}
	return f.FormatTag
}

// Supported reports whether this decoder has a converter for the
// descriptor's effective format tag. It does not change ReadAsFloat32's
// documented behavior of returning 0 samples for unsupported tags; it only
// lets a caller decide not to attempt the read in the first place.
func (f FormatDescriptor) Supported() bool {
	switch f.translatedFormatTag() {
	case FormatPCM, FormatIEEEFloat, FormatALaw, FormatMuLaw:
		return true
	default:
		return false
	}
}

var (
	errBadRIFFMagic  = errors.New("wave: missing RIFF/WAVE magic")
	errBadFmtMagic   = errors.New("wave: missing \"fmt \" chunk")
	errBadFmtSize    = errors.New("wave: \"fmt \" chunk has unsupported size")
	errBadCbSize     = errors.New("wave: extended fmt chunk has unexpected cbSize")
	errShortRead     = errors.New("wave: short read while parsing header")
	errSeekFailed    = errors.New("wave: seek failed while skipping chunk")
	errNoDataChunk   = errors.New("wave: no \"data\" chunk found")
	errZeroBlockSize = errors.New("wave: channels or blockAlign is zero, or blockAlign is not a multiple of channels")
)

// readFull reads exactly len(buf) bytes from src, looping over short reads
// until either buf is full or src reports no further progress. A read that
// cannot be completed is a short read per §4.1/§7: end-of-stream and I/O
// error are not distinguished.
func readFull(src bytesource.Source, buf []byte) bool {
	got := 0
	for got < len(buf) {
		n := src.Read(buf[got:])
		if n <= 0 {
			return false
		}
		got += n
	}
	return true
}

// skipChunk advances src past a chunk body of the given size, honoring the
// WAVE pad byte for odd-sized chunks, using seek calls no larger than
// 0x7FFFFFFF bytes each to respect the signed 32-bit relative-seek
// contract.
func skipChunk(src bytesource.Source, size uint32) bool {
	remaining := int64(size)
	if size%2 == 1 {
		remaining++
	}
	const maxStep = int64(0x7FFFFFFF)
	for remaining > 0 {
		step := remaining
		if step > maxStep {
			step = maxStep
		}
		if !src.SeekRelative(int32(step)) {
			return false
		}
		remaining -= step
	}
	return true
}

// parseHeader runs the open algorithm from §4.3: it validates the RIFF/WAVE
// magic, parses the "fmt " chunk, and walks chunks until it finds "data".
// The effective format tag is not resolved here; Open derives it from the
// returned descriptor. On success it returns the parsed
// format descriptor and the size in bytes of the data chunk; the source's
// position is left at the first byte of sample data.
func parseHeader(src bytesource.Source) (FormatDescriptor, uint32, error) {
	var fd FormatDescriptor

	// Step 1: RIFF/WAVE magic.
	var riffHdr [12]byte
	if !readFull(src, riffHdr[:]) {
		return fd, 0, errShortRead
	}
	if string(riffHdr[0:4]) != "RIFF" || string(riffHdr[8:12]) != "WAVE" {
		return fd, 0, errBadRIFFMagic
	}
	if riffSize := getU32(riffHdr[4:8]); riffSize < 36 {
		return fd, 0, fmt.Errorf("%w: riff size %d < 36", errBadRIFFMagic, riffSize)
	}

	// Step 2: "fmt " chunk header + fixed 16-byte body.
	var fmtHdr [24]byte
	if !readFull(src, fmtHdr[:]) {
		return fd, 0, errShortRead
	}
	if string(fmtHdr[0:4]) != "fmt " {
		return fd, 0, errBadFmtMagic
	}
	fmtSize := getU32(fmtHdr[4:8])
	if fmtSize != 16 && fmtSize != 18 && fmtSize != 40 {
		return fd, 0, fmt.Errorf("%w: %d", errBadFmtSize, fmtSize)
	}

	// Step 3: base fields at bytes [8..24] of the header buffer.
	base := fmtHdr[8:24]
	fd.FormatTag = getU16(base[0:2])
	fd.Channels = getU16(base[2:4])
	fd.SampleRate = getU32(base[4:8])
	fd.AvgBytesPerSec = getU32(base[8:12])
	fd.BlockAlign = getU16(base[12:14])
	fd.BitsPerSample = getU16(base[14:16])

	switch fmtSize {
	case 16:
		// nothing more to read.
	case 18:
		// Step 4: 2 reserved bytes, skipped; extended fields stay zero.
		if !src.SeekRelative(2) {
			return fd, 0, errSeekFailed
		}
	case 40:
		// Step 5: cbSize (must be 22), then 22 bytes of extension.
		var ext [24]byte
		if !readFull(src, ext[:]) {
			return fd, 0, errShortRead
		}
		cbSize := getU16(ext[0:2])
		if cbSize != 22 {
			return fd, 0, fmt.Errorf("%w: %d", errBadCbSize, cbSize)
		}
		fd.ExtendedSize = cbSize
		fd.ValidBitsPerSample = getU16(ext[2:4])
		fd.ChannelMask = getU32(ext[4:8])
		fd.SubFormat = getGUID(ext[8:24])
	}

	// Step 7: walk chunks until "data".
	var dataSize uint32
	for {
		var chunkHdr [8]byte
		if !readFull(src, chunkHdr[:]) {
			return fd, 0, errNoDataChunk
		}
		id := string(chunkHdr[0:4])
		size := getU32(chunkHdr[4:8])
		if id == "data" {
			dataSize = size
			break
		}
		if !skipChunk(src, size) {
			return fd, 0, errSeekFailed
		}
	}

	if fd.Channels == 0 || fd.BlockAlign == 0 || fd.BlockAlign%fd.Channels != 0 {
		return fd, 0, errZeroBlockSize
	}

	return fd, dataSize, nil
}
