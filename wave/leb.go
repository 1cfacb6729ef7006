package wave

import "encoding/binary"

// getU16 reads a little-endian uint16 from the first 2 bytes of b,
// independent of host endianness. It panics if b has fewer than 2 bytes,
// same as binary.LittleEndian.Uint16.
func getU16(b []byte) uint16 {
	return binary.LittleEndian.Uint16(b)
}

// getU32 reads a little-endian uint32 from the first 4 bytes of b.
func getU32(b []byte) uint32 {
	return binary.LittleEndian.Uint32(b)
}

// getGUID copies the first 16 bytes of b, the layout a WAVEFORMATEXTENSIBLE
// sub-format GUID is stored in on disk (first 2 bytes are the effective
// format tag).
func getGUID(b []byte) [16]byte {
	var g [16]byte
	copy(g[:], b)
	return g
}
