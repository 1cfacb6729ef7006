package wave

import (
	"github.com/pulsewav/wavstream/bytesource"
)

// Decoder is a live decoding context over a RIFF/WAVE file. It is not safe
// for concurrent use: reads and seeks must be serialized by the caller.
type Decoder struct {
	source bytesource.Source

	format FormatDescriptor

	// translatedFormatTag is the effective encoding: format.FormatTag
	// unless that is FormatExtensible, in which case it's the first 16
	// bits of format.SubFormat.
	translatedFormatTag uint16

	// bytesPerSample is BlockAlign / Channels; it divides BlockAlign
	// evenly and is always >= 1.
	bytesPerSample int

	// totalSampleCount is dataChunkSize / bytesPerSample. One "sample" is
	// one per-channel value; a stereo frame counts as 2 samples.
	totalSampleCount int64

	// bytesRemaining tracks the unread byte offset into the data chunk.
	// It starts at dataChunkSize and only ever decreases on forward reads,
	// adjusting on seeks; totalSampleCount*bytesPerSample never changes.
	bytesRemaining int64
}

// Open constructs a Decoder by running the RIFF/WAVE open algorithm over
// src. On failure it returns a nil Decoder and a non-nil error; src is left
// in an unspecified position and the caller remains responsible for closing
// it. On success, the Decoder takes ownership of src: Close will close it.
func Open(src bytesource.Source) (*Decoder, error) {
	fd, dataSize, err := parseHeader(src)
	if err != nil {
		return nil, err
	}

	bytesPerSample := int(fd.BlockAlign) / int(fd.Channels)

	d := &Decoder{
		source:              src,
		format:              fd,
		translatedFormatTag: fd.translatedFormatTag(),
		bytesPerSample:      bytesPerSample,
		totalSampleCount:    int64(dataSize) / int64(bytesPerSample),
		bytesRemaining:      int64(dataSize),
	}
	return d, nil
}

// OpenFile opens path as a file-backed byte source and decodes its WAVE
// header. On failure, any file handle this helper allocated is closed
// before returning.
func OpenFile(path string) (*Decoder, error) {
	src, err := bytesource.OpenFile(path)
	if err != nil {
		return nil, err
	}
	d, err := Open(src)
	if err != nil {
		_ = src.Close()
		return nil, err
	}
	return d, nil
}

// OpenMemory decodes the WAVE header from a borrowed byte slice. data must
// outlive the returned Decoder.
func OpenMemory(data []byte) (*Decoder, error) {
	src := bytesource.NewMemorySource(data)
	d, err := Open(src)
	if err != nil {
		_ = src.Close()
		return nil, err
	}
	return d, nil
}

// Format returns the parsed "fmt " chunk.
func (d *Decoder) Format() FormatDescriptor {
	if d == nil {
		return FormatDescriptor{}
	}
	return d.format
}

// TranslatedFormatTag returns the effective format tag: the EXTENSIBLE
// sub-format when FormatTag is FormatExtensible, else FormatTag itself.
func (d *Decoder) TranslatedFormatTag() uint16 {
	if d == nil {
		return 0
	}
	return d.translatedFormatTag
}

// BytesPerSample returns BlockAlign / Channels.
func (d *Decoder) BytesPerSample() int {
	if d == nil {
		return 0
	}
	return d.bytesPerSample
}

// TotalSampleCount returns the number of per-channel samples in the data
// chunk, as captured when the decoder was opened. It never changes.
func (d *Decoder) TotalSampleCount() int64 {
	if d == nil {
		return 0
	}
	return d.totalSampleCount
}

// BytesRemaining returns the number of unread bytes left in the data chunk
// at the decoder's current position.
func (d *Decoder) BytesRemaining() int64 {
	if d == nil {
		return 0
	}
	return d.bytesRemaining
}

// Close releases the decoder's byte source. It is a no-op on a nil
// Decoder.
func (d *Decoder) Close() error {
	if d == nil || d.source == nil {
		return nil
	}
	err := d.source.Close()
	d.source = nil
	return err
}

// ReadRaw reads up to len(out) raw, undecoded bytes from the data chunk,
// clamped to the bytes remaining. It returns 0 for a nil decoder, an empty
// buffer, or once the data chunk is exhausted.
func (d *Decoder) ReadRaw(out []byte) int {
	if d == nil || d.source == nil || len(out) == 0 {
		return 0
	}
	n := len(out)
	if int64(n) > d.bytesRemaining {
		n = int(d.bytesRemaining)
	}
	if n <= 0 {
		return 0
	}
	got := d.source.Read(out[:n])
	d.bytesRemaining -= int64(got)
	return got
}

// Read reads up to samplesRequested whole samples into out, clamped to
// both samplesRequested and the capacity of out (out's length divided by
// the sample width). It returns the number of whole samples actually read;
// a partial trailing sample, if any, is discarded.
func (d *Decoder) Read(samplesRequested int, out []byte) int {
	if d == nil || samplesRequested <= 0 || len(out) == 0 {
		return 0
	}
	capSamples := len(out) / d.bytesPerSample
	if samplesRequested > capSamples {
		samplesRequested = capSamples
	}
	if samplesRequested <= 0 {
		return 0
	}
	n := d.ReadRaw(out[:samplesRequested*d.bytesPerSample])
	return n / d.bytesPerSample
}

// Seek moves the decoder's position to sampleIndex, clamped to
// [0, TotalSampleCount-1]. It reports false only for a nil or closed
// decoder; otherwise it always reports ok=true, even for an
// underlying seek failure on a non-empty file: the decoder's
// bytesRemaining bookkeeping is updated unconditionally (see §9, open
// question 1, which this preserves on purpose).
func (d *Decoder) Seek(sampleIndex int64) bool {
	if d == nil || d.source == nil {
		return false
	}
	if d.totalSampleCount == 0 {
		return true
	}
	if sampleIndex < 0 {
		sampleIndex = 0
	}
	if sampleIndex > d.totalSampleCount-1 {
		sampleIndex = d.totalSampleCount - 1
	}

	dataSize := d.totalSampleCount * int64(d.bytesPerSample)
	currentBytePos := dataSize - d.bytesRemaining
	targetBytePos := sampleIndex * int64(d.bytesPerSample)

	offset := targetBytePos - currentBytePos
	if offset == 0 {
		return true
	}

	forward := offset > 0
	remaining := offset
	if !forward {
		remaining = -offset
	}

	const maxStep = int64(0x7FFFFFFF)
	for remaining > 0 {
		step := remaining
		if step > maxStep {
			step = maxStep
		}
		signedStep := int32(step)
		if !forward {
			signedStep = -signedStep
		}
		// A failed seek does not abort the loop; bytesRemaining is
		// still updated as if it had succeeded (see Seek's doc comment).
		d.source.SeekRelative(signedStep)
		if forward {
			d.bytesRemaining -= step
		} else {
			d.bytesRemaining += step
		}
		remaining -= step
	}

	return true
}
