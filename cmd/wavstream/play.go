package main

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/urfave/cli/v3"

	"github.com/pulsewav/wavstream/wave"
)

var errUnsupportedPlaybackFormat = errors.New("no sample converter for this file's format")

func playCommand() *cli.Command {
	return &cli.Command{
		Name:      "play",
		Usage:     "decode a WAVE file and play it through the default audio device",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "start",
				Usage: "sample index to seek to before playback",
				Value: 0,
			},
		},
		Action: runPlay,
	}
}

func runPlay(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return fmt.Errorf("%w: got %d", errInvalidArgCount, cmd.NArg())
	}
	path := cmd.Args().First()
	log := loggerFrom(ctx)

	d, err := wave.OpenFile(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer d.Close()

	if !d.Format().Supported() {
		return fmt.Errorf("%s: %w", path, errUnsupportedPlaybackFormat)
	}

	if start := cmd.Int("start"); start > 0 {
		if !d.Seek(int64(start)) {
			log.Warn().Int64("start", start).Msg("seek reported failure; continuing from best-effort position")
		}
	}

	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   int(d.Format().SampleRate),
		ChannelCount: int(d.Format().Channels),
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return fmt.Errorf("initializing audio output: %w", err)
	}
	<-ready

	player := otoCtx.NewPlayer(&decoderReader{d: d})
	player.Play()

	log.Info().Str("file", path).Msg("playing")

	for player.IsPlaying() {
		time.Sleep(50 * time.Millisecond)
	}

	return player.Close()
}

// decoderReader adapts a *wave.Decoder into an io.Reader of little-endian
// float32 PCM, the format oto's context expects. It mirrors the pcmReader
// adapter pattern used by ebitengine-backed playback drivers: pull decoded
// float32 samples, then byte-encode them into the caller's buffer.
type decoderReader struct {
	d   *wave.Decoder
	buf []float32
}

func (r *decoderReader) Read(p []byte) (int, error) {
	const sampleSize = 4
	numSamples := len(p) / sampleSize
	if numSamples == 0 {
		return 0, nil
	}

	if cap(r.buf) < numSamples {
		r.buf = make([]float32, numSamples)
	} else {
		r.buf = r.buf[:numSamples]
	}

	n := r.d.ReadAsFloat32(numSamples, r.buf)
	if n == 0 {
		return 0, io.EOF
	}
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint32(p[i*sampleSize:], math.Float32bits(r.buf[i]))
	}
	return n * sampleSize, nil
}
