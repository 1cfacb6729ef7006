package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/pulsewav/wavstream/wave"
)

var errInvalidArgCount = errors.New("expected exactly one argument: file path")

func infoCommand() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "print the parsed format of a WAVE file",
		ArgsUsage: "<file>",
		Action:    runInfo,
	}
}

func runInfo(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return fmt.Errorf("%w: got %d", errInvalidArgCount, cmd.NArg())
	}
	path := cmd.Args().First()

	d, err := wave.OpenFile(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer d.Close()

	fd := d.Format()
	log := loggerFrom(ctx)
	log.Info().
		Str("file", path).
		Uint16("format_tag", fd.FormatTag).
		Uint16("effective_format_tag", d.TranslatedFormatTag()).
		Uint16("channels", fd.Channels).
		Uint32("sample_rate", fd.SampleRate).
		Uint16("bits_per_sample", fd.BitsPerSample).
		Int64("total_samples", d.TotalSampleCount()).
		Bool("supported", fd.Supported()).
		Msg("parsed WAVE format")

	if !fd.Supported() {
		log.Warn().Str("file", path).Msg("format has no sample converter; reads will decode 0 samples")
	}

	return nil
}
