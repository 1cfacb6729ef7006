// Command wavstream inspects and plays back RIFF/WAVE files using the
// wave decoder.
package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
)

func main() {
	ctx := context.Background()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	app := &cli.Command{
		Name:  "wavstream",
		Usage: "inspect and play RIFF/WAVE audio files",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("verbose") {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
			return context.WithValue(ctx, logCtxKey{}, &log), nil
		},
		Commands: []*cli.Command{
			infoCommand(),
			playCommand(),
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		log.Error().Err(err).Msg("wavstream failed")
		os.Exit(1)
	}
}

type logCtxKey struct{}

func loggerFrom(ctx context.Context) *zerolog.Logger {
	if l, ok := ctx.Value(logCtxKey{}).(*zerolog.Logger); ok {
		return l
	}
	l := zerolog.Nop()
	return &l
}
