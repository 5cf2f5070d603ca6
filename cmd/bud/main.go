// Package main provides the CLI entry point for bud.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/omertuc/bud/pkg/adapters/ffmpegcli"
	"github.com/omertuc/bud/pkg/adapters/filesink"
	"github.com/omertuc/bud/pkg/adapters/ggrenderer"
	"github.com/omertuc/bud/pkg/adapters/logger"
	"github.com/omertuc/bud/pkg/adapters/mp4probe"
	"github.com/omertuc/bud/pkg/adapters/nullsink"
	"github.com/omertuc/bud/pkg/adapters/osfilesystem"
	"github.com/omertuc/bud/pkg/config"
	"github.com/omertuc/bud/pkg/orchestrator"
	"github.com/omertuc/bud/pkg/ports"
	"github.com/omertuc/bud/pkg/stages/compose"
	"github.com/omertuc/bud/pkg/stages/encode"
	"github.com/omertuc/bud/pkg/stages/sample"
	"github.com/omertuc/bud/pkg/stages/writeframes"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "bud",
		Usage:   "Render Buddhabrot frames and assemble them into videos.",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error).",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"Q"},
				Usage:   "Suppress all log output.",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "Save intermediate channel images and frame metadata.",
			},
			&cli.StringFlag{
				Name:  "debug-dir",
				Value: "./debug",
				Usage: "Directory for debug output.",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML configuration file.",
			},
		},
		Commands: []*cli.Command{
			renderCommand(),
			encodeCommand(),
			movieCommand(),
			probeCommand(),
			versionCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func renderFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "width", Aliases: []string{"W"}, Value: 2560, Usage: "Frame width in pixels."},
		&cli.IntFlag{Name: "height", Aliases: []string{"H"}, Value: 1440, Usage: "Frame height in pixels."},
		&cli.IntFlag{Name: "iterations-r", Value: 200, Usage: "Orbit iteration limit for the red channel."},
		&cli.IntFlag{Name: "iterations-g", Value: 100, Usage: "Orbit iteration limit for the green channel."},
		&cli.IntFlag{Name: "iterations-b", Value: 50, Usage: "Orbit iteration limit for the blue channel."},
		&cli.Int64Flag{Name: "samples", Aliases: []string{"n"}, Value: 1_000_000_000, Usage: "Random points per channel per frame."},
		&cli.Int64Flag{Name: "seed", Value: 1, Usage: "Base random seed (runs are deterministic per seed)."},
		&cli.IntFlag{Name: "workers", Aliases: []string{"j"}, Usage: "Sampling workers (default: number of CPUs)."},
		&cli.IntFlag{Name: "supersample", Value: 1, Usage: "Render at N x resolution and downscale."},
		&cli.IntFlag{Name: "frames", Value: 1, Usage: "Number of frames; more than one zooms toward the focus point."},
		&cli.Float64Flag{Name: "zoom", Value: 1.05, Usage: "Plane shrink factor per frame."},
		&cli.Float64Flag{Name: "focus-re", Value: -0.5, Usage: "Real part of the zoom focus."},
		&cli.Float64Flag{Name: "focus-im", Value: 0, Usage: "Imaginary part of the zoom focus."},
		&cli.Float64Flag{Name: "plane-width", Value: 4.3, Usage: "Width of the complex plane window."},
		&cli.Float64Flag{Name: "pan-right", Value: 0.5, Usage: "Leftward shift of the plane window."},
		&cli.BoolFlag{Name: "label", Usage: "Draw the frame index on each frame."},
	}
}

func encodeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "dir", Aliases: []string{"C"}, Value: ".", Usage: "Working directory containing the frames."},
		&cli.StringFlag{Name: "pattern", Value: "frame-*.png", Usage: "Glob matching the input frames, passed to the engine verbatim."},
		&cli.IntFlag{Name: "framerate", Aliases: []string{"r"}, Value: 60, Usage: "Input frame rate."},
		&cli.IntFlag{Name: "bitrate", Aliases: []string{"b"}, Value: 50_000_000, Usage: "Target video bitrate in bits per second."},
		&cli.StringSliceFlag{Name: "filter", Aliases: []string{"f"}, Usage: "Filter term key=value (repeatable, order preserved), e.g. brightness=0.65."},
		&cli.StringFlag{Name: "ffmpeg", Usage: "Path to the ffmpeg binary (falls back to FFMPEG_PATH env, then PATH)."},
	}
}

func renderCommand() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "Render Buddhabrot frames as PNG files.",
		ArgsUsage: "[outdir]",
		Flags:     renderFlags(),
		Action: func(cCtx *cli.Context) error {
			cfg, err := buildConfig(cCtx)
			if err != nil {
				return err
			}
			if cCtx.Args().Present() {
				cfg.OutDir = cCtx.Args().First()
			}

			log := buildLogger(cCtx)
			orch, err := buildOrchestrator(cCtx, log)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext(log)
			defer cancel()

			return orch.RenderFrames(ctx, cfg)
		},
	}
}

func encodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "encode",
		Usage:     "Assemble glob-matched frames into a video with ffmpeg.",
		ArgsUsage: "<output.mp4>",
		Flags:     encodeFlags(),
		Action: func(cCtx *cli.Context) error {
			if cCtx.NArg() != 1 {
				return cli.Exit(l10n.T("encode requires exactly one output path"), 1)
			}

			cfg, err := buildConfig(cCtx)
			if err != nil {
				return err
			}
			cfg.OutputPath = cCtx.Args().First()

			log := buildLogger(cCtx)
			orch, err := buildOrchestrator(cCtx, log)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext(log)
			defer cancel()

			if _, err := orch.Encode(ctx, cfg); err != nil {
				return engineExit(err)
			}
			return nil
		},
	}
}

func movieCommand() *cli.Command {
	return &cli.Command{
		Name:      "movie",
		Usage:     "Render frames and encode them into a video in one run.",
		ArgsUsage: "<output.mp4>",
		Flags:     append(renderFlags(), encodeFlags()...),
		Action: func(cCtx *cli.Context) error {
			if cCtx.NArg() != 1 {
				return cli.Exit(l10n.T("movie requires exactly one output path"), 1)
			}

			cfg, err := buildConfig(cCtx)
			if err != nil {
				return err
			}
			cfg.OutputPath = cCtx.Args().First()
			// Frames land where the engine will look for them.
			cfg.OutDir = cfg.WorkDir

			log := buildLogger(cCtx)
			orch, err := buildOrchestrator(cCtx, log)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext(log)
			defer cancel()

			if _, err := orch.Run(ctx, cfg); err != nil {
				return engineExit(err)
			}
			return nil
		},
	}
}

func probeCommand() *cli.Command {
	return &cli.Command{
		Name:      "probe",
		Usage:     "Print duration and track information of an MP4 file.",
		ArgsUsage: "<file.mp4>",
		Action: func(cCtx *cli.Context) error {
			if cCtx.NArg() != 1 {
				return cli.Exit(l10n.T("probe requires exactly one file path"), 1)
			}

			info, err := mp4probe.New().Probe(cCtx.Args().First())
			if err != nil {
				return err
			}

			fmt.Println(l10n.F("duration: %d ms", info.DurationMs))
			fmt.Println(l10n.F("tracks: %d", info.TrackCount))
			fmt.Println(l10n.F("timescale: %d", info.Timescale))
			return nil
		},
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print the version.",
		Action: func(cCtx *cli.Context) error {
			fmt.Println(version)
			return nil
		},
	}
}

// buildLogger creates the logger from the global flags.
func buildLogger(cCtx *cli.Context) ports.Logger {
	if cCtx.Bool("quiet") {
		return logger.NewNoop()
	}
	return logger.NewConsole(ports.ParseLogLevel(cCtx.String("log-level")))
}

// buildConfig assembles the orchestrator config: defaults, then the YAML
// file, then explicitly set flags.
func buildConfig(cCtx *cli.Context) (orchestrator.Config, error) {
	cfg := orchestrator.DefaultConfig()

	if path := cCtx.String("config"); path != "" {
		file, err := config.Load(path)
		if err != nil {
			return cfg, err
		}
		if err := file.Apply(&cfg); err != nil {
			return cfg, err
		}
	}

	applyInt := func(name string, dst *int) {
		if cCtx.IsSet(name) {
			*dst = cCtx.Int(name)
		}
	}
	applyInt64 := func(name string, dst *int64) {
		if cCtx.IsSet(name) {
			*dst = cCtx.Int64(name)
		}
	}
	applyFloat := func(name string, dst *float64) {
		if cCtx.IsSet(name) {
			*dst = cCtx.Float64(name)
		}
	}
	applyString := func(name string, dst *string) {
		if cCtx.IsSet(name) {
			*dst = cCtx.String(name)
		}
	}

	applyInt("width", &cfg.Width)
	applyInt("height", &cfg.Height)
	applyInt("iterations-r", &cfg.IterationsR)
	applyInt("iterations-g", &cfg.IterationsG)
	applyInt("iterations-b", &cfg.IterationsB)
	applyInt64("samples", &cfg.Samples)
	applyInt64("seed", &cfg.Seed)
	applyInt("workers", &cfg.Workers)
	applyInt("supersample", &cfg.Supersample)
	applyInt("frames", &cfg.FrameCount)
	applyFloat("zoom", &cfg.ZoomFactor)
	applyFloat("focus-re", &cfg.FocusRe)
	applyFloat("focus-im", &cfg.FocusIm)
	applyFloat("plane-width", &cfg.PlaneWidth)
	applyFloat("pan-right", &cfg.PanRight)
	if cCtx.IsSet("label") {
		cfg.Label = cCtx.Bool("label")
	}

	applyString("dir", &cfg.WorkDir)
	applyString("pattern", &cfg.FramePattern)
	applyInt("framerate", &cfg.FrameRate)
	applyInt("bitrate", &cfg.BitrateBps)
	if cCtx.IsSet("filter") {
		filters, err := config.ParseFilters(cCtx.StringSlice("filter"))
		if err != nil {
			return cfg, err
		}
		cfg.Filters = filters
	}

	return cfg, nil
}

// buildOrchestrator wires the adapters and stages.
func buildOrchestrator(cCtx *cli.Context, log ports.Logger) (*orchestrator.Orchestrator, error) {
	fs := osfilesystem.New()
	renderer := ggrenderer.New()

	var sink ports.DebugSink
	if cCtx.Bool("debug") {
		dir := cCtx.String("debug-dir")
		if err := fs.MkdirAll(dir); err != nil {
			return nil, fmt.Errorf("create debug directory: %w", err)
		}
		sink = filesink.New(dir, fs, renderer)
	} else {
		sink = nullsink.New()
	}

	invoker := ffmpegcli.NewWithPath(cCtx.String("ffmpeg"))

	return orchestrator.New(
		sample.NewStage(log),
		compose.NewStage(renderer, log),
		writeframes.NewStage(fs, renderer, log),
		encode.NewStage(invoker, mp4probe.New(), fs, log),
		sink,
		log,
	), nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(log ports.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Interrupted, shutting down...")
		cancel()
	}()

	return ctx, cancel
}

// engineExit maps an engine failure to this process's exit status. The
// engine already wrote its diagnostics to the inherited stderr, so a bare
// exit code is enough for its failures; anything else surfaces as an error.
func engineExit(err error) error {
	var exitErr *ffmpegcli.ExitError
	if errors.As(err, &exitErr) {
		return cli.Exit("", exitErr.Code)
	}
	return err
}
