// Command r128scan measures EBU R128 loudness, loudness range and peaks of
// audio files.
//
// Usage:
//
//	r128scan [flags] file...
//
// WAV files are decoded directly. Raw little-endian PCM is read with
// --format=f32le or --format=s16le; a file name of "-" reads it from stdin.
//
// Examples:
//
//	r128scan mix.wav
//	r128scan --peak=sample,true --oversampler=spectral master.wav
//	sox in.flac -t f32 -r 48000 -c 2 - | r128scan --format=f32le -
//	r128scan --dual-mono --verbose voice.wav
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/cwbudde/algo-loudness/dsp/resample"
	"github.com/cwbudde/algo-loudness/measure/loudness"
	"github.com/cwbudde/algo-loudness/measure/peak"
)

var version = "0.1.0"

// CLI defines the command-line interface.
type CLI struct {
	Version bool `short:"v" help:"Show version information"`

	Format   string  `default:"wav" enum:"wav,f32le,s16le" help:"Input format (${enum})"`
	Rate     float64 `default:"48000" help:"Sample rate of raw input in Hz"`
	Channels int     `default:"2" help:"Channel count of raw input"`
	Frames   int     `default:"4096" help:"Frames handed to the meter per call"`

	Peak        string  `default:"sample,true" help:"Comma-separated peak meters: none, sample, true"`
	Oversample  int     `default:"4" help:"True-peak oversampling factor"`
	Oversampler string  `default:"polyphase" enum:"polyphase,spectral" help:"True-peak interpolator (${enum})"`
	DualMono    bool    `help:"Treat mono input as two identical channels"`
	PanLaw      float64 `default:"-3.01029995663978" help:"Dual-mono pan law in dB"`
	Grain       int     `default:"100" help:"Histogram buckets per LU"`

	Verbose bool     `help:"Log every 100 ms refresh to stderr"`
	Files   []string `arg:"" name:"files" help:"Audio files to scan" optional:""`
}

func main() {
	cliArgs := &CLI{}
	ctx := kong.Parse(cliArgs,
		kong.Name("r128scan"),
		kong.Description("EBU R128 loudness scanner"),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
		},
	)

	if cliArgs.Version {
		PrintVersion(os.Stdout, version)
		os.Exit(0)
	}

	if len(cliArgs.Files) == 0 {
		PrintError(os.Stderr, "No input files specified")
		_ = ctx.PrintUsage(false)
		os.Exit(1)
	}

	if err := run(cliArgs, os.Stdin, os.Stdout, os.Stderr); err != nil {
		PrintError(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// run scans every file and prints one summary per file. A failing file does
// not stop the others; the first error is returned.
func run(c *CLI, stdin io.Reader, stdout, stderr io.Writer) error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	mode, err := parsePeakMode(c.Peak)
	if err != nil {
		return err
	}

	var firstErr error

	for _, path := range c.Files {
		snap, err := scan(c, mode, path, stdin, logger.With("file", path))
		if err != nil {
			logger.Error("scan failed", "err", err)

			if firstErr == nil {
				firstErr = fmt.Errorf("%s: %w", path, err)
			}

			continue
		}

		PrintSummary(stdout, path, snap)
	}

	return firstErr
}

func scan(c *CLI, mode peak.Mode, path string, stdin io.Reader, logger *slog.Logger) (loudness.Snapshot, error) {
	src, err := openSource(c, path, stdin)
	if err != nil {
		return loudness.Snapshot{}, err
	}
	defer src.Close()

	m, err := loudness.NewMeter(meterOptions(c, mode, src, logger)...)
	if err != nil {
		return loudness.Snapshot{}, err
	}

	if err := m.TruePeakErr(); err != nil {
		logger.Warn("true peak disabled", "err", err)
	}

	logger.Debug("meter ready",
		"rate", src.SampleRate(),
		"layout", m.Layout().String(),
		"kernel", m.FilterName(),
		"block", m.BlockSize())

	buf := make([]float64, m.Config().FrameSize*src.Channels())

	for {
		n, err := src.Read(buf)
		if n > 0 {
			if perr := m.ProcessInterleaved(buf[:n]); perr != nil {
				return loudness.Snapshot{}, perr
			}
		}

		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return loudness.Snapshot{}, err
		}
	}

	return m.Close()
}

func meterOptions(c *CLI, mode peak.Mode, src source, logger *slog.Logger) []loudness.MeterOption {
	opts := []loudness.MeterOption{
		loudness.WithSampleRate(src.SampleRate()),
		loudness.WithChannels(src.Channels()),
		loudness.WithPeakMode(mode),
		loudness.WithOversampling(c.Oversample),
		loudness.WithHistogramGrain(c.Grain),
		loudness.WithFrameSize(c.Frames),
	}

	if c.DualMono {
		opts = append(opts, loudness.WithDualMono(c.PanLaw))
	}

	if c.Oversampler == "spectral" {
		opts = append(opts, loudness.WithOversamplerFactory(resample.SpectralFactory(2048)))
	}

	if logger.Enabled(context.Background(), slog.LevelDebug) {
		opts = append(opts, loudness.WithRefresh(func(e loudness.Event) {
			s := e.Snapshot
			logger.Debug("refresh",
				"t", s.Time,
				"M", s.M.LUFS(),
				"S", s.S.LUFS(),
				"I", s.I.LUFS(),
				"LRA", s.LRA.LU(),
				"frame_tp", e.FramePeaks)
		}))
	}

	return opts
}

func parsePeakMode(s string) (peak.Mode, error) {
	mode := peak.ModeNone

	for _, part := range strings.Split(s, ",") {
		switch strings.TrimSpace(strings.ToLower(part)) {
		case "", "none":
		case "sample":
			mode |= peak.ModeSample
		case "true":
			mode |= peak.ModeTrue
		default:
			return peak.ModeNone, fmt.Errorf("unknown peak mode %q", part)
		}
	}

	return mode, nil
}
