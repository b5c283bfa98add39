package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"pal625/broadcast"
	"pal625/config"
	"pal625/iq"
	"pal625/logging"
	"pal625/metrics"
	"pal625/sdr"
	"pal625/source"
	"pal625/teletext"
	"pal625/video"
)

type options struct {
	configPath string
	ppl        int
	frames     int
	source     string
	out        string
	format     string
	center     uint64
	transmit   bool
	freq       float64
	teletext   bool
	text       string
	metrics    bool
}

func parseFlags() *options {
	o := &options{}
	flag.StringVar(&o.configPath, "config", "", "YAML configuration file")
	flag.IntVar(&o.ppl, "ppl", 208, "Active pixels per line")
	flag.IntVar(&o.frames, "frames", 1, "Frames to compose, 0 runs until stopped")
	flag.StringVar(&o.source, "source", "", "Image file, or ffmpeg:<device> for live capture. Empty uses the test pattern")
	flag.StringVar(&o.out, "out", "", "Export file")
	flag.StringVar(&o.format, "format", "a", "Export format: a, b, f32 or wav")
	flag.Uint64Var(&o.center, "center", 0, "Center frequency in Hz recorded in format A headers")
	flag.BoolVar(&o.transmit, "transmit", false, "Transmit through a HackRF")
	flag.Float64Var(&o.freq, "freq", 1280, "Transmit frequency in MHz")
	flag.BoolVar(&o.teletext, "teletext", false, "Write a single teletext line instead of video frames")
	flag.StringVar(&o.text, "text", "", "Teletext payload, at most 40 characters")
	flag.BoolVar(&o.metrics, "metrics", false, "Serve Prometheus metrics")
	flag.Parse()
	return o
}

// apply copies the flags given on the command line over cfg.
func (o *options) apply(cfg *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "ppl":
			cfg.Video.PixelsPerLine = o.ppl
		case "frames":
			cfg.Video.Frames = o.frames
		case "source":
			if dev, ok := strings.CutPrefix(o.source, source.FFmpegPrefix); ok {
				cfg.Source.FFmpeg, cfg.Source.Device, cfg.Source.Path = true, dev, ""
			} else {
				cfg.Source.FFmpeg, cfg.Source.Path = false, o.source
			}
		case "out":
			if o.teletext {
				cfg.Teletext.Path = o.out
			} else {
				cfg.Output.Path = o.out
			}
		case "format":
			cfg.Output.Format = o.format
		case "center":
			cfg.Output.CenterFrequency = o.center
		case "transmit":
			cfg.SDR.Transmit = o.transmit
		case "freq":
			cfg.SDR.Frequency = o.freq
		case "teletext":
			cfg.Teletext.Enabled = o.teletext
		case "text":
			cfg.Teletext.Text = o.text
		case "metrics":
			cfg.Metrics.Enabled = o.metrics
		}
	})
}

func main() {
	opts := parseFlags()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	opts.apply(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(&cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	runID := uuid.New().String()
	log := logger.WithField("run_id", runID)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := video.NewProfile(cfg.Video.PixelsPerLine)
	if err != nil {
		log.WithError(err).Fatal("Invalid video profile")
	}
	log.WithField("profile", p.String()).Info("Video profile ready")

	if cfg.Teletext.Enabled {
		if err := writeTeletext(cfg, p, log); err != nil {
			log.WithError(err).Fatal("Teletext export failed")
		}
		return
	}

	srv := startMetrics(&cfg.Metrics, log)
	err = run(ctx, cfg, p, runID, log)
	stopMetrics(ctx, srv, &cfg.Metrics, log)
	if err != nil {
		log.WithError(err).Fatal("Run failed")
	}
}

func sourceName(cfg *config.SourceConfig) string {
	if cfg.FFmpeg {
		return source.FFmpegPrefix + cfg.Device
	}
	return cfg.Path
}

func run(ctx context.Context, cfg *config.Config, p video.Profile, runID string, log *logrus.Entry) error {
	var sinks []broadcast.Sink

	var export *iq.FileWriter
	format := iq.Format(cfg.Output.Format)
	header := iq.NewHeader(p, cfg.Output.CenterFrequency, time.Now())
	if cfg.Output.Path != "" {
		fw, err := iq.Create(cfg.Output.Path, format, header)
		if err != nil {
			return err
		}
		defer fw.Abort()
		export = fw
		sinks = append(sinks, fw)
	}

	var tx *sdr.Transmitter
	if cfg.SDR.Transmit {
		t, err := sdr.Open(&cfg.SDR, p, logging.WithComponent(log, "sdr"))
		if err != nil {
			return err
		}
		defer t.Close()
		tx = t
		sinks = append(sinks, t)
	}

	if len(sinks) == 0 {
		log.Warn("No export path and no transmitter configured, frames will be discarded")
	}

	r := broadcast.New(p, broadcast.Options{
		Frames:    cfg.Video.Frames,
		FrameRate: cfg.Video.FrameRate,
	}, logging.WithComponent(log, "broadcast"), sinks...)

	state, err := r.Run(ctx, broadcast.State{Source: sourceName(&cfg.Source)})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if export != nil {
		if err := export.Commit(); err != nil {
			return err
		}
		log.WithFields(logrus.Fields{
			"path":    cfg.Output.Path,
			"format":  format,
			"frames":  state.Frame,
			"samples": export.Samples(),
		}).Info("Export written")

		if cfg.Output.Sidecar {
			err := iq.WriteSidecar(cfg.Output.Path, iq.Sidecar{
				RunID:           runID,
				Format:          format,
				SampleRate:      p.SampleFrequency,
				CenterFrequency: cfg.Output.CenterFrequency,
				PixelsPerLine:   p.PixelsPerLine,
				ScanlineSamples: p.ScanlineSamples,
				Frames:          state.Frame,
				Samples:         export.Samples(),
				Source:          state.Source,
				Created:         time.Unix(int64(header.Timestamp), 0).UTC(),
			})
			if err != nil {
				return err
			}
		}
	}

	if tx != nil && ctx.Err() == nil {
		log.Info("Holding last frame on air. Press Ctrl+C to stop.")
		<-ctx.Done()
	}
	log.Info("Shutting down...")
	return nil
}

func writeTeletext(cfg *config.Config, p video.Profile, log *logrus.Entry) error {
	pk, err := teletext.NewPacket(cfg.Teletext.Magazine, cfg.Teletext.PacketNumber, []byte(cfg.Teletext.Text))
	if err != nil {
		return err
	}
	line, err := teletext.Line(p, pk)
	if err != nil {
		return err
	}

	format := iq.Format(cfg.Output.Format)
	h := iq.NewHeader(p, cfg.Output.CenterFrequency, time.Now())
	if err := iq.ExportFile(cfg.Teletext.Path, format, h, line); err != nil {
		return err
	}

	encoded := pk.Encode()
	log.WithFields(logrus.Fields{
		"path":     cfg.Teletext.Path,
		"magazine": pk.Magazine,
		"packet":   pk.PacketNumber,
		"address":  fmt.Sprintf("%02x %02x", encoded[3], encoded[4]),
		"samples":  len(line),
	}).Info("Teletext line written")
	return nil
}

func startMetrics(cfg *config.MetricsConfig, log *logrus.Entry) *http.Server {
	if !cfg.Enabled {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, metrics.Handler())
	srv := &http.Server{Addr: ":" + strconv.Itoa(cfg.Port), Handler: mux}

	go func() {
		log.WithField("addr", srv.Addr+cfg.Path).Info("Serving metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("Metrics server failed")
		}
	}()
	return srv
}

func stopMetrics(ctx context.Context, srv *http.Server, cfg *config.MetricsConfig, log *logrus.Entry) {
	if srv == nil {
		return
	}
	if cfg.Linger > 0 {
		log.WithField("linger", cfg.Linger).Info("Metrics server lingering")
		select {
		case <-time.After(cfg.Linger):
		case <-ctx.Done():
		}
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("Metrics server shutdown failed")
	}
}
