//go:build !headless

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-prism/plugin"
	"github.com/cwbudde/algo-prism/plugin/preset"
)

type playOptions struct {
	in        string
	freq      float64
	amplitude float64
	rate      int
	block     int
	statePath string
	watch     bool
	duration  time.Duration
}

func runPlay(args []string) error {
	fs, verbose := newFlagSet("play")

	var opt playOptions

	fs.StringVar(&opt.in, "in", "", "WAV file to loop (default: test tone)")
	fs.Float64Var(&opt.freq, "freq", 220, "test tone frequency in Hz")
	fs.Float64Var(&opt.amplitude, "amp", 0.5, "test tone peak amplitude")
	fs.IntVar(&opt.rate, "rate", 48000, "output sample rate for the test tone")
	fs.IntVar(&opt.block, "block", 512, "maximum processing block size")
	fs.StringVar(&opt.statePath, "state", "", "state file to load")
	fs.BoolVar(&opt.watch, "watch", false, "reload -state whenever the file changes")
	fs.DurationVar(&opt.duration, "duration", 0, "stop after this long (default: until interrupted)")
	params := addParamFlags(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}

	if opt.watch && opt.statePath == "" {
		return errors.New("play: -watch requires -state")
	}

	log := newLogger(*verbose)

	fx, err := plugin.New(plugin.WithLogger(log))
	if err != nil {
		return err
	}

	if err := loadStateFile(fx, opt.statePath); err != nil {
		return fmt.Errorf("play: %w", err)
	}

	if err := params.apply(fx.Params()); err != nil {
		return fmt.Errorf("play: %w", err)
	}

	src, rate, err := openSource(opt.in, opt.freq, opt.amplitude, opt.rate)
	if err != nil {
		return fmt.Errorf("play: %w", err)
	}

	if err := fx.Prepare(float64(rate), opt.block); err != nil {
		return err
	}
	defer fx.Release()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if opt.duration > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, opt.duration)
		defer cancel()
	}

	if opt.watch {
		w, err := preset.NewWatcher(opt.statePath, fx.SetState, log)
		if err != nil {
			return fmt.Errorf("play: %w", err)
		}

		go func() {
			if err := w.Run(ctx); err != nil {
				log.WithFields(logrus.Fields{
					"function": "runPlay",
					"error":    err.Error(),
				}).Error("Preset watcher stopped")
			}
		}()
	}

	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   rate,
		ChannelCount: plugin.NumChannels,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return fmt.Errorf("play: %w", err)
	}
	<-ready

	stream := newStream(fx, src, opt.block)
	player := otoCtx.NewPlayer(stream)
	player.Play()

	log.WithFields(logrus.Fields{
		"function": "runPlay",
		"rate":     rate,
		"settings": fmt.Sprintf("%+v", fx.Settings()),
	}).Info("Playing, press Ctrl-C to stop")

	<-ctx.Done()

	player.Pause()

	if err := player.Err(); err != nil {
		return fmt.Errorf("play: %w", err)
	}

	return nil
}
