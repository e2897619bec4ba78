package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.toneline.dev/toneline/audiocapture"
	"go.toneline.dev/toneline/config"
	"go.toneline.dev/toneline/dsp"
	"go.toneline.dev/toneline/dtmf"
	"go.toneline.dev/toneline/history"
	"go.toneline.dev/toneline/livedecode"
	"go.toneline.dev/toneline/wavio"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "toneline",
		Short:   "Encode text as dual-frequency tones and decode it back",
		Version: fmt.Sprintf("%s (%s)", version, commit),
	}

	root.AddCommand(
		newEncodeCmd(),
		newListenCmd(),
		newSpeedCmd(),
		newSlowCmd(),
		newHistoryCmd(),
	)
	return root
}

func newEncodeCmd() *cobra.Command {
	var (
		out     string
		charDur float64
		gapDur  float64
		rate    int
	)

	cmd := &cobra.Command{
		Use:   "encode PHRASE",
		Short: "Encode a phrase as a tone sequence WAV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if charDur == 0 {
				charDur = cfg.CharDuration
			}
			if gapDur == 0 {
				gapDur = cfg.GapDuration
			}
			if rate == 0 {
				rate = cfg.SampleRate
			}

			w := dtmf.SynthesizePhrase(args[0], charDur, gapDur, rate)
			if err := wavio.Write(out, w, rate); err != nil {
				return err
			}
			slog.Info("phrase encoded", "file", out, "samples", len(w), "rate", rate)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "encoded_phrase.wav", "output WAV file")
	cmd.Flags().Float64Var(&charDur, "char-dur", 0, "tone duration per character in seconds")
	cmd.Flags().Float64Var(&gapDur, "gap-dur", 0, "silence between characters in seconds")
	cmd.Flags().IntVar(&rate, "rate", 0, "sample rate in Hz")
	return cmd
}

func newListenCmd() *cobra.Command {
	var (
		duration time.Duration
		noSave   bool
	)

	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Decode tones live from the default input device",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			capture, err := audiocapture.New(audiocapture.Config{
				SampleRate:    cfg.SampleRate,
				ChunkDuration: cfg.ChunkDuration,
			})
			if err != nil {
				return fmt.Errorf("create capture: %w", err)
			}

			svc, err := livedecode.NewService(capture, livedecode.DetectorConfig{
				SilenceThreshold: cfg.SilenceThreshold,
			}, cfg.MinGap)
			if err != nil {
				return err
			}
			if err := svc.Start(); err != nil {
				return err
			}

			fmt.Println("Live decoding started. Press Ctrl+C to stop.")

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(stop)

			var timeout <-chan time.Time
			if duration > 0 {
				timeout = time.After(duration)
			}

			events := svc.Events()
		loop:
			for {
				select {
				case c, ok := <-events:
					if !ok {
						break loop
					}
					fmt.Printf("Detected char: %c\n", c.Symbol)
					fmt.Println("Text so far:", svc.Text())
				case <-stop:
					break loop
				case <-timeout:
					break loop
				}
			}

			if err := svc.Stop(); err != nil {
				return err
			}
			fmt.Println("Final decoded text:", svc.Text())

			if noSave {
				return nil
			}
			return saveSession(svc)
		},
	}

	cmd.Flags().DurationVar(&duration, "duration", 0, "stop automatically after this long (0 = until interrupted)")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the session in history")
	return cmd
}

func saveSession(svc *livedecode.Service) error {
	dir, err := config.DataDir()
	if err != nil {
		return err
	}
	store, err := history.Open(history.Options{Dir: dir})
	if err != nil {
		return err
	}
	defer store.Close()

	rec := svc.Record()
	if err := store.Save(rec); err != nil {
		return err
	}
	slog.Info("session saved", "id", rec.ID, "chars", rec.CharCount)
	return nil
}

func newSpeedCmd() *cobra.Command {
	var (
		factor int
		out    string
	)

	cmd := &cobra.Command{
		Use:   "speed INPUT.wav",
		Short: "Accelerate a WAV file by an integer factor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return transformSpeed(args[0], out, "fast_", factor, dsp.SpeedUp)
		},
	}

	cmd.Flags().IntVarP(&factor, "factor", "f", 10, "acceleration factor")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output WAV file (default fast_INPUT.wav)")
	return cmd
}

func newSlowCmd() *cobra.Command {
	var (
		factor int
		out    string
	)

	cmd := &cobra.Command{
		Use:   "slow INPUT.wav",
		Short: "Decelerate a WAV file by an integer factor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return transformSpeed(args[0], out, "slowed_", factor, dsp.SlowDown)
		},
	}

	cmd.Flags().IntVarP(&factor, "factor", "f", 10, "deceleration factor")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output WAV file (default slowed_INPUT.wav)")
	return cmd
}

func transformSpeed(in, out, prefix string, factor int, transform func([]float64, int) ([]float64, error)) error {
	if factor < 1 {
		return fmt.Errorf("factor must be a positive integer, got %d", factor)
	}
	if out == "" {
		out = prefix + in
	}

	samples, rate, err := wavio.Read(in)
	if err != nil {
		return err
	}

	result, err := transform(samples, factor)
	if err != nil {
		return err
	}

	if err := wavio.Write(out, result, rate); err != nil {
		return err
	}
	slog.Info("speed transform done",
		"input", in, "output", out,
		"in_samples", len(samples), "out_samples", len(result))
	return nil
}

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List stored decoding sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.DataDir()
			if err != nil {
				return err
			}
			store, err := history.Open(history.Options{Dir: dir})
			if err != nil {
				return err
			}
			defer store.Close()

			recs, err := store.List()
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				fmt.Println("No stored sessions.")
				return nil
			}
			for _, rec := range recs {
				fmt.Printf("%s  %s  %2d chars  %q\n",
					rec.StartedAt.Format(time.RFC3339), rec.ID, rec.CharCount, rec.Text)
			}
			return nil
		},
	}
}
