package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"physics-playground/internal/config"
	"physics-playground/internal/env"
	"physics-playground/internal/logger"

	"github.com/spf13/cobra"
)

var (
	configFile string
	frames     int
	spheres    int
	boxes      int
	seed       uint64
	plot       bool
)

func init() {
	// raylib must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	if err := env.Load(".env"); err != nil {
		fmt.Fprintln(os.Stderr, "read .env:", err)
	}
	rootCmd := &cobra.Command{
		Use:   "playground",
		Short: "drop spheres and boxes onto a floor",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			return runLive(cmd.Context(), cfg, log)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", env.ConfigPath(config.DefaultPath), "config file path (yaml)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the simulation without a window and print a summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			log.SetMirror(os.Stderr)
			s, err := runHeadless(cmd.Context(), cfg, log, headlessOptions{
				Frames:  frames,
				Spheres: spheres,
				Boxes:   boxes,
				Seed:    seed,
			})
			if err != nil {
				return err
			}
			fmt.Println(s.Render(plot))
			return nil
		},
	}
	runCmd.Flags().IntVar(&frames, "frames", 600, "frames to simulate at 60 fps")
	runCmd.Flags().IntVar(&spheres, "spheres", 5, "spheres to spawn before the first frame")
	runCmd.Flags().IntVar(&boxes, "boxes", 5, "boxes to spawn before the first frame")
	runCmd.Flags().Uint64Var(&seed, "seed", uint64(time.Now().UnixNano()), "random seed for spawn sizes and positions")
	runCmd.Flags().BoolVar(&plot, "plot", false, "plot the test sphere height")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "write the default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Save(configFile, config.Default()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", configFile)
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, configCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger.New(cfg.LogPath), nil
}
