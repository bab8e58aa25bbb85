package main

import (
	"context"
	"math/rand/v2"
	"time"

	"physics-playground/internal/audio"
	"physics-playground/internal/config"
	"physics-playground/internal/debug"
	"physics-playground/internal/graphics"
	"physics-playground/internal/logger"
	"physics-playground/internal/panel"
	"physics-playground/internal/remote"
	"physics-playground/internal/sim"
	"physics-playground/internal/terminal"
)

// runLive opens the window and runs until it is closed or ctx is cancelled.
func runLive(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c := sim.NewContext(cfg, log)
	reg := panel.NewRegistry()
	queue := &panel.Queue{}
	panel.RegisterSpawnActions(reg, c, spawnSettings(cfg), newRand(cfg.Spawn.Seed))

	played := func() int { return 0 }
	if cfg.Sound.Enabled {
		player := audio.NewPlayer(cfg.Sound.Volume)
		if err := player.LoadClip(cfg.Sound.Clip); err != nil {
			log.Warn("hit sound: %v, using synthesized knock", err)
		}
		log.Info("hit sound: %d samples", player.ClipLen())
		if err := player.Init(); err != nil {
			log.Warn("audio unavailable, running silent: %v", err)
		} else {
			c.Sounds = player
			played = player.Played
			defer player.Close()
		}
	}

	term := terminal.New(log, reg)
	win := graphics.Open(cfg.Window, c, term)
	defer win.Shutdown()
	win.Stats = func() debug.Stats {
		return debug.Stats{
			Bodies:  len(c.World.Bodies),
			Objects: c.Registry.Len(),
			Sounds:  played(),
			SimTime: c.World.Time(),
		}
	}

	if cfg.Remote.Enabled {
		srv := remote.New(reg, queue, log)
		go func() {
			if err := srv.ListenAndServe(ctx, cfg.Remote.Addr); err != nil {
				log.Error("remote: %v", err)
			}
		}()
	}

	loop := sim.NewLoop(c, win, win)
	loop.BeforeTick(func() {
		queue.Drain(reg, log)
	})
	log.Info("ready: press ESC for the console, type help")
	return loop.Run(ctx)
}

func spawnSettings(cfg *config.Config) panel.SpawnSettings {
	return panel.SpawnSettings{
		Height:  cfg.Spawn.Height,
		Range:   cfg.Spawn.Range,
		MaxSize: cfg.Spawn.MaxSize,
	}
}

// newRand seeds the spawn generator; seed 0 means time based.
func newRand(seed int64) *rand.Rand {
	s := uint64(seed)
	if seed == 0 {
		s = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}
