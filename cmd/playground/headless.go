package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"physics-playground/internal/config"
	"physics-playground/internal/logger"
	"physics-playground/internal/panel"
	"physics-playground/internal/physics"
	"physics-playground/internal/sim"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

const headlessDelta = 1.0 / 60.0

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 2)
)

type headlessOptions struct {
	Frames  int
	Spheres int
	Boxes   int
	Seed    uint64
}

// summary is what a headless run reports.
type summary struct {
	Frames   int
	SimTime  float32
	Objects  int
	Bodies   int
	Sounds   int
	Sleeping int
	// Heights is the test sphere's y per frame; empty without a test sphere.
	Heights []float64
}

// soundCounter stands in for the speaker in headless runs.
type soundCounter struct{ n int }

func (s *soundCounter) Play(float32) { s.n++ }

// runHeadless spawns the requested objects through the panel actions and ticks the loop
// with fixed 60 fps frames.
func runHeadless(ctx context.Context, cfg *config.Config, log *logger.Logger, opts headlessOptions) (*summary, error) {
	if opts.Frames < 0 || opts.Spheres < 0 || opts.Boxes < 0 {
		return nil, fmt.Errorf("%w: frames, spheres and boxes must not be negative", sim.ErrInvalidParameter)
	}
	c := sim.NewContext(cfg, log)
	sounds := &soundCounter{}
	c.Sounds = sounds

	reg := panel.NewRegistry()
	panel.RegisterSpawnActions(reg, c, spawnSettings(cfg), rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)))
	queue := &panel.Queue{}
	for range opts.Spheres {
		queue.Push("spawnSphere")
	}
	for range opts.Boxes {
		queue.Push("spawnBox")
	}

	s := &summary{}
	loop := sim.NewLoop(c, &sim.FixedFrames{Delta: headlessDelta, Count: opts.Frames}, nil)
	loop.BeforeTick(func() {
		queue.Drain(reg, log)
	})
	if c.TestSphere != nil {
		loop.AfterTick(func(int) {
			s.Heights = append(s.Heights, float64(c.TestSphere.Node.Position.Y))
		})
	}
	if err := loop.Run(ctx); err != nil {
		return nil, err
	}

	s.Frames = loop.Frame()
	s.SimTime = c.World.Time()
	s.Objects = c.Registry.Len()
	s.Bodies = len(c.World.Bodies)
	s.Sounds = sounds.n
	for _, o := range c.Registry.All() {
		if o.Body.SleepState() == physics.Sleeping {
			s.Sleeping++
		}
	}
	return s, nil
}

// Render formats the summary for the terminal, optionally with a height plot.
func (s *summary) Render(plot bool) string {
	rows := []struct {
		label string
		value string
	}{
		{"frames", fmt.Sprintf("%d", s.Frames)},
		{"sim time", fmt.Sprintf("%.2fs", s.SimTime)},
		{"objects", fmt.Sprintf("%d", s.Objects)},
		{"bodies", fmt.Sprintf("%d", s.Bodies)},
		{"sleeping", fmt.Sprintf("%d", s.Sleeping)},
		{"hit sounds", fmt.Sprintf("%d", s.Sounds)},
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render("physics playground"))
	b.WriteString("\n")
	for _, r := range rows {
		b.WriteString(labelStyle.Render(r.label))
		b.WriteString(valueStyle.Render(r.value))
		b.WriteString("\n")
	}
	out := boxStyle.Render(strings.TrimRight(b.String(), "\n"))
	if plot && len(s.Heights) > 1 {
		graph := asciigraph.Plot(s.Heights,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("test sphere height (m)"),
		)
		out += "\n\n" + graph
	}
	return out
}
