// Command fsmview displays a state machine in the terminal and relaxes its
// layout live.
//
// Usage:
//
//	fsmview <machine.yaml>
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/fsm-logic/internal/config"
	"github.com/ha1tch/fsm-logic/internal/logging"
	"github.com/ha1tch/fsm-logic/pkg/fsmfile"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "Usage: fsmview <machine.yaml|machine.json>")
		os.Exit(2)
	}
	if err := run(os.Args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(path string) error {
	cfg, _, err := config.Load()
	if err != nil {
		return err
	}

	// The screen owns the terminal, so debug output goes to a file if at all
	logger := logging.NewNop()
	if cfg.Viewer.LogFile != "" {
		f, err := os.OpenFile(cfg.Viewer.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logger = logging.NewWriter(f, slog.LevelDebug)
	}

	d, machine, err := fsmfile.Load(path)
	if err != nil {
		return err
	}
	machine.SetLayout(cfg.FSMLayout())
	name := d.Name
	if name == "" {
		name = path
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initialize screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.Clear()

	v := NewViewer(screen, machine, name, cfg, logger)
	loop(screen, v, cfg.Tick())
	return nil
}

// loop redraws after every event; a ticker posts interrupts that drive the
// layout relaxation.
func loop(screen tcell.Screen, v *Viewer, tick time.Duration) {
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(tick)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				screen.PostEvent(tcell.NewEventInterrupt(nil))
			case <-done:
				return
			}
		}
	}()

	for {
		v.Draw()
		screen.Show()
		if v.HandleEvent(screen.PollEvent()) {
			return
		}
	}
}
