package commands

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	bspinner "github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

// Frame colors cycle from Groq orange through cool tones
var spinnerPalette = []lipgloss.Color{"#f55036", "#feca57", "#ff9ff3", "#54a0ff", "#00d2d3", "#1dd1a1"}

// statusSpinner animates a one-line status on w until stopped.
// It reuses the bubbles frame sets outside of a bubbletea program.
type statusSpinner struct {
	w      io.Writer
	label  string
	frames bspinner.Spinner

	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

func newStatusSpinner(w io.Writer, label string) *statusSpinner {
	return &statusSpinner{w: w, label: label, frames: bspinner.Dot}
}

func (s *statusSpinner) start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		interval := s.frames.FPS
		if interval <= 0 {
			interval = 100 * time.Millisecond
		}
		tick := time.NewTicker(interval)
		defer tick.Stop()

		fmt.Fprint(s.w, "\033[?25l")
		defer fmt.Fprint(s.w, "\r\033[K\033[?25h")

		label := lipgloss.NewStyle().Foreground(colorText).Render(s.label)
		for i := 0; ; i++ {
			frame := s.frames.Frames[i%len(s.frames.Frames)]
			color := spinnerPalette[i%len(spinnerPalette)]
			fmt.Fprintf(s.w, "\r\033[K%s %s", lipgloss.NewStyle().Foreground(color).Bold(true).Render(frame), label)

			select {
			case <-ctx.Done():
				return
			case <-tick.C:
			}
		}
	}()
}

// stop clears the status line; safe to call more than once
func (s *statusSpinner) stop() {
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
	s.wg.Wait()
}

// succeed stops and leaves a check mark with message
func (s *statusSpinner) succeed(message string) {
	s.stop()
	check := lipgloss.NewStyle().Foreground(colorSuccess).Bold(true).Render("✓")
	fmt.Fprintf(s.w, "%s %s\n", check, successStyle.Render(message))
}
