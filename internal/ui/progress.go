package ui

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

const spinnerInterval = 100 * time.Millisecond

// Spinner shows an indeterminate progress indicator while waiting on the model
type Spinner struct {
	bar  *progressbar.ProgressBar
	done chan struct{}
	wg   sync.WaitGroup
}

// NewSpinner creates a spinner that writes to stderr
func NewSpinner(description string) *Spinner {
	return newSpinner(os.Stderr, description)
}

func newSpinner(w io.Writer, description string) *Spinner {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(color.CyanString("%s", description)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)
	return &Spinner{bar: bar}
}

// Start animates the spinner until Stop is called
func (s *Spinner) Start() {
	if s.done != nil {
		return
	}
	s.done = make(chan struct{})
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				_ = s.bar.Add(1)
			}
		}
	}()
}

// Stop halts the animation and clears the spinner line
func (s *Spinner) Stop() {
	if s.done == nil {
		return
	}
	close(s.done)
	s.wg.Wait()
	s.done = nil
	_ = s.bar.Finish()
}
