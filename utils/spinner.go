package utils

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/term"
)

// Spinner initializes the progress indicator.
type Spinner struct {
	mu         sync.Mutex
	wg         sync.WaitGroup
	delay      time.Duration
	writer     io.Writer
	message    string
	lastOutput string
	StopMsg    string
	hideCursor bool
	enabled    bool
	stopChan   chan struct{}
}

// NewSpinner instantiates a new progress indicator writing to stderr.
// The spinner stays silent when stderr is not a terminal.
func NewSpinner(msg string, d time.Duration) *Spinner {
	return &Spinner{
		delay:      d,
		writer:     os.Stderr,
		message:    msg,
		hideCursor: true,
		enabled:    term.IsTerminal(int(os.Stderr.Fd())),
	}
}

// SetMessage replaces the text displayed next to the spinner.
func (s *Spinner) SetMessage(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = msg
}

// Start starts the progress indicator. Calling Start on a running spinner is a no-op.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled || s.stopChan != nil {
		return
	}
	if s.hideCursor && runtime.GOOS != "windows" {
		// hides the cursor
		fmt.Fprint(s.writer, "\033[?25l")
	}
	s.stopChan = make(chan struct{})
	s.wg.Add(1)

	go func(stop <-chan struct{}) {
		defer s.wg.Done()
		for {
			for _, r := range `⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏` {
				select {
				case <-stop:
					return
				case <-time.After(s.delay):
				}
				s.mu.Lock()
				s.clear()
				output := fmt.Sprintf("\r%s%s %c%s", s.message, SuccessColor, r, DefaultColor)
				fmt.Fprint(s.writer, output)
				s.lastOutput = output
				s.mu.Unlock()
			}
		}
	}(s.stopChan)
}

// Stop stops the progress indicator and prints the stop message, if any.
func (s *Spinner) Stop() {
	s.mu.Lock()
	stop := s.stopChan
	s.stopChan = nil
	s.mu.Unlock()
	if stop != nil {
		close(stop)
		s.wg.Wait()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear()
	if stop != nil {
		s.RestoreCursor()
	}
	if len(s.StopMsg) > 0 {
		fmt.Fprint(s.writer, s.StopMsg)
	}
}

// RestoreCursor restores back the cursor visibility.
func (s *Spinner) RestoreCursor() {
	if s.enabled && s.hideCursor && runtime.GOOS != "windows" {
		// makes the cursor visible
		fmt.Fprint(s.writer, "\033[?25h")
	}
}

// clear deletes the last line. Caller must hold the the locker.
func (s *Spinner) clear() {
	n := utf8.RuneCountInString(s.lastOutput)
	if n == 0 {
		return
	}
	if runtime.GOOS == "windows" {
		clearString := "\r" + strings.Repeat(" ", n) + "\r"
		fmt.Fprint(s.writer, clearString)
		s.lastOutput = ""
		return
	}
	fmt.Fprintf(s.writer, "\r\033[K") // clear line
	s.lastOutput = ""
}
