// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

const clearScreen = "\033[H\033[2J"

// screen serializes redraws. On a terminal every frame replaces the last.
type screen struct {
	mu    sync.Mutex
	out   io.Writer
	clear bool
	log   logrus.FieldLogger
}

func newScreen(out io.Writer, log logrus.FieldLogger) *screen {
	return &screen{out: out, clear: isTerminal(out), log: log}
}

func (s *screen) draw(frame func(w io.Writer) error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.clear {
		fmt.Fprint(s.out, clearScreen)
	}
	if err := frame(s.out); err != nil {
		s.log.WithError(err).Warn("failed to draw")
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// chartWidth is the sparkline width that fits the terminal
func chartWidth(w io.Writer) int {
	const fallback = 60
	f, ok := w.(*os.File)
	if !ok {
		return fallback
	}
	cols, _, err := term.GetSize(int(f.Fd()))
	if err != nil || cols < 40 {
		return fallback
	}
	return cols - 30
}

// untilInterrupted returns a context cancelled on SIGINT or SIGTERM
func untilInterrupted(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
