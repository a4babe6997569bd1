// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

// Package watchdog logs the session out after a period without user input.
package watchdog

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sharedco/vpnwatch/internal/client"
	"github.com/sharedco/vpnwatch/internal/logging"
)

// DefaultTimeout is the inactivity period before logout
const DefaultTimeout = 5 * time.Minute

// logoutTimeout bounds the logout request
const logoutTimeout = 10 * time.Second

// LogoutFunc ends the session
type LogoutFunc func(ctx context.Context) error

// ExpireFunc receives the login URL once the session has been ended
type ExpireFunc func(loginURL string)

// Options configures a Watchdog
type Options struct {
	BasePath   string
	RememberMe bool
	Log        logrus.FieldLogger
}

// Watchdog is an inactivity timer. Every Touch restarts it.
type Watchdog struct {
	timeout  time.Duration
	logout   LogoutFunc
	onExpire ExpireFunc
	loginURL string
	remember bool
	log      logrus.FieldLogger

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	stopped bool
}

// New creates a watchdog and arms it unless remember-me is set
func New(timeout time.Duration, logout LogoutFunc, onExpire ExpireFunc, opts Options) *Watchdog {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if opts.Log == nil {
		opts.Log = logging.Discard()
	}

	w := &Watchdog{
		timeout:  timeout,
		logout:   logout,
		onExpire: onExpire,
		loginURL: strings.TrimSuffix(opts.BasePath, "/") + "/login",
		remember: opts.RememberMe,
		log:      opts.Log,
	}
	w.Touch()
	return w
}

// LoginURL is where the user is sent after expiry
func (w *Watchdog) LoginURL() string {
	return w.loginURL
}

// Armed reports whether the timer is pending
func (w *Watchdog) Armed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.timer != nil
}

// Touch records user activity and restarts the timer
func (w *Watchdog) Touch() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	if w.remember || w.stopped {
		return
	}

	w.gen++
	gen := w.gen
	w.timer = time.AfterFunc(w.timeout, func() { w.expire(gen) })
}

// Stop disarms the watchdog for good
func (w *Watchdog) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

func (w *Watchdog) expire(gen uint64) {
	w.mu.Lock()
	if w.stopped || gen != w.gen {
		w.mu.Unlock()
		return
	}
	w.timer = nil
	w.mu.Unlock()

	w.log.WithField("timeout", w.timeout).Info("session inactive, logging out")

	ctx, cancel := context.WithTimeout(context.Background(), logoutTimeout)
	defer cancel()

	// Any HTTP response ends the session. Only a transport failure keeps it.
	if err := w.logout(ctx); err != nil {
		var apiErr *client.APIError
		if !errors.As(err, &apiErr) {
			w.log.WithError(err).Error("logout failed")
			return
		}
		w.log.WithError(err).WithField("status", apiErr.StatusCode).Warn("logout rejected")
	}
	if w.onExpire != nil {
		w.onExpire(w.loginURL)
	}
}
