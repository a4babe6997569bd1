// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

// Package poller runs a fetch function on a fixed interval and hands each
// successful result to an apply function.
//
// Fetches may overlap when the backend is slower than the interval. Every
// fetch is numbered; a result is applied only if it is newer than the last
// applied one and was issued by the current run. Stop cancels the timer but
// never aborts a request already in flight; its result is dropped instead.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sharedco/vpnwatch/internal/logging"
)

// Fetch retrieves one snapshot
type Fetch[T any] func(ctx context.Context) (T, error)

// Poller owns its timer and enabled flag
type Poller[T any] struct {
	name     string
	interval time.Duration
	timeout  time.Duration
	fetch    Fetch[T]
	apply    func(T)
	log      logrus.FieldLogger
	metrics  *Metrics

	mu          sync.Mutex
	running     bool
	stop        chan struct{}
	run         uint64
	seq         uint64
	lastApplied uint64

	// applyMu orders apply calls so a stale result can never land after a newer one
	applyMu sync.Mutex
}

// Option configures a Poller
type Option func(*options)

type options struct {
	log     logrus.FieldLogger
	metrics *Metrics
	timeout time.Duration
}

// WithLogger sets the logger used for swallowed failures
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) { o.log = log }
}

// WithMetrics records fetch outcomes on m
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithTimeout bounds each fetch. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// New creates a stopped poller
func New[T any](name string, interval time.Duration, fetch Fetch[T], apply func(T), opts ...Option) *Poller[T] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logging.Discard()
	}
	if o.metrics == nil {
		o.metrics = NewMetrics(nil)
	}

	return &Poller[T]{
		name:     name,
		interval: interval,
		timeout:  o.timeout,
		fetch:    fetch,
		apply:    apply,
		log:      o.log.WithField("poller", name),
		metrics:  o.metrics,
	}
}

// Start fetches immediately and then once per interval until Stop.
// Starting a running poller replaces its timer.
func (p *Poller[T]) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		close(p.stop)
	}
	p.run++
	p.running = true
	p.stop = make(chan struct{})

	go p.loop(p.run, p.stop)
}

// Stop cancels the pending timer. Requests already issued are left to finish
// and their results are discarded.
func (p *Poller[T]) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}
	close(p.stop)
	p.running = false
}

// Enabled reports whether the timer is live
func (p *Poller[T]) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// LastApplied returns the sequence number of the last applied result (0 if none)
func (p *Poller[T]) LastApplied() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastApplied
}

func (p *Poller[T]) loop(run uint64, stop <-chan struct{}) {
	p.tick(run)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			p.tick(run)
		}
	}
}

func (p *Poller[T]) tick(run uint64) {
	p.mu.Lock()
	if !p.running || p.run != run {
		p.mu.Unlock()
		return
	}
	p.seq++
	seq := p.seq
	p.mu.Unlock()

	p.metrics.Fetches.WithLabelValues(p.name).Inc()
	go p.cycle(run, seq)
}

func (p *Poller[T]) cycle(run, seq uint64) {
	ctx := context.Background()
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	result, err := p.fetch(ctx)
	if err != nil {
		p.metrics.Failures.WithLabelValues(p.name).Inc()
		p.log.WithField("seq", seq).WithError(err).Warn("poll failed")
		return
	}
	p.deliver(run, seq, result, true)
}

// Poll runs one numbered fetch now and waits for it. The result is applied
// only if no newer one was applied meanwhile and the poller was not restarted.
// Unlike timer fetches it does not need the timer to be running.
func (p *Poller[T]) Poll(ctx context.Context) error {
	p.mu.Lock()
	p.seq++
	seq, run := p.seq, p.run
	p.mu.Unlock()

	p.metrics.Fetches.WithLabelValues(p.name).Inc()
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	result, err := p.fetch(ctx)
	if err != nil {
		p.metrics.Failures.WithLabelValues(p.name).Inc()
		return err
	}
	p.deliver(run, seq, result, false)
	return nil
}

func (p *Poller[T]) deliver(run, seq uint64, result T, timer bool) {
	p.applyMu.Lock()
	defer p.applyMu.Unlock()

	p.mu.Lock()
	current := p.run == run && (p.running || !timer)
	fresh := seq > p.lastApplied
	if current && fresh {
		p.lastApplied = seq
	}
	p.mu.Unlock()

	if !current || !fresh {
		p.metrics.Discarded.WithLabelValues(p.name).Inc()
		p.log.WithFields(logrus.Fields{"seq": seq, "current": current}).Debug("discarding poll result")
		return
	}

	p.metrics.Applied.WithLabelValues(p.name).Inc()
	p.apply(result)
}
