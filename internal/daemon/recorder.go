// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package daemon

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sharedco/vpnwatch/internal/traffic"
	"github.com/sharedco/vpnwatch/internal/wireguard"
)

// Recorder samples peer counters into the traffic store. The daily rows it
// returns are what the collector shows next to each peer.
type Recorder struct {
	collector  *wireguard.Collector
	acct       *traffic.Accountant
	retainDays int
	log        logrus.FieldLogger
	now        func() time.Time

	mu  sync.Mutex
	day string
}

// NewRecorder creates a recorder keeping retainDays of daily rows
func NewRecorder(collector *wireguard.Collector, store traffic.Store, retainDays int, log logrus.FieldLogger) *Recorder {
	return &Recorder{
		collector:  collector,
		acct:       traffic.NewAccountant(store, log),
		retainDays: retainDays,
		log:        log,
		now:        time.Now,
	}
}

// Restore loads today's rows into the collector and drops expired ones
func (r *Recorder) Restore(ctx context.Context) error {
	now := r.now()

	r.mu.Lock()
	r.day = traffic.Day(now)
	r.mu.Unlock()

	if _, err := r.acct.Prune(ctx, now, r.retainDays); err != nil {
		r.log.WithError(err).Warn("failed to prune daily traffic")
	}

	today, err := r.acct.Today(ctx, now)
	if err != nil {
		return err
	}
	rows := make([]traffic.Daily, 0, len(today))
	for _, row := range today {
		rows = append(rows, row)
	}
	r.collector.SetDaily(rows)
	return nil
}

// Sample reads the counters and records them. On the first sample of a new
// day the current readings become that day's baselines.
func (r *Recorder) Sample(ctx context.Context) ([]traffic.Daily, error) {
	now := r.now()
	samples, err := r.collector.Samples(ctx)
	if err != nil {
		return nil, err
	}

	day := traffic.Day(now)
	r.mu.Lock()
	prev := r.day
	r.day = day
	r.mu.Unlock()

	if prev != "" && prev != day {
		if err := r.acct.Rollover(ctx, now, samples); err != nil {
			return nil, err
		}
		if _, err := r.acct.Prune(ctx, now, r.retainDays); err != nil {
			r.log.WithError(err).Warn("failed to prune daily traffic")
		}
	}

	return r.acct.Record(ctx, now, samples)
}
