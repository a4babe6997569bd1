// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

// Package traffic keeps per-peer daily traffic.
//
// Peer counters reported by WireGuard are cumulative since the interface
// came up. Each peer/interface pair has a baseline: the counters at the
// start of the day. Today's usage is current minus baseline, or the whole
// current value when a counter went backwards because the interface was
// reset.
package traffic

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sharedco/vpnwatch/internal/logging"
)

// DateLayout is the format of Day values
const DateLayout = "2006-01-02"

// DefaultRetainDays is how long daily rows are kept
const DefaultRetainDays = 7

// Key identifies a peer on one interface
type Key struct {
	Peer      string
	Interface string
}

// Sample is a cumulative counter reading of one peer
type Sample struct {
	Key
	Client   string
	Received int64
	Sent     int64
}

// Baseline is the counter reading a day is measured from
type Baseline struct {
	Key
	Received int64
	Sent     int64
	Day      string
}

// Daily is the traffic of one peer on one day
type Daily struct {
	Key
	Day      string
	Client   string
	Received int64
	Sent     int64
}

// Store persists totals, baselines and daily rows
type Store interface {
	Baselines(ctx context.Context) (map[Key]Baseline, error)
	SaveBaselines(ctx context.Context, baselines []Baseline) error
	// ReplaceTotals stores the latest readings and forgets peers not in samples
	ReplaceTotals(ctx context.Context, samples []Sample) error
	SaveDaily(ctx context.Context, rows []Daily) error
	Daily(ctx context.Context, day string) ([]Daily, error)
	// PruneDaily removes daily rows before day and reports how many went
	PruneDaily(ctx context.Context, before string) (int64, error)
}

// Day formats t as a Day value in t's location
func Day(t time.Time) string {
	return t.Format(DateLayout)
}

// Usage computes today's traffic from a reading and its baseline
func Usage(s Sample, b Baseline) (received, sent int64, reset bool) {
	if s.Received >= b.Received && s.Sent >= b.Sent {
		return s.Received - b.Received, s.Sent - b.Sent, false
	}
	return s.Received, s.Sent, true
}

// Accountant turns counter readings into daily rows
type Accountant struct {
	store Store
	log   logrus.FieldLogger
}

// NewAccountant creates an accountant over store
func NewAccountant(store Store, log logrus.FieldLogger) *Accountant {
	if log == nil {
		log = logging.Discard()
	}
	return &Accountant{store: store, log: log}
}

// Record stores the readings and updates today's rows. Pairs seen for the
// first time get a zero baseline, so everything they transferred so far
// counts for today. Baselines left over from an earlier day are moved to
// the current reading.
func (a *Accountant) Record(ctx context.Context, now time.Time, samples []Sample) ([]Daily, error) {
	if err := a.store.ReplaceTotals(ctx, samples); err != nil {
		return nil, fmt.Errorf("save totals: %w", err)
	}

	baselines, err := a.store.Baselines(ctx)
	if err != nil {
		return nil, fmt.Errorf("load baselines: %w", err)
	}

	day := Day(now)
	var changed []Baseline
	rows := make([]Daily, 0, len(samples))
	for _, s := range samples {
		b, ok := baselines[s.Key]
		switch {
		case !ok:
			b = Baseline{Key: s.Key, Day: day}
			changed = append(changed, b)
		case b.Day != day:
			b = Baseline{Key: s.Key, Received: s.Received, Sent: s.Sent, Day: day}
			changed = append(changed, b)
		}

		rx, tx, reset := Usage(s, b)
		if reset {
			a.log.WithFields(logrus.Fields{"peer": s.Peer, "interface": s.Interface}).Info("counter reset detected")
		}
		rows = append(rows, Daily{Key: s.Key, Day: day, Client: s.Client, Received: rx, Sent: tx})
	}

	if len(changed) > 0 {
		a.log.Debugf("saving %d new baselines for %s", len(changed), day)
		if err := a.store.SaveBaselines(ctx, changed); err != nil {
			return nil, fmt.Errorf("save baselines: %w", err)
		}
	}
	if err := a.store.SaveDaily(ctx, rows); err != nil {
		return nil, fmt.Errorf("save daily: %w", err)
	}
	return rows, nil
}

// Rollover fixes the current readings as the baseline of now's day
func (a *Accountant) Rollover(ctx context.Context, now time.Time, samples []Sample) error {
	day := Day(now)
	baselines := make([]Baseline, len(samples))
	for i, s := range samples {
		baselines[i] = Baseline{Key: s.Key, Received: s.Received, Sent: s.Sent, Day: day}
	}
	a.log.Infof("fixing %d baselines for %s", len(baselines), day)
	if err := a.store.SaveBaselines(ctx, baselines); err != nil {
		return fmt.Errorf("save baselines: %w", err)
	}
	return nil
}

// Prune removes daily rows older than days before now
func (a *Accountant) Prune(ctx context.Context, now time.Time, days int) (int64, error) {
	if days <= 0 {
		days = DefaultRetainDays
	}
	cutoff := Day(now.AddDate(0, 0, -days))
	n, err := a.store.PruneDaily(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune daily: %w", err)
	}
	if n > 0 {
		a.log.Infof("removed %d daily rows before %s", n, cutoff)
	}
	return n, nil
}

// Today returns today's rows keyed by peer and interface
func (a *Accountant) Today(ctx context.Context, now time.Time) (map[Key]Daily, error) {
	rows, err := a.store.Daily(ctx, Day(now))
	if err != nil {
		return nil, err
	}
	out := make(map[Key]Daily, len(rows))
	for _, r := range rows {
		out[r.Key] = r
	}
	return out, nil
}
