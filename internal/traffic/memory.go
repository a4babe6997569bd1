// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package traffic

import (
	"context"
	"sort"
	"sync"
)

type dailyKey struct {
	Key
	Day string
}

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps everything in process memory
type MemoryStore struct {
	mu        sync.Mutex
	totals    map[Key]Sample
	baselines map[Key]Baseline
	daily     map[dailyKey]Daily
}

// NewMemoryStore returns an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		totals:    make(map[Key]Sample),
		baselines: make(map[Key]Baseline),
		daily:     make(map[dailyKey]Daily),
	}
}

func (m *MemoryStore) Baselines(ctx context.Context) (map[Key]Baseline, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[Key]Baseline, len(m.baselines))
	for k, b := range m.baselines {
		out[k] = b
	}
	return out, nil
}

func (m *MemoryStore) SaveBaselines(ctx context.Context, baselines []Baseline) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, b := range baselines {
		m.baselines[b.Key] = b
	}
	return nil
}

func (m *MemoryStore) ReplaceTotals(ctx context.Context, samples []Sample) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totals = make(map[Key]Sample, len(samples))
	for _, s := range samples {
		m.totals[s.Key] = s
	}
	return nil
}

// Totals returns the latest readings
func (m *MemoryStore) Totals() map[Key]Sample {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[Key]Sample, len(m.totals))
	for k, s := range m.totals {
		out[k] = s
	}
	return out
}

func (m *MemoryStore) SaveDaily(ctx context.Context, rows []Daily) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range rows {
		m.daily[dailyKey{Key: r.Key, Day: r.Day}] = r
	}
	return nil
}

func (m *MemoryStore) Daily(ctx context.Context, day string) ([]Daily, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Daily
	for k, r := range m.daily {
		if k.Day == day {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Interface != out[j].Interface {
			return out[i].Interface < out[j].Interface
		}
		return out[i].Peer < out[j].Peer
	})
	return out, nil
}

func (m *MemoryStore) PruneDaily(ctx context.Context, before string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for k := range m.daily {
		if k.Day < before {
			delete(m.daily, k)
			n++
		}
	}
	return n, nil
}
