// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package daemon

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"

	"github.com/sharedco/vpnwatch/internal/config"
	"github.com/sharedco/vpnwatch/internal/logging"
	"github.com/sharedco/vpnwatch/internal/stats"
	"github.com/sharedco/vpnwatch/internal/traffic"
	"github.com/sharedco/vpnwatch/internal/wireguard"
)

type fakeDevices struct {
	mu      sync.Mutex
	devices []*wgtypes.Device
}

func (f *fakeDevices) Devices() ([]*wgtypes.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.devices, nil
}

func (f *fakeDevices) Close() error { return nil }

func (f *fakeDevices) setCounters(rx, tx int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := &f.devices[0].Peers[0]
	p.ReceiveBytes = rx
	p.TransmitBytes = tx
}

type fakeLinks []string

func (f fakeLinks) LinkNames() ([]string, error) { return f, nil }

func newDevices(t *testing.T) (*fakeDevices, wgtypes.Key) {
	t.Helper()
	priv, err := wgtypes.GeneratePrivateKey()
	require.NoError(t, err)
	key := priv.PublicKey()
	return &fakeDevices{devices: []*wgtypes.Device{{
		Name: "vpn",
		Peers: []wgtypes.Peer{{
			PublicKey:         key,
			ReceiveBytes:      2048,
			TransmitBytes:     1024,
			LastHandshakeTime: time.Now(),
		}},
	}}}, key
}

func testConfig(t *testing.T, key wgtypes.Key) *config.Config {
	t.Helper()
	conf := filepath.Join(t.TempDir(), "vpn.conf")
	require.NoError(t, os.WriteFile(conf, []byte("# Client = alice\n[Peer]\nPublicKey = "+key.String()+"\n"), 0644))

	cfg := config.Defaults()
	cfg.WireGuard.ConfigFiles = []string{conf}
	cfg.WireGuard.SampleEvery = 20 * time.Millisecond
	return cfg
}

func TestDaemonServesDailyTraffic(t *testing.T) {
	devices, key := newDevices(t)
	cfg := testConfig(t, key)
	store := traffic.NewMemoryStore()

	d, err := New(context.Background(), cfg, logging.Discard(),
		WithDevices(devices), WithLinks(fakeLinks{"eth0"}), WithStore(store))
	require.NoError(t, err)
	require.NoError(t, d.Start(context.Background()))
	defer d.Shutdown(context.Background())

	router := d.Server().Router()
	require.Eventually(t, func() bool {
		req := httptest.NewRequest(http.MethodGet, "/api/wg/stats", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var got []stats.InterfaceStats
		if json.NewDecoder(w.Body).Decode(&got) != nil || len(got) != 1 || len(got[0].Peers) != 1 {
			return false
		}
		p := got[0].Peers[0]
		return p.Client == "alice" && p.DailyReceived != nil && *p.DailyReceived == "2.00 KB"
	}, 2*time.Second, 10*time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), `vpnwatch_poll_fetches_total{poller="traffic"}`)

	req = httptest.NewRequest(http.MethodGet, "/api/interfaces", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.JSONEq(t, `{"interfaces":["eth0"]}`, w.Body.String())
}

func TestDaemonRestoresToday(t *testing.T) {
	devices, key := newDevices(t)
	cfg := testConfig(t, key)
	cfg.WireGuard.SampleEvery = time.Hour

	store := traffic.NewMemoryStore()
	require.NoError(t, store.SaveDaily(context.Background(), []traffic.Daily{{
		Key:      traffic.Key{Peer: key.String(), Interface: "vpn"},
		Day:      traffic.Day(time.Now()),
		Client:   "alice",
		Received: 5 * 1024 * 1024,
		Sent:     1024,
	}}))

	d, err := New(context.Background(), cfg, logging.Discard(), WithDevices(devices), WithStore(store))
	require.NoError(t, err)
	require.NoError(t, d.recorder.Restore(context.Background()))
	defer d.Close()

	got, err := d.collector.WGStats(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got[0].Peers[0].DailyReceived)
	assert.Equal(t, "5.00 MB", *got[0].Peers[0].DailyReceived)
}

func TestRecorderDayRollover(t *testing.T) {
	devices, key := newDevices(t)
	collector := wireguard.NewCollector(devices, wireguard.Options{})
	store := traffic.NewMemoryStore()
	rec := NewRecorder(collector, store, 7, logging.Discard())

	now := time.Date(2026, 2, 20, 23, 50, 0, 0, time.UTC)
	rec.now = func() time.Time { return now }
	require.NoError(t, rec.Restore(context.Background()))

	rows, err := rec.Sample(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(2048), rows[0].Received)

	devices.setCounters(3000, 1500)
	now = now.Add(20 * time.Minute)
	rows, err = rec.Sample(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2026-02-21", rows[0].Day)
	assert.Equal(t, int64(0), rows[0].Received)
	assert.Equal(t, int64(0), rows[0].Sent)

	devices.setCounters(4000, 1600)
	rows, err = rec.Sample(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1000), rows[0].Received)
	assert.Equal(t, int64(100), rows[0].Sent)

	baselines, err := store.Baselines(context.Background())
	require.NoError(t, err)
	b := baselines[traffic.Key{Peer: key.String(), Interface: "vpn"}]
	assert.Equal(t, "2026-02-21", b.Day)
	assert.Equal(t, int64(3000), b.Received)
}

func TestRecorderPrunesOnNewDay(t *testing.T) {
	devices, _ := newDevices(t)
	collector := wireguard.NewCollector(devices, wireguard.Options{})
	store := traffic.NewMemoryStore()
	old := traffic.Daily{Key: traffic.Key{Peer: "old", Interface: "vpn"}, Day: "2026-02-01"}
	require.NoError(t, store.SaveDaily(context.Background(), []traffic.Daily{old}))

	rec := NewRecorder(collector, store, 7, logging.Discard())
	rec.now = func() time.Time { return time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC) }
	require.NoError(t, rec.Restore(context.Background()))

	rows, err := store.Daily(context.Background(), "2026-02-01")
	require.NoError(t, err)
	assert.Empty(t, rows)
}
