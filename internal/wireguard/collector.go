// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

// Package wireguard reads peer statistics from WireGuard devices.
package wireguard

import (
	"context"
	"fmt"
	"net"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.zx2c4.com/wireguard/wgctrl"
	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"

	"github.com/sharedco/vpnwatch/internal/logging"
	"github.com/sharedco/vpnwatch/internal/stats"
	"github.com/sharedco/vpnwatch/internal/traffic"
)

// DefaultOnlineWindow is how recent a handshake must be for a peer to be online
const DefaultOnlineWindow = 3 * time.Minute

// DeviceReader lists WireGuard devices. *wgctrl.Client implements it.
type DeviceReader interface {
	Devices() ([]*wgtypes.Device, error)
	Close() error
}

// Options configures a Collector
type Options struct {
	ConfigFiles  []string
	OnlineWindow time.Duration
	Log          logrus.FieldLogger
	Now          func() time.Time
}

// Collector builds dashboard stats from the running devices
type Collector struct {
	devices DeviceReader
	opts    Options

	mu    sync.Mutex
	daily map[traffic.Key]traffic.Daily
}

// Open connects to the kernel WireGuard interface through wgctrl
func Open(opts Options) (*Collector, error) {
	client, err := wgctrl.New()
	if err != nil {
		return nil, fmt.Errorf("create wgctrl client: %w", err)
	}
	return NewCollector(client, opts), nil
}

// NewCollector creates a collector over devices
func NewCollector(devices DeviceReader, opts Options) *Collector {
	if opts.OnlineWindow <= 0 {
		opts.OnlineWindow = DefaultOnlineWindow
	}
	if opts.Log == nil {
		opts.Log = logging.Discard()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Collector{devices: devices, opts: opts}
}

// Close closes the device reader
func (c *Collector) Close() error {
	return c.devices.Close()
}

// SetDaily replaces the daily counters shown next to each peer
func (c *Collector) SetDaily(rows []traffic.Daily) {
	daily := make(map[traffic.Key]traffic.Daily, len(rows))
	for _, r := range rows {
		daily[r.Key] = r
	}
	c.mu.Lock()
	c.daily = daily
	c.mu.Unlock()
}

func (c *Collector) read() ([]*wgtypes.Device, map[string]string, error) {
	devices, err := c.devices.Devices()
	if err != nil {
		return nil, nil, fmt.Errorf("list devices: %w", err)
	}
	sort.Slice(devices, func(i, j int) bool { return devices[i].Name < devices[j].Name })

	names, err := ReadClientNames(c.opts.ConfigFiles...)
	if err != nil {
		c.opts.Log.WithError(err).Warn("failed to read client names")
		names = map[string]string{}
	}
	return devices, names, nil
}

// WGStats returns per-interface peer statistics
func (c *Collector) WGStats(ctx context.Context) ([]stats.InterfaceStats, error) {
	devices, names, err := c.read()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	daily := c.daily
	c.mu.Unlock()

	return BuildStats(devices, names, daily, c.opts.Now(), c.opts.OnlineWindow), nil
}

// Samples returns the cumulative counters of every peer
func (c *Collector) Samples(ctx context.Context) ([]traffic.Sample, error) {
	devices, names, err := c.read()
	if err != nil {
		return nil, err
	}

	var out []traffic.Sample
	for _, d := range devices {
		for _, p := range d.Peers {
			key := p.PublicKey.String()
			out = append(out, traffic.Sample{
				Key:      traffic.Key{Peer: key, Interface: d.Name},
				Client:   clientName(names, key),
				Received: p.ReceiveBytes,
				Sent:     p.TransmitBytes,
			})
		}
	}
	return out, nil
}

// Interfaces returns the WireGuard device names
func (c *Collector) Interfaces() ([]string, error) {
	devices, err := c.devices.Devices()
	if err != nil {
		return nil, err
	}
	out := make([]string, len(devices))
	for i, d := range devices {
		out[i] = d.Name
	}
	sort.Strings(out)
	return out, nil
}

func clientName(names map[string]string, key string) string {
	if name, ok := names[key]; ok {
		return name
	}
	return UnknownClient
}

// BuildStats maps devices to dashboard stats. Peer order follows the device.
func BuildStats(devices []*wgtypes.Device, names map[string]string, daily map[traffic.Key]traffic.Daily, now time.Time, window time.Duration) []stats.InterfaceStats {
	out := make([]stats.InterfaceStats, 0, len(devices))
	for _, d := range devices {
		var totalRx, totalTx int64
		for _, p := range d.Peers {
			totalRx += p.ReceiveBytes
			totalTx += p.TransmitBytes
		}

		iface := stats.InterfaceStats{Interface: d.Name, Peers: make([]stats.PeerStats, 0, len(d.Peers))}
		for _, p := range d.Peers {
			key := p.PublicKey.String()
			ps := stats.PeerStats{
				Client:             clientName(names, key),
				MaskedPeer:         stats.MaskKey(key),
				Online:             Online(p.LastHandshakeTime, now, window),
				Received:           stats.String(stats.FormatBytes(p.ReceiveBytes)),
				Sent:               stats.String(stats.FormatBytes(p.TransmitBytes)),
				ReceivedPercentage: share(p.ReceiveBytes, totalRx),
				SentPercentage:     share(p.TransmitBytes, totalTx),
			}
			if p.Endpoint != nil {
				ps.Endpoint = stats.String(p.Endpoint.String())
			}
			if !p.LastHandshakeTime.IsZero() {
				ps.LatestHandshake = stats.String(Since(now.Sub(p.LastHandshakeTime)))
			}
			ps.VisibleIPs, ps.HiddenIPs = splitIPs(p.AllowedIPs)

			if row, ok := daily[traffic.Key{Peer: key, Interface: d.Name}]; ok {
				ps.DailyReceived = stats.String(stats.FormatBytes(row.Received))
				ps.DailySent = stats.String(stats.FormatBytes(row.Sent))
			}
			iface.Peers = append(iface.Peers, ps)
		}
		out = append(out, iface)
	}
	return out
}

// Online reports whether a handshake at last is within window of now
func Online(last, now time.Time, window time.Duration) bool {
	if last.IsZero() {
		return false
	}
	return now.Sub(last) <= window
}

func share(part, total int64) *float64 {
	if total <= 0 {
		return nil
	}
	return stats.Float(float64(part) / float64(total) * 100)
}

func splitIPs(ips []net.IPNet) (visible, hidden []string) {
	for i, ip := range ips {
		if i == 0 {
			visible = append(visible, ip.String())
			continue
		}
		hidden = append(hidden, ip.String())
	}
	return visible, hidden
}

// Since renders a handshake age the way `wg show` does
func Since(d time.Duration) string {
	if d < time.Second {
		return "Now"
	}

	d = d.Truncate(time.Second)
	units := []struct {
		name string
		size time.Duration
	}{
		{"day", 24 * time.Hour},
		{"hour", time.Hour},
		{"minute", time.Minute},
		{"second", time.Second},
	}

	var parts []string
	for _, u := range units {
		n := d / u.size
		if n == 0 {
			continue
		}
		d -= n * u.size
		if n == 1 {
			parts = append(parts, fmt.Sprintf("1 %s", u.name))
		} else {
			parts = append(parts, fmt.Sprintf("%d %ss", n, u.name))
		}
	}
	return strings.Join(parts, ", ") + " ago"
}
