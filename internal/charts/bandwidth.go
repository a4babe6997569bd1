// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package charts

import (
	"context"
	"sync"

	"github.com/sharedco/vpnwatch/internal/client"
	"github.com/sharedco/vpnwatch/internal/history"
	"github.com/sharedco/vpnwatch/internal/prefs"
)

// BandwidthSource fetches interfaces and their throughput series
type BandwidthSource interface {
	Interfaces(ctx context.Context) ([]string, error)
	Bandwidth(ctx context.Context, iface, period string) (*client.BandwidthSeries, error)
}

// DefaultInterfaces are preferred, in order, when choosing the initial interface
var DefaultInterfaces = []string{"eth0", "enp3s0", "ens33", "wlan0"}

var displayNames = map[string]string{
	"antizapret-udp": "OpenVPN | Antizapret UDP",
	"antizapret-tcp": "OpenVPN | Antizapret TCP",
	"vpn-udp":        "OpenVPN | VPN-UDP",
	"vpn-tcp":        "OpenVPN | VPN-TCP",
	"vpn":            "WireGuard | VPN",
	"antizapret":     "WireGuard | Antizapret",
}

// DisplayName returns the human name of a VPN interface, or iface itself
func DisplayName(iface string) string {
	if name, ok := displayNames[iface]; ok {
		return name
	}
	return iface
}

// BandwidthView is a snapshot of the bandwidth chart
type BandwidthView struct {
	Visible     bool
	Interface   string
	DisplayName string
	Period      string
	XTitle      string
	YTitle      string
	Labels      []string
	RX          Dataset
	TX          Dataset
	Text        string
	Grid        string
}

// BandwidthChart is the per-interface RX/TX chart
type BandwidthChart struct {
	src     BandwidthSource
	prefs   *prefs.Store
	palette BandwidthPalette
	opts    Options

	mu         sync.Mutex
	visible    bool
	interfaces []string
	iface      string
	period     string
	view       BandwidthView
}

// NewBandwidthChart creates a chart on the day period with no interface selected
func NewBandwidthChart(src BandwidthSource, store *prefs.Store, opts Options) *BandwidthChart {
	opts.defaults()
	if store == nil {
		store = prefs.Memory()
	}
	return &BandwidthChart{
		src:     src,
		prefs:   store,
		palette: BandwidthColors(opts.Theme),
		opts:    opts,
		period:  PeriodDay,
	}
}

// Visible reports whether the chart was left visible
func (c *BandwidthChart) Visible() bool {
	return c.prefs.Bool(prefs.ChartVisible, false)
}

// Show makes the chart visible and loads it
func (c *BandwidthChart) Show(ctx context.Context) error {
	c.mu.Lock()
	c.visible = true
	c.mu.Unlock()

	if err := c.prefs.SetBool(prefs.ChartVisible, true); err != nil {
		return err
	}
	return c.Update(ctx)
}

// Hide destroys the chart
func (c *BandwidthChart) Hide() error {
	c.mu.Lock()
	c.visible = false
	c.view = BandwidthView{}
	c.mu.Unlock()

	return c.prefs.SetBool(prefs.ChartVisible, false)
}

// LoadInterfaces fetches the interface list and selects the default one:
// the first of DefaultInterfaces present, else the first listed.
func (c *BandwidthChart) LoadInterfaces(ctx context.Context) ([]string, error) {
	ifaces, err := c.src.Interfaces(ctx)
	if err != nil {
		c.opts.Log.WithError(err).Warn("failed to load interfaces")
		return nil, err
	}

	c.mu.Lock()
	c.interfaces = append([]string(nil), ifaces...)
	c.mu.Unlock()

	selected := pickDefault(ifaces)
	if selected == "" {
		return ifaces, nil
	}
	return ifaces, c.Select(ctx, selected)
}

func pickDefault(ifaces []string) string {
	present := make(map[string]bool, len(ifaces))
	for _, name := range ifaces {
		present[name] = true
	}
	for _, name := range DefaultInterfaces {
		if present[name] {
			return name
		}
	}
	if len(ifaces) > 0 {
		return ifaces[0]
	}
	return ""
}

// Interfaces returns the last loaded interface list
func (c *BandwidthChart) Interfaces() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.interfaces...)
}

// Selected returns the selected interface
func (c *BandwidthChart) Selected() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.iface
}

// Select switches the chart to iface and reloads it
func (c *BandwidthChart) Select(ctx context.Context, iface string) error {
	c.mu.Lock()
	c.iface = iface
	c.mu.Unlock()
	return c.Update(ctx)
}

// SetPeriod switches the period and reloads the chart
func (c *BandwidthChart) SetPeriod(ctx context.Context, period string) error {
	c.mu.Lock()
	c.period = period
	c.mu.Unlock()
	return c.Update(ctx)
}

// Update fetches the series of the selected interface. Without a selection
// it does nothing.
func (c *BandwidthChart) Update(ctx context.Context) error {
	c.mu.Lock()
	iface, period := c.iface, c.period
	c.mu.Unlock()

	if iface == "" {
		return nil
	}

	series, err := c.src.Bandwidth(ctx, iface, period)
	if err != nil {
		c.opts.Log.WithError(err).WithField("iface", iface).Warn("failed to update bandwidth chart")
		return err
	}
	if series == nil {
		return nil
	}

	raw := series.UTCLabels
	if len(raw) == 0 {
		raw = series.Labels
	}
	labels := make([]string, len(raw))
	for i, lab := range raw {
		t, ok := history.ParseUTC(lab)
		if !ok {
			c.opts.Log.WithField("label", lab).Warn("invalid UTC label")
			labels[i] = lab
			continue
		}
		labels[i] = bandwidthLabel(t, period, c.opts.Location)
	}

	xTitle := "Date"
	if period == PeriodHour || period == PeriodDay {
		xTitle = "Time"
	}

	c.mu.Lock()
	c.view = BandwidthView{
		Visible:     c.visible,
		Interface:   iface,
		DisplayName: DisplayName(iface),
		Period:      period,
		XTitle:      xTitle,
		YTitle:      "Mbit/s",
		Labels:      labels,
		RX:          Dataset{Label: "Received", Data: append([]float64(nil), series.RxMbps...), Border: c.palette.RxBorder, Fill: c.palette.RxFill},
		TX:          Dataset{Label: "Sent", Data: append([]float64(nil), series.TxMbps...), Border: c.palette.TxBorder, Fill: c.palette.TxFill},
		Text:        c.palette.Text,
		Grid:        c.palette.Grid,
	}
	c.mu.Unlock()

	if c.opts.OnUpdate != nil {
		c.opts.OnUpdate()
	}
	return nil
}

// View returns a snapshot of the chart
func (c *BandwidthChart) View() BandwidthView {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := c.view
	v.Labels = append([]string(nil), c.view.Labels...)
	v.RX.Data = append([]float64(nil), c.view.RX.Data...)
	v.TX.Data = append([]float64(nil), c.view.TX.Data...)
	return v
}
