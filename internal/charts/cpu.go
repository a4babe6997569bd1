// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package charts

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sharedco/vpnwatch/internal/client"
	"github.com/sharedco/vpnwatch/internal/history"
	"github.com/sharedco/vpnwatch/internal/logging"
	"github.com/sharedco/vpnwatch/internal/poller"
	"github.com/sharedco/vpnwatch/internal/prefs"
)

// LiveInterval is the refresh period of the live CPU chart
const LiveInterval = 5 * time.Second

// CPUSource fetches CPU and RAM series
type CPUSource interface {
	CPU(ctx context.Context, period string) (*client.CPUSeries, error)
}

// Dataset is one line of a chart
type Dataset struct {
	Label  string
	Data   []float64
	Border string
	Fill   string
}

// Latest returns the last point, or 0 for an empty dataset
func (d Dataset) Latest() float64 {
	if len(d.Data) == 0 {
		return 0
	}
	return d.Data[len(d.Data)-1]
}

// CPUView is a snapshot of the CPU chart
type CPUView struct {
	Visible bool
	Period  string
	Labels  []string
	CPU     Dataset
	RAM     Dataset
	Text    string
	Grid    string
}

// Options configures a chart
type Options struct {
	Theme    Theme
	Location *time.Location
	Interval time.Duration
	OnUpdate func()
	Log      logrus.FieldLogger
	Metrics  *poller.Metrics
}

func (o *Options) defaults() {
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.Interval <= 0 {
		o.Interval = LiveInterval
	}
	if o.Log == nil {
		o.Log = logging.Discard()
	}
}

// CPUChart is the CPU and RAM usage chart
type CPUChart struct {
	src     CPUSource
	prefs   *prefs.Store
	palette CPUPalette
	opts    Options
	live    *poller.Poller[*client.CPUSeries]

	mu      sync.Mutex
	visible bool
	period  string
	view    CPUView
}

// NewCPUChart creates a hidden chart. Visible reports the persisted state.
func NewCPUChart(src CPUSource, store *prefs.Store, opts Options) *CPUChart {
	opts.defaults()
	if store == nil {
		store = prefs.Memory()
	}

	c := &CPUChart{
		src:     src,
		prefs:   store,
		palette: CPUColors(opts.Theme),
		opts:    opts,
		period:  PeriodLive,
	}

	fetch := func(ctx context.Context) (*client.CPUSeries, error) {
		return src.CPU(ctx, PeriodLive)
	}
	pollOpts := []poller.Option{poller.WithLogger(opts.Log)}
	if opts.Metrics != nil {
		pollOpts = append(pollOpts, poller.WithMetrics(opts.Metrics))
	}
	c.live = poller.New("cpu_live", opts.Interval, fetch, func(s *client.CPUSeries) { c.apply(PeriodLive, s) }, pollOpts...)
	return c
}

// Visible reports whether the chart was left visible
func (c *CPUChart) Visible() bool {
	return c.prefs.Bool(prefs.CPUChartVisible, false)
}

// Show creates the chart and loads the current period. The live period keeps
// refreshing until the chart is hidden or another period is chosen.
func (c *CPUChart) Show(ctx context.Context) error {
	c.mu.Lock()
	c.visible = true
	c.view = c.emptyView()
	period := c.period
	c.mu.Unlock()

	err := c.prefs.SetBool(prefs.CPUChartVisible, true)
	if uerr := c.SetPeriod(ctx, period); uerr != nil {
		err = errors.Join(err, uerr)
	}
	return err
}

// Hide stops live updates and destroys the chart
func (c *CPUChart) Hide() error {
	c.live.Stop()

	c.mu.Lock()
	c.visible = false
	c.view = CPUView{}
	c.mu.Unlock()

	return c.prefs.SetBool(prefs.CPUChartVisible, false)
}

// SetPeriod switches the chart period and loads it
func (c *CPUChart) SetPeriod(ctx context.Context, period string) error {
	c.mu.Lock()
	c.period = period
	visible := c.visible
	c.mu.Unlock()

	if period == PeriodLive && visible {
		c.live.Start()
		return nil
	}
	c.live.Stop()
	if !visible {
		return nil
	}
	return c.Update(ctx, period)
}

// Update fetches one series for period and replaces the datasets. A response
// carrying an error is logged and leaves the chart as it was.
func (c *CPUChart) Update(ctx context.Context, period string) error {
	series, err := c.src.CPU(ctx, period)
	if err != nil {
		c.opts.Log.WithError(err).WithField("period", period).Warn("failed to load CPU data")
		return err
	}
	c.apply(period, series)
	return nil
}

// Live reports whether live updates are running
func (c *CPUChart) Live() bool {
	return c.live.Enabled()
}

// View returns a snapshot of the chart
func (c *CPUChart) View() CPUView {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := c.view
	v.Labels = append([]string(nil), c.view.Labels...)
	v.CPU.Data = append([]float64(nil), c.view.CPU.Data...)
	v.RAM.Data = append([]float64(nil), c.view.RAM.Data...)
	return v
}

func (c *CPUChart) emptyView() CPUView {
	return CPUView{
		Visible: true,
		Period:  c.period,
		CPU:     Dataset{Label: "CPU %", Border: c.palette.CPUBorder, Fill: c.palette.CPUFill},
		RAM:     Dataset{Label: "RAM %", Border: c.palette.RAMBorder, Fill: c.palette.RAMFill},
		Text:    c.palette.Text,
		Grid:    c.palette.Grid,
	}
}

func (c *CPUChart) apply(period string, series *client.CPUSeries) {
	if series == nil {
		return
	}
	if series.Error != "" {
		c.opts.Log.WithField("period", period).Error(series.Error)
		return
	}

	labels := make([]string, len(series.UTCLabels))
	for i, ts := range series.UTCLabels {
		t, ok := history.ParseUTC(ts)
		if !ok {
			labels[i] = ts
			continue
		}
		labels[i] = cpuLabel(t, period, c.opts.Location)
	}

	c.mu.Lock()
	v := c.emptyView()
	v.Visible = c.visible
	v.Period = period
	v.Labels = labels
	v.CPU.Data = append([]float64(nil), series.CPUPercent...)
	v.RAM.Data = append([]float64(nil), series.RAMPercent...)
	if v.CPU.Latest() > CPUAlertThreshold {
		v.CPU.Border = CPUAlertBorder
		v.CPU.Fill = CPUAlertFill
	}
	c.view = v
	c.mu.Unlock()

	if c.opts.OnUpdate != nil {
		c.opts.OnUpdate()
	}
}
