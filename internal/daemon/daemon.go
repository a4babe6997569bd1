// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

// Package daemon assembles the stats backend: the WireGuard collector, the
// daily traffic recorder and the HTTP API.
package daemon

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/sharedco/vpnwatch/internal/config"
	"github.com/sharedco/vpnwatch/internal/poller"
	"github.com/sharedco/vpnwatch/internal/server/api"
	"github.com/sharedco/vpnwatch/internal/traffic"
	"github.com/sharedco/vpnwatch/internal/wireguard"
)

// Daemon owns every long-running part of the backend
type Daemon struct {
	cfg       *config.Config
	log       logrus.FieldLogger
	collector *wireguard.Collector
	store     traffic.Store
	closeDB   func()
	recorder  *Recorder
	sampler   *poller.Poller[[]traffic.Daily]
	server    *api.Server
	registry  *prometheus.Registry
}

// Option configures a Daemon
type Option func(*options)

type options struct {
	devices wireguard.DeviceReader
	links   api.LinkLister
	store   traffic.Store
}

// WithDevices reads devices from d instead of the kernel
func WithDevices(d wireguard.DeviceReader) Option {
	return func(o *options) { o.devices = d }
}

// WithLinks lists interfaces from l instead of netlink
func WithLinks(l api.LinkLister) Option {
	return func(o *options) { o.links = l }
}

// WithStore keeps traffic history in s instead of the configured database
func WithStore(s traffic.Store) Option {
	return func(o *options) { o.store = s }
}

// New connects every dependency. Nothing runs until Start.
func New(ctx context.Context, cfg *config.Config, log logrus.FieldLogger, opts ...Option) (*Daemon, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	d := &Daemon{
		cfg:      cfg,
		log:      log,
		registry: prometheus.NewRegistry(),
		closeDB:  func() {},
	}
	d.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	wgOpts := wireguard.Options{
		ConfigFiles:  cfg.WireGuard.ConfigFiles,
		OnlineWindow: cfg.WireGuard.OnlineWindow,
		Log:          log.WithField("component", "wireguard"),
	}
	if o.devices != nil {
		d.collector = wireguard.NewCollector(o.devices, wgOpts)
	} else {
		c, err := wireguard.Open(wgOpts)
		if err != nil {
			return nil, err
		}
		d.collector = c
	}

	var health api.HealthCheck
	switch {
	case o.store != nil:
		d.store = o.store
	case cfg.Database.URL != "":
		if err := traffic.RunMigrations(cfg.Database.URL); err != nil {
			d.collector.Close()
			return nil, err
		}
		log.Info("database migrations completed")

		pg, err := traffic.Connect(ctx, cfg.Database.URL)
		if err != nil {
			d.collector.Close()
			return nil, err
		}
		d.store = pg
		d.closeDB = pg.Close
		health = pg.Ping
	default:
		log.Warn("DATABASE_URL not set, daily traffic is kept in memory")
		d.store = traffic.NewMemoryStore()
	}

	d.recorder = NewRecorder(d.collector, d.store, cfg.Database.RetainDays, log.WithField("component", "traffic"))
	d.sampler = poller.New("traffic", cfg.WireGuard.SampleEvery, d.recorder.Sample, d.collector.SetDaily,
		poller.WithLogger(log),
		poller.WithMetrics(poller.NewMetrics(d.registry)),
		poller.WithTimeout(cfg.WireGuard.SampleEvery),
	)

	apiOpts := []api.Option{api.WithLogger(log), api.WithRegistry(d.registry)}
	if o.links != nil {
		apiOpts = append(apiOpts, api.WithLinks(o.links))
	}
	if health != nil {
		apiOpts = append(apiOpts, api.WithHealthCheck(health))
	}
	srv, err := api.NewServer(cfg, d.collector, apiOpts...)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("failed to create server: %w", err)
	}
	d.server = srv

	return d, nil
}

// Server returns the HTTP API
func (d *Daemon) Server() *api.Server {
	return d.server
}

// Start restores today's traffic and begins sampling
func (d *Daemon) Start(ctx context.Context) error {
	if err := d.recorder.Restore(ctx); err != nil {
		return fmt.Errorf("failed to restore daily traffic: %w", err)
	}

	if ifaces, err := d.collector.Interfaces(); err == nil {
		d.log.WithField("interfaces", ifaces).Info("watching WireGuard devices")
	} else {
		d.log.WithError(err).Warn("failed to list WireGuard devices")
	}

	d.sampler.Start()
	return nil
}

// Serve blocks serving the HTTP API until Shutdown
func (d *Daemon) Serve() error {
	d.log.Infof("Starting vpnwatchd on %s", d.cfg.Server.ListenAddr)
	return d.server.Start()
}

// Shutdown stops sampling, drains the HTTP server and releases resources
func (d *Daemon) Shutdown(ctx context.Context) error {
	d.sampler.Stop()
	err := d.server.Shutdown(ctx)
	d.Close()
	return err
}

// Close releases the device reader and database without touching the server
func (d *Daemon) Close() {
	d.closeDB()
	if err := d.collector.Close(); err != nil {
		d.log.WithError(err).Warn("failed to close WireGuard client")
	}
}
