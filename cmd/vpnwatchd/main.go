// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sharedco/vpnwatch/internal/config"
	"github.com/sharedco/vpnwatch/internal/daemon"
	"github.com/sharedco/vpnwatch/internal/logging"
	"github.com/sharedco/vpnwatch/internal/traffic"
	"github.com/sharedco/vpnwatch/internal/version"
)

// rootCmd is the base command for the backend
var rootCmd = &cobra.Command{
	Use:   "vpnwatchd",
	Short: "vpnwatchd - WireGuard stats backend for the vpnwatch dashboard",
	Long: `vpnwatchd reads peer statistics from the kernel WireGuard interfaces,
keeps per-day traffic counters and serves both over a JSON API.`,
	Version:      version.Info("vpnwatchd"),
	SilenceUsage: true,
}

// serveCmd runs the API server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the stats API server",
	RunE:  runServer,
}

// migrateCmd applies the traffic schema
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is not set")
		}
		if err := traffic.RunMigrations(cfg.Database.URL); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Database migrations completed successfully")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/vpnwatch/config.yaml)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Fatal error:", err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := logging.Default(cfg.Log.Level, cfg.Log.Debug)
	log.WithFields(logrus.Fields{
		"version": version.Short(),
		"listen":  cfg.Server.ListenAddr,
	}).Info("vpnwatchd starting")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	d, err := daemon.New(ctx, cfg, log)
	cancel()
	if err != nil {
		return err
	}

	if err := d.Start(context.Background()); err != nil {
		d.Close()
		return err
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- d.Serve()
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		d.Close()
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Infof("Received signal %v, starting graceful shutdown", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := d.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
