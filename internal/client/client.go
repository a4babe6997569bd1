// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

// Package client talks to the dashboard backend's JSON API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sharedco/vpnwatch/internal/stats"
	"github.com/sharedco/vpnwatch/internal/version"
)

// SkipSessionRefreshHeader asks the backend not to extend the session for
// background polling requests.
const SkipSessionRefreshHeader = "X-Skip-Session-Refresh"

// SessionCookie is the cookie carrying the dashboard session
const SessionCookie = "session"

// Client is the dashboard API client. It never retries; callers decide what a
// failure means.
type Client struct {
	baseURL    string
	basePath   string
	session    string
	userAgent  string
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithBasePath prefixes every API path, e.g. "/status"
func WithBasePath(p string) Option {
	return func(c *Client) { c.basePath = strings.TrimRight(p, "/") }
}

// WithSession sends the given session cookie value
func WithSession(s string) Option {
	return func(c *Client) { c.session = s }
}

// WithTimeout sets the HTTP client timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// New creates a client for the backend at baseURL.
// A host without scheme gets http:// prepended.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(EnsureScheme(baseURL), "/"),
		userAgent:  version.UserAgent(),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// EnsureScheme ensures the host has an http:// or https:// prefix
func EnsureScheme(host string) string {
	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		return host
	}
	return "http://" + host
}

// BasePath returns the configured path prefix
func (c *Client) BasePath() string {
	return c.basePath
}

// URL returns the absolute URL of a backend path
func (c *Client) URL(path string) string {
	return c.baseURL + c.basePath + path
}

// WGStats fetches per-interface WireGuard peer stats
func (c *Client) WGStats(ctx context.Context) ([]stats.InterfaceStats, error) {
	var out []stats.InterfaceStats
	hdr := http.Header{}
	hdr.Set(SkipSessionRefreshHeader, "1")
	if err := c.do(ctx, http.MethodGet, "/api/wg/stats", hdr, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SystemInfo fetches host load and VPN client counts
func (c *Client) SystemInfo(ctx context.Context) (*SystemInfo, error) {
	var out SystemInfo
	if err := c.do(ctx, http.MethodGet, "/api/system_info", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CPU fetches the CPU/RAM series for a period (live, hour, day, week, month)
func (c *Client) CPU(ctx context.Context, period string) (*CPUSeries, error) {
	q := url.Values{}
	q.Set("period", period)

	var out CPUSeries
	if err := c.do(ctx, http.MethodGet, "/api/cpu?"+q.Encode(), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Bandwidth fetches the rx/tx series of an interface for a period
func (c *Client) Bandwidth(ctx context.Context, iface, period string) (*BandwidthSeries, error) {
	q := url.Values{}
	q.Set("iface", iface)
	q.Set("period", period)

	var out BandwidthSeries
	if err := c.do(ctx, http.MethodGet, "/api/bw?"+q.Encode(), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Interfaces lists the host's network interfaces
func (c *Client) Interfaces(ctx context.Context) ([]string, error) {
	var out InterfaceList
	if err := c.do(ctx, http.MethodGet, "/api/interfaces", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Interfaces, nil
}

// AddAdmin grants bot admin rights to a Telegram user
func (c *Client) AddAdmin(ctx context.Context, telegramID string) (*AdminResponse, error) {
	return c.admin(ctx, "/api/admins/add", telegramID)
}

// RemoveAdmin revokes bot admin rights
func (c *Client) RemoveAdmin(ctx context.Context, telegramID string) (*AdminResponse, error) {
	return c.admin(ctx, "/api/admins/remove", telegramID)
}

func (c *Client) admin(ctx context.Context, path, telegramID string) (*AdminResponse, error) {
	var out AdminResponse
	if err := c.do(ctx, http.MethodPost, path, nil, AdminRequest{TelegramID: telegramID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout ends the session
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/logout", nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, hdr http.Header, body, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.URL(path), bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	for k, vs := range hdr {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.New().String())
	if c.session != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: c.session})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseErrorResponse(resp.StatusCode, bodyBytes)
	}

	if result != nil && len(bodyBytes) > 0 {
		if err := json.Unmarshal(bodyBytes, result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}
