// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWGStats(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/status/api/wg/stats", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "1", r.Header.Get(SkipSessionRefreshHeader))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		if cookie, err := r.Cookie(SessionCookie); assert.NoError(t, err) {
			assert.Equal(t, "s3cret", cookie.Value)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"interface":"vpn","peers":[{"client":"alice","online":true,"endpoint":"203.0.113.7:51820"},{"client":"bob","online":false,"endpoint":null}]}]`))
	}))
	defer server.Close()

	c := New(server.URL, WithBasePath("/status/"), WithSession("s3cret"))
	got, err := c.WGStats(context.Background())
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "vpn", got[0].Interface)
	require.Len(t, got[0].Peers, 2)
	assert.Equal(t, "alice", got[0].Peers[0].Client)
	assert.True(t, got[0].Peers[0].Online)
	assert.Nil(t, got[0].Peers[1].Endpoint)
}

func TestRequestIDsAreUnique(t *testing.T) {
	var (
		mu  sync.Mutex
		ids []string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		ids = append(ids, r.Header.Get("X-Request-ID"))
		mu.Unlock()
		w.Write([]byte(`{"interfaces":["eth0"]}`))
	}))
	defer server.Close()

	c := New(server.URL)
	for i := 0; i < 2; i++ {
		_, err := c.Interfaces(context.Background())
		require.NoError(t, err)
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, ids, 2)
	assert.NotEqual(t, ids[0], ids[1])
}

func TestCPUAndBandwidthQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/cpu":
			assert.Equal(t, "hour", r.URL.Query().Get("period"))
			w.Write([]byte(`{"utc_labels":["2026-10-14T10:00:00Z"],"cpu_percent":[12.5],"ram_percent":[40]}`))
		case "/api/bw":
			assert.Equal(t, "vpn-udp", r.URL.Query().Get("iface"))
			assert.Equal(t, "day", r.URL.Query().Get("period"))
			w.Write([]byte(`{"utc_labels":[],"labels":["10:00"],"rx_mbps":[1.5],"tx_mbps":[0.5]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c := New(server.URL)

	cpu, err := c.CPU(context.Background(), "hour")
	require.NoError(t, err)
	assert.Equal(t, []float64{12.5}, cpu.CPUPercent)
	assert.Equal(t, []float64{40}, cpu.RAMPercent)

	bw, err := c.Bandwidth(context.Background(), "vpn-udp", "day")
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00"}, bw.Labels)
	assert.Equal(t, []float64{1.5}, bw.RxMbps)
}

func TestSystemInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"cpu_load":"12%","memory_used":"1.2 GB","rx_bytes":1234567,"network_load":{"eth0":{"sent_speed":1.2,"recv_speed":3.4}},"vpn_clients":{"WireGuard":3}}`))
	}))
	defer server.Close()

	info, err := New(server.URL).SystemInfo(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "12%", info.CPULoad)
	assert.Equal(t, int64(1234567), info.RxBytes)
	assert.Equal(t, 3.4, info.NetworkLoad["eth0"].RecvSpeed)
	require.NotNil(t, info.VPNClients)
	assert.Nil(t, info.VPNClients.OpenVPN)
	assert.Equal(t, 3, *info.VPNClients.WireGuard)
}

func TestAddAdmin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/admins/add", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req AdminRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "42", req.TelegramID)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"message":            "added",
			"admins":             []Admin{{ID: "42", Display: "@alice"}},
			"available_admins":   []Admin{},
			"admin_id_value":     "42",
			"bot_service_active": true,
		})
	}))
	defer server.Close()

	resp, err := New(server.URL).AddAdmin(context.Background(), "42")
	require.NoError(t, err)

	assert.Equal(t, "added", resp.Message)
	require.Len(t, resp.Admins, 1)
	assert.Equal(t, "@alice", resp.Admins[0].Display)
	require.NotNil(t, resp.BotServiceActive)
	assert.True(t, *resp.BotServiceActive)
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"message field", http.StatusBadRequest, `{"message":"already an admin"}`, "already an admin"},
		{"error field", http.StatusNotFound, `{"error":"no such user"}`, "no such user"},
		{"plain body", http.StatusInternalServerError, `boom`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := New(server.URL).RemoveAdmin(context.Background(), "7")
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.message, MessageOf(err))
			assert.Contains(t, err.Error(), strconv.Itoa(tt.status))
		})
	}
}

func TestNonSuccessStatusIsError(t *testing.T) {
	for _, status := range []int{http.StatusMultipleChoices, http.StatusNotModified} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		_, err := New(server.URL).WGStats(context.Background())
		server.Close()

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr, "status %d", status)
		assert.Equal(t, status, apiErr.StatusCode)
	}
}

func TestLogoutUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/logout", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	err := New(server.URL).Logout(context.Background())
	assert.True(t, IsUnauthorized(err))
}

func TestNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := New(url).WGStats(context.Background())
	require.Error(t, err)
	assert.False(t, IsUnauthorized(err))
}

func TestEnsureScheme(t *testing.T) {
	assert.Equal(t, "http://vpn.local:8080", EnsureScheme("vpn.local:8080"))
	assert.Equal(t, "https://vpn.example.com", EnsureScheme("https://vpn.example.com"))
	assert.Equal(t, "http://h/status/api/x", New("h", WithBasePath("/status")).URL("/api/x"))
}
