// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package api

import (
	"encoding/json"
	"net/http"

	"github.com/sharedco/vpnwatch/internal/client"
	"github.com/sharedco/vpnwatch/internal/version"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// Health check handler
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health(r.Context()); err != nil {
			s.log.WithError(err).Warn("health check failed")
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Status handler
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "operational",
		"version": version.Short(),
	})
}

func (s *Server) handleWGStats(w http.ResponseWriter, r *http.Request) {
	data, err := s.stats.WGStats(r.Context())
	if err != nil {
		s.log.WithError(err).Error("failed to collect WireGuard stats")
		respondError(w, http.StatusInternalServerError, "failed to collect WireGuard stats")
		return
	}
	s.metrics.observe(data)
	respondJSON(w, http.StatusOK, data)
}

func (s *Server) handleInterfaces(w http.ResponseWriter, r *http.Request) {
	names, err := s.links.LinkNames()
	if err != nil {
		s.log.WithError(err).Error("failed to list interfaces")
		respondError(w, http.StatusInternalServerError, "failed to list interfaces")
		return
	}
	if names == nil {
		names = []string{}
	}
	respondJSON(w, http.StatusOK, client.InterfaceList{Interfaces: names})
}
