// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

// Package charts keeps the CPU/RAM and bandwidth charts of the dashboard:
// their datasets, axis labels, colors and visibility.
package charts

import (
	"os"
	"strconv"
	"strings"
)

// Theme selects a color palette
type Theme int

const (
	Light Theme = iota
	Dark
)

func (t Theme) String() string {
	if t == Dark {
		return "dark"
	}
	return "light"
}

// DetectTheme resolves a theme setting. "dark" and "light" are taken as is;
// anything else reads the terminal background from COLORFGBG.
func DetectTheme(setting string) Theme {
	return detectTheme(setting, os.Getenv("COLORFGBG"))
}

func detectTheme(setting, colorfgbg string) Theme {
	switch strings.ToLower(setting) {
	case "dark":
		return Dark
	case "light":
		return Light
	}

	// COLORFGBG is "fg;bg" or "fg;default;bg"
	parts := strings.Split(colorfgbg, ";")
	bg, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return Light
	}
	if bg <= 6 || bg == 8 {
		return Dark
	}
	return Light
}

// CPU alert colors replace the CPU palette when the latest point is above CPUAlertThreshold
const (
	CPUAlertThreshold = 80.0
	CPUAlertBorder    = "rgba(220,20,60,1)"
	CPUAlertFill      = "rgba(220,20,60,0.12)"
)

// CPUPalette holds the CPU/RAM chart colors
type CPUPalette struct {
	CPUBorder string
	CPUFill   string
	RAMBorder string
	RAMFill   string
	Text      string
	Grid      string
}

// BandwidthPalette holds the bandwidth chart colors
type BandwidthPalette struct {
	RxBorder string
	RxFill   string
	TxBorder string
	TxFill   string
	Grid     string
	Text     string
}

// CPUColors returns the CPU/RAM palette of t
func CPUColors(t Theme) CPUPalette {
	if t == Dark {
		return CPUPalette{
			CPUBorder: "rgba(255,99,132,1)",
			CPUFill:   "rgba(255,99,132,0.12)",
			RAMBorder: "rgba(100,181,246,1)",
			RAMFill:   "rgba(100,181,246,0.12)",
			Text:      "#ddd",
			Grid:      "#333",
		}
	}
	return CPUPalette{
		CPUBorder: "rgba(220,53,69,1)",
		CPUFill:   "rgba(220,53,69,0.08)",
		RAMBorder: "rgba(54,162,235,1)",
		RAMFill:   "rgba(54,162,235,0.08)",
		Text:      "#222",
		Grid:      "#eee",
	}
}

// BandwidthColors returns the bandwidth palette of t
func BandwidthColors(t Theme) BandwidthPalette {
	if t == Dark {
		return BandwidthPalette{
			RxBorder: "rgba(100, 181, 246, 1)",
			RxFill:   "rgba(100, 181, 246, 0.25)",
			TxBorder: "rgba(255, 138, 128, 1)",
			TxFill:   "rgba(255, 138, 128, 0.25)",
			Grid:     "#333",
			Text:     "#ccc",
		}
	}
	return BandwidthPalette{
		RxBorder: "rgba(54, 162, 235, 1)",
		RxFill:   "rgba(54, 162, 235, 0.2)",
		TxBorder: "rgba(255, 99, 132, 1)",
		TxFill:   "rgba(255, 99, 132, 0.2)",
		Grid:     "#ddd",
		Text:     "#333",
	}
}
