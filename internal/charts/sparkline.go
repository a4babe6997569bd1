// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package charts

import (
	"fmt"
	"io"
	"strings"
)

var blocks = []rune("▁▂▃▄▅▆▇█")

// Sparkline draws values as block characters scaled to their maximum.
// Only the last width values are drawn when width is positive.
func Sparkline(values []float64, width int) string {
	if width > 0 && len(values) > width {
		values = values[len(values)-width:]
	}
	if len(values) == 0 {
		return ""
	}

	top := 0.0
	for _, v := range values {
		if v > top {
			top = v
		}
	}

	var b strings.Builder
	for _, v := range values {
		i := 0
		if top > 0 && v > 0 {
			i = int(v / top * float64(len(blocks)-1))
		}
		b.WriteRune(blocks[i])
	}
	return b.String()
}

func span(labels []string) string {
	if len(labels) == 0 {
		return ""
	}
	return labels[0] + " .. " + labels[len(labels)-1]
}

// WriteCPU prints the CPU chart as two sparklines
func WriteCPU(w io.Writer, v CPUView, width int) error {
	_, err := fmt.Fprintf(w, "CPU/RAM (%s) %s\n%-6s %6.1f%%  %s\n%-6s %6.1f%%  %s\n",
		v.Period, span(v.Labels),
		v.CPU.Label, v.CPU.Latest(), Sparkline(v.CPU.Data, width),
		v.RAM.Label, v.RAM.Latest(), Sparkline(v.RAM.Data, width))
	return err
}

// WriteBandwidth prints the bandwidth chart as two sparklines
func WriteBandwidth(w io.Writer, v BandwidthView, width int) error {
	_, err := fmt.Fprintf(w, "%s (%s) %s: %s\n%-8s %8.2f %s  %s\n%-8s %8.2f %s  %s\n",
		v.DisplayName, v.Period, v.XTitle, span(v.Labels),
		v.RX.Label, v.RX.Latest(), v.YTitle, Sparkline(v.RX.Data, width),
		v.TX.Label, v.TX.Latest(), v.YTitle, Sparkline(v.TX.Data, width))
	return err
}
