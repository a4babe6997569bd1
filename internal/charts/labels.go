// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package charts

import "time"

// Chart periods
const (
	PeriodLive  = "live"
	PeriodHour  = "hour"
	PeriodDay   = "day"
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

// cpuLabel renders a CPU chart label in loc
func cpuLabel(t time.Time, period string, loc *time.Location) string {
	t = t.In(loc)
	switch period {
	case PeriodLive:
		return t.Format("15:04:05")
	case PeriodHour:
		return t.Format("15:04")
	case PeriodDay:
		return t.Format("15") + ":00"
	default:
		return t.Format("02.01.2006")
	}
}

// bandwidthLabel renders a bandwidth chart label in loc
func bandwidthLabel(t time.Time, period string, loc *time.Location) string {
	t = t.In(loc)
	if period == PeriodHour || period == PeriodDay {
		return t.Format("15:04")
	}
	return t.Format("02.01")
}
