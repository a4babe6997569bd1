// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package dashboard

import (
	"fmt"

	"github.com/sharedco/vpnwatch/internal/prefs"
)

// Filter names accepted by Monitor.SetFilter
const (
	FilterOnlineOnly = "online-only"
	FilterHideUndef  = "hide-undef"
	FilterShowRealIP = "show-real-ip"
)

// filterPrefs maps filter names to their preference keys
var filterPrefs = map[string]string{
	FilterOnlineOnly: prefs.ShowOnlineOnly,
	FilterHideUndef:  prefs.HideUndef,
	FilterShowRealIP: prefs.ShowRealIP,
}

// Filters are the three dashboard toggles
type Filters struct {
	OnlineOnly bool
	HideUndef  bool
	ShowRealIP bool
}

// hiding reports whether any filter can hide rows
func (f Filters) hiding() bool {
	return f.OnlineOnly || f.HideUndef
}

// With returns f with the named filter set to on
func (f Filters) With(name string, on bool) (Filters, error) {
	switch name {
	case FilterOnlineOnly:
		f.OnlineOnly = on
	case FilterHideUndef:
		f.HideUndef = on
	case FilterShowRealIP:
		f.ShowRealIP = on
	default:
		return f, fmt.Errorf("unknown filter %q", name)
	}
	return f, nil
}

// FiltersFromPrefs reads the persisted filter toggles
func FiltersFromPrefs(store *prefs.Store) Filters {
	return Filters{
		OnlineOnly: store.Bool(prefs.ShowOnlineOnly, false),
		HideUndef:  store.Bool(prefs.HideUndef, false),
		ShowRealIP: store.Bool(prefs.ShowRealIP, false),
	}
}

// Apply applies f to an already-rendered page. Earlier filter state is
// discarded first, so applying the same filters twice gives the same page.
func Apply(page *Page, f Filters) {
	page.Filters = f

	for _, s := range page.Sections {
		online, total := 0, 0
		for _, r := range s.Rows {
			undef := f.HideUndef && r.Client == UndefClient
			r.Hidden = undef || (f.OnlineOnly && !r.Online)

			if f.ShowRealIP {
				r.IPText = r.RealIP
			} else {
				r.IPText = r.MaskedIP
			}

			if undef {
				continue
			}
			total++
			if r.Online {
				online++
			}
		}
		s.Badge = Badge{Online: online, Total: total}
	}

	visible := 0
	for _, s := range page.Sections {
		n := 0
		for _, r := range s.Rows {
			if !r.Hidden {
				n++
			}
		}
		s.Hidden = f.hiding() && n == 0
		visible += n
	}
	page.NoActiveConnections = f.hiding() && visible == 0
}
