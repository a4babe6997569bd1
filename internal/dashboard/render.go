// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

// Package dashboard turns backend stats into view-models, applies the
// dashboard filters to them, and keeps them refreshed.
package dashboard

import (
	"fmt"
	"strings"

	"github.com/sharedco/vpnwatch/internal/stats"
)

// Display text for peer state
const (
	OnlineText  = "Online"
	OfflineText = "Offline"
	UndefClient = "UNDEF"

	showAllText  = "Show all"
	collapseText = "Collapse"
)

// Layout reports which interface containers exist on the current page
type Layout interface {
	Has(containerID string) bool
}

type allLayout struct{}

func (allLayout) Has(string) bool { return true }

// AllInterfaces is a layout with a container for every interface
var AllInterfaces Layout = allLayout{}

type fixedLayout map[string]struct{}

func (l fixedLayout) Has(id string) bool {
	_, ok := l[id]
	return ok
}

// NewLayout returns a layout holding exactly the given container IDs
func NewLayout(containerIDs ...string) Layout {
	l := make(fixedLayout, len(containerIDs))
	for _, id := range containerIDs {
		l[id] = struct{}{}
	}
	return l
}

// LayoutFor returns a layout with containers for the named interfaces
func LayoutFor(interfaces ...string) Layout {
	ids := make([]string, len(interfaces))
	for i, name := range interfaces {
		ids[i] = ContainerID(name)
	}
	return NewLayout(ids...)
}

// ContainerID derives the container identifier of an interface
func ContainerID(iface string) string {
	var b strings.Builder
	b.WriteString("peers-")
	for _, r := range iface {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}

// Badge is the "online / total" counter of a section
type Badge struct {
	Online int
	Total  int
}

func (b Badge) String() string {
	return fmt.Sprintf("%d / %d", b.Online, b.Total)
}

// Row is the view-model of one peer
type Row struct {
	Index      int // 1-based, counted across the whole page
	Client     string
	MaskedPeer string
	Online     bool
	StatusText string
	DotClass   string
	Icon       string

	RealIP   string
	MaskedIP string
	IPText   string

	VisibleIPs    string
	HiddenIPs     []string
	ShowHiddenIPs bool
	ToggleText    string

	Handshake     string
	Received      string
	Sent          string
	DailyReceived string
	DailySent     string
	ReceivedPct   string
	SentPct       string

	Hidden bool
}

// Section is the rendered peer list of one interface
type Section struct {
	Interface   string
	ContainerID string
	Rows        []*Row
	Badge       Badge
	Hidden      bool
}

// Page is everything Render produced for one poll result
type Page struct {
	Sections            []*Section
	Filters             Filters
	NoActiveConnections bool
}

// Render builds a fresh page. Interfaces without a container in layout are skipped.
func Render(data []stats.InterfaceStats, layout Layout) *Page {
	if layout == nil {
		layout = AllInterfaces
	}

	page := &Page{}
	index := 0
	for _, iface := range data {
		id := ContainerID(iface.Interface)
		if !layout.Has(id) {
			continue
		}

		section := &Section{
			Interface:   iface.Interface,
			ContainerID: id,
			Rows:        make([]*Row, 0, len(iface.Peers)),
		}
		for _, peer := range iface.Peers {
			index++
			section.Rows = append(section.Rows, renderRow(index, peer))
		}
		section.Badge = Badge{Online: iface.OnlineCount(), Total: len(iface.Peers)}
		page.Sections = append(page.Sections, section)
	}
	return page
}

func renderRow(index int, p stats.PeerStats) *Row {
	row := &Row{
		Index:         index,
		Client:        p.Client,
		MaskedPeer:    p.MaskedPeer,
		Online:        p.Online,
		RealIP:        stats.OrNA(p.Endpoint),
		MaskedIP:      stats.NotAvailable,
		VisibleIPs:    joinOrNA(p.VisibleIPs),
		HiddenIPs:     append([]string(nil), p.HiddenIPs...),
		Handshake:     stats.OrNA(p.LatestHandshake),
		Received:      stats.OrNA(p.Received),
		Sent:          stats.OrNA(p.Sent),
		DailyReceived: stats.OrNA(p.DailyReceived),
		DailySent:     stats.OrNA(p.DailySent),
		ReceivedPct:   percentOrNA(p.ReceivedPercentage),
		SentPct:       percentOrNA(p.SentPercentage),
	}
	if row.Client == "" {
		row.Client = stats.NotAvailable
	}
	if p.Endpoint != nil {
		row.MaskedIP = stats.MaskIP(*p.Endpoint)
	}
	row.IPText = row.MaskedIP

	if p.Online {
		row.StatusText = OnlineText
		row.DotClass = "status-dot online"
		row.Icon = "●"
	} else {
		row.StatusText = OfflineText
		row.DotClass = "status-dot offline"
		row.Icon = "○"
	}

	if len(row.HiddenIPs) > 0 {
		row.ToggleText = showAllText
	}
	return row
}

func joinOrNA(ips []string) string {
	if len(ips) == 0 {
		return stats.NotAvailable
	}
	return strings.Join(ips, ", ")
}

func percentOrNA(f *float64) string {
	if f == nil {
		return stats.NotAvailable
	}
	return fmt.Sprintf("%.1f%%", *f)
}

// ToggleIPs expands or collapses the hidden IPs of the row with the given
// 1-based index. Unknown indexes and rows without hidden IPs are ignored.
func ToggleIPs(page *Page, index int) {
	row := page.row(index)
	if row == nil || len(row.HiddenIPs) == 0 {
		return
	}
	row.ShowHiddenIPs = !row.ShowHiddenIPs
	if row.ShowHiddenIPs {
		row.ToggleText = collapseText
	} else {
		row.ToggleText = showAllText
	}
}

func (p *Page) row(index int) *Row {
	for _, s := range p.Sections {
		for _, r := range s.Rows {
			if r.Index == index {
				return r
			}
		}
	}
	return nil
}

// Section returns the section of the named interface, or nil
func (p *Page) Section(iface string) *Section {
	for _, s := range p.Sections {
		if s.Interface == iface {
			return s
		}
	}
	return nil
}

// VisibleRows counts rows not hidden by a filter
func (p *Page) VisibleRows() int {
	n := 0
	for _, s := range p.Sections {
		for _, r := range s.Rows {
			if !r.Hidden {
				n++
			}
		}
	}
	return n
}

// Clone returns a deep copy of the page
func (p *Page) Clone() *Page {
	if p == nil {
		return nil
	}
	out := &Page{Filters: p.Filters, NoActiveConnections: p.NoActiveConnections}
	for _, s := range p.Sections {
		cs := *s
		cs.Rows = make([]*Row, len(s.Rows))
		for i, r := range s.Rows {
			cr := *r
			cr.HiddenIPs = append([]string(nil), r.HiddenIPs...)
			cs.Rows[i] = &cr
		}
		out.Sections = append(out.Sections, &cs)
	}
	return out
}
