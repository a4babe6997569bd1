// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package api

import (
	"fmt"
	"sort"

	"github.com/vishvananda/netlink"
)

// NetlinkLister lists links through rtnetlink
type NetlinkLister struct{}

// LinkNames returns the sorted names of all links except loopback
func (NetlinkLister) LinkNames() ([]string, error) {
	links, err := netlink.LinkList()
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}

	names := make([]string, 0, len(links))
	for _, l := range links {
		attrs := l.Attrs()
		if attrs == nil || attrs.Name == "lo" {
			continue
		}
		names = append(names, attrs.Name)
	}
	sort.Strings(names)
	return names, nil
}
