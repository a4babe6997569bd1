// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package admins

import "strings"

// TokenField shows a secret masked until revealed
type TokenField struct {
	value  string
	masked bool
}

// NewTokenField returns a masked field
func NewTokenField(value string) *TokenField {
	return &TokenField{value: value, masked: true}
}

// Toggle flips between masked and revealed
func (f *TokenField) Toggle() {
	f.masked = !f.masked
}

// Masked reports whether the value is hidden
func (f *TokenField) Masked() bool {
	return f.masked
}

func (f *TokenField) String() string {
	if f.masked {
		return strings.Repeat("•", len([]rune(f.value)))
	}
	return f.value
}
