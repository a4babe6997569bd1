// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package wireguard

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/sharedco/vpnwatch/internal/stats"
)

// UnknownClient names a peer missing from every config file
const UnknownClient = "Unknown"

// ReadClientNames maps peer public keys to client names taken from
// "# Client = name" comments in WireGuard config files. Missing files are
// skipped; later files win on duplicate keys.
func ReadClientNames(paths ...string) (map[string]string, error) {
	names := make(map[string]string)
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		err = parseClientNames(f, names)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}
	return names, nil
}

func parseClientNames(r io.Reader, names map[string]string) error {
	var current string
	inPeer := false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "# Client ="):
			current = strings.TrimSpace(strings.SplitN(line, "=", 2)[1])
		case strings.HasPrefix(line, "[Peer]"):
			inPeer = true
			if current == "" {
				current = stats.NotAvailable
			}
		case strings.HasPrefix(line, "[Interface]"):
			inPeer = false
			current = ""
		case inPeer && strings.HasPrefix(line, "PublicKey"):
			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 || strings.TrimSpace(parts[0]) != "PublicKey" {
				continue
			}
			names[strings.TrimSpace(parts[1])] = current
			current = ""
			inPeer = false
		}
	}
	return scanner.Err()
}
