// This file is part of DarkFi-Go (https://dark.fi)
//
// Copyright (C) 2020-2026 Dyne.org foundation
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.
//
// Address admission filtering, ported from
// original_source/src/net/hosts/store.rs's filter_addresses/is_local_host.

package hostlist

import (
	"net"
	"net/url"
)

// localHostStrs mirrors LOCAL_HOST_STRS: hostnames treated as local
// regardless of IP resolution.
var localHostStrs = map[string]struct{}{
	"localhost":            {},
	"localhost.localdomain": {},
}

// IsLocalHost reports whether u's host is a loopback/private address or a
// recognized local hostname.
func IsLocalHost(u *url.URL) bool {
	host := u.Hostname()
	if host == "" {
		return false
	}
	if _, ok := localHostStrs[host]; ok {
		return true
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	return !isGlobal(ip)
}

// isGlobal reports whether ip is routable on the public internet: not
// loopback, private, link-local, multicast, or unspecified.
func isGlobal(ip net.IP) bool {
	return !ip.IsPrivate() &&
		!ip.IsLoopback() &&
		!ip.IsLinkLocalUnicast() &&
		!ip.IsLinkLocalMulticast() &&
		!ip.IsMulticast() &&
		!ip.IsUnspecified()
}

// FilterConfig carries the settings filter_addresses consults: this node's
// own external addresses (never admit ourselves) and whether localnet
// addresses are permitted (test/dev networks only).
type FilterConfig struct {
	ExternalAddrs []*url.URL
	LocalNet      bool
	AllowTor      bool
	AllowNym      bool
	AllowTCP      bool
}

func schemeAllowed(cfg FilterConfig, scheme string) bool {
	switch scheme {
	case "tor", "tor+tls":
		return cfg.AllowTor
	case "nym", "nym+tls":
		return cfg.AllowNym
	case "tcp", "tcp+tls":
		return cfg.AllowTCP
	default:
		return false
	}
}

// FilterAddresses applies §4.B's admission rules to a batch of newly
// learned addresses: well-formed scheme://host:port only, never already
// blacklisted/gold/white, never an address whose host (unless localnet is
// enabled) or port (always) matches one of our own external addresses,
// and (unless localnet is enabled) never a local or non-global address.
func (c *Container) FilterAddresses(cfg FilterConfig, addrs []Entry) []Entry {
	var ret []Entry

addrLoop:
	for _, e := range addrs {
		u := e.Addr
		if u.Hostname() == "" || u.Port() == "" {
			continue
		}

		if c.Contains(Black, u) {
			logger.Warn("peer is blacklisted", "addr", u)
			continue
		}
		if c.Contains(Gold, u) || c.Contains(White, u) {
			continue
		}

		if !cfg.LocalNet {
			for _, ext := range cfg.ExternalAddrs {
				if u.Hostname() == ext.Hostname() {
					continue addrLoop
				}
			}
		}
		for _, ext := range cfg.ExternalAddrs {
			if u.Port() == ext.Port() {
				continue addrLoop
			}
		}

		if !cfg.LocalNet && IsLocalHost(u) {
			continue
		}

		if !schemeAllowed(cfg, u.Scheme) {
			continue
		}

		ret = append(ret, e)
	}

	return ret
}
