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
// Package hostlist is the colored hostlist container from §4.B: four
// parallel lists (grey/white/gold/black), transport-scheme filtering and
// mixing, and TSV persistence. Ported from
// original_source/src/net/hosts/store.rs's HostContainer.
package hostlist

import (
	"bufio"
	"fmt"
	"math/rand"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/darkfi-go/darkfi/log"
	"github.com/darkfi-go/darkfi/params"
	"github.com/pkg/errors"
)

var logger = log.NewModuleLogger(log.Hostlist)

// Color selects one of the four hostlists, §3.
type Color uint8

const (
	Grey Color = iota
	White
	Gold
	Black
)

func (c Color) String() string {
	switch c {
	case Grey:
		return "greylist"
	case White:
		return "whitelist"
	case Gold:
		return "anchorlist"
	case Black:
		return "blacklist"
	default:
		return "unknown"
	}
}

// ErrInvalidColor is returned by ParseColor for an unrecognized list name.
var ErrInvalidColor = errors.New("invalid host color")

// ParseColor maps a hostlist name (as used on the wire and in the TSV
// persistence format) back to its Color.
func ParseColor(name string) (Color, error) {
	switch name {
	case "greylist":
		return Grey, nil
	case "whitelist":
		return White, nil
	case "anchorlist":
		return Gold, nil
	case "blacklist":
		return Black, nil
	default:
		return 0, ErrInvalidColor
	}
}

// Entry is one hostlist row: an address and the unix timestamp it was last
// seen at.
type Entry struct {
	Addr     *url.URL
	LastSeen uint64
}

// transportMixes enumerates the acceptable (requested, stored) scheme pairs
// for transport mixing, §4.B: tor may reuse tcp hosts (and tor+tls reuse
// tcp+tls, nym reuse tcp, nym+tls reuse tcp+tls), but tor and tcp+tls, or
// tor+tls and tcp, are never mixed.
var transportMixes = []struct{ requested, stored string }{
	{"tor", "tcp"},
	{"tor+tls", "tcp+tls"},
	{"nym", "tcp"},
	{"nym+tls", "tcp+tls"},
}

type colorList struct {
	mu      sync.RWMutex
	entries []Entry
}

// Container holds the four colored hostlists and the operations the
// refinery, outbound session, and seed sync all share to read and mutate
// them.
type Container struct {
	lists [4]*colorList
}

// NewContainer builds an empty four-list container.
func NewContainer() *Container {
	c := &Container{}
	for i := range c.lists {
		c.lists[i] = &colorList{}
	}
	return c
}

func maxLenFor(color Color) int {
	switch color {
	case Grey:
		return params.GreylistMaxLen
	case White:
		return params.WhitelistMaxLen
	default:
		return 0 // gold/black are unbounded
	}
}

// store appends addr to color, re-sorts newest-first by LastSeen, then
// caps greylist/whitelist at their max length by dropping the oldest
// (last, since the list is kept sorted newest-first) entry.
func (c *Container) store(color Color, addr *url.URL, lastSeen uint64) {
	list := c.lists[color]
	list.mu.Lock()
	defer list.mu.Unlock()

	list.entries = append(list.entries, Entry{Addr: addr, LastSeen: lastSeen})

	sort.SliceStable(list.entries, func(i, j int) bool {
		return list.entries[i].LastSeen > list.entries[j].LastSeen
	})

	if max := maxLenFor(color); max > 0 && len(list.entries) > max {
		dropped := list.entries[len(list.entries)-1]
		list.entries = list.entries[:len(list.entries)-1]
		logger.Debug("hostlist reached max size, dropped oldest", "color", color, "addr", dropped.Addr)
	}
}

// StoreOrUpdate stores addr if new, otherwise refreshes its LastSeen.
func (c *Container) StoreOrUpdate(color Color, addr *url.URL, lastSeen uint64) {
	if !c.Contains(color, addr) {
		c.store(color, addr, lastSeen)
		return
	}
	c.UpdateLastSeen(color, addr, lastSeen)
}

// UpdateLastSeen refreshes addr's LastSeen and re-sorts the list.
func (c *Container) UpdateLastSeen(color Color, addr *url.URL, lastSeen uint64) {
	list := c.lists[color]
	list.mu.Lock()
	defer list.mu.Unlock()

	for i := range list.entries {
		if list.entries[i].Addr.String() == addr.String() {
			list.entries[i].LastSeen = lastSeen
			break
		}
	}
	sort.SliceStable(list.entries, func(i, j int) bool {
		return list.entries[i].LastSeen > list.entries[j].LastSeen
	})
}

// FetchAll returns every entry on the given hostlist.
func (c *Container) FetchAll(color Color) []Entry {
	list := c.lists[color]
	list.mu.RLock()
	defer list.mu.RUnlock()
	out := make([]Entry, len(list.entries))
	copy(out, list.entries)
	return out
}

// FetchLast returns the oldest (last, since the list sorts newest-first)
// entry and its index.
func (c *Container) FetchLast(color Color) (Entry, int, bool) {
	list := c.lists[color]
	list.mu.RLock()
	defer list.mu.RUnlock()
	if len(list.entries) == 0 {
		return Entry{}, 0, false
	}
	i := len(list.entries) - 1
	return list.entries[i], i, true
}

func schemeIn(scheme string, schemes []string) bool {
	for _, s := range schemes {
		if s == scheme {
			return true
		}
	}
	return false
}

// fetchWithSchemes returns up to limit entries whose URL scheme is in
// schemes (limit <= 0 means unbounded).
func (c *Container) fetchWithSchemes(color Color, schemes []string, limit int) []Entry {
	list := c.lists[color]
	list.mu.RLock()
	defer list.mu.RUnlock()

	var ret []Entry
	for _, e := range list.entries {
		if schemeIn(e.Addr.Scheme, schemes) {
			ret = append(ret, e)
			if limit > 0 && len(ret) == limit {
				break
			}
		}
	}
	return ret
}

// fetchExcludingSchemes returns up to limit entries whose URL scheme is NOT
// in schemes.
func (c *Container) fetchExcludingSchemes(color Color, schemes []string, limit int) []Entry {
	list := c.lists[color]
	list.mu.RLock()
	defer list.mu.RUnlock()

	var ret []Entry
	for _, e := range list.entries {
		if !schemeIn(e.Addr.Scheme, schemes) {
			ret = append(ret, e)
			if limit > 0 && len(ret) == limit {
				break
			}
		}
	}
	return ret
}

// FetchAddrs returns entries matching transports, plus (when mixing is
// enabled) entries stored under a transport's compatible pair with the
// requested scheme substituted in, §4.B.
func (c *Container) FetchAddrs(color Color, transports []string, transportMixing bool) []Entry {
	var hosts []Entry

	if transportMixing {
		for _, mix := range transportMixes {
			if !schemeIn(mix.requested, transports) {
				continue
			}
			for _, e := range c.fetchWithSchemes(color, []string{mix.stored}, 0) {
				mixed := *e.Addr
				mixed.Scheme = mix.requested
				hosts = append(hosts, Entry{Addr: &mixed, LastSeen: e.LastSeen})
			}
		}
	}

	hosts = append(hosts, c.fetchWithSchemes(color, transports, 0)...)
	return hosts
}

// FetchRandom returns a uniformly random entry and its index.
func (c *Container) FetchRandom(color Color) (Entry, int, bool) {
	list := c.lists[color]
	list.mu.RLock()
	defer list.mu.RUnlock()
	if len(list.entries) == 0 {
		return Entry{}, 0, false
	}
	i := rand.Intn(len(list.entries))
	return list.entries[i], i, true
}

// FetchRandomWithSchemes returns a uniformly random entry among those
// matching schemes.
func (c *Container) FetchRandomWithSchemes(color Color, schemes []string) (Entry, int, bool) {
	matches := c.fetchWithSchemes(color, schemes, 0)
	if len(matches) == 0 {
		return Entry{}, 0, false
	}
	i := rand.Intn(len(matches))
	return matches[i], i, true
}

func chooseN(entries []Entry, n int) []Entry {
	if n >= len(entries) {
		out := make([]Entry, len(entries))
		copy(out, entries)
		return out
	}
	perm := rand.Perm(len(entries))[:n]
	out := make([]Entry, n)
	for i, idx := range perm {
		out[i] = entries[idx]
	}
	return out
}

// FetchNRandom returns up to n uniformly chosen entries, ignoring scheme.
func (c *Container) FetchNRandom(color Color, n int) []Entry {
	if n <= 0 {
		return nil
	}
	return chooseN(c.FetchAll(color), n)
}

// FetchNRandomWithSchemes returns up to n uniformly chosen entries matching
// schemes.
func (c *Container) FetchNRandomWithSchemes(color Color, schemes []string, n int) []Entry {
	if n <= 0 {
		return nil
	}
	return chooseN(c.fetchWithSchemes(color, schemes, 0), n)
}

// FetchNRandomExcludingSchemes returns up to n uniformly chosen entries not
// matching schemes.
func (c *Container) FetchNRandomExcludingSchemes(color Color, schemes []string, n int) []Entry {
	if n <= 0 {
		return nil
	}
	return chooseN(c.fetchExcludingSchemes(color, schemes, 0), n)
}

// Remove deletes the entry at index from color's list.
func (c *Container) Remove(color Color, index int) {
	list := c.lists[color]
	list.mu.Lock()
	defer list.mu.Unlock()
	if index < 0 || index >= len(list.entries) {
		return
	}
	list.entries = append(list.entries[:index], list.entries[index+1:]...)
}

// RemoveIfExists removes addr from color's list if present.
func (c *Container) RemoveIfExists(color Color, addr *url.URL) {
	idx, ok := c.indexOf(color, addr)
	if !ok {
		return
	}
	c.Remove(color, idx)
}

// IsEmpty reports whether color's list has no entries.
func (c *Container) IsEmpty(color Color) bool {
	list := c.lists[color]
	list.mu.RLock()
	defer list.mu.RUnlock()
	return len(list.entries) == 0
}

// Contains reports whether addr is present on color's list.
func (c *Container) Contains(color Color, addr *url.URL) bool {
	_, ok := c.indexOf(color, addr)
	return ok
}

func (c *Container) indexOf(color Color, addr *url.URL) (int, bool) {
	list := c.lists[color]
	list.mu.RLock()
	defer list.mu.RUnlock()
	for i, e := range list.entries {
		if e.Addr.String() == addr.String() {
			return i, true
		}
	}
	return 0, false
}

// LoadAll populates the hostlists from a TSV file written by SaveAll: each
// line is "<listname>\t<url>\t<last_seen>". Missing files are tolerated
// (nothing to load on first run).
func (c *Container) LoadAll(path string) error {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.SplitN(scanner.Text(), "\t", 3)
		if len(fields) != 3 {
			continue
		}
		u, err := url.Parse(fields[1])
		if err != nil {
			logger.Debug("skipping malformed hostlist URL", "err", err)
			continue
		}
		lastSeen, err := strconv.ParseUint(fields[2], 10, 64)
		if err != nil {
			logger.Debug("skipping malformed hostlist last_seen", "err", err)
			continue
		}

		var color Color
		switch fields[0] {
		case "greylist":
			color = Grey
		case "whitelist":
			color = White
		case "anchorlist":
			color = Gold
		default:
			logger.Debug("skipping malformed hostlist line", "list", fields[0])
			continue
		}
		c.store(color, u, lastSeen)
	}
	return scanner.Err()
}

// SaveAll writes every whitelist, greylist, and anchorlist entry to a TSV
// file. Whitelist entries get written under "greylist" so they pass back
// through the refinery on the next start, §4.B.
func (c *Container) SaveAll(path string) error {
	var sb strings.Builder

	white := c.FetchAll(White)
	grey := c.FetchAll(Grey)
	gold := c.FetchAll(Gold)

	greySet := make(map[string]struct{}, len(grey))
	for _, e := range grey {
		greySet[e.Addr.String()] = struct{}{}
	}

	for _, e := range gold {
		fmt.Fprintf(&sb, "anchorlist\t%s\t%d\n", e.Addr.String(), e.LastSeen)
	}
	for _, e := range grey {
		fmt.Fprintf(&sb, "greylist\t%s\t%d\n", e.Addr.String(), e.LastSeen)
	}
	for _, e := range white {
		if _, dup := greySet[e.Addr.String()]; dup {
			continue
		}
		fmt.Fprintf(&sb, "greylist\t%s\t%d\n", e.Addr.String(), e.LastSeen)
	}

	if sb.Len() == 0 {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(sb.String()), 0o644)
}
