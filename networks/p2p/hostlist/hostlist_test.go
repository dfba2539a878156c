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

package hostlist

import (
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustURL(t *testing.T, raw string) *url.URL {
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestStoreOrUpdateInsertsThenUpdates(t *testing.T) {
	c := NewContainer()
	addr := mustURL(t, "tcp://1.2.3.4:1234")

	c.StoreOrUpdate(Grey, addr, 100)
	require.True(t, c.Contains(Grey, addr))

	c.StoreOrUpdate(Grey, addr, 200)
	all := c.FetchAll(Grey)
	require.Len(t, all, 1)
	assert.Equal(t, uint64(200), all[0].LastSeen)
}

func TestFetchAllSortedNewestFirst(t *testing.T) {
	c := NewContainer()
	a := mustURL(t, "tcp://1.1.1.1:1")
	b := mustURL(t, "tcp://2.2.2.2:2")
	c.StoreOrUpdate(Grey, a, 100)
	c.StoreOrUpdate(Grey, b, 200)

	all := c.FetchAll(Grey)
	require.Len(t, all, 2)
	assert.Equal(t, b.String(), all[0].Addr.String())
	assert.Equal(t, a.String(), all[1].Addr.String())
}

func TestFetchAddrsTransportMixing(t *testing.T) {
	c := NewContainer()
	tcpAddr := mustURL(t, "tcp://1.2.3.4:1234")
	c.StoreOrUpdate(Grey, tcpAddr, 100)

	// Without mixing, requesting "tor" finds nothing.
	noMix := c.FetchAddrs(Grey, []string{"tor"}, false)
	assert.Empty(t, noMix)

	// With mixing, a stored tcp:// host is surfaced as tor://.
	mixed := c.FetchAddrs(Grey, []string{"tor"}, true)
	require.Len(t, mixed, 1)
	assert.Equal(t, "tor", mixed[0].Addr.Scheme)
	assert.Equal(t, tcpAddr.Hostname(), mixed[0].Addr.Hostname())
}

func TestFetchAddrsDoesNotMixIncompatiblePairs(t *testing.T) {
	c := NewContainer()
	tlsAddr := mustURL(t, "tcp+tls://1.2.3.4:1234")
	c.StoreOrUpdate(Grey, tlsAddr, 100)

	// tor (plain) must not pick up tcp+tls entries.
	mixed := c.FetchAddrs(Grey, []string{"tor"}, true)
	assert.Empty(t, mixed)
}

func TestGreylistStoresRepeatedInserts(t *testing.T) {
	c := NewContainer()
	for i := 0; i < 5; i++ {
		addr := mustURL(t, "tcp://127.0.0.1:"+string(rune('1'+i)))
		c.store(Grey, addr, uint64(i))
	}
	// Not exercising the full 2000-entry cap (too slow for a unit test);
	// this just confirms store() doesn't error under repeated inserts.
	assert.Len(t, c.FetchAll(Grey), 5)
}

func TestRemoveIfExists(t *testing.T) {
	c := NewContainer()
	addr := mustURL(t, "tcp://1.2.3.4:1234")
	c.StoreOrUpdate(Grey, addr, 1)
	require.True(t, c.Contains(Grey, addr))

	c.RemoveIfExists(Grey, addr)
	assert.False(t, c.Contains(Grey, addr))
}

func TestSaveAndLoadAll(t *testing.T) {
	c := NewContainer()
	grey := mustURL(t, "tcp://1.1.1.1:1")
	white := mustURL(t, "tcp://2.2.2.2:2")
	gold := mustURL(t, "tcp://3.3.3.3:3")
	c.StoreOrUpdate(Grey, grey, 10)
	c.StoreOrUpdate(White, white, 20)
	c.StoreOrUpdate(Gold, gold, 30)

	path := filepath.Join(t.TempDir(), "hosts.tsv")
	require.NoError(t, c.SaveAll(path))

	loaded := NewContainer()
	require.NoError(t, loaded.LoadAll(path))

	// White entries are persisted under greylist so they re-enter the
	// refinery on the next start.
	assert.True(t, loaded.Contains(Grey, grey))
	assert.True(t, loaded.Contains(Grey, white))
	assert.True(t, loaded.Contains(Gold, gold))
	assert.False(t, loaded.Contains(White, white))
}

func TestLoadAllToleratesMissingFile(t *testing.T) {
	c := NewContainer()
	err := c.LoadAll(filepath.Join(os.TempDir(), "does-not-exist-darkfi-go-test.tsv"))
	assert.NoError(t, err)
}

func TestIsLocalHost(t *testing.T) {
	assert.True(t, IsLocalHost(mustURL(t, "tcp://localhost:1234")))
	assert.True(t, IsLocalHost(mustURL(t, "tcp://127.0.0.1:1234")))
	assert.True(t, IsLocalHost(mustURL(t, "tcp://192.168.1.1:1234")))
	assert.False(t, IsLocalHost(mustURL(t, "tcp://8.8.8.8:1234")))
}

func TestFilterAddressesRejectsBlacklistedAndSelf(t *testing.T) {
	c := NewContainer()
	blacklisted := mustURL(t, "tcp://9.9.9.9:1234")
	c.StoreOrUpdate(Black, blacklisted, 1)

	self := mustURL(t, "tcp://8.8.8.8:4000")
	good := mustURL(t, "tcp://8.8.8.9:4001")

	cfg := FilterConfig{
		ExternalAddrs: []*url.URL{self},
		AllowTCP:      true,
	}

	out := c.FilterAddresses(cfg, []Entry{
		{Addr: blacklisted, LastSeen: 1},
		{Addr: self, LastSeen: 2},
		{Addr: good, LastSeen: 3},
	})

	require.Len(t, out, 1)
	assert.Equal(t, good.String(), out[0].Addr.String())
}
