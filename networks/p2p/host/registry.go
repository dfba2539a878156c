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
// Package host implements the host registry state machine, §4.A: a map
// from address to its current in-flight state, used to prevent multiple
// goroutines from concurrently acting on the same peer.
package host

import (
	"math/rand"
	"net/url"
	"sync"

	"github.com/darkfi-go/darkfi/log"
	"github.com/pkg/errors"
)

var logger = log.NewModuleLogger(log.Host)

// ErrStateBlocked is returned when a requested state transition is not
// reachable from the host's current state, §4.A's transition diagram.
var ErrStateBlocked = errors.New("host state transition blocked")

// StateKind enumerates the mutually exclusive states a host can occupy.
type StateKind uint8

const (
	Insert StateKind = iota
	Refine
	Connect
	Suspend
	Connected
	Move
)

func (k StateKind) String() string {
	switch k {
	case Insert:
		return "insert"
	case Refine:
		return "refine"
	case Connect:
		return "connect"
	case Suspend:
		return "suspend"
	case Connected:
		return "connected"
	case Move:
		return "move"
	default:
		return "unknown"
	}
}

// Channel is the external collaborator representing an established P2P
// connection; darkfi-go's transport/session layer supplies the concrete
// implementation.
type Channel interface {
	Address() *url.URL
}

// State is a host's current registry entry: its StateKind, plus the
// Channel when Kind == Connected.
type State struct {
	Kind    StateKind
	Channel Channel
}

// transition implements the table in §4.A: which states a given current
// state may move to. Mirrors original_source/src/net/hosts/store.rs's
// HostState::try_* methods, one arm per requested target state.
func transition(current StateKind, target StateKind, channel Channel) (State, error) {
	switch target {
	case Insert, Refine, Connect:
		// try_insert/try_refine/try_connect are only reachable when the
		// host is not currently tracked; an existing entry always blocks
		// them except Refine from Suspend.
		if target == Refine && current == Suspend {
			return State{Kind: Refine}, nil
		}
		return State{}, ErrStateBlocked
	case Connected:
		if current == Refine || current == Connect {
			return State{Kind: Connected, Channel: channel}, nil
		}
		return State{}, ErrStateBlocked
	case Move:
		if current == Connect {
			return State{Kind: Move}, nil
		}
		return State{}, ErrStateBlocked
	case Suspend:
		if current == Move {
			return State{Kind: Suspend}, nil
		}
		return State{}, ErrStateBlocked
	default:
		return State{}, ErrStateBlocked
	}
}

// Registry tracks every host currently in flight (being inserted, refined,
// connected to, or moved between hostlists) and arbitrates concurrent state
// changes on the same address, §4.A.
type Registry struct {
	mu     sync.Mutex
	states map[string]State
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{states: make(map[string]State)}
}

// TryRegister attempts to move addr to newKind. If addr is untracked, any
// requested kind succeeds outright and the entry is created. If addr is
// already tracked, the transition must be reachable per transition().
func (r *Registry) TryRegister(addr *url.URL, newKind StateKind, channel Channel) (State, error) {
	key := addr.String()

	r.mu.Lock()
	defer r.mu.Unlock()

	current, tracked := r.states[key]
	if !tracked {
		logger.Debug("inserting host", "addr", key, "state", newKind)
		state := State{Kind: newKind, Channel: channel}
		r.states[key] = state
		return state, nil
	}

	logger.Debug("attempting state transition", "addr", key, "current", current.Kind, "new", newKind)
	next, err := transition(current.Kind, newKind, channel)
	if err != nil {
		return State{}, err
	}
	r.states[key] = next
	return next, nil
}

// Unregister removes addr from the registry, preventing it from getting
// stuck in a non-terminal state. Must be called after Move, after a failed
// refinery pass, or when a channel stops.
func (r *Registry) Unregister(addr *url.URL) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.states, addr.String())
}

// Channels returns every currently connected channel.
func (r *Registry) Channels() []Channel {
	r.mu.Lock()
	defer r.mu.Unlock()

	channels := make([]Channel, 0, len(r.states))
	for _, s := range r.states {
		if s.Kind == Connected && s.Channel != nil {
			channels = append(channels, s.Channel)
		}
	}
	return channels
}

// Suspended returns the addresses currently in the Suspend state.
func (r *Registry) Suspended() []*url.URL {
	r.mu.Lock()
	defer r.mu.Unlock()

	var addrs []*url.URL
	for addr, s := range r.states {
		if s.Kind == Suspend {
			u, err := url.Parse(addr)
			if err != nil {
				continue
			}
			addrs = append(addrs, u)
		}
	}
	return addrs
}

// RandomChannel returns a uniformly random connected channel.
func (r *Registry) RandomChannel() (Channel, bool) {
	channels := r.Channels()
	if len(channels) == 0 {
		return nil, false
	}
	return channels[rand.Intn(len(channels))], true
}

// RegisterChannel records a newly established channel as Connected.
func (r *Registry) RegisterChannel(channel Channel) (State, error) {
	return r.TryRegister(channel.Address(), Connected, channel)
}

// CheckAddrs walks candidates in order and registers the first one that can
// successfully transition to Connect, matching Outbound Session's use of
// check_addrs to pick a free peer to dial.
func (r *Registry) CheckAddrs(candidates []*url.URL) (*url.URL, bool) {
	for _, addr := range candidates {
		if _, err := r.TryRegister(addr, Connect, nil); err != nil {
			continue
		}
		return addr, true
	}
	return nil, false
}
