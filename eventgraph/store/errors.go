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

package store

import "github.com/pkg/errors"

var (
	ErrMalformedHeader           = errors.New("eventgraph/store: malformed header bytes")
	ErrMalformedEvent            = errors.New("eventgraph/store: malformed event bytes")
	ErrUnknownParent             = errors.New("eventgraph/store: parent not found in header tree")
	ErrInvalidLayer              = errors.New("eventgraph/store: event layer inconsistent with its parents")
	ErrEventTimestampOutOfRange  = errors.New("eventgraph/store: event timestamp outside drift window")
	ErrGenesisWrongContent       = errors.New("eventgraph/store: genesis event content mismatch")
	ErrGenesisTimestampCollision = errors.New("eventgraph/store: genesis timestamp collides with an existing dag")
	ErrDagNotFound               = errors.New("eventgraph/store: dag not found")
	ErrHeaderAlreadyExists       = errors.New("eventgraph/store: header already exists")
)
