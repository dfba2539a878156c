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

package sync

import "github.com/pkg/errors"

// ErrDagSyncFailed is returned when a dag_sync round cannot make
// progress: either no peer reported any tip at all, or every remaining
// payload chunk failed with no free peer left to retry it, §6's
// DagSyncFailed.
var ErrDagSyncFailed = errors.New("eventgraph/sync: dag sync failed")
