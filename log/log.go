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

// Package log provides the structured, leveled logger darkfi-go packages
// share. Each package that logs declares a package-level logger via
// NewModuleLogger so that log lines can be filtered and routed per module.
package log

import (
	"go.uber.org/zap"
)

// Module identifies the subsystem a logger belongs to. Kept as a distinct
// type (rather than a bare string) so call sites read as log.NewModuleLogger(log.PoW)
// instead of a magic string.
type Module string

const (
	Common              Module = "common"
	PoW                 Module = "consensus/pow"
	Mining              Module = "consensus/mining"
	Fork                Module = "consensus/fork"
	ConsensusState      Module = "consensus/state"
	TxVerify            Module = "validator/txverify"
	BlockVerify         Module = "validator/blockverify"
	Host                Module = "net/host"
	Hostlist            Module = "net/hostlist"
	EventGraphStore     Module = "eventgraph/store"
	EventGraphSync      Module = "eventgraph/sync"
	Cmd                 Module = "cmd/darkfid"
)

// Logger is the leveled, structured logging interface every darkfi-go
// package programs against. Arguments after msg are alternating key/value
// pairs, mirroring the go-ethereum/klaytn log15-style convention.
type Logger interface {
	Trace(msg string, ctx ...interface{})
	Debug(msg string, ctx ...interface{})
	Info(msg string, ctx ...interface{})
	Warn(msg string, ctx ...interface{})
	Error(msg string, ctx ...interface{})
	Crit(msg string, ctx ...interface{})
	NewWith(ctx ...interface{}) Logger
}

type zapLogger struct {
	module Module
	sugar  *zap.SugaredLogger
}

var atomicLevel = zap.NewAtomicLevelAt(zap.InfoLevel)

var base = newBaseLogger()

func newBaseLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = atomicLevel
	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		// Fall back to a no-op logger rather than panic on logger construction.
		l = zap.NewNop()
	}
	return l
}

// NewModuleLogger returns a Logger scoped to the given module.
func NewModuleLogger(module Module) Logger {
	return &zapLogger{
		module: module,
		sugar:  base.Sugar().With("module", string(module)),
	}
}

// SetLevel adjusts the global minimum log level. Intended to be wired to a
// CLI flag in cmd/darkfid.
func SetLevel(level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return err
	}
	atomicLevel.SetLevel(lvl.Level())
	return nil
}

func (l *zapLogger) Trace(msg string, ctx ...interface{}) { l.sugar.Debugw(msg, ctx...) }
func (l *zapLogger) Debug(msg string, ctx ...interface{}) { l.sugar.Debugw(msg, ctx...) }
func (l *zapLogger) Info(msg string, ctx ...interface{})  { l.sugar.Infow(msg, ctx...) }
func (l *zapLogger) Warn(msg string, ctx ...interface{})  { l.sugar.Warnw(msg, ctx...) }
func (l *zapLogger) Error(msg string, ctx ...interface{}) { l.sugar.Errorw(msg, ctx...) }
func (l *zapLogger) Crit(msg string, ctx ...interface{}) {
	l.sugar.Errorw(msg, ctx...)
}

func (l *zapLogger) NewWith(ctx ...interface{}) Logger {
	return &zapLogger{
		module: l.module,
		sugar:  l.sugar.With(ctx...),
	}
}
