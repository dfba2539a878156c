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

package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"reflect"
	"unicode"

	"github.com/naoina/toml"
	"github.com/urfave/cli"
)

// tomlSettings ensures TOML keys match Go struct field names verbatim,
// the same override cmd/ranger/config.go applies.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		link := ""
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://godoc.org/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

// EventGraphConfig configures the rotating event DAG store, §4.I.
type EventGraphConfig struct {
	RotationHours   int
	SyncTimeoutSecs int
}

// MiningConfig configures the local RandomX mining driver, §4.D.
type MiningConfig struct {
	Enabled       bool
	Threads       int
	TargetSeconds int
}

// MetricsConfig controls the prometheus exporter bridging the go-metrics
// registry built in package metrics.
type MetricsConfig struct {
	Enabled bool
	Addr    string
}

// Config is darkfid's top-level daemon configuration, the TOML counterpart
// of cmd/ranger/config.go's rangerConfig.
type Config struct {
	DataDir    string
	LogLevel   string
	EventGraph EventGraphConfig
	Mining     MiningConfig
	Metrics    MetricsConfig
}

// defaultConfig mirrors defaultRangerConfig's role: the baseline a loaded
// TOML file or CLI flags are layered on top of.
func defaultConfig() Config {
	return Config{
		DataDir:  "./darkfid-data",
		LogLevel: "info",
		EventGraph: EventGraphConfig{
			RotationHours:   24,
			SyncTimeoutSecs: 10,
		},
		Mining: MiningConfig{
			Enabled:       false,
			Threads:       1,
			TargetSeconds: 90,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    ":9090",
		},
	}
}

// loadConfig decodes a TOML file onto cfg, the same two-step
// open-then-decode loadConfig follows in cmd/ranger/config.go.
func loadConfig(file string, cfg *Config) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

// applyFlags overlays CLI flags onto cfg, taking precedence over both the
// baked-in default and any loaded config file.
func applyFlags(ctx *cli.Context, cfg *Config) {
	if ctx.IsSet(dataDirFlag.Name) {
		cfg.DataDir = ctx.String(dataDirFlag.Name)
	}
	if ctx.IsSet(logLevelFlag.Name) {
		cfg.LogLevel = ctx.String(logLevelFlag.Name)
	}
	if ctx.IsSet(rotationHoursFlag.Name) {
		cfg.EventGraph.RotationHours = ctx.Int(rotationHoursFlag.Name)
	}
	if ctx.IsSet(miningFlag.Name) {
		cfg.Mining.Enabled = ctx.Bool(miningFlag.Name)
	}
	if ctx.IsSet(miningThreadsFlag.Name) {
		cfg.Mining.Threads = ctx.Int(miningThreadsFlag.Name)
	}
	if ctx.IsSet(metricsFlag.Name) {
		cfg.Metrics.Enabled = ctx.Bool(metricsFlag.Name)
	}
	if ctx.IsSet(metricsAddrFlag.Name) {
		cfg.Metrics.Addr = ctx.String(metricsAddrFlag.Name)
	}
}

// makeConfig layers defaults, an optional TOML file, then CLI flags, the
// same precedence order makeConfigRanger establishes.
func makeConfig(ctx *cli.Context) (Config, error) {
	cfg := defaultConfig()

	if file := ctx.String(configFileFlag.Name); file != "" {
		if err := loadConfig(file, &cfg); err != nil {
			return Config{}, err
		}
	}

	applyFlags(ctx, &cfg)
	return cfg, nil
}
