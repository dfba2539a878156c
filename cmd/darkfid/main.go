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

// Command darkfid is the node daemon: it opens the rotating event-graph
// store, drives its prune and sync loops, optionally runs the RandomX
// mining driver, and serves the go-metrics registry over /metrics. Its
// app/flags/Action shape and config precedence (defaults, then TOML file,
// then flags) is cmd/kcn/main.go and cmd/ranger/config.go's, narrowed to
// this daemon's own subsystems.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/darkfi-go/darkfi/log"
)

// Version is overridden at build time via -ldflags "-X main.Version=...".
var Version = "0.1.0-dev"

var logger = log.NewModuleLogger(log.Cmd)

var (
	configFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	dataDirFlag = cli.StringFlag{
		Name:  "datadir",
		Usage: "Directory for the event-graph badger store",
	}
	logLevelFlag = cli.StringFlag{
		Name:  "loglevel",
		Usage: "Minimum log level (debug, info, warn, error)",
	}
	rotationHoursFlag = cli.IntFlag{
		Name:  "eventgraph.rotation-hours",
		Usage: "Event-graph DAG rotation period in hours (0 disables rotation)",
	}
	miningFlag = cli.BoolFlag{
		Name:  "mining",
		Usage: "Start the local RandomX mining driver",
	}
	miningThreadsFlag = cli.IntFlag{
		Name:  "mining.threads",
		Usage: "Number of RandomX worker threads",
	}
	metricsFlag = cli.BoolFlag{
		Name:  "metrics",
		Usage: "Serve the go-metrics registry over HTTP as Prometheus metrics",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics.addr",
		Usage: "Listen address for the Prometheus /metrics endpoint",
	}
)

// daemonFlags is shared between the app's top-level flag set and the
// dumpconfig subcommand, so both see the same CLI surface.
var daemonFlags = []cli.Flag{
	configFileFlag,
	dataDirFlag,
	logLevelFlag,
	rotationHoursFlag,
	miningFlag,
	miningThreadsFlag,
	metricsFlag,
	metricsAddrFlag,
}

var app = cli.NewApp()

func init() {
	app.Name = "darkfid"
	app.Usage = "DarkFi node daemon"
	app.Version = Version
	app.Flags = daemonFlags
	app.Commands = []cli.Command{
		dumpConfigCommand,
	}
	app.Action = run
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
