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
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli"

	"github.com/darkfi-go/darkfi/blockchain/types"
	"github.com/darkfi-go/darkfi/common"
	"github.com/darkfi-go/darkfi/consensus/mining"
	"github.com/darkfi-go/darkfi/consensus/pow"
	"github.com/darkfi-go/darkfi/eventgraph/store"
	"github.com/darkfi-go/darkfi/eventgraph/sync"
	"github.com/darkfi-go/darkfi/log"
	"github.com/darkfi-go/darkfi/metrics"
)

var dumpConfigCommand = cli.Command{
	Name:  "dumpconfig",
	Usage: "Show the effective configuration (defaults + file + flags) as TOML",
	Flags: daemonFlags,
	Action: func(ctx *cli.Context) error {
		cfg, err := makeConfig(ctx)
		if err != nil {
			return err
		}
		out, err := tomlSettings.Marshal(&cfg)
		if err != nil {
			return err
		}
		os.Stdout.Write(out)
		return nil
	},
}

// noPeers is the default sync.PeerSource: it reports zero connected peers.
// TODO: once a transport dials networks/p2p/host.Registry's connected
// Channels and exposes them as sync.Peer over the eventgraph/wire codec,
// replace this with a real adapter so DagSync has a peer set to draw on.
type noPeers struct{}

func (noPeers) ConnectedPeers() []sync.Peer { return nil }

// run is the single-command Action: it wires the store, the event-graph
// sync/prune loops, the optional mining driver, and the metrics exporter,
// then blocks until interrupted, the same shape app.Before/app.Action
// gives cmd/kcn/main.go's node lifecycle.
func run(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	if err := log.SetLevel(cfg.LogLevel); err != nil {
		return err
	}

	logger.Info("starting darkfid", "datadir", cfg.DataDir, "version", Version)

	st, err := store.Open(cfg.DataDir, cfg.EventGraph.RotationHours)
	if err != nil {
		return err
	}
	defer st.Close()

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eg := sync.New(st, noPeers{}, time.Duration(cfg.EventGraph.SyncTimeoutSecs)*time.Second)
	go runEventGraphLoops(runCtx, eg)

	if cfg.Metrics.Enabled {
		go serveMetrics(cfg.Metrics.Addr)
	}

	var driver *mining.Driver
	if cfg.Mining.Enabled {
		driver = mining.NewDriver(cfg.Mining.Threads, pow.RecommendedFlags())
		driver.Start()
		go runMiningLoop(runCtx, driver, cfg.Mining.TargetSeconds)
		defer driver.Stop()
	}

	waitForShutdown()
	logger.Info("darkfid shutting down")
	return nil
}

// runEventGraphLoops drives the prune task and a periodic sync pass over
// the dagsPerSyncPass newest rotation DAGs, the background-loop shape
// work/worker.go gives its own update loop.
func runEventGraphLoops(ctx context.Context, eg *sync.EventGraph) {
	go func() {
		if err := eg.RunPruneTask(ctx); err != nil && ctx.Err() == nil {
			logger.Error("prune task exited", "err", err)
		}
	}()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := eg.SyncSelected(ctx, dagsPerSyncPass, false); err != nil {
				metrics.EventGraphSyncFails.Inc(1)
				logger.Warn("event graph sync failed", "err", err)
			}
		}
	}
}

// dagsPerSyncPass is the number of rotation DAGs synced per periodic pass.
const dagsPerSyncPass = 1

// runMiningLoop hands the driver one task at the local RandomX module's
// current target, then consumes its results until ctx is cancelled; no
// further tasks are sent. A full chain manager would supply
// the candidate header's previous hash, height, and transactions root;
// this daemon wiring exercises the driver's lifecycle against a
// single-height placeholder chain.
func runMiningLoop(ctx context.Context, driver *mining.Driver, targetSeconds int) {
	module := pow.NewModule(uint64(time.Now().Unix()), uint32(targetSeconds), nil, nil, common.Hash{})

	results := make(chan *mining.Result, 1)
	driver.SetReturnCh(results)

	target, err := module.NextMineTarget()
	if err != nil {
		logger.Error("failed to compute initial mining target", "err", err)
		return
	}

	header := &types.Header{Height: 0, Timestamp: uint64(time.Now().Unix())}
	driver.Work() <- &mining.Task{Header: header, Target: target, RxKey: common.Hash{}}

	for {
		select {
		case <-ctx.Done():
			return
		case res := <-results:
			metrics.MiningBlocksFound.Inc(1)
			logger.Info("mining driver found a candidate header", "nonce", res.Header.Nonce)
		}
	}
}

// serveMetrics registers the go-metrics bridge with a dedicated prometheus
// registry and serves it over HTTP, the same promhttp.Handler wiring
// cmd/kcn/main.go's app.Before installs.
func serveMetrics(addr string) {
	registry := prometheus.NewRegistry()
	if err := registry.Register(metrics.NewCollector()); err != nil {
		logger.Error("failed to register metrics collector", "err", err)
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	logger.Info("serving metrics", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics server stopped", "err", err)
	}
}

func waitForShutdown() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
}
