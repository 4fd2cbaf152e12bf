/*
 * Main - BIND zone manager entry point.
 *
 * Copyright 2026 Marco Confalonieri.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bind-dns-manager/cmd/bindmanager/init/configuration"
	"bind-dns-manager/cmd/bindmanager/init/logging"
	apiserver "bind-dns-manager/cmd/bindmanager/init/server"
	"bind-dns-manager/cmd/bindmanager/init/store"
	"bind-dns-manager/internal/api"
	"bind-dns-manager/internal/commit"
	"bind-dns-manager/internal/metrics"
	"bind-dns-manager/internal/registry"
	"bind-dns-manager/internal/server"
	"bind-dns-manager/internal/validation"

	log "github.com/sirupsen/logrus"
)

const banner = `
  _     _           _
 | |__ (_)_ __   __| |  _ __ ___   __ _ _ __
 | '_ \| | '_ \ / _' | | '_ ' _ \ / _' | '__|
 | |_) | | | | | (_| | | | | | | | (_| | |
 |_.__/|_|_| |_|\__,_| |_| |_| |_|\__, |_|
                                  |___/
 bind-dns-manager
 version: %s (%s)

`

var (
	Version = "local"
	Gitsha  = "?"
)

var (
	// notify requires the SIGINT and SIGTERM signals to be sent to the caller.
	notify = func(sig chan os.Signal) {
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	}
)

// healthStatus is the interface used by waitForSignal.
type healthStatus interface {
	SetHealthy(bool)
	SetNotReady(string)
}

// waitForSignal waits for a SIGTERM or a SIGINT and then marks the manager
// as going down.
func waitForSignal(status healthStatus) {
	exitSignal := make(chan os.Signal, 1)
	notify(exitSignal)
	signal := <-exitSignal

	log.Infof("Signal %s received. Shutting down the zone manager.", signal.String())
	status.SetHealthy(false)
	status.SetNotReady("shutting down")
}

// main function
func main() {
	fmt.Printf(banner, Version, Gitsha)
	config := configuration.Init()
	logging.Init(config.LogLevel, config.LogFormat)

	// Start the metrics and probes socket
	status := &server.Status{}
	status.SetNotReady("starting")
	log.Infof("Starting metrics, liveness and readiness server on %s", config.Sockets.GetMetricsAddress())
	metricsSocket := server.NewMetricsSocket(status, metrics.GetOpenMetricsInstance().GetRegistry())
	go metricsSocket.Start(nil, config.Sockets)

	targets, closeStore, err := store.Open(config.DBURL)
	if err != nil {
		log.Fatal(err)
	}
	defer closeStore()
	reg := registry.New(targets, registry.NewDialer(config.ConnectTimeout))
	if _, err := store.Bootstrap(context.Background(), reg, config); err != nil {
		log.Fatal(err)
	}

	gateway, err := validation.New(config.Validation())
	if err != nil {
		log.Fatal(err)
	}
	orchestrator := commit.New(gateway, config.Commit())
	a := api.New(reg, orchestrator, api.Options{ZoneDir: config.ZoneDir, DefaultTTL: config.DefaultTTL})

	log.Infof("Starting API server on %s", config.Sockets.GetAPIAddress())
	srv, err := apiserver.Init(config.Sockets, a)
	if err != nil {
		log.Fatal(err)
	}
	status.SetHealthy(true)
	status.SetReady()

	// Waits until a signal tells us to exit
	waitForSignal(status)
	apiserver.Shutdown(srv)
}
