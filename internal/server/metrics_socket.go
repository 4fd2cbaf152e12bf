/*
 * Metrics socket - metrics, liveness and readiness endpoints.
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
package server

import (
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// MetricsSocket represents the socket that serves the metrics, as well as
// the liveness and readiness probes.
type MetricsSocket struct {
	status *Status
	reg    *prometheus.Registry
}

// NewMetricsSocket initializes a new MetricsSocket instance serving the
// metrics of reg.
func NewMetricsSocket(status *Status, reg *prometheus.Registry) *MetricsSocket {
	return &MetricsSocket{
		status: status,
		reg:    reg,
	}
}

// answer writes the status text of 200/OK when ok is set and of 503/Service
// Unavailable otherwise, followed by detail if any.
func answer(w http.ResponseWriter, probe string, ok bool, detail string) {
	text := http.StatusText(http.StatusOK)
	if !ok {
		w.WriteHeader(http.StatusServiceUnavailable)
		text = http.StatusText(http.StatusServiceUnavailable)
		if detail != "" {
			text += ": " + detail
		}
	}
	if _, err := w.Write([]byte(text)); err != nil {
		log.Warnf("Could not answer to a %s probe: %s", probe, err.Error())
	}
}

// livenessHandler checks if the manager is healthy.
func (s MetricsSocket) livenessHandler(w http.ResponseWriter, r *http.Request) {
	answer(w, "liveness", s.status.IsHealthy(), "")
}

// readinessHandler checks if the manager is ready. While it is not, the
// answer tells why.
func (s MetricsSocket) readinessHandler(w http.ResponseWriter, r *http.Request) {
	answer(w, "readiness", s.status.IsReady(), s.status.Reason())
}

// healthzHandler checks if the manager is live AND ready.
func (s MetricsSocket) healthzHandler(w http.ResponseWriter, r *http.Request) {
	answer(w, "healthz", s.status.IsHealthy() && s.status.IsReady(), s.status.Reason())
}

// handler returns the routes of the socket.
func (s *MetricsSocket) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.readinessHandler)
	mux.HandleFunc("/ready", s.readinessHandler)
	mux.HandleFunc("/health", s.livenessHandler)
	mux.HandleFunc("/healthz", s.healthzHandler)
	mux.Handle("/metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{Registry: s.reg}))
	return mux
}

// Start starts the exposed endpoints server.
func (s *MetricsSocket) Start(startedChan chan struct{}, options SocketOptions) {
	address := options.GetMetricsAddress()

	srv := &http.Server{
		Addr:         address,
		Handler:      s.handler(),
		ReadTimeout:  options.GetReadTimeout(),
		WriteTimeout: options.GetWriteTimeout(),
	}

	l, err := net.Listen("tcp", address)
	if err != nil {
		log.Fatal(err)
	}

	if startedChan != nil {
		startedChan <- struct{}{}
	}

	if err := srv.Serve(l); err != nil {
		log.Fatal(err)
	}
}
