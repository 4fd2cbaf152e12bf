/*
 * Options - listening sockets of the zone manager.
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
	"fmt"
	"time"
)

// SocketOptions contains the argument passed as environment variables that
// influence the sockets.
type SocketOptions struct {
	// REST API host
	APIHost string `env:"API_HOST" envDefault:"localhost"`
	// REST API port
	APIPort uint16 `env:"API_PORT" envDefault:"8888"`
	// Metrics, liveness and readiness host
	MetricsHost string `env:"METRICS_HOST" envDefault:"0.0.0.0"`
	// Metrics, liveness and readiness port
	MetricsPort uint16 `env:"METRICS_PORT" envDefault:"8080"`
	// Read timeout in milliseconds
	ReadTimeout int `env:"READ_TIMEOUT" envDefault:"60000"`
	// Write timeout in milliseconds
	WriteTimeout int `env:"WRITE_TIMEOUT" envDefault:"60000"`
}

// GetAPIAddress returns the REST API address as "host:port".
func (o SocketOptions) GetAPIAddress() string {
	return fmt.Sprintf("%s:%d", o.APIHost, o.APIPort)
}

// GetMetricsAddress returns the address of the metrics socket as
// "host:port".
func (o SocketOptions) GetMetricsAddress() string {
	return fmt.Sprintf("%s:%d", o.MetricsHost, o.MetricsPort)
}

// GetReadTimeout returns the read timeout.
func (o SocketOptions) GetReadTimeout() time.Duration {
	return time.Duration(o.ReadTimeout) * time.Millisecond
}

// GetWriteTimeout returns the write timeout. Commits wait for the remote
// host, so it should exceed the remote timeout.
func (o SocketOptions) GetWriteTimeout() time.Duration {
	return time.Duration(o.WriteTimeout) * time.Millisecond
}
