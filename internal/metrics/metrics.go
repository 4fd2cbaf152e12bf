/*
 * Metrics - OpenMetrics implementation.
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
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// metrics instance
var (
	metrics     *OpenMetrics
	metricsLock sync.Mutex
)

type OpenMetrics struct {
	registry *prometheus.Registry

	successfulRemoteCallsTotal *prometheus.CounterVec
	failedRemoteCallsTotal     *prometheus.CounterVec
	remoteDelayHist            *prometheus.HistogramVec

	commitsTotal    *prometheus.CounterVec
	discoveredZones *prometheus.GaugeVec
}

// GetOpenMetricsInstance returns the current OpenMetrics instance or creates a
// new one if required.
func GetOpenMetricsInstance() *OpenMetrics {
	metricsLock.Lock()
	defer metricsLock.Unlock()
	if metrics == nil {
		reg := prometheus.NewRegistry()
		metrics = &OpenMetrics{
			registry: reg,
			successfulRemoteCallsTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "successful_remote_calls_total",
					Help: "The number of successful calls to the name server host",
				},
				[]string{"action"},
			),
			failedRemoteCallsTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "failed_remote_calls_total",
					Help: "The number of calls to the name server host that returned an error",
				},
				[]string{"action"},
			),
			remoteDelayHist: prometheus.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "remote_delay_hist",
					Help:    "Histogram of the delay in milliseconds when calling the name server host",
					Buckets: []float64{10, 100, 250, 500, 1000, 1500, 2000, 5000},
				},
				[]string{"action"},
			),
			commitsTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "zone_commits_total",
					Help: "The number of zone commits by last stage and result",
				},
				[]string{"stage", "result"},
			),
			discoveredZones: prometheus.NewGaugeVec(
				prometheus.GaugeOpts{
					Name: "discovered_zones",
					Help: "The number of editable zones found on a server target",
				},
				[]string{"target"},
			),
		}
		reg.MustRegister(metrics.successfulRemoteCallsTotal)
		reg.MustRegister(metrics.failedRemoteCallsTotal)
		reg.MustRegister(metrics.remoteDelayHist)
		reg.MustRegister(metrics.commitsTotal)
		reg.MustRegister(metrics.discoveredZones)
	}
	return metrics
}

// getLabels builds the label map.
func getLabels(action string) prometheus.Labels {
	return prometheus.Labels{"action": action}
}

// GetRegistry returns the registry the metrics are registered to.
func (m OpenMetrics) GetRegistry() *prometheus.Registry {
	return m.registry
}

// IncSuccessfulRemoteCallsTotal increments the successful_remote_calls_total
// counter.
func (m *OpenMetrics) IncSuccessfulRemoteCallsTotal(action string) {
	m.successfulRemoteCallsTotal.With(getLabels(action)).Inc()
}

// IncFailedRemoteCallsTotal increments the failed_remote_calls_total counter.
func (m *OpenMetrics) IncFailedRemoteCallsTotal(action string) {
	m.failedRemoteCallsTotal.With(getLabels(action)).Inc()
}

// AddRemoteDelayHist records the duration of a remote call.
func (m *OpenMetrics) AddRemoteDelayHist(action string, delay int64) {
	m.remoteDelayHist.With(getLabels(action)).Observe(float64(delay))
}

// IncCommitsTotal counts a finished commit run.
func (m *OpenMetrics) IncCommitsTotal(stage, result string) {
	m.commitsTotal.With(prometheus.Labels{"stage": stage, "result": result}).Inc()
}

// SetDiscoveredZones sets the value for the discovered_zones gauge.
func (m *OpenMetrics) SetDiscoveredZones(target string, num int) {
	m.discoveredZones.With(prometheus.Labels{"target": target}).Set(float64(num))
}

// DeleteDiscoveredZones drops the gauge of a removed target.
func (m *OpenMetrics) DeleteDiscoveredZones(target string) {
	m.discoveredZones.Delete(prometheus.Labels{"target": target})
}
