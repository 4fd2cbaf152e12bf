/*
 * Metrics - Unit tests.
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
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

const (
	testAction = "test_action"
	testTarget = "srv-alpha"
)

func Test_GetOpenMetricsInstance(t *testing.T) {
	type testCase struct {
		name    string
		metrics *OpenMetrics
	}

	run := func(t *testing.T, tc testCase) {
		metrics = tc.metrics
		actual := GetOpenMetricsInstance()
		if tc.metrics != nil {
			assert.Same(t, tc.metrics, actual)
		} else {
			assert.NotNil(t, actual)
			assert.NotNil(t, actual.GetRegistry())
		}
	}

	testCases := []testCase{
		{
			name:    "new instance required",
			metrics: nil,
		},
		{
			name:    "existing instance",
			metrics: &OpenMetrics{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			run(t, tc)
		})
	}
	metrics = nil
}

func Test_OpenMetrics_IncSuccessfulRemoteCallsTotal(t *testing.T) {
	metrics = nil
	expected := float64(1)

	GetOpenMetricsInstance().IncSuccessfulRemoteCallsTotal(testAction)
	actual := testutil.ToFloat64(metrics.successfulRemoteCallsTotal)

	assert.Equal(t, expected, actual)
}

func Test_OpenMetrics_IncFailedRemoteCallsTotal(t *testing.T) {
	metrics = nil
	expected := float64(1)

	GetOpenMetricsInstance().IncFailedRemoteCallsTotal(testAction)
	actual := testutil.ToFloat64(metrics.failedRemoteCallsTotal)

	assert.Equal(t, expected, actual)
}

func Test_OpenMetrics_AddRemoteDelayHist(t *testing.T) {
	metrics = nil

	GetOpenMetricsInstance().AddRemoteDelayHist(testAction, 120)

	assert.Equal(t, 1, testutil.CollectAndCount(metrics.remoteDelayHist))
}

func Test_OpenMetrics_IncCommitsTotal(t *testing.T) {
	metrics = nil

	m := GetOpenMetricsInstance()
	m.IncCommitsTotal("done", "ok")
	m.IncCommitsTotal("done", "ok")
	m.IncCommitsTotal("validating", "failed")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.commitsTotal.WithLabelValues("done", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.commitsTotal.WithLabelValues("validating", "failed")))
}

func Test_OpenMetrics_SetDiscoveredZones(t *testing.T) {
	metrics = nil
	const val = 5
	expected := float64(val)

	m := GetOpenMetricsInstance()
	m.SetDiscoveredZones(testTarget, val)
	actual := testutil.ToFloat64(m.discoveredZones.WithLabelValues(testTarget))
	assert.Equal(t, expected, actual)

	m.DeleteDiscoveredZones(testTarget)
	assert.Equal(t, 0, testutil.CollectAndCount(m.discoveredZones))
}
