/*
 * Logging - Test suite.
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
package logging

import (
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func Test_Configure(t *testing.T) {
	type testCase struct {
		name     string
		level    string
		format   string
		expected struct {
			level log.Level
			json  bool
			error string
		}
	}
	type exp = struct {
		level log.Level
		json  bool
		error string
	}

	run := func(t *testing.T, tc testCase) {
		l := log.New()
		err := Configure(l, tc.level, tc.format)
		if tc.expected.error != "" {
			assert.EqualError(t, err, tc.expected.error)
		} else {
			assert.NoError(t, err)
		}
		assert.Equal(t, tc.expected.level, l.GetLevel())
		_, isJSON := l.Formatter.(*log.JSONFormatter)
		assert.Equal(t, tc.expected.json, isJSON)
	}

	testCases := []testCase{
		{
			name:     "defaults",
			expected: exp{level: log.InfoLevel},
		},
		{
			name:     "debug json",
			level:    "debug",
			format:   "JSON",
			expected: exp{level: log.DebugLevel, json: true},
		},
		{
			name:     "unknown level",
			level:    "chatty",
			format:   "text",
			expected: exp{level: log.InfoLevel, error: `not a valid logrus Level: "chatty"`},
		},
		{
			name:     "unknown format",
			level:    "warn",
			format:   "xml",
			expected: exp{level: log.WarnLevel, error: `not a valid log format: "xml"`},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			run(t, tc)
		})
	}
}
