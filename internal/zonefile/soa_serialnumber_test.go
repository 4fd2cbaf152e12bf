/*
 * SOASerialNumber - Test suite.
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
package zonefile

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fixedNow is the reference day used by the serial tests.
var fixedNow = time.Date(2026, time.January, 18, 10, 30, 0, 0, time.UTC)

func Test_collectDate(t *testing.T) {
	type testCase struct {
		name     string
		input    string
		expected struct {
			datePart string
			err      error
		}
	}

	run := func(t *testing.T, tc testCase) {
		exp := tc.expected
		datePart, err := collectDate(tc.input, fixedNow)
		assertError(t, exp.err, err)
		assert.Equal(t, exp.datePart, datePart)
	}

	testCases := []testCase{
		{
			name:  "invalid serial number string",
			input: "AAAAAAAAAA",
			expected: struct {
				datePart string
				err      error
			}{
				err: errors.New("cannot parse date in serial number \"AAAAAAAAAA\""),
			},
		},
		{
			name:  "future serial number",
			input: "2026011901",
			expected: struct {
				datePart string
				err      error
			}{
				err: errors.New("unexpected date part \"20260119\" is in the future"),
			},
		},
		{
			name:  "today",
			input: "2026011803",
			expected: struct {
				datePart string
				err      error
			}{
				datePart: "20260118",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			run(t, tc)
		})
	}
}

func Test_NewSOASerialNumber(t *testing.T) {
	type testCase struct {
		name     string
		input    string
		expected struct {
			soaSerialNumber *SOASerialNumber
			err             error
		}
	}

	run := func(t *testing.T, tc testCase) {
		exp := tc.expected
		soaSerialNumber, err := NewSOASerialNumber(tc.input, fixedNow)
		assertError(t, exp.err, err)
		assert.Equal(t, exp.soaSerialNumber, soaSerialNumber)
	}

	testCases := []testCase{
		{
			name:  "empty string",
			input: "",
			expected: struct {
				soaSerialNumber *SOASerialNumber
				err             error
			}{
				err: errors.New("serial number \"\" is unsupported"),
			},
		},
		{
			name:  "unsupported version",
			input: "20260118-1",
			expected: struct {
				soaSerialNumber *SOASerialNumber
				err             error
			}{
				err: errors.New("version -1 is not supported"),
			},
		},
		{
			name:  "valid serial number",
			input: "2026011745",
			expected: struct {
				soaSerialNumber *SOASerialNumber
				err             error
			}{
				soaSerialNumber: &SOASerialNumber{date: "20260117", version: 45},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			run(t, tc)
		})
	}
}

func Test_SOASerialNumber_Inc(t *testing.T) {
	type testCase struct {
		name     string
		object   SOASerialNumber
		expected struct {
			err error
			obj SOASerialNumber
		}
	}

	run := func(t *testing.T, tc testCase) {
		exp := tc.expected
		obj := tc.object
		actual := obj.Inc(fixedNow)
		assertError(t, exp.err, actual)
		assert.Equal(t, exp.obj, obj)
	}

	testCases := []testCase{
		{
			name:   "update from past date",
			object: SOASerialNumber{date: "20201201", version: 50},
			expected: struct {
				err error
				obj SOASerialNumber
			}{
				obj: SOASerialNumber{date: "20260118", version: 1},
			},
		},
		{
			name:   "forbidden update",
			object: SOASerialNumber{date: "20260118", version: 99},
			expected: struct {
				err error
				obj SOASerialNumber
			}{
				err: errors.New("cannot increment version as it is 99"),
				obj: SOASerialNumber{date: "20260118", version: 99},
			},
		},
		{
			name:   "same date update",
			object: SOASerialNumber{date: "20260118", version: 45},
			expected: struct {
				err error
				obj SOASerialNumber
			}{
				obj: SOASerialNumber{date: "20260118", version: 46},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			run(t, tc)
		})
	}
}

func Test_SOASerialNumber_Uint32(t *testing.T) {
	sn, err := SOASerialNumber{date: "20201201", version: 5}.Uint32()
	assert.NoError(t, err)
	assert.Equal(t, uint32(2020120105), sn)

	_, err = SOASerialNumber{date: "50000101", version: 1}.Uint32()
	assert.EqualError(t, err, "serial number \"5000010101\" does not fit 32 bits")
}

func Test_ParseSerialScheme(t *testing.T) {
	s, err := ParseSerialScheme(" Date ")
	assert.NoError(t, err)
	assert.Equal(t, SerialDate, s)
	s, err = ParseSerialScheme("increment")
	assert.NoError(t, err)
	assert.Equal(t, SerialIncrement, s)
	_, err = ParseSerialScheme("epoch")
	assert.EqualError(t, err, "unknown serial scheme \"epoch\"")
}

func Test_SerialNewer(t *testing.T) {
	type testCase struct {
		name     string
		a, b     uint32
		expected bool
	}

	testCases := []testCase{
		{name: "greater", a: 2, b: 1, expected: true},
		{name: "equal", a: 7, b: 7, expected: false},
		{name: "smaller", a: 1, b: 2, expected: false},
		{name: "wrap around", a: 1, b: math.MaxUint32, expected: true},
		{name: "half range is not newer", a: 1 << 31, b: 0, expected: false},
		{name: "just under half range", a: 1<<31 - 1, b: 0, expected: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, SerialNewer(tc.a, tc.b))
		})
	}
}

func Test_NextSerial(t *testing.T) {
	type testCase struct {
		name     string
		current  uint32
		scheme   SerialScheme
		expected uint32
	}

	run := func(t *testing.T, tc testCase) {
		actual := NextSerial(tc.current, tc.scheme, fixedNow)
		assert.Equal(t, tc.expected, actual)
		assert.True(t, SerialNewer(actual, tc.current))
		assert.NotZero(t, actual)
	}

	testCases := []testCase{
		{name: "date same day", current: 2026011803, scheme: SerialDate, expected: 2026011804},
		{name: "date new day", current: 2026011507, scheme: SerialDate, expected: 2026011801},
		{name: "date from plain counter", current: 42, scheme: SerialDate, expected: 2026011801},
		{name: "date version exhausted", current: 2026011899, scheme: SerialDate, expected: 2026011900},
		{name: "date in the future", current: 2027010101, scheme: SerialDate, expected: 2027010102},
		{name: "date counter ahead of today", current: 4000000000, scheme: SerialDate, expected: 4000000001},
		{name: "date after the highest serial", current: math.MaxUint32, scheme: SerialDate, expected: 2026011801},
		{name: "increment", current: 41, scheme: SerialIncrement, expected: 42},
		{name: "increment wraps skipping zero", current: math.MaxUint32, scheme: SerialIncrement, expected: 1},
		{name: "increment from zero", current: 0, scheme: SerialIncrement, expected: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			run(t, tc)
		})
	}
}

func Test_NextSerial_monotonic(t *testing.T) {
	for _, scheme := range []SerialScheme{SerialDate, SerialIncrement} {
		sn := InitialSerial(fixedNow)
		now := fixedNow
		for i := 0; i < 300; i++ {
			if i%120 == 119 {
				now = now.Add(24 * time.Hour)
			}
			next := NextSerial(sn, scheme, now)
			assert.True(t, SerialNewer(next, sn), "%s: %d -> %d", scheme, sn, next)
			sn = next
		}
	}
}

func Test_InitialSerial(t *testing.T) {
	assert.Equal(t, uint32(2026011801), InitialSerial(fixedNow))
}
