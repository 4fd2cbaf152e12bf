/*
 * Serializer - Test suite.
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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Serialize_roundTrip(t *testing.T) {
	type testCase struct {
		name   string
		input  string
		origin string
	}

	run := func(t *testing.T, tc testCase) {
		z := mustParse(t, tc.input, tc.origin)
		assert.Equal(t, tc.input, Serialize(z))
		// a second pass is stable as well
		z2 := mustParse(t, Serialize(z), tc.origin)
		assert.Equal(t, tc.input, Serialize(z2))
	}

	testCases := []testCase{
		{name: "exported zonefile", input: testMiniZonefile, origin: testMiniOrigin},
		{name: "hand written zonefile", input: testZonefile, origin: testOrigin},
		{name: "bare zonefile", input: testBareZonefile, origin: testOrigin},
		{
			name:   "no trailing newline",
			input:  strings.TrimSuffix(testBareZonefile, "\n"),
			origin: testOrigin,
		},
		{
			name:   "windows line endings",
			input:  strings.ReplaceAll(testBareZonefile, "\n", "\r\n"),
			origin: testOrigin,
		},
		{
			name:   "blank lines and comments at the end",
			input:  testBareZonefile + "\n; end of zone\n\n",
			origin: testOrigin,
		},
		{
			name: "escaped characters",
			input: testBareZonefile +
				"txt\tIN\tTXT\t\"say \\\"hi\\\"; ok\"\n" +
				"semi\\;colon\tIN\tA\t192.0.2.99\n",
			origin: testOrigin,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			run(t, tc)
		})
	}
}

func Test_Zone_SetSerial(t *testing.T) {
	z := mustParse(t, testZonefile, testOrigin)
	c := z.Clone()
	c.SetSerial(2026011842)

	expected := strings.Replace(testZonefile, "2026011801", "2026011842", 1)
	assert.Equal(t, expected, Serialize(c))
	assert.Equal(t, uint32(2026011842), c.SOA().Serial)
	// the clone does not share the SOA with the original
	assert.Equal(t, testZonefile, Serialize(z))

	c.SetSerial(7)
	expected = strings.Replace(testZonefile, "2026011801", "7", 1)
	assert.Equal(t, expected, Serialize(c))
	reparsed := mustParse(t, Serialize(c), testOrigin)
	assert.Equal(t, uint32(7), reparsed.SOA().Serial)
}

func Test_Zone_BumpSerial(t *testing.T) {
	z := mustParse(t, testBareZonefile, testOrigin)
	sn := z.BumpSerial(SerialDate, fixedNow)
	assert.Equal(t, uint32(2026011802), sn)
	assert.Contains(t, Serialize(z), "hostmaster.example.com. 2026011802 3600")

	sn = z.BumpSerial(SerialIncrement, fixedNow)
	assert.Equal(t, uint32(2026011803), sn)
}

func Test_renderSOA(t *testing.T) {
	s := SOA{
		Name:       "@",
		TTL:        3600,
		HasTTL:     true,
		PrimaryNS:  "ns1.example.com.",
		AdminEmail: "admin.example.com.",
		Serial:     2026011801,
		Refresh:    3600,
		Retry:      1800,
		Expire:     604800,
		Minimum:    86400,
	}
	expected := "@\t3600\tIN\tSOA\tns1.example.com. admin.example.com. (\n" +
		"\t\t\t\t2026011801 ; serial\n" +
		"\t\t\t\t3600       ; refresh\n" +
		"\t\t\t\t1800       ; retry\n" +
		"\t\t\t\t604800     ; expire\n" +
		"\t\t\t\t86400      ; minimum\n" +
		"\t\t\t\t)"
	assert.Equal(t, expected, renderSOA(s))
}

func Test_formatRecord(t *testing.T) {
	type testCase struct {
		name     string
		input    *Record
		expected string
	}

	run := func(t *testing.T, tc testCase) {
		assert.Equal(t, tc.expected, formatRecord(tc.input, 300))
	}

	testCases := []testCase{
		{
			name:     "relative owner with inherited ttl",
			input:    &Record{Type: TypeA, Values: []string{"192.0.2.1"}, fqdn: "www.example.com.", origin: "example.com."},
			expected: "www\t300\tIN\tA\t192.0.2.1",
		},
		{
			name:     "apex with explicit ttl",
			input:    &Record{Type: TypeMX, TTL: 60, HasTTL: true, Values: []string{"10", "mail.example.com."}, fqdn: "example.com.", origin: "example.com."},
			expected: "@\t60\tIN\tMX\t10 mail.example.com.",
		},
		{
			name:     "owner outside the current origin",
			input:    &Record{Type: TypeA, Class: "IN", Values: []string{"192.0.2.2"}, fqdn: "www.example.com.", origin: "sub.example.com."},
			expected: "www.example.com.\t300\tIN\tA\t192.0.2.2",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			run(t, tc)
		})
	}
}
