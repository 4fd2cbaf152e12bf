/*
 * Create - Test suite.
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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// soaBlock is the SOA written for new zones on the test day.
const soaBlock = "@\t3600\tIN\tSOA\tns1.example.com. admin.example.com. (\n" +
	"\t\t\t\t2026011801 ; serial\n" +
	"\t\t\t\t3600       ; refresh\n" +
	"\t\t\t\t1800       ; retry\n" +
	"\t\t\t\t604800     ; expire\n" +
	"\t\t\t\t86400      ; minimum\n" +
	"\t\t\t\t)\n"

func Test_CreateZone(t *testing.T) {
	type testCase struct {
		name     string
		input    ZoneParams
		expected struct {
			text string
			err  error
		}
	}

	run := func(t *testing.T, tc testCase) {
		exp := tc.expected
		tc.input.Now = fixedNow
		text, err := CreateZone(tc.input)
		if assertError(t, exp.err, err) {
			var ve *ValidationError
			assert.True(t, errors.As(err, &ve))
			return
		}
		assert.Equal(t, exp.text, text)
	}

	type exp = struct {
		text string
		err  error
	}

	testCases := []testCase{
		{
			name: "name server inside the zone",
			input: ZoneParams{
				Name:        "example.com",
				PrimaryNS:   "ns1.example.com",
				AdminEmail:  "admin@example.com",
				NSIPAddress: "203.0.113.5",
			},
			expected: exp{text: soaBlock +
				"$TTL 3600\n" +
				"@\t3600\tIN\tNS\tns1.example.com.\n" +
				"ns1\t3600\tIN\tA\t203.0.113.5\n"},
		},
		{
			name: "external name server without address",
			input: ZoneParams{
				Name:       "example.com",
				PrimaryNS:  "ns1.externaldns.net",
				AdminEmail: "admin@example.com",
			},
			expected: exp{text: "@\t3600\tIN\tSOA\tns1.externaldns.net. admin.example.com. (\n" +
				soaBlock[len("@\t3600\tIN\tSOA\tns1.example.com. admin.example.com. (\n"):] +
				"$TTL 3600\n" +
				"@\t3600\tIN\tNS\tns1.externaldns.net.\n"},
		},
		{
			name: "external name server ignores the address",
			input: ZoneParams{
				Name:        "example.com.",
				PrimaryNS:   "ns1.externaldns.net.",
				AdminEmail:  "admin.example.com",
				NSIPAddress: "not an address",
			},
			expected: exp{text: "@\t3600\tIN\tSOA\tns1.externaldns.net. admin.example.com. (\n" +
				soaBlock[len("@\t3600\tIN\tSOA\tns1.example.com. admin.example.com. (\n"):] +
				"$TTL 3600\n" +
				"@\t3600\tIN\tNS\tns1.externaldns.net.\n"},
		},
		{
			name: "missing glue address",
			input: ZoneParams{
				Name:       "example.com",
				PrimaryNS:  "ns1.example.com",
				AdminEmail: "admin@example.com",
			},
			expected: exp{err: errors.New("invalid nsIpAddress: required when the name server is inside the zone")},
		},
		{
			name: "octet out of range",
			input: ZoneParams{
				Name:        "example.com",
				PrimaryNS:   "ns1.example.com",
				AdminEmail:  "admin@example.com",
				NSIPAddress: "203.0.113.256",
			},
			expected: exp{err: errors.New(`invalid nsIpAddress: "203.0.113.256" is not a valid IPv4 address`)},
		},
		{
			name: "three octets",
			input: ZoneParams{
				Name:        "example.com",
				PrimaryNS:   "ns1.example.com",
				AdminEmail:  "admin@example.com",
				NSIPAddress: "203.0.113",
			},
			expected: exp{err: errors.New(`invalid nsIpAddress: "203.0.113" is not a valid IPv4 address`)},
		},
		{
			name: "ipv6 glue",
			input: ZoneParams{
				Name:        "example.com",
				PrimaryNS:   "ns1.example.com",
				AdminEmail:  "admin@example.com",
				NSIPAddress: "2001:db8::53",
			},
			expected: exp{err: errors.New(`invalid nsIpAddress: "2001:db8::53" is not a valid IPv4 address`)},
		},
		{
			name: "bad e-mail",
			input: ZoneParams{
				Name:       "example.com",
				PrimaryNS:  "ns1.externaldns.net",
				AdminEmail: "admin@",
			},
			expected: exp{err: errors.New(`invalid adminEmail: "admin@" is not a valid e-mail address`)},
		},
		{
			name: "single label name server",
			input: ZoneParams{
				Name:       "example.com",
				PrimaryNS:  "ns1",
				AdminEmail: "admin@example.com",
			},
			expected: exp{err: errors.New(`invalid primaryNS: "ns1" is not a fully qualified name server`)},
		},
		{
			name: "root zone",
			input: ZoneParams{
				Name:       ".",
				PrimaryNS:  "ns1.example.com",
				AdminEmail: "admin@example.com",
			},
			expected: exp{err: errors.New(`invalid name: "." is not a valid zone name`)},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			run(t, tc)
		})
	}
}

func Test_BuildZone(t *testing.T) {
	z, err := BuildZone(ZoneParams{
		Name:        "Example.COM",
		PrimaryNS:   "ns1.example.com.",
		AdminEmail:  "first.last@example.com",
		NSIPAddress: "203.0.113.5",
		Now:         fixedNow,
		TTL:         600,
	})
	require.NoError(t, err)

	assert.Equal(t, "example.com.", z.Origin())
	assert.False(t, z.Dirty())
	soa := z.SOA()
	assert.Equal(t, uint32(2026011801), soa.Serial)
	assert.Equal(t, `first\.last.example.com.`, soa.AdminEmail)
	assert.Equal(t, uint32(600), soa.TTL)
	assert.Equal(t, []string{"example.com.|NS|0", "ns1.example.com.|A|0"}, recordIDs(z))

	// the new zone is protected like any other
	_, err = DeleteRecord(z, "example.com.|NS|0")
	var pe *ProtectedRecordError
	assert.True(t, errors.As(err, &pe))

	// and it round trips
	text := Serialize(z)
	assert.Equal(t, text, Serialize(mustParse(t, text, "example.com")))
}
