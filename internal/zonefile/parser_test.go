/*
 * Parser - Test suite.
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

func Test_parseTTL(t *testing.T) {
	type testCase struct {
		name     string
		input    string
		expected struct {
			ttl uint32
			ok  bool
		}
	}

	run := func(t *testing.T, tc testCase) {
		exp := tc.expected
		ttl, ok := parseTTL(tc.input)
		assert.Equal(t, exp.ok, ok)
		assert.Equal(t, exp.ttl, ttl)
	}

	ok := func(v uint32) struct {
		ttl uint32
		ok  bool
	} {
		return struct {
			ttl uint32
			ok  bool
		}{ttl: v, ok: true}
	}

	testCases := []testCase{
		{name: "seconds", input: "3600", expected: ok(3600)},
		{name: "hours and minutes", input: "1h30m", expected: ok(5400)},
		{name: "upper case week", input: "1W", expected: ok(604800)},
		{name: "days", input: "2d", expected: ok(172800)},
		{name: "trailing seconds", input: "1m5", expected: ok(65)},
		{name: "word", input: "abc"},
		{name: "empty", input: ""},
		{name: "too large", input: "4294967296"},
		{name: "unknown unit", input: "10x"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			run(t, tc)
		})
	}
}

func Test_Parse_miniZonefile(t *testing.T) {
	z := mustParse(t, testMiniZonefile, "fastipletonis.eu")

	assert.Equal(t, testMiniOrigin, z.Origin())
	ttl, ok := z.DefaultTTL()
	assert.True(t, ok)
	assert.Equal(t, uint32(86400), ttl)

	soa := z.SOA()
	assert.Equal(t, "fastipletonis.eu.|SOA|0", soa.ID)
	assert.Equal(t, uint32(2025112009), soa.Serial)
	assert.Equal(t, "hydrogen.ns.hetzner.com.", soa.PrimaryNS)
	assert.Equal(t, "dns.hetzner.com.", soa.AdminEmail)
	assert.Equal(t, uint32(3600), soa.Minimum)
	assert.False(t, z.Dirty())

	assert.Equal(t, []string{
		"fastipletonis.eu.|NS|0",
		"fastipletonis.eu.|NS|1",
		"fastipletonis.eu.|NS|2",
		"fastipletonis.eu.|CAA|0",
		"fastipletonis.eu.|A|0",
		"www.fastipletonis.eu.|A|0",
	}, recordIDs(z))

	caa, ok := z.Record("fastipletonis.eu.|CAA|0")
	require.True(t, ok)
	assert.Equal(t, []string{"128", "issue", `"letsencrypt.org"`}, caa.Values)
	assert.Equal(t, "@", caa.Name)
	assert.Equal(t, 13, caa.Line)
}

func Test_Parse_testZonefile(t *testing.T) {
	z := mustParse(t, testZonefile, testOrigin)

	assert.Equal(t, "example.com.", z.Origin())
	ttl, _ := z.DefaultTTL()
	assert.Equal(t, uint32(3600), ttl)

	soa := z.SOA()
	assert.Equal(t, "@", soa.Name)
	assert.Equal(t, uint32(2026011801), soa.Serial)
	assert.Equal(t, uint32(86400), soa.Refresh)
	assert.Equal(t, uint32(7200), soa.Retry)
	assert.Equal(t, uint32(2419200), soa.Expire)
	assert.Equal(t, uint32(3600), soa.Minimum)
	assert.Equal(t, 3, soa.Line)

	assert.Equal(t, []string{
		"example.com.|NS|0",
		"example.com.|NS|1",
		"ns1.example.com.|A|0",
		"www.example.com.|A|0",
		"www.example.com.|AAAA|0",
		"mail.example.com.|MX|0",
		"mail.example.com.|A|0",
		"txt.example.com.|TXT|0",
		"ftp.example.com.|CNAME|0",
		"host.sub.example.com.|CNAME|0",
		"#20",
		"#21",
	}, recordIDs(z))

	assert.Equal(t, []Directive{
		{Name: "$TTL", Args: []string{"1h"}, Line: 1},
		{Name: "$ORIGIN", Args: []string{"example.com."}, Line: 2},
		{Name: "$ORIGIN", Args: []string{"sub.example.com."}, Line: 18},
	}, z.Directives())

	type testCase struct {
		name     string
		id       string
		expected struct {
			name   string
			fqdn   string
			ttl    uint32
			hasTTL bool
			class  string
			values []string
			line   int
		}
	}

	run := func(t *testing.T, tc testCase) {
		exp := tc.expected
		r, ok := z.Record(tc.id)
		require.True(t, ok)
		assert.Equal(t, exp.name, r.Name)
		assert.Equal(t, exp.fqdn, r.FQDN())
		assert.Equal(t, exp.ttl, r.TTL)
		assert.Equal(t, exp.hasTTL, r.HasTTL)
		assert.Equal(t, exp.class, r.Class)
		assert.Equal(t, exp.values, r.Values)
		assert.Equal(t, exp.line, r.Line)
	}

	type exp = struct {
		name   string
		fqdn   string
		ttl    uint32
		hasTTL bool
		class  string
		values []string
		line   int
	}

	testCases := []testCase{
		{
			name:     "inherited apex owner",
			id:       "example.com.|NS|0",
			expected: exp{name: "@", fqdn: "example.com.", class: "IN", values: []string{"ns1"}, line: 9},
		},
		{
			name:     "no class and no ttl",
			id:       "ns1.example.com.|A|0",
			expected: exp{name: "ns1", fqdn: "ns1.example.com.", values: []string{"192.0.2.1"}, line: 11},
		},
		{
			name:     "explicit ttl",
			id:       "www.example.com.|A|0",
			expected: exp{name: "www", fqdn: "www.example.com.", ttl: 300, hasTTL: true, class: "IN", values: []string{"192.0.2.10"}, line: 12},
		},
		{
			name:     "inherited owner",
			id:       "www.example.com.|AAAA|0",
			expected: exp{name: "www", fqdn: "www.example.com.", class: "IN", values: []string{"2001:db8::10"}, line: 13},
		},
		{
			name:     "mx split in priority and exchange",
			id:       "mail.example.com.|MX|0",
			expected: exp{name: "mail", fqdn: "mail.example.com.", class: "IN", values: []string{"10", "mail.example.com."}, line: 14},
		},
		{
			name:     "txt keeps quoting",
			id:       "txt.example.com.|TXT|0",
			expected: exp{name: "txt", fqdn: "txt.example.com.", class: "IN", values: []string{`"v=spf1 -all"`, `"second ; part"`}, line: 16},
		},
		{
			name:     "owner under second origin",
			id:       "host.sub.example.com.|CNAME|0",
			expected: exp{name: "host.sub", fqdn: "host.sub.example.com.", class: "IN", values: []string{"www.example.com."}, line: 19},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			run(t, tc)
		})
	}

	weird, ok := z.Record("#20")
	require.True(t, ok)
	assert.True(t, weird.IsUnrecognized())
	assert.Equal(t, "weird.sub", weird.Name)
	assert.Equal(t, `weird   IN  HINFO "PC" "Linux"`, weird.RawLine)

	include, ok := z.Record("#21")
	require.True(t, ok)
	assert.True(t, include.IsUnrecognized())
	assert.Equal(t, "$INCLUDE /etc/bind/extra.zone", include.RawLine)
}

func Test_Parse_passthrough(t *testing.T) {
	text := testBareZonefile + "bad\tIN\tA\t999.1.1.1\nsvc\tIN\tSRV\t10 five 80 host.example.com.\n"
	z := mustParse(t, text, testOrigin)
	bad, ok := z.Record("#5")
	require.True(t, ok)
	assert.Equal(t, TypeUnknown, bad.Type)
	assert.Equal(t, "bad.example.com.", bad.FQDN())
	svc, ok := z.Record("#6")
	require.True(t, ok)
	assert.Equal(t, TypeUnknown, svc.Type)
	assert.Equal(t, text, Serialize(z))
}

func Test_Parse_errors(t *testing.T) {
	type testCase struct {
		name     string
		input    string
		origin   string
		expected error
	}

	run := func(t *testing.T, tc testCase) {
		origin := tc.origin
		if origin == "" {
			origin = testOrigin
		}
		z, err := Parse(tc.input, origin)
		assert.Nil(t, z)
		assertError(t, tc.expected, err)
		var pe *ParseError
		assert.True(t, errors.As(err, &pe))
	}

	testCases := []testCase{
		{
			name:     "missing SOA",
			input:    "$TTL 3600\nwww IN A 192.0.2.1\n",
			expected: errors.New("parse error at line 2: missing SOA record"),
		},
		{
			name:     "invalid $TTL",
			input:    "$TTL abc\n",
			expected: errors.New("parse error at line 1: invalid $TTL value \"abc\""),
		},
		{
			name:     "$ORIGIN without argument",
			input:    "$ORIGIN\n",
			expected: errors.New("parse error at line 1: $ORIGIN expects one argument"),
		},
		{
			name:     "unterminated parenthesis",
			input:    "@ IN SOA a. b. ( 1 2 3 4 5\n",
			expected: errors.New("parse error at line 1: unterminated '('"),
		},
		{
			name:     "unbalanced parenthesis",
			input:    "@ IN SOA a. b. 1 2 3 4 5 )\n",
			expected: errors.New("parse error at line 1: unbalanced ')'"),
		},
		{
			name:     "unterminated quote",
			input:    testBareZonefile + "txt IN TXT \"open\n",
			expected: errors.New("parse error at line 5: unterminated quoted string"),
		},
		{
			name:     "no previous owner",
			input:    "  IN A 192.0.2.1\n",
			expected: errors.New("parse error at line 1: record without owner name and no previous owner"),
		},
		{
			name:     "short SOA",
			input:    "@ IN SOA a. b. 1 2 3 4\n",
			expected: errors.New("parse error at line 1: SOA expects 7 fields, found 6"),
		},
		{
			name:     "bad SOA serial",
			input:    "@ IN SOA a. b. x 2 3 4 5\n",
			expected: errors.New("parse error at line 1: invalid SOA serial \"x\""),
		},
		{
			name:     "SOA outside apex",
			input:    "www IN SOA a. b. 1 2 3 4 5\n",
			expected: errors.New("parse error at line 1: SOA owner www.example.com. is not the zone apex example.com."),
		},
		{
			name:     "duplicate SOA",
			input:    testBareZonefile + "@ IN SOA a. b. 1 2 3 4 5\n",
			expected: errors.New("parse error at line 5: duplicate SOA record, first one at line 2"),
		},
		{
			name:     "missing type",
			input:    testBareZonefile + "www 300 IN\n",
			expected: errors.New("parse error at line 5: missing record type"),
		},
		{
			name:     "invalid origin",
			input:    testBareZonefile,
			origin:   "..",
			expected: errors.New("parse error at line 0: invalid origin \"..\""),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			run(t, tc)
		})
	}
}
