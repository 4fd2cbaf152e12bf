/*
 * Common - Test fixtures and helpers.
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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	// exported by a hosted DNS service, one record per line
	testMiniZonefile = `;; Exported on 2026-01-19T21:39:41Z
$ORIGIN	fastipletonis.eu.
$TTL	86400

@	3600	IN	SOA	hydrogen.ns.hetzner.com. dns.hetzner.com. 2025112009 86400 10800 3600000 3600

; NS records
@	3600	IN	NS	helium.ns.hetzner.de.
@	3600	IN	NS	hydrogen.ns.hetzner.com.
@	3600	IN	NS	oxygen.ns.hetzner.com.

; CAA records
@	3600	IN	CAA	128 issue "letsencrypt.org"

; A records
@	3600	IN	A	116.202.181.2
www	3600	IN	A	116.202.181.2
`
	testMiniOrigin = "fastipletonis.eu."

	// hand written, with parentheses, inherited owners and $ORIGIN changes
	testZonefile = `$TTL 1h
$ORIGIN example.com.
@   IN  SOA ns1.example.com. hostmaster.example.com. (
            2026011801 ; serial
            1d         ; refresh
            2h         ; retry
            4w         ; expire
            1h )       ; minimum
    IN  NS  ns1
    IN  NS  ns2.example.net.
ns1     A   192.0.2.1
www 300 IN  A   192.0.2.10
        IN  AAAA 2001:db8::10
mail    IN  MX  10 mail.example.com.
mail    IN  A   192.0.2.20
txt     IN  TXT "v=spf1 -all" "second ; part"
ftp     IN  CNAME www   ; legacy name
$ORIGIN sub.example.com.
host    IN  CNAME www.example.com.
weird   IN  HINFO "PC" "Linux"
$INCLUDE /etc/bind/extra.zone
`
	testOrigin = "example.com"

	// a zone holding only its SOA and NS
	testBareZonefile = `$TTL 3600
@	IN	SOA	ns1.example.com. hostmaster.example.com. 2026011801 3600 900 604800 300
@	IN	NS	ns1.example.com.
ns1	IN	A	192.0.2.1
`
)

// assertError checks expected and actual errors by message.
func assertError(t *testing.T, expected, actual error) bool {
	var expError bool
	if expected == nil {
		assert.Nil(t, actual)
		expError = false
	} else {
		assert.EqualError(t, actual, expected.Error())
		expError = true
	}
	return expError
}

// mustParse parses text or stops the test.
func mustParse(t *testing.T, text, origin string) *Zone {
	t.Helper()
	z, err := Parse(text, origin)
	require.NoError(t, err)
	return z
}

// recordIDs returns the ids of the records of z.
func recordIDs(z *Zone) []string {
	ids := []string{}
	for _, r := range z.Records() {
		ids = append(ids, r.ID)
	}
	return ids
}

// assertCNAMEExclusive checks that no owner has a CNAME and other records.
func assertCNAMEExclusive(t *testing.T, z *Zone) {
	t.Helper()
	types := map[string]map[RecordType]bool{z.Origin(): {TypeSOA: true}}
	for _, r := range z.Records() {
		if r.IsUnrecognized() {
			continue
		}
		if types[r.FQDN()] == nil {
			types[r.FQDN()] = map[RecordType]bool{}
		}
		types[r.FQDN()][r.Type] = true
	}
	for name, set := range types {
		if set[TypeCNAME] {
			assert.Len(t, set, 1, "CNAME at %s coexists with other records", name)
		}
	}
}
