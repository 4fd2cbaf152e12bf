/*
 * Create - initial zonefile for a new zone.
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
	"fmt"
	"net/netip"
	"strings"
	"time"

	"github.com/miekg/dns"
)

// Default SOA timers of new zones.
const (
	DefaultZoneTTL = 3600
	DefaultRefresh = 3600
	DefaultRetry   = 1800
	DefaultExpire  = 604800
	DefaultMinimum = 86400
)

// ZoneParams holds the input of a new zone. Zero timers take the defaults.
type ZoneParams struct {
	Name       string
	PrimaryNS  string
	AdminEmail string
	// NSIPAddress is the IPv4 address of the glue record, required only when
	// PrimaryNS is inside the zone.
	NSIPAddress string
	Now         time.Time
	TTL         uint32
	Refresh     uint32
	Retry       uint32
	Expire      uint32
	Minimum     uint32
}

// withDefaults fills the zero fields.
func (p ZoneParams) withDefaults() ZoneParams {
	if p.Now.IsZero() {
		p.Now = time.Now()
	}
	def := func(v *uint32, d uint32) {
		if *v == 0 {
			*v = d
		}
	}
	def(&p.TTL, DefaultZoneTTL)
	def(&p.Refresh, DefaultRefresh)
	def(&p.Retry, DefaultRetry)
	def(&p.Expire, DefaultExpire)
	def(&p.Minimum, DefaultMinimum)
	return p
}

// mailbox converts an e-mail address into the SOA RNAME form. Dots in the
// local part are escaped.
func mailbox(email string) (string, error) {
	email = strings.TrimSpace(email)
	local, domain, found := strings.Cut(email, "@")
	if !found {
		if _, ok := dns.IsDomainName(email); !ok || email == "" {
			return "", invalid("adminEmail", "%q is not a valid mailbox", email)
		}
		return dns.Fqdn(email), nil
	}
	if local == "" || domain == "" || strings.Contains(domain, "@") {
		return "", invalid("adminEmail", "%q is not a valid e-mail address", email)
	}
	mb := strings.ReplaceAll(local, ".", `\.`) + "." + dns.Fqdn(domain)
	if _, ok := dns.IsDomainName(mb); !ok {
		return "", invalid("adminEmail", "%q is not a valid e-mail address", email)
	}
	return mb, nil
}

// glueAddress validates the address of an in-zone name server.
func glueAddress(ip string) (string, error) {
	if ip == "" {
		return "", invalid("nsIpAddress", "required when the name server is inside the zone")
	}
	a, err := netip.ParseAddr(ip)
	if err != nil || !a.Is4() {
		return "", invalid("nsIpAddress", "%q is not a valid IPv4 address", ip)
	}
	return a.String(), nil
}

// BuildZone returns the zone described by p: the SOA with a date serial, the
// apex NS record and, when the name server lives inside the zone, its glue A
// record.
func BuildZone(p ZoneParams) (*Zone, error) {
	p = p.withDefaults()
	if !validDomain(p.Name) || dns.CountLabel(p.Name) == 0 {
		return nil, invalid("name", "%q is not a valid zone name", p.Name)
	}
	origin := dns.CanonicalName(p.Name)
	ns := strings.TrimSpace(p.PrimaryNS)
	if !dns.IsFqdn(ns) && dns.CountLabel(ns) > 1 {
		// a host name on its own is taken as absolute
		ns = dns.Fqdn(ns)
	}
	ns, err := targetName("primaryNS", ns)
	if err != nil || ns == "." {
		return nil, invalid("primaryNS", "%q is not a fully qualified name server", p.PrimaryNS)
	}
	rname, err := mailbox(p.AdminEmail)
	if err != nil {
		return nil, err
	}
	lines := []string{
		renderSOA(SOA{
			Name:       "@",
			TTL:        p.TTL,
			HasTTL:     true,
			PrimaryNS:  ns,
			AdminEmail: rname,
			Serial:     InitialSerial(p.Now),
			Refresh:    p.Refresh,
			Retry:      p.Retry,
			Expire:     p.Expire,
			Minimum:    p.Minimum,
		}),
		fmt.Sprintf("$TTL %d", p.TTL),
		formatRecord(&Record{Type: TypeNS, TTL: p.TTL, HasTTL: true, Values: []string{ns}, fqdn: origin, origin: origin}, p.TTL),
	}
	if dns.IsSubDomain(origin, dns.CanonicalName(ns)) {
		ip, err := glueAddress(strings.TrimSpace(p.NSIPAddress))
		if err != nil {
			return nil, err
		}
		glue := &Record{Type: TypeA, TTL: p.TTL, HasTTL: true, Values: []string{ip}, fqdn: dns.CanonicalName(ns), origin: origin}
		lines = append(lines, formatRecord(glue, p.TTL))
	}
	return Parse(strings.Join(lines, "\n")+"\n", origin)
}

// CreateZone returns the text of a new zonefile.
func CreateZone(p ZoneParams) (string, error) {
	z, err := BuildZone(p)
	if err != nil {
		return "", err
	}
	return Serialize(z), nil
}
