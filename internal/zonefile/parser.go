/*
 * Parser - zonefile text to Zone.
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
	"regexp"
	"strconv"
	"strings"

	"github.com/miekg/dns"
	log "github.com/sirupsen/logrus"
)

// ttlRegexp matches BIND style TTL values such as 3600, 1h or 1w2d.
var ttlRegexp = regexp.MustCompile(`^(?i)(\d+[smhdw]?)+$`)

// caaTagRegexp matches CAA property tags.
var caaTagRegexp = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// classes recognised in the owner/ttl/class prefix.
var classes = map[string]bool{"IN": true, "CH": true, "HS": true, "CS": true}

// parseTTL decodes a TTL value in seconds or with BIND units.
func parseTTL(s string) (uint32, bool) {
	if !ttlRegexp.MatchString(s) {
		return 0, false
	}
	var total, cur uint64
	for _, c := range strings.ToLower(s) {
		if c >= '0' && c <= '9' {
			cur = cur*10 + uint64(c-'0')
			if cur > 0xFFFFFFFF {
				return 0, false
			}
			continue
		}
		mult := map[rune]uint64{'s': 1, 'm': 60, 'h': 3600, 'd': 86400, 'w': 604800}[c]
		total += cur * mult
		cur = 0
	}
	total += cur
	if total > 0xFFFFFFFF {
		return 0, false
	}
	return uint32(total), true
}

// parser holds the state while reading a zonefile.
type parser struct {
	zone      *Zone
	origin    string
	lastOwner string
}

// Parse converts zonefile text into a Zone. origin is the zone name, with or
// without the trailing dot. Lines that look like records but cannot be
// classified are kept as passthrough records of type UNKNOWN.
func Parse(text, origin string) (*Zone, error) {
	if !validDomain(origin) {
		return nil, &ParseError{Line: 0, Reason: fmt.Sprintf("invalid origin %q", origin)}
	}
	origin = dns.CanonicalName(origin)
	raws, trailing, err := splitEntries(text)
	if err != nil {
		return nil, err
	}
	p := &parser{zone: newZone(origin), origin: origin}
	p.zone.trailingNewline = trailing

	for _, raw := range raws {
		if err := p.parseEntry(raw); err != nil {
			return nil, err
		}
	}
	if p.zone.soa == nil {
		return nil, &ParseError{Line: len(raws), Reason: "missing SOA record"}
	}
	p.zone.tailOrigin = p.origin
	return p.zone, nil
}

// parseEntry dispatches one logical entry.
func (p *parser) parseEntry(raw rawEntry) error {
	z := p.zone
	if len(raw.tokens) == 0 {
		z.entries = append(z.entries, &entry{kind: entryText, raw: raw.text})
		return nil
	}
	first := raw.tokens[0].text
	if !raw.indented && strings.HasPrefix(first, "$") {
		return p.parseDirective(raw)
	}
	return p.parseRecord(raw)
}

// parseDirective handles $TTL and $ORIGIN. Other directives are kept as
// passthrough entries.
func (p *parser) parseDirective(raw rawEntry) error {
	name := strings.ToUpper(raw.tokens[0].text)
	args := tokenTexts(raw.tokens[1:])
	switch name {
	case "$TTL":
		if len(args) != 1 {
			return &ParseError{Line: raw.line, Reason: "$TTL expects one argument"}
		}
		ttl, ok := parseTTL(args[0])
		if !ok {
			return &ParseError{Line: raw.line, Reason: fmt.Sprintf("invalid $TTL value %q", args[0])}
		}
		if !p.zone.hasDefaultTTL {
			p.zone.defaultTTL = ttl
			p.zone.hasDefaultTTL = true
		}
	case "$ORIGIN":
		if len(args) != 1 {
			return &ParseError{Line: raw.line, Reason: "$ORIGIN expects one argument"}
		}
		o := absoluteName(args[0], p.origin)
		if !validDomain(o) {
			return &ParseError{Line: raw.line, Reason: fmt.Sprintf("invalid $ORIGIN %q", args[0])}
		}
		p.origin = o
	default:
		log.WithFields(log.Fields{"line": raw.line, "directive": name}).Debug("Keeping unsupported directive verbatim")
		p.addPassthrough(raw, "", "")
		return nil
	}
	p.zone.entries = append(p.zone.entries, &entry{
		kind:      entryDirective,
		raw:       raw.text,
		directive: &Directive{Name: name, Args: args, Line: raw.line},
	})
	return nil
}

// addPassthrough keeps raw as an unrecognised record. rawType is the type
// mnemonic as written, empty when the owner could not be read.
func (p *parser) addPassthrough(raw rawEntry, fqdn, rawType string) {
	r := &Record{
		ID:      fmt.Sprintf("%s%d", unrecognizedPrefix, raw.line),
		Type:    TypeUnknown,
		RawLine: raw.text,
		Line:    raw.line,
		Values:  tokenTexts(raw.tokens),
		fqdn:    fqdn,
		origin:  p.origin,
		rawType: strings.ToUpper(rawType),
	}
	if fqdn != "" {
		r.Name = relativeName(fqdn, p.zone.origin)
	}
	p.zone.entries = append(p.zone.entries, &entry{kind: entryRecord, raw: raw.text, record: r})
}

// parseRecord handles a resource record entry.
func (p *parser) parseRecord(raw rawEntry) error {
	toks := raw.tokens
	var owner string
	if raw.indented {
		if p.lastOwner == "" {
			return &ParseError{Line: raw.line, Reason: "record without owner name and no previous owner"}
		}
		owner = p.lastOwner
	} else {
		owner = absoluteName(toks[0].text, p.origin)
		toks = toks[1:]
		if !validDomain(owner) {
			log.WithFields(log.Fields{"line": raw.line, "owner": owner}).Debug("Keeping record with odd owner verbatim")
			p.addPassthrough(raw, "", "")
			return nil
		}
		p.lastOwner = owner
	}

	var (
		ttl    uint32
		hasTTL bool
		class  string
	)
	for i := 0; i < 2 && len(toks) > 0; i++ {
		t := toks[0]
		if t.quoted {
			break
		}
		if v, ok := parseTTL(t.text); ok && !hasTTL {
			ttl, hasTTL = v, true
			toks = toks[1:]
			continue
		}
		if classes[strings.ToUpper(t.text)] && class == "" {
			class = t.text
			toks = toks[1:]
			continue
		}
		break
	}
	if len(toks) == 0 {
		return &ParseError{Line: raw.line, Reason: "missing record type"}
	}

	rtype, ok := ParseRecordType(toks[0].text)
	if !ok {
		p.addPassthrough(raw, owner, toks[0].text)
		return nil
	}
	rdata := toks[1:]

	if rtype == TypeSOA {
		return p.parseSOA(raw, owner, ttl, hasTTL, class, rdata)
	}

	values, err := classifyValues(rtype, rdata)
	if err != nil {
		log.WithFields(log.Fields{"line": raw.line, "type": rtype}).Debugf("Keeping unclassified record verbatim: %v", err)
		p.addPassthrough(raw, owner, string(rtype))
		return nil
	}
	r := &Record{
		Name:    relativeName(owner, p.zone.origin),
		Type:    rtype,
		TTL:     ttl,
		HasTTL:  hasTTL,
		Class:   class,
		Values:  values,
		RawLine: raw.text,
		Line:    raw.line,
		fqdn:    owner,
		origin:  p.origin,
	}
	p.zone.assignID(r)
	p.zone.entries = append(p.zone.entries, &entry{kind: entryRecord, raw: raw.text, record: r})
	return nil
}

// parseSOA handles the SOA entry. The SOA must be unique and sit at the apex.
func (p *parser) parseSOA(raw rawEntry, owner string, ttl uint32, hasTTL bool, class string, rdata []token) error {
	z := p.zone
	if z.soa != nil {
		return &ParseError{Line: raw.line, Reason: fmt.Sprintf("duplicate SOA record, first one at line %d", z.soa.Line)}
	}
	if !strings.EqualFold(owner, z.origin) {
		return &ParseError{Line: raw.line, Reason: fmt.Sprintf("SOA owner %s is not the zone apex %s", owner, z.origin)}
	}
	if len(rdata) != 7 {
		return &ParseError{Line: raw.line, Reason: fmt.Sprintf("SOA expects 7 fields, found %d", len(rdata))}
	}
	nums := make([]uint32, 5)
	for i := 0; i < 5; i++ {
		t := rdata[2+i].text
		if i == 0 {
			v, err := strconv.ParseUint(t, 10, 32)
			if err != nil {
				return &ParseError{Line: raw.line, Reason: fmt.Sprintf("invalid SOA serial %q", t)}
			}
			nums[i] = uint32(v)
			continue
		}
		v, ok := parseTTL(t)
		if !ok {
			return &ParseError{Line: raw.line, Reason: fmt.Sprintf("invalid SOA timer %q", t)}
		}
		nums[i] = v
	}
	z.soa = &SOA{
		ID:          recordID(owner, TypeSOA, 0),
		Name:        relativeName(owner, z.origin),
		TTL:         ttl,
		HasTTL:      hasTTL,
		Class:       class,
		PrimaryNS:   rdata[0].text,
		AdminEmail:  rdata[1].text,
		Serial:      nums[0],
		Refresh:     nums[1],
		Retry:       nums[2],
		Expire:      nums[3],
		Minimum:     nums[4],
		RawLine:     raw.text,
		Line:        raw.line,
		serialStart: rdata[2].start,
		serialEnd:   rdata[2].end,
	}
	z.entries = append(z.entries, &entry{kind: entrySOA, raw: raw.text})
	return nil
}

// classifyValues checks the value field of a record against its type and
// returns the values as written.
func classifyValues(t RecordType, rdata []token) ([]string, error) {
	vals := tokenTexts(rdata)
	want := map[RecordType]int{
		TypeA: 1, TypeAAAA: 1, TypeCNAME: 1, TypeNS: 1, TypePTR: 1,
		TypeMX: 2, TypeSRV: 4, TypeCAA: 3,
	}
	if n, ok := want[t]; ok && len(vals) != n {
		return nil, fmt.Errorf("%s expects %d fields, found %d", t, n, len(vals))
	}
	switch t {
	case TypeA:
		if a, err := netip.ParseAddr(vals[0]); err != nil || !a.Is4() {
			return nil, fmt.Errorf("%q is not an IPv4 address", vals[0])
		}
	case TypeAAAA:
		if a, err := netip.ParseAddr(vals[0]); err != nil || !a.Is6() {
			return nil, fmt.Errorf("%q is not an IPv6 address", vals[0])
		}
	case TypeCNAME, TypeNS, TypePTR:
		if !validTarget(vals[0]) {
			return nil, fmt.Errorf("%q is not a domain name", vals[0])
		}
	case TypeMX:
		if _, err := strconv.ParseUint(vals[0], 10, 16); err != nil {
			return nil, fmt.Errorf("MX preference %q is not numeric", vals[0])
		}
		if !validTarget(vals[1]) {
			return nil, fmt.Errorf("%q is not a domain name", vals[1])
		}
	case TypeSRV:
		for _, v := range vals[:3] {
			if _, err := strconv.ParseUint(v, 10, 16); err != nil {
				return nil, fmt.Errorf("SRV field %q is not numeric", v)
			}
		}
		if !validTarget(vals[3]) {
			return nil, fmt.Errorf("%q is not a domain name", vals[3])
		}
	case TypeCAA:
		if _, err := strconv.ParseUint(vals[0], 10, 8); err != nil {
			return nil, fmt.Errorf("CAA flag %q is not numeric", vals[0])
		}
		if !caaTagRegexp.MatchString(vals[1]) {
			return nil, fmt.Errorf("CAA tag %q is invalid", vals[1])
		}
	case TypeTXT:
		if len(vals) == 0 {
			return nil, fmt.Errorf("TXT record without text")
		}
	}
	return vals, nil
}

// tokenTexts returns the text of each token.
func tokenTexts(toks []token) []string {
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.text
	}
	return out
}

// validDomain checks that s is a syntactically valid domain name.
func validDomain(s string) bool {
	if s == "" {
		return false
	}
	_, ok := dns.IsDomainName(s)
	return ok
}

// validTarget accepts "@" and domain names, relative or absolute.
func validTarget(s string) bool {
	return s == "@" || s == "." || validDomain(s)
}
