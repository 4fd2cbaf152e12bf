/*
 * Validate - input checks for record mutations.
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
	"unicode"

	"github.com/miekg/dns"
)

const (
	// highest TTL accepted (RFC 2181, section 8)
	maxTTL = 1<<31 - 1
	// longest character-string inside TXT data
	maxTXTChunk = 255
)

// labelRegexp matches one owner label. Underscores are allowed for service
// labels such as _dmarc or _tcp.
var labelRegexp = regexp.MustCompile(`^[A-Za-z0-9_]([A-Za-z0-9_-]{0,61}[A-Za-z0-9])?$`)

// mutableTypes are the types that can be added, changed and deleted.
var mutableTypes = map[RecordType]bool{
	TypeA: true, TypeAAAA: true, TypeCNAME: true, TypeMX: true, TypeTXT: true,
	TypeNS: true, TypePTR: true, TypeSRV: true, TypeCAA: true,
}

// RecordSpec is the caller supplied content of a record to add or update.
type RecordSpec struct {
	// Name is relative to the zone, "@" for the apex, or absolute with a
	// trailing dot.
	Name   string
	Type   RecordType
	TTL    uint32
	HasTTL bool
	// Values holds the value field. Multi-field values may be given either as
	// separate items or as one space separated item. Domain names in the
	// value field must end with a dot; an update may repeat the relative
	// names a record already has.
	Values []string
}

// checkType validates the record type of a mutation.
func checkType(t RecordType) (RecordType, error) {
	rt, ok := ParseRecordType(string(t))
	switch {
	case !ok:
		return "", invalid("type", "unsupported record type %q", t)
	case rt == TypeSOA:
		return "", invalid("type", "the SOA record is managed through the serial")
	case !mutableTypes[rt]:
		return "", invalid("type", "record type %s cannot be managed", rt)
	}
	return rt, nil
}

// ownerName resolves and checks the owner of a new record.
func ownerName(name, origin string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("name", "must not be empty")
	}
	fqdn := absoluteName(name, origin)
	if _, ok := dns.IsDomainName(fqdn); !ok {
		return "", invalid("name", "%q is not a valid domain name", name)
	}
	if !dns.IsSubDomain(origin, fqdn) {
		return "", invalid("name", "%s is outside zone %s", fqdn, origin)
	}
	rel := relativeName(fqdn, origin)
	if rel == "@" {
		return fqdn, nil
	}
	for i, label := range dns.SplitDomainName(rel) {
		if label == "*" && i == 0 {
			continue
		}
		if !labelRegexp.MatchString(label) {
			return "", invalid("name", "label %q is not valid", label)
		}
	}
	return fqdn, nil
}

// targetName checks a domain name used as record value. It must be fully
// qualified: a name without the trailing dot is relative in a zone file.
func targetName(field, v string) (string, error) {
	if v == "." {
		return v, nil
	}
	if _, ok := dns.IsDomainName(v); !ok || v == "" {
		return "", invalid(field, "%q is not a valid domain name", v)
	}
	if !dns.IsFqdn(v) {
		return "", invalid(field, "%q is not a fully qualified domain name", v)
	}
	return v, nil
}

// checkText rejects control characters other than tab in a text value. A
// quoted string cannot span lines in a zone file.
func checkText(v string) error {
	if strings.IndexFunc(v, func(r rune) bool { return r != '\t' && unicode.IsControl(r) }) >= 0 {
		return invalid("values", "%q contains control characters", v)
	}
	return nil
}

// parseUint16 checks a numeric field.
func parseUint16(field, v string) error {
	if _, err := strconv.ParseUint(v, 10, 16); err != nil {
		return invalid(field, "%q is not a number between 0 and 65535", v)
	}
	return nil
}

// quoteTXT quotes a TXT value, splitting it in character-strings of at most
// 255 bytes. Values already quoted are kept as they are.
func quoteTXT(v string) string {
	if len(v) >= 2 && strings.HasPrefix(v, `"`) && strings.HasSuffix(v, `"`) {
		return v
	}
	var parts []string
	for len(v) > maxTXTChunk {
		parts = append(parts, v[:maxTXTChunk])
		v = v[maxTXTChunk:]
	}
	parts = append(parts, v)
	for i, p := range parts {
		p = strings.ReplaceAll(p, `\`, `\\`)
		parts[i] = `"` + strings.ReplaceAll(p, `"`, `\"`) + `"`
	}
	return strings.Join(parts, " ")
}

// fields flattens the values, splitting space separated items.
func fields(values []string) []string {
	out := []string{}
	for _, v := range values {
		out = append(out, strings.Fields(v)...)
	}
	return out
}

// normalizeValues checks the value field of a record and returns it in the
// form written to the zonefile.
func normalizeValues(t RecordType, values []string) ([]string, error) {
	if len(values) == 0 {
		return nil, invalid("values", "at least one value is required")
	}
	switch t {
	case TypeA, TypeAAAA:
		if len(values) != 1 {
			return nil, invalid("values", "%s takes exactly one address", t)
		}
		a, err := netip.ParseAddr(strings.TrimSpace(values[0]))
		if err != nil || a.Zone() != "" || (t == TypeA && !a.Is4()) || (t == TypeAAAA && !a.Is6()) {
			return nil, invalid("values", "%q is not a valid %s address", values[0], map[RecordType]string{TypeA: "IPv4", TypeAAAA: "IPv6"}[t])
		}
		return []string{a.String()}, nil
	case TypeCNAME, TypeNS, TypePTR:
		f := fields(values)
		if len(f) != 1 {
			return nil, invalid("values", "%s takes exactly one target", t)
		}
		target, err := targetName("target", f[0])
		if err != nil {
			return nil, err
		}
		return []string{target}, nil
	case TypeMX:
		f := fields(values)
		if len(f) != 2 {
			return nil, invalid("values", "MX takes a priority and an exchange")
		}
		if err := parseUint16("priority", f[0]); err != nil {
			return nil, err
		}
		exchange, err := targetName("exchange", f[1])
		if err != nil {
			return nil, err
		}
		return []string{f[0], exchange}, nil
	case TypeSRV:
		f := fields(values)
		if len(f) != 4 {
			return nil, invalid("values", "SRV takes priority, weight, port and target")
		}
		for i, name := range []string{"priority", "weight", "port"} {
			if err := parseUint16(name, f[i]); err != nil {
				return nil, err
			}
		}
		target, err := targetName("target", f[3])
		if err != nil {
			return nil, err
		}
		return []string{f[0], f[1], f[2], target}, nil
	case TypeCAA:
		f := strings.SplitN(strings.TrimSpace(strings.Join(values, " ")), " ", 3)
		if len(f) != 3 {
			return nil, invalid("values", "CAA takes a flag, a tag and a value")
		}
		if _, err := strconv.ParseUint(f[0], 10, 8); err != nil {
			return nil, invalid("flag", "%q is not a number between 0 and 255", f[0])
		}
		if !caaTagRegexp.MatchString(f[1]) {
			return nil, invalid("tag", "%q is not a valid CAA tag", f[1])
		}
		if err := checkText(f[2]); err != nil {
			return nil, err
		}
		return []string{f[0], strings.ToLower(f[1]), quoteTXT(strings.TrimSpace(f[2]))}, nil
	case TypeTXT:
		out := make([]string, 0, len(values))
		for _, v := range values {
			if err := checkText(v); err != nil {
				return nil, err
			}
			out = append(out, quoteTXT(v))
		}
		return out, nil
	}
	return nil, invalid("type", "record type %s cannot be managed", t)
}

// checkRData parses the composed record with the DNS library as a last
// check of the value field.
func checkRData(fqdn string, t RecordType, values []string) error {
	line := fmt.Sprintf("%s 3600 IN %s %s", fqdn, t, strings.Join(values, " "))
	rr, err := dns.NewRR(line)
	if err != nil {
		return invalid("values", "%v", err)
	}
	if rr == nil {
		return invalid("values", "empty record")
	}
	return nil
}

// buildRecord validates spec and returns the record it describes, owned by
// a name inside origin.
func buildRecord(spec RecordSpec, origin string) (*Record, error) {
	t, err := checkType(spec.Type)
	if err != nil {
		return nil, err
	}
	fqdn, err := ownerName(spec.Name, origin)
	if err != nil {
		return nil, err
	}
	if spec.HasTTL && spec.TTL > maxTTL {
		return nil, invalid("ttl", "%d exceeds %d", spec.TTL, maxTTL)
	}
	values, err := normalizeValues(t, spec.Values)
	if err != nil {
		return nil, err
	}
	if err := checkRData(fqdn, t, values); err != nil {
		return nil, err
	}
	return &Record{
		Name:   relativeName(fqdn, origin),
		Type:   t,
		TTL:    spec.TTL,
		HasTTL: spec.HasTTL,
		Values: values,
		fqdn:   fqdn,
		origin: origin,
	}, nil
}
