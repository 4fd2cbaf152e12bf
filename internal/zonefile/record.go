/*
 * Record - normalized resource record model.
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
	"strings"

	"github.com/miekg/dns"
)

const (
	// record id: owner|type|ordinal
	fmtKey = "%s|%s|%d"
	// id prefix of passthrough entries, followed by the source line
	unrecognizedPrefix = "#"
)

// RecordType is the mnemonic of a resource record type.
type RecordType string

const (
	TypeA       RecordType = "A"
	TypeAAAA    RecordType = "AAAA"
	TypeCNAME   RecordType = "CNAME"
	TypeMX      RecordType = "MX"
	TypeTXT     RecordType = "TXT"
	TypeNS      RecordType = "NS"
	TypeSOA     RecordType = "SOA"
	TypePTR     RecordType = "PTR"
	TypeSRV     RecordType = "SRV"
	TypeCAA     RecordType = "CAA"
	TypeUnknown RecordType = "UNKNOWN"
)

// knownTypes lists the types whose value field is classified.
var knownTypes = map[string]RecordType{
	"A":     TypeA,
	"AAAA":  TypeAAAA,
	"CNAME": TypeCNAME,
	"MX":    TypeMX,
	"TXT":   TypeTXT,
	"NS":    TypeNS,
	"SOA":   TypeSOA,
	"PTR":   TypePTR,
	"SRV":   TypeSRV,
	"CAA":   TypeCAA,
}

// ParseRecordType returns the record type for a mnemonic. The lookup is case
// insensitive.
func ParseRecordType(s string) (RecordType, bool) {
	t, ok := knownTypes[strings.ToUpper(s)]
	return t, ok
}

// Record is one DNS resource record of a zone.
type Record struct {
	// ID addresses the record inside the zone it was read from.
	ID string
	// Name is relative to the zone origin, "@" for the apex. Names outside
	// the origin are kept absolute.
	Name string
	Type RecordType
	// TTL is only meaningful when HasTTL is set; a record without explicit
	// TTL inherits the zone default.
	TTL    uint32
	HasTTL bool
	Class  string
	Values []string
	// RawLine is the source text of the record. When set the record is
	// written back verbatim.
	RawLine string
	// Line is the 1-based source line, 0 for records added in memory.
	Line int

	fqdn   string
	origin string
	// rawType is the type mnemonic of a passthrough record.
	rawType string
}

// FQDN returns the absolute owner name of the record.
func (r Record) FQDN() string {
	return r.fqdn
}

// IsUnrecognized is true for passthrough records the parser kept verbatim.
func (r Record) IsUnrecognized() bool {
	return r.Type == TypeUnknown
}

// ownedType returns the record type as written in the file, for
// passthrough records too.
func (r Record) ownedType() string {
	if r.IsUnrecognized() && r.rawType != "" {
		return r.rawType
	}
	return string(r.Type)
}

// key returns the owner|type part of the record id.
func (r Record) key() string {
	return strings.ToLower(r.fqdn) + "|" + string(r.Type)
}

// clone returns a deep copy of the record.
func (r *Record) clone() *Record {
	c := *r
	c.Values = append([]string(nil), r.Values...)
	return &c
}

// absoluteValues expands relative domain names in the value field so that
// records read from different $ORIGIN contexts can be compared.
func (r Record) absoluteValues() []string {
	vals := append([]string(nil), r.Values...)
	idx := -1
	switch r.Type {
	case TypeCNAME, TypeNS, TypePTR:
		idx = 0
	case TypeMX:
		idx = 1
	case TypeSRV:
		idx = 3
	}
	if idx >= 0 && idx < len(vals) {
		vals[idx] = absoluteName(vals[idx], r.origin)
	}
	return vals
}

// recordID builds the id of a record from its owner, type and ordinal.
func recordID(fqdn string, t RecordType, ordinal int) string {
	return fmt.Sprintf(fmtKey, strings.ToLower(fqdn), t, ordinal)
}

// SOA is the start-of-authority header of a zone.
type SOA struct {
	ID         string
	Name       string
	TTL        uint32
	HasTTL     bool
	Class      string
	PrimaryNS  string
	AdminEmail string
	Serial     uint32
	Refresh    uint32
	Retry      uint32
	Expire     uint32
	Minimum    uint32
	RawLine    string
	Line       int

	// byte span of the serial inside RawLine
	serialStart int
	serialEnd   int
}

// Directive is a $TTL or $ORIGIN control entry.
type Directive struct {
	Name string
	Args []string
	Line int
}

// absoluteName resolves a name relative to origin.
func absoluteName(name, origin string) string {
	switch {
	case name == "@":
		return origin
	case dns.IsFqdn(name):
		return dns.CanonicalName(name)
	case origin == "":
		return dns.CanonicalName(name)
	default:
		return dns.CanonicalName(name + "." + origin)
	}
}

// relativeName renders fqdn relative to origin when it lies inside it.
func relativeName(fqdn, origin string) string {
	if strings.EqualFold(fqdn, origin) {
		return "@"
	}
	if origin != "" && dns.IsSubDomain(origin, fqdn) {
		return strings.TrimSuffix(fqdn, "."+origin)
	}
	return fqdn
}
