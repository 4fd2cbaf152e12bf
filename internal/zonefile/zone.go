/*
 * Zone - in-memory zone built from a zonefile.
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
	"strconv"
	"strings"
	"time"
)

// entryKind tells the serializer how to emit an entry.
type entryKind int

const (
	// blank lines and comments
	entryText entryKind = iota
	entryDirective
	entrySOA
	entryRecord
)

// entry is one logical unit of the zonefile layout. Multi-line records are a
// single entry.
type entry struct {
	kind      entryKind
	raw       string
	directive *Directive
	record    *Record
}

// Zone is the parsed form of a zonefile: an ordered layout of entries, the
// SOA header and the records. A Zone is rebuilt from the remote text for each
// operation and must not be cached.
type Zone struct {
	origin          string
	defaultTTL      uint32
	hasDefaultTTL   bool
	soa             *SOA
	entries         []*entry
	tailOrigin      string
	trailingNewline bool
	dirty           bool
	ordinals        map[string]int
}

// newZone creates an empty zone for the given origin.
func newZone(origin string) *Zone {
	return &Zone{
		origin:          origin,
		tailOrigin:      origin,
		trailingNewline: true,
		ordinals:        map[string]int{},
	}
}

// Origin returns the absolute zone name.
func (z *Zone) Origin() string {
	return z.origin
}

// DefaultTTL returns the value of the first $TTL directive, if any.
func (z *Zone) DefaultTTL() (uint32, bool) {
	return z.defaultTTL, z.hasDefaultTTL
}

// SOA returns a copy of the SOA header.
func (z *Zone) SOA() SOA {
	return *z.soa
}

// Dirty reports whether a mutation changed the zone since it was parsed.
func (z *Zone) Dirty() bool {
	return z.dirty
}

// Records returns copies of all records except the SOA, in file order.
// Passthrough records are included with type UNKNOWN.
func (z *Zone) Records() []Record {
	recs := []Record{}
	for _, e := range z.entries {
		if e.kind == entryRecord {
			c := e.record.clone()
			recs = append(recs, *c)
		}
	}
	return recs
}

// Record returns a copy of the record with the given id.
func (z *Zone) Record(id string) (Record, bool) {
	if _, e := z.find(id); e != nil {
		return *e.record.clone(), true
	}
	return Record{}, false
}

// Directives returns the $TTL and $ORIGIN directives in file order.
func (z *Zone) Directives() []Directive {
	dirs := []Directive{}
	for _, e := range z.entries {
		if e.kind == entryDirective {
			d := *e.directive
			d.Args = append([]string(nil), e.directive.Args...)
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// find returns the position and entry of the record with the given id.
func (z *Zone) find(id string) (int, *entry) {
	for i, e := range z.entries {
		if e.kind == entryRecord && e.record.ID == id {
			return i, e
		}
	}
	return -1, nil
}

// recordsAt returns the records owned by fqdn, passthrough records with a
// readable owner included.
func (z *Zone) recordsAt(fqdn string) []*Record {
	recs := []*Record{}
	for _, e := range z.entries {
		if e.kind != entryRecord || e.record.fqdn == "" {
			continue
		}
		if strings.EqualFold(e.record.fqdn, fqdn) {
			recs = append(recs, e.record)
		}
	}
	return recs
}

// assignID gives r the next free ordinal for its owner and type.
func (z *Zone) assignID(r *Record) {
	k := r.key()
	n := z.ordinals[k]
	z.ordinals[k] = n + 1
	r.ID = recordID(r.fqdn, r.Type, n)
}

// Clone returns a deep copy of the zone.
func (z *Zone) Clone() *Zone {
	c := *z
	c.entries = make([]*entry, len(z.entries))
	c.ordinals = make(map[string]int, len(z.ordinals))
	for k, v := range z.ordinals {
		c.ordinals[k] = v
	}
	for i, e := range z.entries {
		ce := *e
		switch e.kind {
		case entryDirective:
			d := *e.directive
			d.Args = append([]string(nil), e.directive.Args...)
			ce.directive = &d
		case entryRecord:
			ce.record = e.record.clone()
		}
		c.entries[i] = &ce
	}
	soa := *z.soa
	c.soa = &soa
	return &c
}

// SetSerial replaces the SOA serial. When the SOA was read from text, only
// the serial token of the source is rewritten.
func (z *Zone) SetSerial(serial uint32) {
	s := z.soa
	s.Serial = serial
	if s.RawLine != "" && s.serialEnd > s.serialStart {
		sn := strconv.FormatUint(uint64(serial), 10)
		s.RawLine = s.RawLine[:s.serialStart] + sn + s.RawLine[s.serialEnd:]
		s.serialEnd = s.serialStart + len(sn)
	}
}

// BumpSerial advances the SOA serial with the given scheme and returns the
// new value.
func (z *Zone) BumpSerial(scheme SerialScheme, now time.Time) uint32 {
	sn := NextSerial(z.soa.Serial, scheme, now)
	z.SetSerial(sn)
	return sn
}
