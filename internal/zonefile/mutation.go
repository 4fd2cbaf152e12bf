/*
 * Mutation - add, update and delete records of a zone.
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
	"slices"
	"strings"

	log "github.com/sirupsen/logrus"
)

// The mutation functions never modify their input. On success they return a
// new dirty zone; on failure they return the original zone and the error.

// AddRecord appends a new record at the end of the zone.
func AddRecord(z *Zone, spec RecordSpec) (*Zone, error) {
	rec, err := buildRecord(spec, z.origin)
	if err != nil {
		return z, err
	}
	if err := z.checkConflicts(rec, ""); err != nil {
		return z, err
	}
	c := z.Clone()
	rec.origin = c.tailOrigin
	c.assignID(rec)
	c.entries = append(c.entries, &entry{kind: entryRecord, record: rec})
	c.dirty = true
	log.WithFields(log.Fields{"zone": z.origin, "id": rec.ID}).Debug("Record added")
	return c, nil
}

// UpdateRecord replaces the content of the record with the given id. The type
// cannot change; an empty type in spec keeps the current one, and a spec
// without TTL keeps the current TTL. An update that changes nothing returns
// the zone as it is, still clean.
func UpdateRecord(z *Zone, id string, spec RecordSpec) (*Zone, error) {
	old, err := z.mutableRecord(id)
	if err != nil {
		return z, err
	}
	if spec.Type == "" {
		spec.Type = old.Type
	}
	if t, ok := ParseRecordType(string(spec.Type)); !ok || t != old.Type {
		return z, invalid("type", "cannot change the type of record %q from %s to %s", id, old.Type, spec.Type)
	}
	if !spec.HasTTL {
		spec.TTL, spec.HasTTL = old.TTL, old.HasTTL
	}
	if describes(old, spec, z.origin) {
		log.WithFields(log.Fields{"zone": z.origin, "id": id}).Debug("Record unchanged")
		return z, nil
	}
	rec, err := buildRecord(spec, z.origin)
	if err != nil {
		return z, err
	}
	if sameRecord(old, rec) {
		log.WithFields(log.Fields{"zone": z.origin, "id": id}).Debug("Record unchanged")
		return z, nil
	}
	if err := z.checkConflicts(rec, id); err != nil {
		return z, err
	}

	c := z.Clone()
	i, e := c.find(id)
	if !strings.EqualFold(rec.fqdn, e.record.fqdn) {
		c.pinOwners(i + 1)
	}
	rec.origin = e.record.origin
	rec.Class = e.record.Class
	if rec.key() == e.record.key() {
		rec.ID = id
	} else {
		c.assignID(rec)
	}
	e.record = rec
	e.raw = ""
	c.dirty = true
	log.WithFields(log.Fields{"zone": z.origin, "id": id, "newId": rec.ID}).Debug("Record updated")
	return c, nil
}

// DeleteRecord removes the record with the given id. Passthrough records can
// be deleted.
func DeleteRecord(z *Zone, id string) (*Zone, error) {
	if err := z.checkProtected(id); err != nil {
		return z, err
	}
	i, e := z.find(id)
	if e == nil {
		return z, &NotFoundError{ID: id}
	}
	if err := z.checkApexNS(e.record); err != nil {
		return z, err
	}
	c := z.Clone()
	c.entries = slices.Delete(c.entries, i, i+1)
	c.pinOwners(i)
	c.dirty = true
	log.WithFields(log.Fields{"zone": z.origin, "id": id}).Debug("Record deleted")
	return c, nil
}

// pinOwners writes the owner name on the records from position i on that
// inherit it from a previous line.
func (z *Zone) pinOwners(i int) {
	for _, e := range z.entries[i:] {
		if e.kind == entryText || e.kind == entryDirective {
			continue
		}
		if e.kind != entryRecord {
			return
		}
		r := e.record
		if r.RawLine == "" || !isBlank(r.RawLine[0]) || r.fqdn == "" {
			return
		}
		r.RawLine = relativeName(r.fqdn, r.origin) + r.RawLine
		e.raw = r.RawLine
	}
}

// isBlank reports whether c is a space or a tab.
func isBlank(c byte) bool {
	return c == ' ' || c == '\t'
}

// checkProtected rejects the id of the SOA.
func (z *Zone) checkProtected(id string) error {
	if strings.EqualFold(id, z.soa.ID) {
		return &ProtectedRecordError{ID: id, Type: TypeSOA}
	}
	return nil
}

// checkApexNS rejects the NS records of the zone apex, also when the parser
// kept them verbatim.
func (z *Zone) checkApexNS(r *Record) error {
	if r.ownedType() == string(TypeNS) && strings.EqualFold(r.fqdn, z.origin) {
		return &ProtectedRecordError{ID: r.ID, Type: TypeNS}
	}
	return nil
}

// mutableRecord returns the record with the given id if it may be edited.
func (z *Zone) mutableRecord(id string) (*Record, error) {
	if err := z.checkProtected(id); err != nil {
		return nil, err
	}
	_, e := z.find(id)
	if e == nil {
		return nil, &NotFoundError{ID: id}
	}
	if err := z.checkApexNS(e.record); err != nil {
		return nil, err
	}
	if e.record.IsUnrecognized() {
		return nil, invalid("id", "record %q was kept verbatim and cannot be edited", id)
	}
	return e.record, nil
}

// sameRecord compares owner, TTL and values of two records.
func sameRecord(a, b *Record) bool {
	return strings.EqualFold(a.fqdn, b.fqdn) &&
		a.Type == b.Type &&
		a.HasTTL == b.HasTTL &&
		(!a.HasTTL || a.TTL == b.TTL) &&
		slices.Equal(a.absoluteValues(), b.absoluteValues())
}

// describes reports whether spec repeats r as it stands. Domain names in the
// values are resolved against the $ORIGIN in effect at r, so the values
// listed for a record match even when the file writes them relative.
func describes(r *Record, spec RecordSpec, origin string) bool {
	name := strings.TrimSpace(spec.Name)
	if name == "" || !strings.EqualFold(absoluteName(name, origin), r.fqdn) {
		return false
	}
	if spec.HasTTL != r.HasTTL || (spec.HasTTL && spec.TTL != r.TTL) {
		return false
	}
	values := spec.Values
	switch r.Type {
	case TypeCNAME, TypeNS, TypePTR, TypeMX, TypeSRV:
		values = fields(values)
	}
	given := &Record{Type: r.Type, Values: values, origin: r.origin}
	return slices.Equal(given.absoluteValues(), r.absoluteValues())
}

// checkConflicts enforces CNAME exclusivity and rejects exact duplicates.
// The record with id skip is ignored.
func (z *Zone) checkConflicts(rec *Record, skip string) error {
	name := rec.fqdn
	if rec.Type == TypeCNAME && strings.EqualFold(name, z.origin) {
		return &ConflictError{Name: name, Reason: "a CNAME cannot coexist with the SOA at the zone apex"}
	}
	for _, other := range z.recordsAt(name) {
		if other.ID == skip {
			continue
		}
		otherType := other.ownedType()
		switch {
		case otherType == string(TypeCNAME) && rec.Type == TypeCNAME:
			return &ConflictError{Name: name, Reason: "the name already has a CNAME record"}
		case rec.Type == TypeCNAME:
			return &ConflictError{Name: name, Reason: "a CNAME cannot coexist with " + otherType + " records"}
		case otherType == string(TypeCNAME):
			return &ConflictError{Name: name, Reason: "the name already has a CNAME record"}
		case other.Type == rec.Type && slices.Equal(other.absoluteValues(), rec.absoluteValues()):
			return &ConflictError{Name: name, Reason: "an identical " + string(rec.Type) + " record exists"}
		}
	}
	return nil
}
