/*
 * Serializer - Zone to zonefile text.
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
)

const (
	defaultClass = "IN"
	// indentation of the SOA continuation lines
	soaIndent = "\t\t\t\t"
)

// Serialize renders the zone as zonefile text. Entries read from text are
// written back verbatim; records added or changed in memory are rendered on a
// single line with explicit TTL and class.
func Serialize(z *Zone) string {
	var sb strings.Builder
	for i, e := range z.entries {
		if i > 0 {
			sb.WriteByte('\n')
		}
		switch e.kind {
		case entrySOA:
			if z.soa.RawLine != "" {
				sb.WriteString(z.soa.RawLine)
			} else {
				sb.WriteString(renderSOA(*z.soa))
			}
		case entryRecord:
			sb.WriteString(z.renderRecord(e.record))
		default:
			sb.WriteString(e.raw)
		}
	}
	if z.trailingNewline {
		sb.WriteByte('\n')
	}
	return sb.String()
}

// effectiveTTL is the TTL a record without explicit TTL inherits.
func (z *Zone) effectiveTTL() uint32 {
	if z.hasDefaultTTL {
		return z.defaultTTL
	}
	return z.soa.Minimum
}

// renderRecord returns the text of a record.
func (z *Zone) renderRecord(r *Record) string {
	if r.RawLine != "" {
		return r.RawLine
	}
	return formatRecord(r, z.effectiveTTL())
}

// formatRecord renders r as a single line. The owner is written relative to
// the origin in effect where the record sits.
func formatRecord(r *Record, fallbackTTL uint32) string {
	ttl := fallbackTTL
	if r.HasTTL {
		ttl = r.TTL
	}
	class := r.Class
	if class == "" {
		class = defaultClass
	}
	return fmt.Sprintf("%s\t%d\t%s\t%s\t%s",
		relativeName(r.fqdn, r.origin), ttl, class, r.Type, strings.Join(r.Values, " "))
}

// renderSOA renders the SOA in the usual parenthesised multi-line form.
func renderSOA(s SOA) string {
	var sb strings.Builder
	name := s.Name
	if name == "" {
		name = "@"
	}
	sb.WriteString(name)
	if s.HasTTL {
		fmt.Fprintf(&sb, "\t%d", s.TTL)
	}
	class := s.Class
	if class == "" {
		class = defaultClass
	}
	fmt.Fprintf(&sb, "\t%s\tSOA\t%s %s (\n", class, s.PrimaryNS, s.AdminEmail)
	fields := []struct {
		value uint32
		label string
	}{
		{s.Serial, "serial"},
		{s.Refresh, "refresh"},
		{s.Retry, "retry"},
		{s.Expire, "expire"},
		{s.Minimum, "minimum"},
	}
	for _, f := range fields {
		fmt.Fprintf(&sb, "%s%-10d ; %s\n", soaIndent, f.value, f.label)
	}
	sb.WriteString(soaIndent + ")")
	return sb.String()
}
