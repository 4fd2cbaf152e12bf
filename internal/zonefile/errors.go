/*
 * Errors - zonefile error taxonomy.
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

import "fmt"

// ParseError is returned when the zone text is malformed. Line is 1-based and
// refers to the first line of the offending entry.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d: %s", e.Line, e.Reason)
}

// ValidationError is returned when a record or zone input is malformed for
// its type.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConflictError is returned when a mutation would break a uniqueness rule,
// such as CNAME exclusivity.
type ConflictError struct {
	Name   string
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict at %s: %s", e.Name, e.Reason)
}

// NotFoundError is returned when no record matches the given id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("record %q not found", e.ID)
}

// ProtectedRecordError is returned on attempts to edit or delete the apex SOA
// or apex NS records.
type ProtectedRecordError struct {
	ID   string
	Type RecordType
}

func (e *ProtectedRecordError) Error() string {
	return fmt.Sprintf("record %q is a protected apex %s record", e.ID, e.Type)
}

// invalid is a shorthand for building validation errors.
func invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
