/*
 * SOASerialNumber - SOA serial number manipulation.
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
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	// format of the date part of the serial number
	fmtSOADate = "20060102"
	// highest version for a single day
	maxVersion = 99
)

// SerialScheme selects how the SOA serial advances.
type SerialScheme string

const (
	// SerialDate uses YYYYMMDDnn serials.
	SerialDate SerialScheme = "date"
	// SerialIncrement adds one to the current serial.
	SerialIncrement SerialScheme = "increment"
)

// ParseSerialScheme returns the scheme with the given name.
func ParseSerialScheme(s string) (SerialScheme, error) {
	switch SerialScheme(strings.ToLower(strings.TrimSpace(s))) {
	case SerialDate:
		return SerialDate, nil
	case SerialIncrement:
		return SerialIncrement, nil
	}
	return "", fmt.Errorf("unknown serial scheme \"%s\"", s)
}

// SOASerialNumber represents a date based serial number.
type SOASerialNumber struct {
	date    string
	version int
}

// collectDate collects the date part from the serial number.
func collectDate(sn string, now time.Time) (string, error) {
	datePart := sn[:8]
	date, err := time.Parse(fmtSOADate, datePart)
	if err != nil {
		return "", fmt.Errorf("cannot parse date in serial number \"%s\"", sn)
	}
	nowDate, _ := time.Parse(fmtSOADate, now.Format(fmtSOADate))
	if date.After(nowDate) {
		return "", fmt.Errorf("unexpected date part \"%s\" is in the future", datePart)
	}
	return datePart, nil
}

// NewSOASerialNumber creates a serial number from a string.
func NewSOASerialNumber(sn string, now time.Time) (*SOASerialNumber, error) {
	if len(sn) != 10 {
		return nil, fmt.Errorf("serial number \"%s\" is unsupported", sn)
	}
	datePart, err := collectDate(sn, now)
	if err != nil {
		return nil, err
	}
	version, err := strconv.Atoi(sn[8:])
	if err != nil {
		return nil, fmt.Errorf("cannot parse version in serial number \"%s\": %w", sn, err)
	}
	if version < 0 || version > maxVersion {
		return nil, fmt.Errorf("version %d is not supported", version)
	}
	return &SOASerialNumber{
		date:    datePart,
		version: version,
	}, nil
}

// CreateSOASerialNumber creates the first serial number of the given day.
func CreateSOASerialNumber(now time.Time) *SOASerialNumber {
	return &SOASerialNumber{
		date:    now.Format(fmtSOADate),
		version: 1,
	}
}

// Inc increments the version number, or moves to the first version of a new
// day.
func (s *SOASerialNumber) Inc(now time.Time) error {
	nowDate := now.Format(fmtSOADate)
	if nowDate != s.date {
		s.date = nowDate
		s.version = 1
		return nil
	}
	if s.version == maxVersion {
		return errors.New("cannot increment version as it is 99")
	}
	s.version++
	return nil
}

// String returns a string representation of the serial number.
func (s SOASerialNumber) String() string {
	return fmt.Sprintf("%s%02d", s.date, s.version)
}

// Uint32 returns a uint32 representation of the serial number.
func (s SOASerialNumber) Uint32() (uint32, error) {
	str := s.String()
	n, err := strconv.ParseUint(str, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("wrong conversion on \"%s\": %w", str, err)
	}
	if n > math.MaxUint32 {
		return 0, fmt.Errorf("serial number \"%s\" does not fit 32 bits", str)
	}
	return uint32(n), nil
}

// SerialNewer reports whether a is newer than b in serial number arithmetic
// (RFC 1982).
func SerialNewer(a, b uint32) bool {
	d := a - b
	return d != 0 && d < 1<<31
}

// InitialSerial returns the first serial of a new zone.
func InitialSerial(now time.Time) uint32 {
	sn, err := CreateSOASerialNumber(now).Uint32()
	if err != nil {
		return 1
	}
	return sn
}

// incrementSerial adds one, wrapping to 1 since 0 is reserved.
func incrementSerial(current uint32) uint32 {
	if current == math.MaxUint32 {
		return 1
	}
	return current + 1
}

// dateSerial computes the next date based serial.
func dateSerial(current uint32, now time.Time) (uint32, error) {
	sn, err := NewSOASerialNumber(strconv.FormatUint(uint64(current), 10), now)
	if err != nil {
		// not a date serial yet: switch to today's first version
		return CreateSOASerialNumber(now).Uint32()
	}
	if err := sn.Inc(now); err != nil {
		return 0, err
	}
	return sn.Uint32()
}

// NextSerial returns the serial that follows current. The result is always
// newer than current. The date scheme falls back to a plain increment when
// no newer date serial can be produced.
func NextSerial(current uint32, scheme SerialScheme, now time.Time) uint32 {
	if scheme == SerialDate {
		next, err := dateSerial(current, now)
		if err == nil && SerialNewer(next, current) {
			return next
		}
		log.WithFields(log.Fields{"serial": current, "candidate": next}).Debug("Date serial not newer, falling back to increment")
	}
	return incrementSerial(current)
}
