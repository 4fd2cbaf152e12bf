/*
 * Logging - log level and format of the zone manager.
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
package logging

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// Init sets the level and format of the standard logger. An unknown level
// or format is reported and the default kept.
func Init(level, format string) {
	if err := Configure(log.StandardLogger(), level, format); err != nil {
		log.Warnf("Logging configuration: %v", err)
	}
}

// Configure applies level and format to l.
func Configure(l *log.Logger, level, format string) error {
	var errs []string
	if level != "" {
		lvl, err := log.ParseLevel(level)
		if err != nil {
			errs = append(errs, err.Error())
		} else {
			l.SetLevel(lvl)
		}
	}
	switch strings.ToLower(format) {
	case "", FormatText:
		l.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	case FormatJSON:
		l.SetFormatter(&log.JSONFormatter{})
	default:
		errs = append(errs, fmt.Sprintf("not a valid log format: %q", format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}
