/*
 * Command - command line templates.
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
package remote

import "strings"

// Placeholders recognized by Expand.
const (
	PlaceholderZone = "{zone}"
	PlaceholderFile = "{file}"
)

// CommandTemplate is a command line whose arguments may contain
// placeholders.
type CommandTemplate []string

// ParseCommandTemplate splits a command line on white space. An empty line
// gives an empty template.
func ParseCommandTemplate(s string) CommandTemplate {
	return CommandTemplate(strings.Fields(s))
}

// Empty reports whether the template has no command.
func (t CommandTemplate) Empty() bool {
	return len(t) == 0
}

// Expand replaces the placeholders with zone and file.
func (t CommandTemplate) Expand(zone, file string) []string {
	r := strings.NewReplacer(PlaceholderZone, zone, PlaceholderFile, file)
	argv := make([]string, len(t))
	for i, a := range t {
		argv[i] = r.Replace(a)
	}
	return argv
}

// String returns the template as a command line.
func (t CommandTemplate) String() string {
	return strings.Join(t, " ")
}
