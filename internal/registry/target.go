/*
 * Target - name servers and the zones they hold.
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
package registry

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"bind-dns-manager/internal/bindconf"

	"github.com/google/uuid"
)

const (
	TransportSSH   = "ssh"
	TransportLocal = "local"

	DefaultSSHPort = 22
)

var (
	ErrTargetNotFound = errors.New("server target not found")
	ErrZoneNotFound   = errors.New("zone not found")
	ErrNoActiveTarget = errors.New("no active server target")
)

// IncompleteError lists the settings a target lacks before it can be used.
type IncompleteError struct {
	Missing []string
}

func (e *IncompleteError) Error() string {
	return "server target configuration is incomplete, missing: " + strings.Join(e.Missing, ", ")
}

// InvalidTargetError reports a target setting with an unusable value.
type InvalidTargetError struct {
	Field  string
	Reason string
}

func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ServerTarget is a name server the manager edits zones on.
type ServerTarget struct {
	ID        string
	Name      string
	Transport string
	Host      string
	Port      int
	User      string
	// SSHKey is the path of a private key file.
	SSHKey         string
	Password       string
	KnownHostsFile string
	ConfigPath     string
	Active         bool
	// Options holds server settings such as recursion, forwarders or
	// listen addresses. They are stored as given and not interpreted.
	Options   map[string]string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewTargetID returns a fresh target id.
func NewTargetID() string {
	return "srv-" + uuid.NewString()
}

// Clone returns a deep copy of t.
func (t *ServerTarget) Clone() *ServerTarget {
	c := *t
	if t.Options != nil {
		c.Options = make(map[string]string, len(t.Options))
		for k, v := range t.Options {
			c.Options[k] = v
		}
	}
	return &c
}

// normalize fills the defaults and checks the values that are set.
func (t *ServerTarget) normalize() error {
	t.Name = strings.TrimSpace(t.Name)
	t.Host = strings.TrimSpace(t.Host)
	t.Transport = strings.ToLower(strings.TrimSpace(t.Transport))
	if t.Transport == "" {
		t.Transport = TransportSSH
	}
	if t.Transport != TransportSSH && t.Transport != TransportLocal {
		return &InvalidTargetError{Field: "transport", Reason: fmt.Sprintf("%q is neither %s nor %s", t.Transport, TransportSSH, TransportLocal)}
	}
	if t.Port == 0 && t.Transport == TransportSSH {
		t.Port = DefaultSSHPort
	}
	if t.Port < 0 || t.Port > 65535 {
		return &InvalidTargetError{Field: "port", Reason: fmt.Sprintf("%d is out of range", t.Port)}
	}
	if t.ConfigPath == "" {
		t.ConfigPath = bindconf.DefaultConfigPath
	}
	if t.Name == "" {
		t.Name = t.Host
	}
	if t.Name == "" && t.Transport == TransportLocal {
		t.Name = "localhost"
	}
	return nil
}

// Complete checks that t holds everything needed to connect: a host, a user
// and a configuration path, plus an SSH key or a password. Local targets
// only need the configuration path.
func (t *ServerTarget) Complete() error {
	var missing []string
	if t.Transport != TransportLocal {
		if t.Host == "" {
			missing = append(missing, "host")
		}
		if t.User == "" {
			missing = append(missing, "user")
		}
	}
	if t.ConfigPath == "" {
		missing = append(missing, "config path")
	}
	if t.Transport != TransportLocal && t.SSHKey == "" && t.Password == "" {
		missing = append(missing, "ssh key or password")
	}
	if len(missing) > 0 {
		return &IncompleteError{Missing: missing}
	}
	return nil
}

// ZoneDescriptor locates the file of a zone on a target.
type ZoneDescriptor struct {
	TargetID string
	Name     string
	Path     string
	Type     string
	View     string
}

// Origin returns the zone name as a fully qualified origin.
func (z ZoneDescriptor) Origin() string {
	if z.Name == "." {
		return z.Name
	}
	return z.Name + "."
}

// ZoneName normalizes a zone name: lower case without the trailing dot.
func ZoneName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "." {
		return name
	}
	return strings.TrimSuffix(name, ".")
}
