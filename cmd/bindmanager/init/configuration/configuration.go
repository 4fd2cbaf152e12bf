/*
 * Configuration - environment of the zone manager.
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
package configuration

import (
	"fmt"
	"time"

	"bind-dns-manager/internal/commit"
	"bind-dns-manager/internal/registry"
	"bind-dns-manager/internal/server"
	"bind-dns-manager/internal/validation"
	"bind-dns-manager/internal/zonefile"

	"github.com/caarlos0/env/v8"
	log "github.com/sirupsen/logrus"
)

// MemoryDB selects the in-memory target store.
const MemoryDB = "memory:"

// Config struct for configuration environmental variables
type Config struct {
	Sockets server.SocketOptions

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// DBURL is "sqlite:<dsn>" or "memory:".
	DBURL string `env:"DB_URL" envDefault:"sqlite:./bind-dns-manager.db"`

	SerialScheme   string        `env:"SERIAL_SCHEME" envDefault:"date"`
	RemoteTimeout  time.Duration `env:"REMOTE_TIMEOUT" envDefault:"30s"`
	ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT" envDefault:"10s"`

	CheckerCommand      string `env:"CHECKER_COMMAND" envDefault:"named-checkzone {zone} {file}"`
	CheckerErrorPattern string `env:"CHECKER_ERROR_PATTERN" envDefault:"(?i)(not loaded|failed|: error)"`
	StagingDir          string `env:"STAGING_DIR" envDefault:"/tmp"`
	ReloadCommand       string `env:"RELOAD_COMMAND" envDefault:"rndc reload {zone}"`
	VerifyCommand       string `env:"VERIFY_COMMAND"`

	ZoneDir    string `env:"ZONE_DIR" envDefault:"/var/named"`
	DefaultTTL uint32 `env:"DEFAULT_TTL" envDefault:"3600"`

	// Bootstrap target, stored at startup when no target exists yet.
	BindTransport      string `env:"BIND_TRANSPORT" envDefault:"ssh"`
	BindHost           string `env:"BIND_HOST"`
	BindPort           int    `env:"BIND_PORT" envDefault:"22"`
	BindUser           string `env:"BIND_USER"`
	BindSSHKey         string `env:"BIND_SSH_KEY"`
	BindPassword       string `env:"BIND_PASSWORD"`
	BindKnownHostsFile string `env:"BIND_KNOWN_HOSTS_FILE"`
	BindConfigPath     string `env:"BIND_CONFIG_PATH" envDefault:"/etc/bind/named.conf"`
}

// Init sets up configuration by reading set environmental variables
func Init() Config {
	cfg, err := Parse()
	if err != nil {
		log.Fatalf("Error reading configuration from environment: %v", err)
	}
	return cfg
}

// Parse reads and checks the configuration.
func Parse() (Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	if _, err := zonefile.ParseSerialScheme(cfg.SerialScheme); err != nil {
		return cfg, err
	}
	if cfg.RemoteTimeout < 0 || cfg.ConnectTimeout < 0 {
		return cfg, fmt.Errorf("timeouts must not be negative")
	}
	return cfg, nil
}

// Scheme returns the serial scheme. The name is checked by Parse.
func (c Config) Scheme() zonefile.SerialScheme {
	s, _ := zonefile.ParseSerialScheme(c.SerialScheme)
	return s
}

// Validation returns the options of the validation gateway.
func (c Config) Validation() validation.Options {
	return validation.Options{
		Command:      c.CheckerCommand,
		ErrorPattern: c.CheckerErrorPattern,
		StagingDir:   c.StagingDir,
	}
}

// Commit returns the options of the commit orchestrator.
func (c Config) Commit() commit.Options {
	return commit.Options{
		Scheme:  c.Scheme(),
		Timeout: c.RemoteTimeout,
		Reload:  c.ReloadCommand,
		Verify:  c.VerifyCommand,
	}
}

// BootstrapTarget returns the target described by the BIND_* variables, if
// BIND_HOST is set or the transport is local.
func (c Config) BootstrapTarget() (registry.ServerTarget, bool) {
	if c.BindHost == "" && c.BindTransport != registry.TransportLocal {
		return registry.ServerTarget{}, false
	}
	return registry.ServerTarget{
		Transport:      c.BindTransport,
		Host:           c.BindHost,
		Port:           c.BindPort,
		User:           c.BindUser,
		SSHKey:         c.BindSSHKey,
		Password:       c.BindPassword,
		KnownHostsFile: c.BindKnownHostsFile,
		ConfigPath:     c.BindConfigPath,
	}, true
}
