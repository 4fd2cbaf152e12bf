/*
 * Discover - find the editable zones of a name server.
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
package bindconf

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"bind-dns-manager/internal/remote"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultConfigPath = "/etc/bind/named.conf"

	maxIncludeDepth = 16
)

var (
	// tried in order when the configured file does not exist
	fallbackConfigPaths = []string{"/etc/named.conf", "/var/named/named.conf"}
	// searched for zone files given with a relative path
	zoneDirectories = []string{"/var/named", "/etc/bind", "/var/cache/bind"}
	builtinZones    = map[string]bool{
		"localhost":            true,
		"0.0.127.in-addr.arpa": true,
		"255.in-addr.arpa":     true,
	}
)

// Zone is a primary zone declared in the configuration.
type Zone struct {
	Name string
	// Type is master or primary.
	Type string
	// File is the absolute path of the zone file.
	File string
	// View is the view holding the zone, if any.
	View string
}

// Discovery is the outcome of reading a server configuration.
type Discovery struct {
	// ConfigPath is the main configuration file actually read.
	ConfigPath string
	// Files lists every file read, includes after the file including them.
	Files []string
	Zones []Zone
}

// Names returns the zone names.
func (d *Discovery) Names() []string {
	names := make([]string, 0, len(d.Zones))
	for _, z := range d.Zones {
		names = append(names, z.Name)
	}
	return names
}

type discoverer struct {
	ctx       context.Context
	ex        remote.Executor
	baseDir   string
	directory string
	seen      map[string]bool
	result    *Discovery
	names     map[string]bool
}

// Discover reads the configuration of the name server behind ex, following
// include statements, and returns the primary zones that have a zone file.
// When configPath does not exist the usual alternative locations are tried.
func Discover(ctx context.Context, ex remote.Executor, configPath string) (*Discovery, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	text, used, err := readConfig(ctx, ex, configPath)
	if err != nil {
		return nil, err
	}

	d := &discoverer{
		ctx:     ctx,
		ex:      ex,
		baseDir: path.Dir(used),
		seen:    map[string]bool{used: true},
		result:  &Discovery{ConfigPath: used, Files: []string{used}},
		names:   map[string]bool{},
	}
	stmts, err := Parse(text)
	if err != nil {
		var se *SyntaxError
		if errors.As(err, &se) {
			se.File = used
		}
		return nil, err
	}
	if err := d.walk(stmts, "", 0); err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"config": used, "zones": len(d.result.Zones)}).Debug("Server configuration read")
	return d.result, nil
}

// readConfig reads the main configuration file or the first alternative
// that exists.
func readConfig(ctx context.Context, ex remote.Executor, configPath string) (string, string, error) {
	data, err := ex.ReadFile(ctx, configPath)
	if err == nil {
		return string(data), configPath, nil
	}
	if !errors.Is(err, remote.ErrNotFound) {
		return "", "", fmt.Errorf("reading %s: %w", configPath, err)
	}
	for _, alt := range fallbackConfigPaths {
		if alt == configPath {
			continue
		}
		data, aerr := ex.ReadFile(ctx, alt)
		if aerr == nil {
			log.WithFields(log.Fields{"configured": configPath, "used": alt}).Info("Configuration file not found, using an alternative location")
			return string(data), alt, nil
		}
		if !errors.Is(aerr, remote.ErrNotFound) {
			return "", "", fmt.Errorf("reading %s: %w", alt, aerr)
		}
	}
	return "", "", fmt.Errorf("no server configuration at %s: %w", configPath, err)
}

// walk visits statements in order, descending into includes and views.
func (d *discoverer) walk(stmts []Statement, view string, depth int) error {
	for _, s := range stmts {
		switch strings.ToLower(s.Keyword) {
		case "options":
			if dir := s.Value("directory"); dir != "" {
				d.directory = dir
			}
		case "include":
			if len(s.Args) == 0 {
				continue
			}
			if err := d.include(s.Args[0], view, depth); err != nil {
				return err
			}
		case "view":
			name := ""
			if len(s.Args) > 0 {
				name = s.Args[0]
			}
			if err := d.walk(s.Block, name, depth); err != nil {
				return err
			}
		case "zone":
			if err := d.zone(s, view); err != nil {
				return err
			}
		}
	}
	return nil
}

// include reads an included file. Missing or unreadable includes are
// skipped, like the name server would report them without stopping here.
func (d *discoverer) include(file, view string, depth int) error {
	p := d.resolve(file)
	logger := log.WithField("include", p)
	if d.seen[p] {
		logger.Debug("Include already read")
		return nil
	}
	if depth >= maxIncludeDepth {
		return fmt.Errorf("includes nested deeper than %d levels at %s", maxIncludeDepth, p)
	}
	d.seen[p] = true

	data, err := d.ex.ReadFile(d.ctx, p)
	if err != nil {
		if errors.Is(err, remote.ErrNotFound) || errors.Is(err, remote.ErrPermission) {
			logger.Warnf("Skipping include: %v", err)
			return nil
		}
		return fmt.Errorf("reading %s: %w", p, err)
	}
	d.result.Files = append(d.result.Files, p)
	stmts, err := Parse(string(data))
	if err != nil {
		logger.Warnf("Skipping malformed include: %v", err)
		return nil
	}
	return d.walk(stmts, view, depth+1)
}

// resolve makes a relative include path absolute.
func (d *discoverer) resolve(file string) string {
	if path.IsAbs(file) {
		return path.Clean(file)
	}
	if d.directory != "" {
		return path.Join(d.directory, file)
	}
	return path.Join(d.baseDir, file)
}

// zone records an editable zone statement.
func (d *discoverer) zone(s Statement, view string) error {
	if len(s.Args) == 0 {
		return nil
	}
	name := strings.TrimSuffix(strings.ToLower(s.Args[0]), ".")
	if name == "" {
		name = "."
	}
	logger := log.WithField("zone", name)
	if builtinZones[name] {
		return nil
	}
	typ := strings.ToLower(s.Value("type"))
	file := s.Value("file")
	if (typ != "master" && typ != "primary") || file == "" {
		logger.WithField("type", typ).Debug("Skipping zone that is not an editable primary")
		return nil
	}
	if d.names[name] {
		return nil
	}
	p, err := d.zoneFile(file)
	if err != nil {
		return err
	}
	d.names[name] = true
	d.result.Zones = append(d.result.Zones, Zone{Name: name, Type: typ, File: p, View: view})
	return nil
}

// zoneFile locates a zone file. Relative names are looked up in the
// configured directory and in the usual zone directories; the first
// candidate is kept when none exists yet.
func (d *discoverer) zoneFile(file string) (string, error) {
	if path.IsAbs(file) {
		return path.Clean(file), nil
	}
	dirs := zoneDirectories
	if d.directory != "" {
		dirs = append([]string{d.directory}, zoneDirectories...)
	}
	for _, dir := range dirs {
		candidate := path.Join(dir, file)
		ok, err := remote.FileExists(d.ctx, d.ex, candidate)
		if err != nil {
			return "", fmt.Errorf("looking for zone file %s: %w", file, err)
		}
		if ok {
			return candidate, nil
		}
	}
	return path.Join(dirs[0], file), nil
}
