/*
 * Gateway - zone checks run by the name server tools.
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
package validation

import (
	"context"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"bind-dns-manager/internal/remote"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultCommand      = "named-checkzone {zone} {file}"
	DefaultErrorPattern = `(?i)(not loaded|failed|: error)`
	DefaultStagingDir   = "/tmp"

	cleanupTimeout = 10 * time.Second
)

// Options configures a Gateway.
type Options struct {
	// Command is the checker command line; {zone} and {file} are replaced
	// by the zone name and the staged file.
	Command string
	// ErrorPattern marks as failed a check whose output has a matching line,
	// even with a zero exit code.
	ErrorPattern string
	// StagingDir is the directory of the remote host where the proposed
	// text is written for the check.
	StagingDir string
}

// Failure is returned when the checker rejects the zone.
type Failure struct {
	Zone        string
	ExitCode    int
	Diagnostics []string
}

func (f *Failure) Error() string {
	if len(f.Diagnostics) == 0 {
		return fmt.Sprintf("zone %s rejected by the checker (exit code %d)", f.Zone, f.ExitCode)
	}
	return fmt.Sprintf("zone %s rejected by the checker: %s", f.Zone, strings.Join(f.Diagnostics, "; "))
}

// Gateway submits zone text to the checker of the name server host.
type Gateway struct {
	command      remote.CommandTemplate
	errorPattern *regexp.Regexp
	stagingDir   string
	newID        func() string
}

// New returns a Gateway. Empty options take the defaults.
func New(opts Options) (*Gateway, error) {
	if opts.Command == "" {
		opts.Command = DefaultCommand
	}
	if opts.ErrorPattern == "" {
		opts.ErrorPattern = DefaultErrorPattern
	}
	if opts.StagingDir == "" {
		opts.StagingDir = DefaultStagingDir
	}
	re, err := regexp.Compile(opts.ErrorPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid checker error pattern: %w", err)
	}
	return &Gateway{
		command:      remote.ParseCommandTemplate(opts.Command),
		errorPattern: re,
		stagingDir:   opts.StagingDir,
		newID:        uuid.NewString,
	}, nil
}

// zoneName returns the origin in the form given to the name server tools.
func zoneName(origin string) string {
	if origin == "." {
		return origin
	}
	return strings.TrimSuffix(origin, ".")
}

// stagingPath returns a unique file name for the check of origin.
func (g *Gateway) stagingPath(origin string) string {
	return path.Join(g.stagingDir, zoneName(origin)+"."+g.newID()+".tmp")
}

// Validate checks text as the content of zone origin. The text is written to
// a staging file that is removed afterwards; the zone file itself is never
// touched. A rejection is reported as *Failure, anything else is a transport
// error.
func (g *Gateway) Validate(ctx context.Context, ex remote.Executor, origin, text string) error {
	zone := zoneName(origin)
	staged := g.stagingPath(origin)
	logger := log.WithFields(log.Fields{"zone": zone, "file": staged})

	if err := ex.WriteFile(ctx, staged, []byte(text)); err != nil {
		return fmt.Errorf("staging zone %s: %w", zone, err)
	}
	defer func() {
		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
		defer cancel()
		if err := remote.RemoveFile(cctx, ex, staged); err != nil {
			logger.Warnf("Could not remove the staging file: %v", err)
		}
	}()

	res, err := ex.RunCommand(ctx, g.command.Expand(zone, staged))
	if err != nil {
		return fmt.Errorf("running the zone checker: %w", err)
	}
	diagnostics := diagnosticLines(res.Output())
	failed := res.ExitCode != 0
	for _, l := range diagnostics {
		if g.errorPattern.MatchString(l) {
			failed = true
			break
		}
	}
	if failed {
		logger.WithField("exitCode", res.ExitCode).Debug("Zone rejected by the checker")
		return &Failure{Zone: zone, ExitCode: res.ExitCode, Diagnostics: diagnostics}
	}
	logger.Debug("Zone accepted by the checker")
	return nil
}

// IsFailure reports whether err is a rejection by the checker.
func IsFailure(err error) bool {
	var f *Failure
	return errors.As(err, &f)
}

// diagnosticLines returns the non-empty lines of out.
func diagnosticLines(out string) []string {
	lines := []string{}
	for _, l := range strings.Split(out, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
