/*
 * Zonectl - offline zone file tool.
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
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bind-dns-manager/cmd/bindmanager/init/logging"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	Version = "local"

	// now is the clock of the create and serial commands.
	now = time.Now
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "zonectl",
		Short:   "Check and create BIND zone files",
		Version: Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().String("log-level", "warn", "Log level (debug|info|warn|error)")
	cmd.PersistentPreRunE = func(c *cobra.Command, _ []string) error {
		level, _ := c.Flags().GetString("log-level")
		l := log.StandardLogger()
		l.SetOutput(c.ErrOrStderr())
		return logging.Configure(l, level, logging.FormatText)
	}

	cmd.AddCommand(newCmdCheck())
	cmd.AddCommand(newCmdCreate())
	cmd.AddCommand(newCmdSerial())
	return cmd
}

// readZoneText reads a zone file, "-" being the standard input.
func readZoneText(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading standard input: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// zoneOrigin returns the origin flag, or the name of the file without the
// usual zone file prefix and suffix.
func zoneOrigin(origin, path string) (string, error) {
	if origin != "" {
		return origin, nil
	}
	if path == "-" {
		return "", fmt.Errorf("--origin is required when reading standard input")
	}
	name := filepath.Base(path)
	name = strings.TrimPrefix(name, "db.")
	for _, suffix := range []string{".zone", ".db", ".hosts"} {
		name = strings.TrimSuffix(name, suffix)
	}
	if name == "" || name == "." {
		return "", fmt.Errorf("cannot tell the origin of %s, use --origin", path)
	}
	return name, nil
}

func main() {
	root := newRootCmd()
	root.SetContext(context.Background())
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "zonectl: %v\n", err)
		os.Exit(1)
	}
}
