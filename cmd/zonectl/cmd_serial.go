/*
 * Serial - compute the next SOA serial.
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
	"fmt"

	"bind-dns-manager/internal/zonefile"

	"github.com/spf13/cobra"
)

func newCmdSerial() *cobra.Command {
	var scheme, origin string
	var current uint32
	cmd := &cobra.Command{
		Use:   "serial [FILE]",
		Short: "Print the serial that follows the current one",
		Long: "Print the serial that follows --current, or the serial of the zone in FILE. " +
			"Without either, print the first serial of a new zone.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := zonefile.ParseSerialScheme(scheme)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				if cmd.Flags().Changed("current") {
					return fmt.Errorf("--current and FILE are mutually exclusive")
				}
				o, err := zoneOrigin(origin, args[0])
				if err != nil {
					return err
				}
				text, err := readZoneText(cmd, args[0])
				if err != nil {
					return err
				}
				z, err := zonefile.Parse(text, o)
				if err != nil {
					return fmt.Errorf("%s: %w", args[0], err)
				}
				current = z.SOA().Serial
			}
			next := zonefile.InitialSerial(now())
			if current != 0 {
				next = zonefile.NextSerial(current, s, now())
			}
			fmt.Fprintln(cmd.OutOrStdout(), next)
			return nil
		},
	}
	cmd.Flags().StringVar(&scheme, "scheme", string(zonefile.SerialDate), "Serial scheme (date|increment)")
	cmd.Flags().Uint32Var(&current, "current", 0, "Current serial")
	cmd.Flags().StringVar(&origin, "origin", "", "Zone origin of FILE (default: the file name)")
	return cmd
}
