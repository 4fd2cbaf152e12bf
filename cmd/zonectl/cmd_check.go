/*
 * Check - parse a zone file and verify that it is written back unchanged.
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
	"strconv"
	"strings"
	"text/tabwriter"

	"bind-dns-manager/internal/zonefile"

	"github.com/spf13/cobra"
)

func newCmdCheck() *cobra.Command {
	var origin string
	var list bool
	cmd := &cobra.Command{
		Use:   "check FILE",
		Short: "Parse a zone file and check the round trip",
		Long: "Parse a zone file, write it back and compare the result with the source. " +
			"FILE may be - for the standard input.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			o, err := zoneOrigin(origin, path)
			if err != nil {
				return err
			}
			text, err := readZoneText(cmd, path)
			if err != nil {
				return err
			}
			z, err := zonefile.Parse(text, o)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if zonefile.Serialize(z) != text {
				return fmt.Errorf("%s: round trip differs from the source", path)
			}
			records := z.Records()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "zone %s: serial %d, %d records, round trip ok\n", z.Origin(), z.SOA().Serial, len(records))
			if !list {
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tTTL\tTYPE\tVALUE")
			for _, r := range records {
				ttl := "-"
				if r.HasTTL {
					ttl = strconv.FormatUint(uint64(r.TTL), 10)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Name, ttl, r.Type, strings.Join(r.Values, " "))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&origin, "origin", "", "Zone origin (default: the file name)")
	cmd.Flags().BoolVar(&list, "list", false, "List the records")
	return cmd
}
