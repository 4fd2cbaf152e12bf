/*
 * Create - write the zone file of a new zone.
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
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"bind-dns-manager/internal/zonefile"

	"github.com/spf13/cobra"
)

func newCmdCreate() *cobra.Command {
	var p zonefile.ZoneParams
	var output string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create the zone file of a new zone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p.Now = now()
			text, err := zonefile.CreateZone(p)
			if err != nil {
				return err
			}
			if output == "" {
				_, err := io.WriteString(cmd.OutOrStdout(), text)
				return err
			}
			f, err := os.OpenFile(output, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
			if errors.Is(err, fs.ErrExist) {
				return fmt.Errorf("%s already exists", output)
			}
			if err != nil {
				return err
			}
			if _, err := io.WriteString(f, text); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVar(&p.Name, "name", "", "Zone name")
	cmd.Flags().StringVar(&p.PrimaryNS, "primary-ns", "", "Primary name server")
	cmd.Flags().StringVar(&p.AdminEmail, "admin-email", "", "Administrator e-mail address")
	cmd.Flags().StringVar(&p.NSIPAddress, "ns-ip", "", "Glue address of an in-zone primary name server")
	cmd.Flags().Uint32Var(&p.TTL, "ttl", zonefile.DefaultZoneTTL, "Default TTL")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of the standard output; an existing file is never overwritten")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("primary-ns")
	_ = cmd.MarkFlagRequired("admin-email")
	return cmd
}
