// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sharedco/vpnwatch/internal/admins"
)

var adminsCmd = &cobra.Command{
	Use:   "admins",
	Short: "Manage Telegram bot administrators",
}

var adminsAddCmd = &cobra.Command{
	Use:   "add <telegram-id>",
	Short: "Grant bot admin rights",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ed := admins.NewEditor(app.client, admins.View{})
		ok := ed.Add(cmd.Context(), args[0])
		return reportAdmins(cmd.OutOrStdout(), ed.View(), ok)
	},
}

var adminsRemoveCmd = &cobra.Command{
	Use:   "remove <telegram-id>",
	Short: "Revoke bot admin rights",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ed := admins.NewEditor(app.client, admins.View{})
		ok := ed.Remove(cmd.Context(), args[0])
		return reportAdmins(cmd.OutOrStdout(), ed.View(), ok)
	},
}

func init() {
	adminsCmd.AddCommand(adminsAddCmd)
	adminsCmd.AddCommand(adminsRemoveCmd)
}

func reportAdmins(w io.Writer, v admins.View, ok bool) error {
	if !ok {
		if v.Alert != nil {
			return errors.New(v.Alert.Message)
		}
		return errors.New(admins.ErrorText)
	}

	if v.Alert != nil {
		fmt.Fprintln(w, v.Alert.Message)
	}
	fmt.Fprintln(w, "\nAdministrators:")
	for _, line := range v.Lines() {
		fmt.Fprintf(w, "  %s\n", line)
	}
	fmt.Fprintf(w, "Bot service: %s\n", v.BotStatus())
	return nil
}
