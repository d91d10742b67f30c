package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/and161185/jami-localstate/internal/profile"
)

func newProfilesCmd(e *env) *cobra.Command {
	var account string

	cmd := &cobra.Command{Use: "profiles", Aliases: []string{"profile"}, Short: "Query contact profiles of an account"}
	cmd.PersistentFlags().StringVarP(&account, "account", "a", "", "account id")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List known profiles",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			reg, _, err := loadRegistry(e, account)
			if err != nil {
				return err
			}
			return printJSON(e.out, reg.Profiles())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "name URI",
		Short: "Print the display name of a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			reg, _, err := loadRegistry(e, account)
			if err != nil {
				return err
			}
			fmt.Fprintln(e.out, reg.DisplayName(args[0]))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "username URI NAME",
		Short: "Record a username resolved for a contact",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			reg, snap, err := loadRegistry(e, account)
			if err != nil {
				return err
			}
			reg.UsernameFound(args[0], args[1])
			if err := reg.SaveSnapshot(snap); err != nil {
				return err
			}
			fmt.Fprintln(e.out, reg.DisplayName(args[0]))
			return nil
		},
	})
	return cmd
}

// loadRegistry builds the account registry: snapshot first, then contact cards.
func loadRegistry(e *env, account string) (*profile.Registry, string, error) {
	if account == "" {
		return nil, "", errors.New("need --account")
	}
	snap, err := e.dirs.SnapshotPath(account)
	if err != nil {
		return nil, "", err
	}
	reg := profile.New(e.dirs, profile.WithLogger(e.log))
	if err := reg.LoadSnapshot(snap); err != nil {
		return nil, "", err
	}
	if err := reg.LoadFromAccount(account); err != nil {
		return nil, "", err
	}
	return reg, snap, nil
}
