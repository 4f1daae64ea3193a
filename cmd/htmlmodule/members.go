package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"vimagination.zapto.org/htmlmodule"
	"vimagination.zapto.org/htmlmodule/internal/keypath"
)

func newMembersCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "members",
		Short: "List the member keypaths used by inline module scripts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, v.GetString("members-input"))
			if err != nil {
				return err
			}

			scripts, err := htmlmodule.Scripts(string(data))
			if err != nil {
				return err
			}

			for n, s := range scripts {
				if !s.Inline() {
					continue
				}

				refs, err := keypath.Parse(s.Code)
				if err != nil {
					return fmt.Errorf("error in script %d: %w", n, err)
				}

				for _, r := range refs {
					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", n, r.Keypath)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringP("input", "i", "-", "input file")

	_ = v.BindPFlag("members-input", cmd.Flags().Lookup("input"))

	return cmd
}
