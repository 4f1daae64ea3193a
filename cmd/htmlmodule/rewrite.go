package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"vimagination.zapto.org/htmlmodule"
)

func newRewriteCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rewrite",
		Short: "Rewrite an HTML document into a javascript module",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, v.GetString("input"))
			if err != nil {
				return err
			}

			opts := []htmlmodule.Option{htmlmodule.Logger(log.Logger)}

			if v.GetBool("members") {
				opts = append(opts, htmlmodule.LogMembers)
			}

			code, err := htmlmodule.RewriteBytes(cmd.Context(), data, opts...)
			if err != nil {
				return fmt.Errorf("error generating output: %w", err)
			}

			return writeOutput(cmd, v.GetString("output"), code)
		},
	}

	cmd.Flags().StringP("input", "i", "-", "input file")
	cmd.Flags().StringP("output", "o", "-", "output file")
	cmd.Flags().Bool("members", false, "log member keypaths of inline scripts")

	_ = v.BindPFlag("input", cmd.Flags().Lookup("input"))
	_ = v.BindPFlag("output", cmd.Flags().Lookup("output"))
	_ = v.BindPFlag("members", cmd.Flags().Lookup("members"))

	return cmd
}

func readInput(cmd *cobra.Command, input string) ([]byte, error) {
	if input == "" || input == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("error reading input: %w", err)
		}

		return data, nil
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}

	return data, nil
}

func writeOutput(cmd *cobra.Command, output, code string) error {
	if output == "" || output == "-" {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), code); err != nil {
			return fmt.Errorf("error writing to output: %w", err)
		}

		return nil
	}

	of, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}

	if _, err = fmt.Fprintln(of, code); err != nil {
		of.Close()

		return fmt.Errorf("error writing to output: %w", err)
	} else if err = of.Close(); err != nil {
		return fmt.Errorf("error closing output: %w", err)
	}

	return nil
}
