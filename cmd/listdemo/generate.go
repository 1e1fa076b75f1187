package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func generateCmd() *cobra.Command {
	var (
		groups int
		rows   int
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Emit a starter YAML fixture on stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := yaml.Marshal(synthesizeFixture(groups, rows))
			if err != nil {
				return fmt.Errorf("failed to encode fixture: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().IntVar(&groups, "groups", 3, "group count")
	cmd.Flags().IntVar(&rows, "rows", 8, "rows per group")
	return cmd
}
