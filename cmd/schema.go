package cmd

import (
	"github.com/spf13/cobra"

	"github.com/clemsmoz/startingbloch-sub005/internal/xmlwriter"
)

// schemaCmd prints the XSD describing the XML export.
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the XSD of the XML export",

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },

	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := cmd.OutOrStdout().Write(xmlwriter.GenerateXSD())
		return err
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
