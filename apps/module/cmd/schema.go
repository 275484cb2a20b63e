package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/runbookd/urimod/packages/params"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the option and return documentation",
	Long: `Print the machine-readable documentation of the module: accepted
options with their types, defaults and relations, and the fields of the
result record.

Examples:
  urimod schema
  urimod schema --format yaml`,
	Args: cobra.NoArgs,
	RunE: schemaCommand,
}

var schemaFormatFlag string

func init() {
	schemaCmd.Flags().StringVar(&schemaFormatFlag, "format", "json", "Output format: json, yaml")
}

type schemaDocument struct {
	Module            string               `json:"module" yaml:"module"`
	Description       string               `json:"description" yaml:"description"`
	Options           []params.Option      `json:"options" yaml:"options"`
	RequiredTogether  [][]string           `json:"required_together" yaml:"required_together"`
	MutuallyExclusive [][]string           `json:"mutually_exclusive" yaml:"mutually_exclusive"`
	Returns           []params.ReturnField `json:"returns" yaml:"returns"`
}

func schemaCommand(cmd *cobra.Command, args []string) error {
	doc := schemaDocument{
		Module:            "uri",
		Description:       "Perform one HTTP request and return the full response as structured data",
		Options:           params.Options,
		RequiredTogether:  params.RequiredTogether,
		MutuallyExclusive: params.MutuallyExclusive,
		Returns:           params.Returns,
	}

	switch strings.ToLower(schemaFormatFlag) {
	case "json":
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(doc)
	case "yaml":
		encoder := yaml.NewEncoder(cmd.OutOrStdout())
		defer encoder.Close()
		return encoder.Encode(doc)
	default:
		return fmt.Errorf("unknown format %q (use json or yaml)", schemaFormatFlag)
	}
}
