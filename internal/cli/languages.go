package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kokkonisd/locstats/internal/config"
)

func newLanguagesCmd(global *globalFlags) *cobra.Command {
	var outputJSON bool
	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List the supported languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLanguages(global.ConfigPath, outputJSON, cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&outputJSON, "json", false, "Print the languages as JSON")
	return cmd
}

type languageReport struct {
	Key          string   `json:"key"`
	Name         string   `json:"name"`
	Extensions   []string `json:"extensions"`
	LineComment  string   `json:"line_comment,omitempty"`
	BlockComment []string `json:"block_comments,omitempty"`
}

func runLanguages(configPath string, outputJSON bool, out io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	registry, err := cfg.Registry()
	if err != nil {
		return err
	}

	specs := registry.Specs()
	if outputJSON {
		reports := make([]languageReport, 0, len(specs))
		for _, spec := range specs {
			report := languageReport{
				Key:         spec.Key,
				Name:        spec.Name,
				Extensions:  spec.Extensions,
				LineComment: spec.Comments.Line,
			}
			for _, block := range spec.Comments.Blocks {
				report.BlockComment = append(report.BlockComment, block.Open+" "+block.Close)
			}
			reports = append(reports, report)
		}
		return writeJSONOutput(out, reports)
	}

	for _, spec := range specs {
		fmt.Fprintf(out, "%-14s %-14s %s\n", spec.Key, spec.Name, strings.Join(spec.Extensions, " "))
	}
	return nil
}
