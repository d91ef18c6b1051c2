package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ayberkarici/fucom/internal/fucom"
	"github.com/ayberkarici/fucom/internal/sheet"
)

type renderOptions struct {
	input    string
	output   string
	generate bool
	strict   bool
}

func newRenderCmd() *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a saved survey response to a spreadsheet",
		Long: `render reads a survey response in the web UI's JSON format and writes the
spreadsheet that a submission would upload. Nothing is uploaded.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := runRender(opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "response JSON file (required)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output path (default: derived from the respondent's name)")
	cmd.Flags().BoolVar(&opts.generate, "generate", false, "re-derive comparison pairs from the orderings, keeping matching answers")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "reject incomplete responses")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func runRender(opts *renderOptions) (string, error) {
	blob, err := os.ReadFile(opts.input)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	var resp fucom.Response
	if err := json.Unmarshal(blob, &resp); err != nil {
		return "", fmt.Errorf("decode input JSON: %w", err)
	}
	if opts.generate {
		regenerate(&resp)
	}

	check := fucom.CheckFullName(resp.Demographics)
	if opts.strict {
		check = fucom.Validate(fucom.DefaultCatalog(), &resp)
	}
	if check != nil {
		return "", check
	}

	doc, err := sheet.Render(&resp)
	if err != nil {
		return "", err
	}
	out := opts.output
	if out == "" {
		out = fucom.FileName(resp.Demographics.FullName)
	}
	if err := os.WriteFile(out, doc, 0o644); err != nil {
		return "", fmt.Errorf("write output: %w", err)
	}
	log.Debug().Str("output", out).Int("bytes", len(doc)).Msg("spreadsheet written")
	return out, nil
}

// regenerate derives comparison pairs from the orderings and carries over
// answers whose pair is unchanged.
func regenerate(resp *fucom.Response) {
	for _, g := range fucom.Groups {
		answers := map[[2]string]fucom.ImportanceCode{}
		for _, c := range resp.Comparisons(g) {
			answers[[2]string{c.First, c.Second}] = c.Value
		}
		fresh := fucom.GenerateComparisons(resp.Ordering(g))
		for i := range fresh {
			fresh[i].Value = answers[[2]string{fresh[i].First, fresh[i].Second}]
		}
		resp.SetComparisons(g, fresh)
	}
}
