// Copyright (c) 2026 FoDBot. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/zmattingly/FoDBot-SQL/internal/platform/apperr"
	"github.com/zmattingly/FoDBot-SQL/internal/reactionrole"
)

// definitionsOptions are the flags of "definitions validate". They default
// to the same values as DEFINITIONS_PATH and TOPICS so the command works
// without a Discord token.
type definitionsOptions struct {
	dir    string
	topics []string
	format string
}

// topicSummary is one line of the validation report.
type topicSummary struct {
	Topic     string `json:"topic"`
	Mode      string `json:"reaction_type"`
	Reactions int    `json:"reactions"`
	Embed     bool   `json:"embed"`
	Header    bool   `json:"header_image"`
}

func newDefinitionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "definitions",
		Short: "Inspect the topic definition files",
	}
	cmd.AddCommand(newValidateCommand())
	return cmd
}

func newValidateCommand() *cobra.Command {
	opts := &definitionsOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Load every configured topic and check it against Discord's limits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.dir, "dir", "./data/react_roles", "directory holding one definition file per topic")
	cmd.Flags().StringSliceVar(&opts.topics, "topics", []string{"pronouns", "locations", "departments", "notifications"}, "topics in publication order")
	cmd.Flags().StringVar(&opts.format, "format", "text", "output format (text|json)")

	return cmd
}

func runValidate(out io.Writer, opts *definitionsOptions) error {
	if opts.format != "text" && opts.format != "json" {
		return fmt.Errorf("invalid format %q: must be text or json", opts.format)
	}

	definitions, err := reactionrole.LoadDefinitions(opts.dir, opts.topics)
	if err != nil {
		return describeValidation(err)
	}

	summaries := make([]topicSummary, 0, definitions.Len())
	for _, definition := range definitions.All() {
		summaries = append(summaries, topicSummary{
			Topic:     definition.Name,
			Mode:      string(definition.Mode),
			Reactions: len(definition.Reactions),
			Embed:     definition.Embed != nil,
			Header:    definition.HeaderImageURL != "",
		})
	}

	if opts.format == "json" {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(summaries)
	}

	writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "TOPIC\tMODE\tREACTIONS\tEMBED\tHEADER")
	for _, summary := range summaries {
		fmt.Fprintf(writer, "%s\t%s\t%d\t%t\t%t\n", summary.Topic, summary.Mode, summary.Reactions, summary.Embed, summary.Header)
	}
	return writer.Flush()
}

// describeValidation flattens field errors into the returned message so
// they reach the terminal.
func describeValidation(err error) error {
	appErr := apperr.As(err)
	if appErr == nil || len(appErr.Details) == 0 {
		return err
	}

	lines := make([]string, 0, len(appErr.Details))
	for _, detail := range appErr.Details {
		lines = append(lines, fmt.Sprintf("  %s: %s", detail.Field, detail.Message))
	}
	return fmt.Errorf("%w\n%s", err, strings.Join(lines, "\n"))
}
