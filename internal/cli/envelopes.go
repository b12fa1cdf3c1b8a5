package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/libertil/eea-cdrtools/internal/domain"
	"github.com/libertil/eea-cdrtools/internal/usecase"
)

func envelopesCmd(opts *rootOptions) *cobra.Command {
	c := &cobra.Command{
		Use:     "envelopes",
		Aliases: []string{"env"},
		Short:   "Inspect and create reporting envelopes",
	}

	c.AddCommand(
		envelopesListCmd(opts),
		envelopesGetCmd(opts),
		envelopesHistoryCmd(opts),
		envelopesFeedbacksCmd(opts),
		envelopesCreateCmd(opts),
	)
	return c
}

func envelopesListCmd(opts *rootOptions) *cobra.Command {
	var countries []string
	var year int
	var released bool
	var draft bool
	var latest bool
	var fields []string
	var query string

	c := &cobra.Command{
		Use:   "list OBLIGATION",
		Short: "List envelopes for an obligation",
		Long: `List envelopes for an obligation, given as a dataflow code ("aqd:d"),
an obligation number ("672"), or an alias from cdrtools.yaml.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			tool, err := openTool(opts)
			if err != nil {
				return err
			}
			defer tool.Close()

			ob, err := tool.resolveObligation(args[0])
			if err != nil {
				return err
			}
			rel, err := releasedFilter(released, draft)
			if err != nil {
				return err
			}

			envs, err := usecase.NewListEnvelopes(tool.client).Execute(cmd.Context(), usecase.ListRequest{
				Obligation:    ob,
				Countries:     countries,
				ReportingYear: year,
				Released:      rel,
				LatestOnly:    latest,
				Fields:        fields,
			})
			if err != nil {
				return err
			}

			if query != "" {
				return printQuery(os.Stdout, envs, query)
			}
			return printEnvelopes(os.Stdout, envs, tool.format)
		},
	}

	c.Flags().StringSliceVarP(&countries, "country", "c", nil, "country code filter (repeatable)")
	c.Flags().IntVarP(&year, "year", "y", 0, "keep envelopes whose reporting period starts this year")
	c.Flags().BoolVar(&released, "released", false, "released envelopes only")
	c.Flags().BoolVar(&draft, "draft", false, "draft envelopes only")
	c.Flags().BoolVar(&latest, "latest", false, "keep only the most recent envelope per country")
	c.Flags().StringSliceVar(&fields, "fields", nil, "API fields to request (default: the full projection)")
	c.Flags().StringVarP(&query, "query", "q", "", "JSONPath over the result, e.g. '$[*].URL'")
	return c
}

func envelopesGetCmd(opts *rootOptions) *cobra.Command {
	var query string

	c := &cobra.Command{
		Use:   "get ENVELOPE_URL",
		Short: "Show one envelope",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			tool, err := openTool(opts)
			if err != nil {
				return err
			}
			defer tool.Close()

			env, err := tool.client.Envelope(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if query != "" {
				return printQuery(os.Stdout, env, query)
			}
			return printEnvelopeDetail(os.Stdout, env, tool.format)
		},
	}

	c.Flags().StringVarP(&query, "query", "q", "", "JSONPath over the envelope, e.g. '$.Files[*].URL'")
	return c
}

func envelopesHistoryCmd(opts *rootOptions) *cobra.Command {
	c := &cobra.Command{
		Use:   "history ENVELOPE_URL",
		Short: "Show the workflow history of an envelope",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			tool, err := openTool(opts)
			if err != nil {
				return err
			}
			defer tool.Close()

			env, err := tool.client.History(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printHistory(os.Stdout, env, tool.format)
		},
	}
	return c
}

func envelopesFeedbacksCmd(opts *rootOptions) *cobra.Command {
	c := &cobra.Command{
		Use:   "feedbacks ENVELOPE_URL",
		Short: "List feedbacks posted on an envelope",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			tool, err := openTool(opts)
			if err != nil {
				return err
			}
			defer tool.Close()

			env, err := tool.client.Feedbacks(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printFeedbacks(os.Stdout, env, tool.format)
		},
	}
	return c
}

func envelopesCreateCmd(opts *rootOptions) *cobra.Command {
	var country string
	var obligation string
	var meta domain.EnvelopeMeta

	c := &cobra.Command{
		Use:   "create",
		Short: "Create a draft envelope under an obligation's collection",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			tool, err := openTool(opts)
			if err != nil {
				return err
			}
			defer tool.Close()

			ob, err := tool.resolveObligation(obligation)
			if err != nil {
				return err
			}
			if ob.Folder == "" {
				return usageErr(fmt.Errorf("obligation %d has no known collection folder", ob.Number))
			}

			env, err := tool.client.Create(cmd.Context(), country, ob, meta)
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, env.URL)
			return nil
		},
	}

	c.Flags().StringVarP(&country, "country", "c", "", "country code, e.g. lu (required)")
	c.Flags().StringVar(&obligation, "obligation", "", "dataflow code, number, or alias (required)")
	c.Flags().StringVar(&meta.Title, "title", "", "envelope title")
	c.Flags().StringVar(&meta.Description, "description", "", "envelope description")
	c.Flags().IntVar(&meta.Year, "year", 0, "first year of the reporting period")
	c.Flags().IntVar(&meta.EndYear, "end-year", 0, "last year of the reporting period")
	c.Flags().StringVar(&meta.PartOfYear, "part-of-year", "", "period within the year, e.g. \"Whole Year\"")
	c.Flags().StringVar(&meta.Locality, "locality", "", "locality the envelope covers")

	_ = c.MarkFlagRequired("country")
	_ = c.MarkFlagRequired("obligation")
	return c
}
