package cli

import (
	"github.com/spf13/cobra"

	"github.com/libertil/eea-cdrtools/internal/infra/logger"
	"github.com/libertil/eea-cdrtools/internal/ui/tui"
)

func browseCmd(opts *rootOptions) *cobra.Command {
	var countries []string
	var year int
	var released bool
	var draft bool

	c := &cobra.Command{
		Use:   "browse OBLIGATION",
		Short: "Browse envelopes interactively",
		Long: `Open a read-only browser over the envelopes of an obligation: filter the
list, inspect files, and walk the workflow history.`,
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

			return tui.Run(tui.Deps{
				Finder:     tool.client,
				Workflow:   tool.client,
				Repository: tool.repo,
				Query: tui.Query{
					Obligation: ob,
					Countries:  countries,
					Year:       year,
					Released:   rel,
				},
				Logger: logger.L(),
				Debug:  opts.debug,
			})
		},
	}

	c.Flags().StringSliceVarP(&countries, "country", "c", nil, "country code filter (repeatable)")
	c.Flags().IntVarP(&year, "year", "y", 0, "keep envelopes whose reporting period starts this year")
	c.Flags().BoolVar(&released, "released", false, "released envelopes only")
	c.Flags().BoolVar(&draft, "draft", false, "draft envelopes only")
	return c
}
