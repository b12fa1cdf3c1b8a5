package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/libertil/eea-cdrtools/internal/usecase"
)

// defaultListColumn is where a clone report keeps the envelopes it created;
// the list-driven commands read it unless told otherwise.
const defaultListColumn = "CDRTESTEnvelope"

func deleteCmd(opts *rootOptions) *cobra.Command {
	c := &cobra.Command{
		Use:   "delete",
		Short: "Delete draft envelopes",
	}

	c.AddCommand(
		deleteListCmd(opts),
		deleteBatchCmd(opts),
	)
	return c
}

func deleteListCmd(opts *rootOptions) *cobra.Command {
	var yes bool

	c := &cobra.Command{
		Use:   "list FILE [COLUMN]",
		Short: "Delete the envelopes named in a CSV column",
		Long: `Delete the envelopes listed in a CSV file, typically a clone report.
COLUMN names the column holding the envelope URLs (default ` + defaultListColumn + `).
FILE "-" reads the list from stdin.`,
		Args: usageArgs(cobra.RangeArgs(1, 2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			tool, err := openTool(opts)
			if err != nil {
				return err
			}
			defer tool.Close()

			column := defaultListColumn
			if len(args) == 2 {
				column = args[1]
			}

			uc := usecase.NewDeleteListed(tool.lists, tool.client, newConfirmer(yes), tool.reporter, tool.sessions)
			sum, err := uc.Execute(cmd.Context(), usecase.DeleteListedRequest{
				Path:       args[0],
				Column:     column,
				Repository: tool.repo.String(),
			})
			if err != nil {
				return err
			}
			printDeleteSummary(os.Stdout, sum)
			return deleteOutcome(sum)
		},
	}

	c.Flags().BoolVar(&yes, "yes", false, "delete without asking per envelope")
	return c
}

func deleteBatchCmd(opts *rootOptions) *cobra.Command {
	var countries []string
	var modifiedAfter string
	var yes bool

	c := &cobra.Command{
		Use:   "batch OBLIGATION YEAR",
		Short: "Delete the draft envelopes of an obligation and year",
		Args:  usageArgs(cobra.ExactArgs(2)),
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
			year, err := parseYear(args[1])
			if err != nil {
				return err
			}
			cutoff, err := parseDateFlag("modified-after", modifiedAfter)
			if err != nil {
				return err
			}

			uc := usecase.NewBatchDelete(tool.client, tool.client, newConfirmer(yes), tool.reporter, tool.sessions)
			sum, err := uc.Execute(cmd.Context(), usecase.BatchDeleteRequest{
				Obligation:    ob,
				ReportingYear: year,
				Countries:     countries,
				ModifiedAfter: cutoff,
				Repository:    tool.repo.String(),
			})
			if err != nil {
				return err
			}
			printDeleteSummary(os.Stdout, sum)
			return deleteOutcome(sum)
		},
	}

	c.Flags().StringSliceVarP(&countries, "country", "c", nil, "country code filter (repeatable)")
	c.Flags().StringVar(&modifiedAfter, "modified-after", "", "only envelopes whose status changed after this date (YYYY-MM-DD)")
	c.Flags().BoolVar(&yes, "yes", false, "delete without asking per envelope")
	return c
}

// parseDateFlag reads a YYYY-MM-DD flag value; empty means no cutoff.
func parseDateFlag(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, usageErr(fmt.Errorf("invalid --%s date %q (expected YYYY-MM-DD)", name, value))
	}
	return t, nil
}

func printDeleteSummary(w io.Writer, sum usecase.DeleteSummary) {
	fmt.Fprintf(w, "deleted %d, skipped %d, failed %d\n", sum.Deleted, sum.Skipped, sum.Failed)
}

// deleteOutcome makes partial failure visible in the exit status after the
// per-envelope reporting already happened.
func deleteOutcome(sum usecase.DeleteSummary) error {
	if sum.Failed > 0 {
		return fmt.Errorf("%d envelope(s) could not be deleted", sum.Failed)
	}
	return nil
}
