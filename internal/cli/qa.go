package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/libertil/eea-cdrtools/internal/domain"
	"github.com/libertil/eea-cdrtools/internal/infra/csvlist"
	"github.com/libertil/eea-cdrtools/internal/usecase"
)

func qaCmd(opts *rootOptions) *cobra.Command {
	c := &cobra.Command{
		Use:   "qa",
		Short: "Run and harvest automatic quality checks",
	}

	c.AddCommand(
		qaReportCmd(opts),
		qaActivateCmd(opts),
	)
	return c
}

func qaReportCmd(opts *rootOptions) *cobra.Command {
	c := &cobra.Command{
		Use:   "report FILE [COLUMN] [OUT]",
		Short: "Collect QA check results into an error report",
		Long: `Fetch the QA feedbacks of the envelopes listed in FILE and flatten every
check message into one CSV row. The report uses ";" as delimiter because
check messages routinely contain commas. COLUMN names the envelope column
(default ` + defaultListColumn + `); OUT defaults to stdout.`,
		Args: usageArgs(cobra.RangeArgs(1, 3)),
		RunE: func(cmd *cobra.Command, args []string) error {
			tool, err := openTool(opts)
			if err != nil {
				return err
			}
			defer tool.Close()

			column := defaultListColumn
			if len(args) >= 2 {
				column = args[1]
			}
			out := "-"
			if len(args) == 3 {
				out = args[2]
			}

			uc := usecase.NewQAReport(tool.client, tool.lists, tool.reporter)
			records, err := uc.Execute(cmd.Context(), usecase.QAReportRequest{
				Path:   args[0],
				Column: column,
			})
			if err != nil {
				return err
			}
			return writeFeedbackReport(out, records)
		},
	}
	return c
}

func writeFeedbackReport(path string, records []domain.FeedbackRecord) error {
	var w io.Writer = os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return &domain.OpError{Op: "cli.qa", Kind: domain.KindExecution, Path: path, Err: err}
		}
		defer f.Close()
		w = f
	}
	return csvlist.WriteFeedbackRecords(w, records)
}

func qaActivateCmd(opts *rootOptions) *cobra.Command {
	var maxActivations int
	var after string

	c := &cobra.Command{
		Use:   "activate FILE COLUMN",
		Short: "Start automatic QA on listed envelopes",
		Long: `Activate and complete the draft workitem of each envelope listed in the
given CSV column, which makes the repository schedule its automatic QA.
At most --max-activations envelopes are put into QA in one run; envelopes
already being checked count against that cap.`,
		Args: usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			tool, err := openTool(opts)
			if err != nil {
				return err
			}
			defer tool.Close()

			cutoff, err := parseDateFlag("after", after)
			if err != nil {
				return err
			}
			if maxActivations <= 0 {
				return usageErr(fmt.Errorf("--max-activations must be positive"))
			}

			uc := usecase.NewActivateQA(tool.client, tool.lists, tool.reporter, tool.sessions)
			sum, err := uc.Execute(cmd.Context(), usecase.ActivateQARequest{
				Path:           args[0],
				Column:         args[1],
				MaxActivations: maxActivations,
				After:          cutoff,
				Repository:     tool.repo.String(),
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stdout, "activated %d, in QA %d, skipped %d, failed %d\n",
				sum.Activated, sum.InQA, sum.Skipped, sum.Failed)
			if sum.Failed > 0 {
				return fmt.Errorf("%d envelope(s) could not be activated", sum.Failed)
			}
			return nil
		},
	}

	c.Flags().IntVar(&maxActivations, "max-activations", 3, "most envelopes allowed in QA at once")
	c.Flags().StringVar(&after, "after", "", "skip envelopes already checked on or after this date (YYYY-MM-DD)")
	return c
}
