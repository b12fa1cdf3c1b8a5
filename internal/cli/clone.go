package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/libertil/eea-cdrtools/internal/domain"
	"github.com/libertil/eea-cdrtools/internal/infra/csvlist"
	"github.com/libertil/eea-cdrtools/internal/ports"
	"github.com/libertil/eea-cdrtools/internal/usecase"
)

func cloneCmd(opts *rootOptions) *cobra.Command {
	var countries []string
	var released bool
	var draft bool
	var latest bool
	var all bool
	var sourceRepo string
	var targetRepo string
	var noSave bool

	c := &cobra.Command{
		Use:   "clone OBLIGATION YEAR [OUT]",
		Short: "Copy envelopes into the test repository",
		Long: `Copy the envelopes reported for an obligation and year into fresh draft
envelopes on the target repository, files included. The report of source
and target envelopes is written as CSV to OUT, or to stdout when OUT is
omitted or "-".`,
		Args: usageArgs(cobra.RangeArgs(2, 3)),
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
			out := "-"
			if len(args) == 3 {
				out = args[2]
			}

			if released && draft {
				return usageErr(fmt.Errorf("--released and --draft are mutually exclusive"))
			}
			if latest && all {
				return usageErr(fmt.Errorf("--latest and --all are mutually exclusive"))
			}

			srcRepo := tool.repo
			if sourceRepo != "" {
				if srcRepo, err = domain.ParseRepository(sourceRepo); err != nil {
					return err
				}
			}
			tgtRepo, err := domain.ParseRepository(targetRepo)
			if err != nil {
				return err
			}
			if srcRepo == tgtRepo {
				return usageErr(fmt.Errorf("source and target repository are both %s", srcRepo))
			}

			src := tool.clientFor(srcRepo)
			tgt := tool.clientFor(tgtRepo)

			var sessions ports.SessionStore
			if !noSave {
				sessions = tool.sessions
			}

			uc := usecase.NewCloneEnvelopes(src, tgt, tgt, tgt, tool.reporter, sessions)
			records, err := uc.Execute(cmd.Context(), usecase.CloneRequest{
				Obligation:       ob,
				ReportingYear:    year,
				Countries:        countries,
				LatestOnly:       !all,
				Released:         !draft,
				TargetRepository: tgtRepo.String(),
			})
			if err != nil {
				return err
			}

			return writeCloneReport(out, records)
		},
	}

	c.Flags().StringSliceVarP(&countries, "country", "c", nil, "country code filter (repeatable)")
	c.Flags().BoolVar(&released, "released", false, "clone released envelopes (the default)")
	c.Flags().BoolVar(&draft, "draft", false, "clone draft envelopes instead of released ones")
	c.Flags().BoolVar(&latest, "latest", false, "one envelope per country, the most recent (the default)")
	c.Flags().BoolVar(&all, "all", false, "clone every matching envelope, not just the latest per country")
	c.Flags().StringVar(&sourceRepo, "source-repo", "", "repository to clone from (default: the --repo instance)")
	c.Flags().StringVar(&targetRepo, "target-repo", "cdrtest", "repository to clone into")
	c.Flags().BoolVar(&noSave, "no-save", false, "do not write a session artifact under sessions/")
	return c
}

func parseYear(s string) (int, error) {
	year, err := strconv.Atoi(s)
	if err != nil || year <= 0 {
		return 0, usageErr(fmt.Errorf("invalid reporting year %q", s))
	}
	return year, nil
}

// writeCloneReport writes the clone records as CSV to path, with "-"
// meaning stdout.
func writeCloneReport(path string, records []domain.CloneRecord) error {
	var w io.Writer = os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return &domain.OpError{Op: "cli.clone", Kind: domain.KindExecution, Path: path, Err: err}
		}
		defer f.Close()
		w = f
	}
	return csvlist.WriteCloneRecords(w, records)
}
