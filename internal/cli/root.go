package cli

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/libertil/eea-cdrtools/internal/domain"
)

// Exit codes, stable so shell scripts can branch on what went wrong.
const (
	exitFailure = 1
	exitUsage   = 2
	exitAuth    = 3
	exitMissing = 4
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

// exitCode maps error kinds onto the exit code contract. Anything without
// a recognisable kind counts as a plain failure.
func exitCode(err error) int {
	switch {
	case domain.IsKind(err, domain.KindNotFound):
		return exitMissing
	case domain.IsKind(err, domain.KindAuth):
		return exitAuth
	case domain.IsKind(err, domain.KindInvalidConfig):
		return exitUsage
	default:
		return exitFailure
	}
}

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	repo          string
	user          string
	password      string
	passwordStdin bool
	configPath    string
	format        string
	insecure      bool
	debug         bool
	timeout       time.Duration
	rate          float64
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "cdrtools",
		Short:        "Manage reporting envelopes on the Eionet Central Data Repository",
		SilenceUsage: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.repo, "repo", "", "repository instance: cdr|bdr|cdrtest|cdrsandbox (default from config, else cdr)")
	pf.StringVarP(&opts.user, "user", "u", "", "Eionet username")
	pf.StringVar(&opts.password, "password", "", "Eionet password (prefer --password-stdin or CDR_PASSWORD)")
	pf.BoolVar(&opts.passwordStdin, "password-stdin", false, "read the password from the first line of stdin")
	pf.StringVar(&opts.configPath, "config", "", "path to cdrtools.yaml (default: discovered)")
	pf.StringVarP(&opts.format, "format", "f", "", "output format: table|json|csv (default from config)")
	pf.BoolVar(&opts.insecure, "insecure", false, "allow plain http for anonymous requests")
	pf.BoolVar(&opts.debug, "debug", false, "verbose logging to logs/cdrtools.log")
	pf.DurationVar(&opts.timeout, "timeout", 0, "HTTP timeout, e.g. 45s (default from config)")
	pf.Float64Var(&opts.rate, "rate", 0, "max requests per second (default from config)")

	// Flag parse failures and bad argument counts are usage errors, not
	// execution failures; give them the usage exit code.
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageErr(err)
	})

	cmd.AddCommand(
		envelopesCmd(opts),
		filesCmd(opts),
		cloneCmd(opts),
		deleteCmd(opts),
		qaCmd(opts),
		browseCmd(opts),
		initCmd(),
		versionCmd(),
	)
	return cmd
}

func usageErr(err error) error {
	return &domain.OpError{Op: "cli.usage", Kind: domain.KindInvalidConfig, Err: err}
}

// usageArgs converts argument-count failures into usage errors so they exit
// with the usage code.
func usageArgs(v cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := v(cmd, args); err != nil {
			return usageErr(err)
		}
		return nil
	}
}
