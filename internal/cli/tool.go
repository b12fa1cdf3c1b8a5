package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/libertil/eea-cdrtools/internal/domain"
	"github.com/libertil/eea-cdrtools/internal/infra/cdrclient"
	"github.com/libertil/eea-cdrtools/internal/infra/config"
	"github.com/libertil/eea-cdrtools/internal/infra/configfinder"
	"github.com/libertil/eea-cdrtools/internal/infra/csvlist"
	"github.com/libertil/eea-cdrtools/internal/infra/logger"
	"github.com/libertil/eea-cdrtools/internal/infra/sessionstore"
	"github.com/libertil/eea-cdrtools/internal/ports"
)

// toolCtx bundles what a command needs: the resolved configuration, a
// client bound to the chosen repository, and the shared ports.
type toolCtx struct {
	root  string
	cfg   domain.Config
	repo  domain.Repository
	creds domain.Credentials

	client   *cdrclient.Client
	lists    ports.ListSource
	sessions ports.SessionStore
	reporter ports.Reporter

	format  string
	cleanup func() error
}

// openTool resolves configuration and credentials and wires the adapters.
// Sessions and logs land next to the config file when one was found,
// otherwise in the working directory.
func openTool(opts *rootOptions) (*toolCtx, error) {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	wd, _ = filepath.Abs(wd)

	cfg := domain.DefaultConfig()
	root := wd
	path, found, err := configfinder.NewFinder().Resolve(opts.configPath, wd)
	if err != nil {
		return nil, err
	}
	if found {
		cfg, err = config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		root = filepath.Dir(path)
	}

	applyOverrides(&cfg, opts)

	repo, err := domain.ParseRepository(cfg.Repository.Name)
	if err != nil {
		return nil, err
	}

	cleanup, _ := logger.Setup(logger.Config{
		Root:  root,
		File:  cfg.Paths.LogFile,
		Debug: opts.debug,
	})

	creds, err := resolveCredentials(opts, cfg, os.Stdin)
	if err != nil {
		if cleanup != nil {
			_ = cleanup()
		}
		return nil, err
	}

	client := cdrclient.New(repo,
		cdrclient.WithCredentials(creds),
		cdrclient.WithSecure(cfg.Repository.Secure),
		cdrclient.WithTimeout(cfg.HTTP.Timeout),
		cdrclient.WithRateLimit(cfg.HTTP.RateLimit, cfg.HTTP.RateBurst),
	)

	return &toolCtx{
		root:     root,
		cfg:      cfg,
		repo:     repo,
		creds:    creds,
		client:   client,
		lists:    csvlist.NewSource(),
		sessions: sessionstore.NewJSONStore(root, cfg, sessionstore.WithIndex(true)),
		reporter: newStderrReporter(),
		format:   resolveFormat(opts.format, cfg.Output.Format),
		cleanup:  cleanup,
	}, nil
}

func (t *toolCtx) Close() {
	if t.cleanup != nil {
		_ = t.cleanup()
	}
}

// clientFor builds a client bound to another repository instance, keeping
// the credentials and politeness settings of the primary one.
func (t *toolCtx) clientFor(repo domain.Repository) *cdrclient.Client {
	if repo == t.repo {
		return t.client
	}
	return cdrclient.New(repo,
		cdrclient.WithCredentials(t.creds),
		cdrclient.WithSecure(t.cfg.Repository.Secure),
		cdrclient.WithTimeout(t.cfg.HTTP.Timeout),
		cdrclient.WithRateLimit(t.cfg.HTTP.RateLimit, t.cfg.HTTP.RateBurst),
	)
}

// resolveObligation accepts a dataflow code, a bare obligation number, or an
// alias declared under obligations: in cdrtools.yaml. Aliases may point at
// numbers outside the built-in registry; those resolve without a collection
// folder and cannot be used to create envelopes.
func (t *toolCtx) resolveObligation(arg string) (domain.Obligation, error) {
	key := strings.ToLower(strings.TrimSpace(arg))
	if n, ok := t.cfg.Obligations[key]; ok {
		if ob, err := domain.ObligationByNumber(n); err == nil {
			return ob, nil
		}
		return domain.Obligation{Code: key, Number: n}, nil
	}
	return domain.ResolveObligation(arg)
}

// applyOverrides layers command-line flags over the loaded configuration.
func applyOverrides(cfg *domain.Config, opts *rootOptions) {
	if opts.repo != "" {
		cfg.Repository.Name = opts.repo
	}
	if opts.insecure {
		cfg.Repository.Secure = false
	}
	if opts.timeout > 0 {
		cfg.HTTP.Timeout = opts.timeout
	}
	if opts.rate > 0 {
		cfg.HTTP.RateLimit = opts.rate
	}
}

// resolveCredentials layers flag > environment > config file. The config
// password may be indirected through password_env so the YAML itself stays
// secret-free. A username without any password source prompts on the
// terminal; without a terminal the credentials stay incomplete and the
// server rejects the request instead.
func resolveCredentials(opts *rootOptions, cfg domain.Config, stdin io.Reader) (domain.Credentials, error) {
	user := firstNonEmpty(opts.user, os.Getenv("CDR_USERNAME"), cfg.Auth.Username)

	password := opts.password
	if password == "" && opts.passwordStdin {
		line, err := readPasswordLine(stdin)
		if err != nil {
			return domain.Credentials{}, err
		}
		password = line
	}
	if password == "" {
		password = os.Getenv("CDR_PASSWORD")
	}
	if password == "" {
		password = cfg.Auth.Password
	}
	if password == "" && cfg.Auth.PasswordEnv != "" {
		password = os.Getenv(cfg.Auth.PasswordEnv)
	}
	if user != "" && password == "" && !opts.passwordStdin {
		p, err := promptPassword(user)
		if err != nil {
			return domain.Credentials{}, err
		}
		password = p
	}
	return domain.Credentials{Username: user, Password: password}, nil
}

func readPasswordLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return "", &domain.OpError{
			Op:   "cli.password",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("read password from stdin: %w", err),
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// promptPassword asks on the controlling terminal with echo disabled.
func promptPassword(user string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", nil
	}
	fmt.Fprintf(os.Stderr, "Password for %s: ", user)
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", &domain.OpError{Op: "cli.password", Kind: domain.KindExecution, Err: err}
	}
	return string(raw), nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// releasedFilter turns the released/draft flag pair into the tri-state the
// search API expects: nil means both.
func releasedFilter(released, draft bool) (*bool, error) {
	if released && draft {
		return nil, usageErr(fmt.Errorf("--released and --draft are mutually exclusive"))
	}
	if released {
		v := true
		return &v, nil
	}
	if draft {
		v := false
		return &v, nil
	}
	return nil, nil
}
