package domain

import (
	"fmt"
	"time"
)

// Credentials is an Eionet login. The zero value means anonymous access.
type Credentials struct {
	Username string
	Password string
}

// IsZero reports whether no login was provided.
func (c Credentials) IsZero() bool {
	return c.Username == "" && c.Password == ""
}

// Output formats understood by the CLI.
const (
	FormatPretty = "pretty"
	FormatJSON   = "json"
	FormatCSV    = "csv"
)

// Config represents the cdrtools configuration loaded from cdrtools.yaml.
type Config struct {
	Repository RepositoryConfig
	Auth       AuthConfig
	HTTP       HTTPConfig
	Output     OutputConfig
	Paths      PathsConfig
	Masking    MaskingConfig
	// Obligations extends the built-in dataflow registry with user-defined
	// aliases (label to obligation number).
	Obligations map[string]int
}

type RepositoryConfig struct {
	Name   string
	Secure bool
}

// AuthConfig holds login defaults. PasswordEnv names an environment variable
// to read the password from, so the file itself can stay secret-free.
type AuthConfig struct {
	Username    string
	Password    string
	PasswordEnv string
}

type HTTPConfig struct {
	Timeout   time.Duration
	RateLimit float64
	RateBurst int
}

type OutputConfig struct {
	Format string
}

type PathsConfig struct {
	SessionsDir string
	DownloadDir string
	LogFile     string
}

type MaskingConfig struct {
	Enabled bool
}

// DefaultConfig provides sane defaults if cdrtools.yaml is partially missing.
func DefaultConfig() Config {
	return Config{
		Repository: RepositoryConfig{
			Name:   string(RepoCDR),
			Secure: true,
		},
		HTTP: HTTPConfig{
			Timeout:   30 * time.Second,
			RateLimit: 4,
			RateBurst: 2,
		},
		Output: OutputConfig{
			Format: FormatPretty,
		},
		Paths: PathsConfig{
			SessionsDir: "sessions",
			DownloadDir: ".",
			LogFile:     "logs/cdrtools.log",
		},
		Masking: MaskingConfig{Enabled: true},
	}
}

// Validate rejects configurations the rest of the tool cannot act on.
func (c Config) Validate() error {
	if _, err := ParseRepository(c.Repository.Name); err != nil {
		return err
	}
	switch c.Output.Format {
	case FormatPretty, FormatJSON, FormatCSV:
	default:
		return &OpError{
			Op:   "config.validate",
			Kind: KindInvalidConfig,
			Err:  fmt.Errorf("%w: unknown output format %q", ErrInvalidConfig, c.Output.Format),
		}
	}
	if c.HTTP.Timeout < 0 {
		return &OpError{
			Op:   "config.validate",
			Kind: KindInvalidConfig,
			Err:  fmt.Errorf("%w: negative http timeout", ErrInvalidConfig),
		}
	}
	if c.HTTP.RateLimit < 0 {
		return &OpError{
			Op:   "config.validate",
			Kind: KindInvalidConfig,
			Err:  fmt.Errorf("%w: negative request rate", ErrInvalidConfig),
		}
	}
	return nil
}
