package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/libertil/eea-cdrtools/internal/domain"
)

// MapConfig overlays a parsed cdrtools.yaml on the defaults and validates
// the result.
func MapConfig(path string, yc YAMLConfig) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	if name := strings.TrimSpace(yc.Repository.Name); name != "" {
		repo, err := domain.ParseRepository(name)
		if err != nil {
			return domain.Config{}, invalidField(path, "repository.name", fmt.Sprintf("unknown repository %q", name))
		}
		cfg.Repository.Name = string(repo)
	}
	if yc.Repository.Secure != nil {
		cfg.Repository.Secure = *yc.Repository.Secure
	}

	cfg.Auth.Username = strings.TrimSpace(yc.Auth.Username)
	cfg.Auth.Password = yc.Auth.Password
	cfg.Auth.PasswordEnv = strings.TrimSpace(yc.Auth.PasswordEnv)

	if yc.HTTP.TimeoutSeconds != nil {
		if *yc.HTTP.TimeoutSeconds < 0 {
			return domain.Config{}, invalidField(path, "http.timeout_seconds", "must not be negative")
		}
		cfg.HTTP.Timeout = time.Duration(*yc.HTTP.TimeoutSeconds) * time.Second
	}
	if yc.HTTP.RateLimit != nil {
		if *yc.HTTP.RateLimit < 0 {
			return domain.Config{}, invalidField(path, "http.rate_limit", "must not be negative")
		}
		cfg.HTTP.RateLimit = *yc.HTTP.RateLimit
	}
	if yc.HTTP.RateBurst != nil {
		if *yc.HTTP.RateBurst < 0 {
			return domain.Config{}, invalidField(path, "http.rate_burst", "must not be negative")
		}
		cfg.HTTP.RateBurst = *yc.HTTP.RateBurst
	}

	if format := strings.TrimSpace(yc.Output.Format); format != "" {
		switch format {
		case domain.FormatPretty, domain.FormatJSON, domain.FormatCSV:
			cfg.Output.Format = format
		default:
			return domain.Config{}, invalidField(path, "output.format", fmt.Sprintf("unknown format %q", format))
		}
	}

	if dir := strings.TrimSpace(yc.Paths.SessionsDir); dir != "" {
		cfg.Paths.SessionsDir = dir
	}
	if dir := strings.TrimSpace(yc.Paths.DownloadDir); dir != "" {
		cfg.Paths.DownloadDir = dir
	}
	if file := strings.TrimSpace(yc.Paths.LogFile); file != "" {
		cfg.Paths.LogFile = file
	}

	if yc.Masking.Enabled != nil {
		cfg.Masking.Enabled = *yc.Masking.Enabled
	}

	if len(yc.Obligations) > 0 {
		cfg.Obligations = make(map[string]int, len(yc.Obligations))
		for alias, number := range yc.Obligations {
			// Aliases are matched case-insensitively on the command line.
			key := strings.ToLower(strings.TrimSpace(alias))
			if key == "" {
				return domain.Config{}, invalidField(path, "obligations", "empty alias")
			}
			if number <= 0 {
				return domain.Config{}, invalidField(path, "obligations."+alias, "obligation number must be positive")
			}
			cfg.Obligations[key] = number
		}
	}

	if err := cfg.Validate(); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "config.map",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, domain.ErrInvalidConfig),
	}
}
