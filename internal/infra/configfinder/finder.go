package configfinder

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/libertil/eea-cdrtools/internal/domain"
)

// Finder locates the cdrtools.yaml configuration file. Lookup order:
// an explicit path, the CDRTOOLS_CONFIG environment variable, an upward
// search from the working directory, and finally the per-user config dir.
type Finder struct {
	ConfigFile string // defaults to "cdrtools.yaml"
	EnvVar     string // defaults to "CDRTOOLS_CONFIG"
}

func NewFinder() *Finder {
	return &Finder{ConfigFile: "cdrtools.yaml", EnvVar: "CDRTOOLS_CONFIG"}
}

// Resolve returns the configuration file to load. found is false when no
// file exists anywhere, which is not an error: the tool then runs on
// defaults. An explicit path or environment override that names a missing
// file is an error, since the user asked for that file specifically.
func (f *Finder) Resolve(explicit, startDir string) (path string, found bool, err error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", false, &domain.OpError{
				Op:   "configfinder.resolve",
				Kind: domain.KindNotFound,
				Path: explicit,
				Err:  err,
			}
		}
		return explicit, true, nil
	}

	if fromEnv := os.Getenv(f.EnvVar); fromEnv != "" {
		if _, err := os.Stat(fromEnv); err != nil {
			return "", false, &domain.OpError{
				Op:   "configfinder.resolve",
				Kind: domain.KindNotFound,
				Path: fromEnv,
				Err:  err,
			}
		}
		return fromEnv, true, nil
	}

	if p, ok, err := f.searchUp(startDir); err != nil || ok {
		return p, ok, err
	}

	if dir, err := os.UserConfigDir(); err == nil {
		p := filepath.Join(dir, "cdrtools", f.ConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p, true, nil
		}
	}

	return "", false, nil
}

// searchUp walks from startDir toward the filesystem root looking for the
// config file, so the tool works from any subdirectory of a reporting
// workspace.
func (f *Finder) searchUp(startDir string) (string, bool, error) {
	if startDir == "" {
		return "", false, &domain.OpError{
			Op:   "configfinder.search",
			Kind: domain.KindInvalidConfig,
			Err:  errors.New("start directory is empty"),
		}
	}

	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, &domain.OpError{
			Op:   "configfinder.search",
			Kind: domain.KindExecution,
			Err:  err,
		}
	}

	// If user passes a file path, use its directory.
	info, statErr := os.Stat(abs)
	if statErr == nil && !info.IsDir() {
		abs = filepath.Dir(abs)
	}

	cur := filepath.Clean(abs)
	for {
		cfgPath := filepath.Join(cur, f.ConfigFile)
		if _, err := os.Stat(cfgPath); err == nil {
			return cfgPath, true, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			// Reached filesystem root.
			return "", false, nil
		}
		cur = parent
	}
}
