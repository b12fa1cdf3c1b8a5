package config

import (
	"os"

	"github.com/libertil/eea-cdrtools/internal/domain"
	"gopkg.in/yaml.v3"
)

// LoadConfig reads a cdrtools.yaml file and overlays it on the built-in
// defaults. Absent keys keep their default value.
func LoadConfig(path string) (domain.Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.Config{}, &domain.OpError{
			Op:   "config.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var dto YAMLConfig
	if err := yaml.Unmarshal(b, &dto); err != nil {
		return domain.Config{}, &domain.OpError{
			Op:   "config.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return MapConfig(path, dto)
}
