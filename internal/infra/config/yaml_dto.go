package config

// YAMLConfig mirrors the cdrtools.yaml layout. Pointer fields distinguish
// "absent, keep the default" from an explicit zero value.
type YAMLConfig struct {
	Repository YAMLRepository `yaml:"repository"`
	Auth       YAMLAuth       `yaml:"auth"`
	HTTP       YAMLHTTP       `yaml:"http"`
	Output     YAMLOutput     `yaml:"output"`
	Paths      YAMLPaths      `yaml:"paths"`
	Masking    YAMLMasking    `yaml:"masking"`

	Obligations map[string]int `yaml:"obligations"`
}

type YAMLRepository struct {
	Name   string `yaml:"name"`
	Secure *bool  `yaml:"secure"`
}

type YAMLAuth struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	// PasswordEnv names an environment variable holding the password, so the
	// file itself can stay free of secrets.
	PasswordEnv string `yaml:"password_env"`
}

type YAMLHTTP struct {
	TimeoutSeconds *int     `yaml:"timeout_seconds"`
	RateLimit      *float64 `yaml:"rate_limit"`
	RateBurst      *int     `yaml:"rate_burst"`
}

type YAMLOutput struct {
	Format string `yaml:"format"`
}

type YAMLPaths struct {
	SessionsDir string `yaml:"sessions_dir"`
	DownloadDir string `yaml:"download_dir"`
	LogFile     string `yaml:"log_file"`
}

type YAMLMasking struct {
	Enabled *bool `yaml:"enabled"`
}
