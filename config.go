package sympad

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/njchilds90/gosympad/ast"
)

// Config is threaded through a Pipeline and applied to the process-wide
// state at the start of every request.
type Config struct {
	// Precision is the minimum number of significant digits for floats.
	// The scan of each tree may raise it, never lower it.
	Precision int `yaml:"precision"`

	// EngineEI spells Euler's number and the imaginary unit E and I instead
	// of e and i.
	EngineEI bool `yaml:"engine_ei"`

	// UserFuncs are names accepted as calls to undefined functions.
	UserFuncs []string `yaml:"user_funcs"`

	// Doit evaluates held operations once more after export.
	Doit bool `yaml:"doit"`
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() *Config {
	return &Config{Doit: true}
}

// ParseConfig decodes YAML on top of the defaults.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, errors.Wrap(err, "can't parse config")
	}
	if cfg.Precision < 0 {
		return nil, errors.Errorf("precision must not be negative, got %d", cfg.Precision)
	}
	return cfg, nil
}

// LoadConfig reads and decodes the YAML file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "can't read config %s", path)
	}
	return ParseConfig(data)
}

// apply installs the configuration into the process-wide state.
func (obj *Config) apply() {
	SetUserFuncs(obj.UserFuncs...)
	ast.SetEngineEI(obj.EngineEI)
}
