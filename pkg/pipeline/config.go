package pipeline

import(
	"fmt"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v2"

	"github.com/bionictoucan/hypia/pkg/hsrand"
	"github.com/bionictoucan/hypia/pkg/transform"
)

// Config is the file form of a pipeline:
//
//   seed: 42
//   transforms:
//     - name: hflip
//       p: 0.5
//     - name: crop
//       label: training crop
//       params: {height: 64, width: 64, random: true}
//
// Names and params are those accepted by transform.New.
type Config struct {
	Seed       *uint64       `yaml:"seed,omitempty"` // absent means unseeded
	Transforms []StageConfig `yaml:"transforms"`
}

type StageConfig struct {
	Name   string                 `yaml:"name"`
	Label  string                 `yaml:"label,omitempty"`
	P      *float64               `yaml:"p,omitempty"` // absent means 1
	Params map[string]interface{} `yaml:"params,omitempty"`
}

func ParseConfig(b []byte) (Config, error) {
	c := Config{}
	if err := yaml.UnmarshalStrict(b, &c); err != nil {
		return Config{}, fmt.Errorf("parse config: %v", err)
	}
	return c, nil
}

func LoadConfig(filename string) (Config, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("load config '%s': %v", filename, err)
	}
	c, err := ParseConfig(b)
	if err != nil {
		return Config{}, fmt.Errorf("load config '%s': %w", filename, err)
	}
	return c, nil
}

func (c Config)AsYaml() (string, error) {
	b, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal config: %v", err)
	}
	return string(b), nil
}

// Build constructs every stage and then the pipeline. All bad stages are
// reported together, each as a StageError.
func (c Config)Build(opts ...Option) (*Pipeline, error) {
	stages := make([]Stage, 0, len(c.Transforms))
	var errs error

	for i, sc := range c.Transforms {
		t, err := transform.New(sc.Name, sc.Params)
		if err != nil {
			name := sc.Label
			if name == "" {
				name = sc.Name
			}
			errs = multierr.Append(errs, &StageError{Index: i, Name: name, Err: err})
			continue
		}
		p := 1.0
		if sc.P != nil {
			p = *sc.P
		}
		stages = append(stages, Stage{Transform: t, P: p, Label: sc.Label})
	}
	if errs != nil {
		return nil, errs
	}

	return New(stages, opts...)
}

// State returns a State for one run: seeded if the config has a seed, from
// system entropy otherwise.
func (c Config)State() *hsrand.State {
	if c.Seed != nil {
		return hsrand.New(*c.Seed)
	}
	return hsrand.NewUnseeded()
}
