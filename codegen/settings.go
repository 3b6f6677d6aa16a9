package codegen

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Settings configures a generation run.
type Settings struct {
	// Service is the absolute shape ID of the service to generate.
	Service string `yaml:"service" validate:"required,contains=#"`

	// Package is the name of the generated Go package.
	Package string `yaml:"package" validate:"required,lowercase,alphanum"`

	// Protocol is the shape ID of the protocol trait to generate for.
	Protocol string `yaml:"protocol" validate:"required,contains=#"`

	// SkipTests adds protocol test IDs to the protocol's default skip list.
	SkipTests []string `yaml:"skipTests" validate:"dive,required"`

	// TestFilter is an optional JMESPath expression evaluated against each
	// protocol test case. Cases for which it is not truthy are skipped.
	TestFilter string `yaml:"testFilter"`

	// Parallelism bounds the number of operations generated concurrently.
	// Zero uses the number of CPUs.
	Parallelism int `yaml:"parallelism" validate:"gte=0,lte=256"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the settings for missing or malformed values.
func (s *Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return errors.Wrap(err, "invalid settings")
	}
	return nil
}

// LoadSettings decodes and validates YAML settings from r. Unknown keys are
// rejected.
func LoadSettings(r io.Reader) (*Settings, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Settings
	if err := dec.Decode(&s); err != nil {
		return nil, errors.Wrap(err, "decode settings")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadSettingsFile loads settings from the YAML file at path.
func LoadSettingsFile(path string) (*Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open settings %s", path)
	}
	defer f.Close()

	return LoadSettings(f)
}
