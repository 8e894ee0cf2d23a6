// Package config loads and validates the shell's configuration.
package config

import (
	_ "embed"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"sigs.k8s.io/yaml"
)

//go:embed default/config.yaml
var defaultConfigData []byte

// ConfigurationName is the file name searched for in the config path.
const ConfigurationName = "config.yaml"

type Configuration struct {
	// Prompt is the string printed before reading each command line.
	Prompt string `json:"prompt" validate:"required"`

	// HistoryLimit caps the number of retained history entries.
	// Zero means unbounded.
	HistoryLimit int `json:"history_limit" validate:"gte=0"`

	// RecursionLimit bounds how deeply history recalls may re-enter
	// the interpreter, so a recalled `history N` can't loop forever.
	RecursionLimit int `json:"recursion_limit" validate:"gte=1"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

// Default returns the embedded default configuration.
func Default() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		// The embedded default is part of the build; failing to parse
		// it is a programming error.
		panic(err)
	}
	return &out
}
