// Package config collects the settings of the materials client and the
// resource stub. Values come from the defaults, then the command line
// flags, then the environment (a .env file is loaded first if present).
package config

import (
	"flag"
	"log"
	"os"
	"time"

	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds the settings shared by the command line tools.
type Config struct {
	APIBaseURL        string        `env:"API_BASE_URL" validate:"url"`
	RequestTimeout    time.Duration `env:"REQUEST_TIMEOUT" validate:"gt=0"`
	LogLevel          string        `env:"LOG_LEVEL" validate:"loglevel"`
	TokenFile         string        `env:"TOKEN_FILE" validate:"omitempty,filepath"`
	TokenEnv          string        `env:"TOKEN_ENV"`
	RunAddr           string        `env:"SERVER_ADDRESS" validate:"hostname_port"`
	FixtureFile       string        `env:"FIXTURE_FILE" validate:"omitempty,filepath"`
	NavHeightProperty string        `env:"NAV_HEIGHT_PROPERTY" validate:"startswith=--"`
	LegacyUpdate      bool          `env:"LEGACY_UPDATE"`

	// Args are the positional arguments left after the flags.
	Args []string
}

var defaultConfig = Config{
	APIBaseURL:        "http://localhost:8080",
	RequestTimeout:    10 * time.Second,
	LogLevel:          "info",
	TokenFile:         "",
	TokenEnv:          "MATERIALS_TOKEN",
	RunAddr:           ":8080",
	FixtureFile:       "",
	NavHeightProperty: "--nav-height",
	LegacyUpdate:      false,
}

func validateFilePath(fieldLevel validator.FieldLevel) bool {
	path := fieldLevel.Field().String()
	info, err := os.Stat(path)
	if err != nil {
		return os.IsNotExist(err)
	}

	return !info.IsDir()
}

func validateLogLevel(fieldLevel validator.FieldLevel) bool {
	value := fieldLevel.Field().String()

	allowedLogLevels := map[string]bool{
		"debug":  true,
		"info":   true,
		"warn":   true,
		"error":  true,
		"dpanic": true,
		"panic":  true,
		"fatal":  true,
	}

	return allowedLogLevels[value]
}

func (c *Config) validate() error {
	validate := validator.New()

	err := validate.RegisterValidation("loglevel", validateLogLevel)
	if err != nil {
		return err
	}

	err = validate.RegisterValidation("filepath", validateFilePath)
	if err != nil {
		return err
	}

	return validate.Struct(c)
}

// InitOption tunes how New collects the values.
type InitOption func(*initOptions)

type initOptions struct {
	disableFlagsParsing bool
	args                []string
}

// WithDisableFlagsParsing skips the command line flags entirely.
func WithDisableFlagsParsing(disableFlagsParsing bool) InitOption {
	return func(options *initOptions) {
		options.disableFlagsParsing = disableFlagsParsing
	}
}

// WithArgs parses args instead of os.Args[1:].
func WithArgs(args []string) InitOption {
	return func(options *initOptions) {
		options.args = args
	}
}

func applyDefaults(values *Config, defaults Config) {
	*values = defaults
	values.Args = nil
}

func (c *Config) parseFlags(args []string) error {
	flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flags.StringVar(&c.APIBaseURL, "u", c.APIBaseURL, "base address of the resource API")
	flags.DurationVar(&c.RequestTimeout, "t", c.RequestTimeout, "timeout of a single API request")
	flags.StringVar(&c.LogLevel, "l", c.LogLevel, "logger level")
	flags.StringVar(&c.TokenFile, "k", c.TokenFile, "file holding the session token")
	flags.StringVar(&c.TokenEnv, "e", c.TokenEnv, "environment variable holding the session token")
	flags.StringVar(&c.RunAddr, "a", c.RunAddr, "address and port to run the resource stub")
	flags.StringVar(&c.FixtureFile, "f", c.FixtureFile, "JSON file with the stub materials")
	flags.StringVar(&c.NavHeightProperty, "n", c.NavHeightProperty, "CSS custom property holding the nav height")
	flags.BoolVar(&c.LegacyUpdate, "legacy-update", c.LegacyUpdate, "send the update request without a body")

	err := flags.Parse(args)
	if err != nil {
		return err
	}
	c.Args = flags.Args()

	return nil
}

func (c *Config) applyEnv() error {
	var valuesFromEnv Config
	err := env.Parse(&valuesFromEnv)
	if err != nil {
		return err
	}

	if valuesFromEnv.APIBaseURL != "" {
		c.APIBaseURL = valuesFromEnv.APIBaseURL
	}

	if valuesFromEnv.RequestTimeout != 0 {
		c.RequestTimeout = valuesFromEnv.RequestTimeout
	}

	if valuesFromEnv.LogLevel != "" {
		c.LogLevel = valuesFromEnv.LogLevel
	}

	if valuesFromEnv.TokenFile != "" {
		c.TokenFile = valuesFromEnv.TokenFile
	}

	if valuesFromEnv.TokenEnv != "" {
		c.TokenEnv = valuesFromEnv.TokenEnv
	}

	if valuesFromEnv.RunAddr != "" {
		c.RunAddr = valuesFromEnv.RunAddr
	}

	if valuesFromEnv.FixtureFile != "" {
		c.FixtureFile = valuesFromEnv.FixtureFile
	}

	if valuesFromEnv.NavHeightProperty != "" {
		c.NavHeightProperty = valuesFromEnv.NavHeightProperty
	}

	if valuesFromEnv.LegacyUpdate {
		c.LegacyUpdate = true
	}

	return nil
}

// New collects and validates the configuration.
func New(optionsProto ...InitOption) (*Config, error) {
	options := &initOptions{
		disableFlagsParsing: false,
		args:                nil,
	}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}
	if options.args == nil && len(os.Args) > 1 {
		options.args = os.Args[1:]
	}

	err := godotenv.Load()
	if err != nil {
		log.Printf("Unable to load .env file: %v", err)
	}

	values := &Config{}
	applyDefaults(values, defaultConfig)

	if !options.disableFlagsParsing {
		err = values.parseFlags(options.args)
		if err != nil {
			return nil, err
		}
	}

	err = values.applyEnv()
	if err != nil {
		return nil, err
	}

	err = values.validate()
	if err != nil {
		return nil, err
	}

	return values, nil
}
