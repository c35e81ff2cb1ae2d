// Package config provides Viper-based configuration loading for the combat
// engine and its tools.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is a zap sink: "stderr", "stdout", or a file path.
	Output string `mapstructure:"output"`
}

// CombatConfig holds encounter rules.
type CombatConfig struct {
	// MaxSideActions is the per-turn budget of Side-category uses.
	MaxSideActions int `mapstructure:"max_side_actions"`
	// MaxRounds ends an encounter in a draw once exceeded; 0 means unlimited.
	MaxRounds int `mapstructure:"max_rounds"`
	// Seed selects a deterministic random source; 0 uses crypto/rand.
	Seed uint64 `mapstructure:"seed"`
}

// ContentConfig locates the YAML and Lua content.
type ContentConfig struct {
	SkillsDir     string `mapstructure:"skills_dir"`
	ConditionsDir string `mapstructure:"conditions_dir"`
	TemplatesDir  string `mapstructure:"templates_dir"`
	ElementsFile  string `mapstructure:"elements_file"`
	// ScriptsDir holds one subdirectory per scripted enemy policy; empty disables scripting.
	ScriptsDir string `mapstructure:"scripts_dir"`
}

// ScriptingConfig holds Lua sandbox settings.
type ScriptingConfig struct {
	// InstructionLimit caps the opcodes of one hook call; 0 uses the sandbox default.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Combat    CombatConfig    `mapstructure:"combat"`
	Content   ContentConfig   `mapstructure:"content"`
	Scripting ScriptingConfig `mapstructure:"scripting"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string
	errs = append(errs, validateLogging(c.Logging)...)
	errs = append(errs, validateCombat(c.Combat)...)
	errs = append(errs, validateContent(c.Content)...)
	if c.Scripting.InstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("scripting.instruction_limit must be >= 0, got %d", c.Scripting.InstructionLimit))
	}
	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) []string {
	var errs []string
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		errs = append(errs, fmt.Sprintf("logging.level must be one of [debug, info, warn, error], got %q", l.Level))
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		errs = append(errs, fmt.Sprintf("logging.format must be one of [json, console], got %q", l.Format))
	}
	if l.Output == "" {
		errs = append(errs, "logging.output must not be empty")
	}
	return errs
}

func validateCombat(c CombatConfig) []string {
	var errs []string
	if c.MaxSideActions < 1 {
		errs = append(errs, fmt.Sprintf("combat.max_side_actions must be >= 1, got %d", c.MaxSideActions))
	}
	if c.MaxRounds < 0 {
		errs = append(errs, fmt.Sprintf("combat.max_rounds must be >= 0, got %d", c.MaxRounds))
	}
	return errs
}

func validateContent(c ContentConfig) []string {
	var errs []string
	required := []struct{ key, value string }{
		{"content.skills_dir", c.SkillsDir},
		{"content.conditions_dir", c.ConditionsDir},
		{"content.templates_dir", c.TemplatesDir},
		{"content.elements_file", c.ElementsFile},
	}
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, r.key+" must not be empty")
		}
	}
	return errs
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := NewViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// NewViper returns a Viper instance with defaults and SHINOBI_ environment
// overrides (e.g. SHINOBI_COMBAT_SEED) applied.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("SHINOBI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("combat.max_side_actions", 2)
	v.SetDefault("combat.max_rounds", 100)
	v.SetDefault("combat.seed", 0)

	v.SetDefault("content.skills_dir", "content/skills")
	v.SetDefault("content.conditions_dir", "content/conditions")
	v.SetDefault("content.templates_dir", "content/templates")
	v.SetDefault("content.elements_file", "content/elements.yaml")
	v.SetDefault("content.scripts_dir", "")

	v.SetDefault("scripting.instruction_limit", 100_000)
}
