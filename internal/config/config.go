// Package config defines the xcontext configuration model and loads it from
// TOML files. Section include/exclude lists are pointers so that an absent
// list (fall back to the common filters) can be distinguished from an
// explicitly empty one (no filter at all).
package config

import (
	"fmt"
	"time"
)

const (
	// DefaultConfigDirectory is the project-relative directory holding the config file.
	DefaultConfigDirectory = ".xtools/xcontext"
	// DefaultConfigFileName is the name of the configuration file.
	DefaultConfigFileName = "xcontext.toml"
	// DefaultCacheDirectory is the project-relative directory for generated output.
	DefaultCacheDirectory = ".xtools/xcontext/cache"
	// DefaultWatchDelay is the default debounce delay for watch mode.
	DefaultWatchDelay = "300ms"
	// DefaultOutputFormat is the serialization format used when none is configured.
	DefaultOutputFormat = "json"
)

// IgnoreSetting is a three-valued per-section gitignore switch.
type IgnoreSetting string

const (
	// IgnoreInherit defers to the global general.use_gitignore toggle.
	IgnoreInherit IgnoreSetting = "inherit"
	// IgnoreEnabled forces gitignore handling on for the section.
	IgnoreEnabled IgnoreSetting = "true"
	// IgnoreDisabled forces gitignore handling off for the section.
	IgnoreDisabled IgnoreSetting = "false"
)

// Config is the root configuration document.
type Config struct {
	General       GeneralConfig       `mapstructure:"general"`
	CommonFilters CommonFiltersConfig `mapstructure:"common_filters"`
	Meta          MetaConfig          `mapstructure:"meta"`
	Docs          SectionConfig       `mapstructure:"docs"`
	Tree          SectionConfig       `mapstructure:"tree"`
	Source        SectionConfig       `mapstructure:"source"`
	Rules         RulesConfig         `mapstructure:"rules"`
	Prompts       PromptsConfig       `mapstructure:"prompts"`
	Output        OutputConfig        `mapstructure:"output"`
	Save          SaveConfig          `mapstructure:"save"`
	Watch         WatchConfig         `mapstructure:"watch"`
}

// GeneralConfig holds project-wide toggles.
type GeneralConfig struct {
	ProjectName         string `mapstructure:"project_name"`
	UseGitignore        *bool  `mapstructure:"use_gitignore"`
	EnableBuiltinIgnore *bool  `mapstructure:"enable_builtin_ignore"`
}

// CommonFiltersConfig holds the shared include/exclude lists that sections
// fall back to when they do not define their own.
type CommonFiltersConfig struct {
	Include []string `mapstructure:"include"`
	Exclude []string `mapstructure:"exclude"`
}

// MetaConfig holds free-form key/value metadata copied into the context.
type MetaConfig struct {
	Enabled *bool             `mapstructure:"enabled"`
	Values  map[string]string `mapstructure:"values"`
}

// SectionConfig configures one inclusion section (tree, source, or docs).
// Include and Exclude are nil when the section inherits the common lists.
type SectionConfig struct {
	Enabled      *bool         `mapstructure:"enabled"`
	UseGitignore IgnoreSetting `mapstructure:"use_gitignore"`
	Include      *[]string     `mapstructure:"include"`
	Exclude      *[]string     `mapstructure:"exclude"`
}

// RulesConfig selects which rule sets are attached to the context.
type RulesConfig struct {
	Enabled *bool               `mapstructure:"enabled"`
	Include []string            `mapstructure:"include"`
	Exclude []string            `mapstructure:"exclude"`
	Import  []string            `mapstructure:"import"`
	Custom  map[string][]string `mapstructure:"custom"`
}

// PromptsConfig selects which prompts are attached to the context.
type PromptsConfig struct {
	Import []string          `mapstructure:"import"`
	Custom map[string]string `mapstructure:"custom"`
}

// OutputConfig controls serialization of the generated context.
type OutputConfig struct {
	Format             string `mapstructure:"format"`
	JSONMinify         *bool  `mapstructure:"json_minify"`
	XMLPrettyPrint     *bool  `mapstructure:"xml_pretty_print"`
	IncludeProjectName *bool  `mapstructure:"include_project_name"`
	IncludeProjectRoot *bool  `mapstructure:"include_project_root"`
	IncludeSystemInfo  *bool  `mapstructure:"include_system_info"`
	IncludeTimestamp   *bool  `mapstructure:"include_timestamp"`
}

// SaveConfig controls where generated documents are written.
type SaveConfig struct {
	OutputDirectory string `mapstructure:"output_dir"`
	FilenameBase    string `mapstructure:"filename_base"`
	Extension       string `mapstructure:"extension"`
}

// WatchConfig controls watch mode.
type WatchConfig struct {
	Delay string `mapstructure:"delay"`
}

// Default returns a configuration with every toggle at its default value.
func Default() *Config {
	enabled := true
	emptyList := func() *[]string { list := []string{}; return &list }
	docsInclude := []string{"*.md", "*.org", "*.rst", "*.txt", "README*", "docs/"}
	return &Config{
		General: GeneralConfig{
			UseGitignore:        boolValue(true),
			EnableBuiltinIgnore: boolValue(true),
		},
		Meta: MetaConfig{Enabled: &enabled, Values: map[string]string{}},
		Docs: SectionConfig{
			Enabled:      boolValue(true),
			UseGitignore: IgnoreInherit,
			Include:      &docsInclude,
			Exclude:      emptyList(),
		},
		Tree: SectionConfig{
			Enabled:      boolValue(true),
			UseGitignore: IgnoreInherit,
			Include:      emptyList(),
			Exclude:      emptyList(),
		},
		Source: SectionConfig{
			Enabled:      boolValue(true),
			UseGitignore: IgnoreInherit,
			Include:      emptyList(),
			Exclude:      emptyList(),
		},
		Rules: RulesConfig{Enabled: boolValue(true)},
		Output: OutputConfig{
			Format:             DefaultOutputFormat,
			JSONMinify:         boolValue(true),
			XMLPrettyPrint:     boolValue(false),
			IncludeProjectName: boolValue(true),
			IncludeProjectRoot: boolValue(true),
			IncludeSystemInfo:  boolValue(true),
			IncludeTimestamp:   boolValue(true),
		},
		Save:  SaveConfig{OutputDirectory: DefaultCacheDirectory},
		Watch: WatchConfig{Delay: DefaultWatchDelay},
	}
}

func boolValue(value bool) *bool {
	return &value
}

// boolOrDefault dereferences an optional boolean, using fallback when unset.
func boolOrDefault(pointer *bool, fallback bool) bool {
	if pointer == nil {
		return fallback
	}
	return *pointer
}

// EffectiveInclude returns the section's include list, falling back to the
// common filters only when the section list is entirely absent. An explicitly
// empty list means "no include filter" and is returned as-is.
func (configuration *Config) EffectiveInclude(section *SectionConfig) []string {
	if section.Include == nil {
		return configuration.CommonFilters.Include
	}
	return *section.Include
}

// EffectiveExclude mirrors EffectiveInclude for the exclude list.
func (configuration *Config) EffectiveExclude(section *SectionConfig) []string {
	if section.Exclude == nil {
		return configuration.CommonFilters.Exclude
	}
	return *section.Exclude
}

// UseGitignore reports the global gitignore toggle.
func (configuration *Config) UseGitignore() bool {
	return boolOrDefault(configuration.General.UseGitignore, true)
}

// UseBuiltinIgnore reports whether built-in ignore patterns apply.
func (configuration *Config) UseBuiltinIgnore() bool {
	return boolOrDefault(configuration.General.EnableBuiltinIgnore, true)
}

// EffectiveGitignore resolves a section's three-valued gitignore setting
// against the global toggle. A single walk pass serves all sections, so a
// section-local override cannot currently diverge from the global value at
// walk time; the resolution is still plumbed through for every section.
func (configuration *Config) EffectiveGitignore(setting IgnoreSetting) bool {
	switch setting {
	case IgnoreEnabled:
		return true
	case IgnoreDisabled:
		return false
	default:
		return configuration.UseGitignore()
	}
}

// SectionEnabled dereferences a section's enabled toggle (default true).
func SectionEnabled(section *SectionConfig) bool {
	return boolOrDefault(section.Enabled, true)
}

// MetaEnabled reports whether metadata is attached to the context.
func (configuration *Config) MetaEnabled() bool {
	return boolOrDefault(configuration.Meta.Enabled, true)
}

// RulesEnabled reports whether rule resolution runs.
func (configuration *Config) RulesEnabled() bool {
	return boolOrDefault(configuration.Rules.Enabled, true)
}

// JSONMinify reports whether JSON output is minified.
func (configuration *Config) JSONMinify() bool {
	return boolOrDefault(configuration.Output.JSONMinify, true)
}

// XMLPrettyPrint reports whether XML output is indented.
func (configuration *Config) XMLPrettyPrint() bool {
	return boolOrDefault(configuration.Output.XMLPrettyPrint, false)
}

// WatchDelay parses the configured watch debounce delay.
func (configuration *Config) WatchDelay() (time.Duration, error) {
	delayText := configuration.Watch.Delay
	if delayText == "" {
		delayText = DefaultWatchDelay
	}
	delay, parseError := time.ParseDuration(delayText)
	if parseError != nil {
		return 0, fmt.Errorf("invalid watch delay %q: %w (use a duration like \"500ms\" or \"2s\")", delayText, parseError)
	}
	return delay, nil
}
