package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	projectRootEnvironmentVariable = "PROJECT_ROOT"
	tomlConfigType                 = "toml"
	tomlExtension                  = ".toml"
)

// DetermineProjectRoot resolves the project root from the CLI flag, the
// PROJECT_ROOT environment variable, or the working directory, in that order.
// The result is an absolute path with symlinks resolved.
func DetermineProjectRoot(cliProjectRoot string) (string, error) {
	candidate := cliProjectRoot
	if candidate == "" {
		candidate = os.Getenv(projectRootEnvironmentVariable)
	}
	if candidate == "" {
		workingDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return "", fmt.Errorf("determine working directory: %w", workingDirectoryError)
		}
		candidate = workingDirectory
	}

	expanded, expandError := expandTilde(candidate)
	if expandError != nil {
		return "", expandError
	}
	absolute, absoluteError := filepath.Abs(expanded)
	if absoluteError != nil {
		return "", fmt.Errorf("resolve project root %q: %w", expanded, absoluteError)
	}
	resolved, resolveError := filepath.EvalSymlinks(absolute)
	if resolveError != nil {
		return "", fmt.Errorf("resolve project root %q: %w", absolute, resolveError)
	}
	return resolved, nil
}

// ResolveConfigPath locates the configuration file to load. An empty result
// with a nil error means no configuration file applies (defaults are used).
// An explicit file reference that cannot be found is an error; the implicit
// default location is allowed to be missing.
func ResolveConfigPath(projectRoot string, cliConfigFile string, disableConfig bool) (string, error) {
	if disableConfig {
		return "", nil
	}

	if cliConfigFile == "" {
		defaultPath := filepath.Join(projectRoot, DefaultConfigDirectory, DefaultConfigFileName)
		if fileExists(defaultPath) {
			return defaultPath, nil
		}
		return "", nil
	}

	expanded, expandError := expandTilde(cliConfigFile)
	if expandError != nil {
		return "", expandError
	}

	looksLikePath := filepath.IsAbs(expanded) || strings.ContainsAny(cliConfigFile, `/\`)
	if looksLikePath {
		candidate := expanded
		if !fileExists(candidate) && filepath.Ext(candidate) == "" {
			candidate += tomlExtension
		}
		if !fileExists(candidate) {
			return "", fmt.Errorf("specified config file not found at path: %s", candidate)
		}
		return candidate, nil
	}

	fileName := expanded
	if !strings.HasSuffix(fileName, tomlExtension) {
		fileName += tomlExtension
	}
	candidate := filepath.Join(projectRoot, DefaultConfigDirectory, fileName)
	if !fileExists(candidate) {
		return "", fmt.Errorf("specified config file %q not found in default directory: %s",
			cliConfigFile, filepath.Join(projectRoot, DefaultConfigDirectory))
	}
	return candidate, nil
}

// Load reads the TOML configuration at configPath on top of the defaults.
// An empty configPath yields the default configuration.
func Load(configPath string) (*Config, error) {
	configuration := Default()
	if configPath == "" {
		return configuration, nil
	}

	loader := viper.New()
	loader.SetConfigFile(configPath)
	loader.SetConfigType(tomlConfigType)
	if readError := loader.ReadInConfig(); readError != nil {
		return nil, fmt.Errorf("parsing config file %q: %w (check TOML syntax and structure)", configPath, readError)
	}
	if unmarshalError := loader.Unmarshal(configuration); unmarshalError != nil {
		return nil, fmt.Errorf("decoding config file %q: %w", configPath, unmarshalError)
	}
	return configuration, nil
}

// EffectiveProjectName returns the configured project name, falling back to
// the base name of the project root.
func (configuration *Config) EffectiveProjectName(projectRoot string) string {
	if configuration.General.ProjectName != "" {
		return configuration.General.ProjectName
	}
	baseName := filepath.Base(projectRoot)
	if baseName == "." || baseName == string(filepath.Separator) {
		return "UnknownProject"
	}
	return baseName
}

func expandTilde(pathText string) (string, error) {
	if pathText == "~" || strings.HasPrefix(pathText, "~/") {
		homeDirectory, homeError := os.UserHomeDir()
		if homeError != nil {
			return "", fmt.Errorf("expand %q: %w", pathText, homeError)
		}
		return filepath.Join(homeDirectory, strings.TrimPrefix(pathText, "~")), nil
	}
	return pathText, nil
}

func fileExists(pathText string) bool {
	_, statError := os.Stat(pathText)
	return statError == nil
}
