package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// defaultConfigTOML is the scaffold written by the init command. It mirrors
// Default() with every section spelled out.
const defaultConfigTOML = `[general]
# project_name = "my-project"
use_gitignore = true
enable_builtin_ignore = true

[common_filters]
include = []
exclude = []

[meta]
enabled = true
[meta.values]
# author = "you"

[tree]
enabled = true
use_gitignore = "inherit"
include = []
exclude = []

[source]
enabled = true
use_gitignore = "inherit"
include = []
exclude = []

[docs]
enabled = true
use_gitignore = "inherit"
include = ["*.md", "*.org", "*.rst", "*.txt", "README*", "docs/"]
exclude = []

[rules]
enabled = true
include = []
exclude = []
import = []
[rules.custom]
# project = ["Keep the public API stable."]

[prompts]
import = []
[prompts.custom]
# focus = "Concentrate on the gather package."

[output]
format = "json"
json_minify = true
xml_pretty_print = false
include_project_name = true
include_project_root = true
include_system_info = true
include_timestamp = true

[save]
output_dir = ".xtools/xcontext/cache"
# filename_base = "context"
# extension = "json"

[watch]
delay = "300ms"
`

// DefaultConfigTOML returns the default configuration file content.
func DefaultConfigTOML() string {
	return defaultConfigTOML
}

// WriteDefaultConfig writes the default configuration scaffold to the
// standard location under projectRoot, creating directories as needed.
// It refuses to overwrite an existing file unless overwrite is set.
func WriteDefaultConfig(projectRoot string, overwrite bool) (string, error) {
	configDirectory := filepath.Join(projectRoot, DefaultConfigDirectory)
	if makeDirectoryError := os.MkdirAll(configDirectory, 0o755); makeDirectoryError != nil {
		return "", fmt.Errorf("creating config directory %q: %w", configDirectory, makeDirectoryError)
	}
	configPath := filepath.Join(configDirectory, DefaultConfigFileName)
	if fileExists(configPath) && !overwrite {
		return "", fmt.Errorf("config file already exists at %s (pass --force to overwrite)", configPath)
	}
	if writeError := os.WriteFile(configPath, []byte(defaultConfigTOML), 0o644); writeError != nil {
		return "", fmt.Errorf("writing config file %q: %w", configPath, writeError)
	}
	return configPath, nil
}
