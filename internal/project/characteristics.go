package project

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/mod/modfile"
)

// goModFileName is the Go module manifest recognized during detection.
const goModFileName = "go.mod"

// manifestFileNames are filenames whose presence is a project characteristic
// on its own.
var manifestFileNames = map[string]struct{}{
	"Rakefile":       {},
	"Gemfile":        {},
	"Cargo.toml":     {},
	"package.json":   {},
	"composer.json":  {},
	goModFileName:    {},
	"Makefile":       {},
	"pyproject.toml": {},
}

// Characteristics captures detected project traits: lower-cased file
// extensions and known manifest filenames. ModuleName holds the Go module
// path base when a parseable go.mod is present, used as a project-name hint.
type Characteristics struct {
	Traits     map[string]struct{}
	ModuleName string
}

// Has reports whether a trait was detected.
func (characteristics *Characteristics) Has(trait string) bool {
	_, present := characteristics.Traits[trait]
	return present
}

// Sorted returns the detected traits in lexical order.
func (characteristics *Characteristics) Sorted() []string {
	traits := make([]string, 0, len(characteristics.Traits))
	for trait := range characteristics.Traits {
		traits = append(traits, trait)
	}
	sort.Strings(traits)
	return traits
}

// DetectCharacteristics walks projectRoot collecting file extensions and
// known manifest filenames. Access errors are logged and skipped; detection
// never fails the run.
func DetectCharacteristics(projectRoot string, logger *zap.Logger) *Characteristics {
	if logger == nil {
		logger = zap.NewNop()
	}
	characteristics := &Characteristics{Traits: map[string]struct{}{}}

	walkError := filepath.WalkDir(projectRoot, func(walkedPath string, entry fs.DirEntry, accessError error) error {
		if accessError != nil {
			logger.Warn("error accessing path during characteristic detection",
				zap.String("path", walkedPath), zap.Error(accessError))
			return nil
		}
		if entry.IsDir() {
			if entry.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}

		fileName := entry.Name()
		if _, isManifest := manifestFileNames[fileName]; isManifest {
			characteristics.Traits[fileName] = struct{}{}
			if fileName == goModFileName {
				characteristics.ModuleName = goModuleBaseName(walkedPath, logger)
			}
		}
		if extension := strings.TrimPrefix(filepath.Ext(fileName), "."); extension != "" {
			characteristics.Traits[strings.ToLower(extension)] = struct{}{}
		}
		return nil
	})
	if walkError != nil {
		logger.Warn("characteristic detection walk terminated early", zap.Error(walkError))
	}
	return characteristics
}

// goModuleBaseName parses a go.mod file and returns the last element of the
// declared module path, or an empty string when parsing fails.
func goModuleBaseName(goModPath string, logger *zap.Logger) string {
	contentBytes, readError := os.ReadFile(goModPath)
	if readError != nil {
		logger.Debug("unable to read go.mod", zap.String("path", goModPath), zap.Error(readError))
		return ""
	}
	parsedFile, parseError := modfile.Parse(goModFileName, contentBytes, nil)
	if parseError != nil || parsedFile.Module == nil {
		logger.Debug("unable to parse go.mod", zap.String("path", goModPath), zap.Error(parseError))
		return ""
	}
	modulePath := parsedFile.Module.Mod.Path
	if modulePath == "" {
		return ""
	}
	segments := strings.Split(modulePath, "/")
	return segments[len(segments)-1]
}
