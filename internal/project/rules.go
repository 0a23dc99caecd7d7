package project

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/xcontext/internal/assets"
	"github.com/temirov/xcontext/internal/config"
	"github.com/temirov/xcontext/internal/utils"
)

// Rule set key prefixes identifying where each set came from.
const (
	staticRuleKeyPrefix   = "static:"
	importedRuleKeyPrefix = "imported:"
	customRuleKeyPrefix   = "custom:"
)

// Origin labels recorded for debug output.
const (
	originDefault        = "default"
	originDefaultInclude = "default+include"
	originInclude        = "include"
	originDynamic        = "dynamic"
	originImport         = "import"
	originCustom         = "custom"
)

// defaultRuleStems are always loaded unless explicitly excluded.
var defaultRuleStems = []string{"general", "guidelines", "documentation"}

// characteristicRuleStems maps detected project traits (lower-cased file
// extensions or exact manifest filenames) to static rule stems.
var characteristicRuleStems = map[string]string{
	"rs":         "rust",
	"rb":         "ruby",
	"c":          "c",
	"h":          "c",
	"cpp":        "cpp",
	"hpp":        "cpp",
	"go":         "go",
	"js":         "javascript",
	"cjs":        "javascript",
	"mjs":        "javascript",
	"jsx":        "javascript",
	"ts":         "typescript",
	"tsx":        "typescript",
	"php":        "php",
	"org":        "documentation",
	"md":         "documentation",
	"json":       "config_file",
	"yaml":       "config_file",
	"yml":        "config_file",
	"toml":       "config_file",
	"xml":        "config_file",
	"rake":       "rakefile",
	"Rakefile":   "rakefile",
	"Gemfile":    "ruby",
	goModFileName: "go",
}

// RuleSet is one named, ordered list of rule lines.
type RuleSet struct {
	Name  string
	Rules []string
}

// ResolvedRules holds every rule set attached to the context, in resolution
// order, plus the origin of each set for debug output.
type ResolvedRules struct {
	RuleSets []RuleSet
	Origins  map[string]string
}

// AsMap returns the rule sets keyed by name, for serialization.
func (resolved *ResolvedRules) AsMap() map[string][]string {
	ruleMap := make(map[string][]string, len(resolved.RuleSets))
	for _, ruleSet := range resolved.RuleSets {
		ruleMap[ruleSet.Name] = ruleSet.Rules
	}
	return ruleMap
}

// ResolveRules assembles the rule sets for a project: the default static
// stems, stems detected dynamically from project characteristics, explicit
// config includes minus excludes, imported rule files, and custom inline
// sets. Missing static or imported rules are logged and skipped.
func ResolveRules(rulesConfiguration *config.RulesConfig, projectRoot string, characteristics *Characteristics, enabled bool, logger *zap.Logger) *ResolvedRules {
	if logger == nil {
		logger = zap.NewNop()
	}
	resolved := &ResolvedRules{Origins: map[string]string{}}
	if !enabled {
		logger.Debug("rules generation disabled in configuration")
		return resolved
	}

	baseStems := map[string]struct{}{}
	for _, stem := range defaultRuleStems {
		baseStems[stem] = struct{}{}
	}
	if characteristics != nil {
		for trait := range characteristics.Traits {
			if stem, known := characteristicRuleStems[strings.ToLower(trait)]; known {
				baseStems[stem] = struct{}{}
			} else if stem, known := characteristicRuleStems[trait]; known {
				baseStems[stem] = struct{}{}
			}
		}
	}

	excludedStems := map[string]struct{}{}
	for _, stem := range rulesConfiguration.Exclude {
		excludedStems[stem] = struct{}{}
	}
	includedStems := map[string]struct{}{}
	for _, stem := range rulesConfiguration.Include {
		includedStems[stem] = struct{}{}
	}

	effectiveStems := map[string]struct{}{}
	for stem := range baseStems {
		if _, excluded := excludedStems[stem]; !excluded {
			effectiveStems[stem] = struct{}{}
		}
	}
	for stem := range includedStems {
		effectiveStems[stem] = struct{}{}
	}

	orderedStems := make([]string, 0, len(effectiveStems))
	for stem := range effectiveStems {
		orderedStems = append(orderedStems, stem)
	}
	sort.Strings(orderedStems)

	for _, stem := range orderedStems {
		content, contentError := assets.StaticRuleContent(stem)
		if contentError != nil {
			logger.Warn("skipping static rule stem", zap.String("stem", stem), zap.Error(contentError))
			continue
		}
		key := staticRuleKeyPrefix + stem
		resolved.RuleSets = append(resolved.RuleSets, RuleSet{Name: key, Rules: nonEmptyTrimmedLines(content)})

		isDefault := utils.ContainsString(defaultRuleStems, stem)
		isIncluded := utils.ContainsString(rulesConfiguration.Include, stem)
		switch {
		case isDefault && isIncluded:
			resolved.Origins[key] = originDefaultInclude
		case isDefault:
			resolved.Origins[key] = originDefault
		case isIncluded:
			resolved.Origins[key] = originInclude
		default:
			resolved.Origins[key] = originDynamic
		}
	}

	for _, importPath := range rulesConfiguration.Import {
		resolvedPath, found := resolveImportPath(projectRoot, importPath)
		if !found {
			logger.Warn("could not find imported rule file relative to project root or config dir; skipping",
				zap.String("path", importPath))
			continue
		}
		contentBytes, readError := os.ReadFile(resolvedPath)
		if readError != nil {
			logger.Warn("failed to read imported rule file",
				zap.String("path", resolvedPath), zap.Error(readError))
			continue
		}
		stem := strings.TrimSuffix(filepath.Base(resolvedPath), filepath.Ext(resolvedPath))
		key := importedRuleKeyPrefix + stem
		resolved.RuleSets = append(resolved.RuleSets, RuleSet{Name: key, Rules: nonEmptyTrimmedLines(string(contentBytes))})
		resolved.Origins[key] = originImport
	}

	customNames := make([]string, 0, len(rulesConfiguration.Custom))
	for name := range rulesConfiguration.Custom {
		customNames = append(customNames, name)
	}
	sort.Strings(customNames)
	for _, name := range customNames {
		ruleLines := rulesConfiguration.Custom[name]
		if len(ruleLines) == 0 {
			continue
		}
		trimmed := make([]string, 0, len(ruleLines))
		for _, line := range ruleLines {
			if trimmedLine := strings.TrimSpace(line); trimmedLine != "" {
				trimmed = append(trimmed, trimmedLine)
			}
		}
		key := customRuleKeyPrefix + name
		resolved.RuleSets = append(resolved.RuleSets, RuleSet{Name: key, Rules: trimmed})
		resolved.Origins[key] = originCustom
	}

	logger.Debug("rules resolved", zap.Int("ruleSets", len(resolved.RuleSets)))
	return resolved
}

// ResolvePrompts assembles the prompt texts for a project: the predefined
// static prompts, imported prompt files, and custom inline prompts.
func ResolvePrompts(promptsConfiguration *config.PromptsConfig, projectRoot string, logger *zap.Logger) map[string]string {
	if logger == nil {
		logger = zap.NewNop()
	}
	resolved := map[string]string{}
	for name, text := range assets.PredefinedPrompts() {
		resolved[staticRuleKeyPrefix+name] = text
	}

	for _, importPath := range promptsConfiguration.Import {
		resolvedPath, found := resolveImportPath(projectRoot, importPath)
		if !found {
			logger.Warn("could not find imported prompt file relative to project root or config dir; skipping",
				zap.String("path", importPath))
			continue
		}
		contentBytes, readError := os.ReadFile(resolvedPath)
		if readError != nil {
			logger.Warn("failed to read imported prompt file",
				zap.String("path", resolvedPath), zap.Error(readError))
			continue
		}
		if strings.TrimSpace(string(contentBytes)) == "" {
			continue
		}
		stem := strings.TrimSuffix(filepath.Base(resolvedPath), filepath.Ext(resolvedPath))
		resolved[importedRuleKeyPrefix+stem] = string(contentBytes)
	}

	for name, text := range promptsConfiguration.Custom {
		if strings.TrimSpace(text) == "" {
			continue
		}
		resolved[customRuleKeyPrefix+name] = text
	}
	return resolved
}

// resolveImportPath locates an imported file relative to the project root,
// falling back to the config directory.
func resolveImportPath(projectRoot, importPath string) (string, bool) {
	candidate := filepath.Join(projectRoot, importPath)
	if _, statError := os.Stat(candidate); statError == nil {
		return candidate, true
	}
	candidate = filepath.Join(projectRoot, config.DefaultConfigDirectory, importPath)
	if _, statError := os.Stat(candidate); statError == nil {
		return candidate, true
	}
	return "", false
}

// nonEmptyTrimmedLines splits content into trimmed lines, dropping blanks.
func nonEmptyTrimmedLines(content string) []string {
	rawLines := strings.Split(content, "\n")
	lines := make([]string, 0, len(rawLines))
	for _, rawLine := range rawLines {
		if trimmedLine := strings.TrimSpace(rawLine); trimmedLine != "" {
			lines = append(lines, trimmedLine)
		}
	}
	return lines
}
