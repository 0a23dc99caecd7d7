package project_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/temirov/xcontext/internal/config"
	"github.com/temirov/xcontext/internal/project"
)

// characteristicsWith builds a characteristics value from trait names.
func characteristicsWith(traits ...string) *project.Characteristics {
	characteristics := &project.Characteristics{Traits: map[string]struct{}{}}
	for _, trait := range traits {
		characteristics.Traits[trait] = struct{}{}
	}
	return characteristics
}

// ruleSetNames extracts the resolved rule set names into a lookup map.
func ruleSetNames(resolved *project.ResolvedRules) map[string]bool {
	names := map[string]bool{}
	for _, ruleSet := range resolved.RuleSets {
		names[ruleSet.Name] = true
	}
	return names
}

// TestResolveRulesDefaults verifies that the default stems load with the
// default origin.
func TestResolveRulesDefaults(testingInstance *testing.T) {
	resolved := project.ResolveRules(&config.RulesConfig{}, testingInstance.TempDir(), characteristicsWith(), true, nil)

	names := ruleSetNames(resolved)
	for _, expectedName := range []string{"static:general", "static:guidelines", "static:documentation"} {
		if !names[expectedName] {
			testingInstance.Errorf("expected %s among the rule sets, got %v", expectedName, names)
		}
		if resolved.Origins[expectedName] != "default" {
			testingInstance.Errorf("expected the default origin for %s, got %q", expectedName, resolved.Origins[expectedName])
		}
	}
}

// TestResolveRulesDynamicStems verifies that detected traits pull in their
// language rules with the dynamic origin.
func TestResolveRulesDynamicStems(testingInstance *testing.T) {
	resolved := project.ResolveRules(&config.RulesConfig{}, testingInstance.TempDir(), characteristicsWith("go", "rs"), true, nil)

	names := ruleSetNames(resolved)
	if !names["static:go"] || !names["static:rust"] {
		testingInstance.Errorf("expected go and rust rule sets, got %v", names)
	}
	if resolved.Origins["static:go"] != "dynamic" {
		testingInstance.Errorf("expected the dynamic origin, got %q", resolved.Origins["static:go"])
	}
}

// TestResolveRulesExcludeAndInclude verifies that excludes remove default
// stems and includes add explicit ones.
func TestResolveRulesExcludeAndInclude(testingInstance *testing.T) {
	rulesConfiguration := &config.RulesConfig{
		Exclude: []string{"documentation"},
		Include: []string{"php"},
	}
	resolved := project.ResolveRules(rulesConfiguration, testingInstance.TempDir(), characteristicsWith(), true, nil)

	names := ruleSetNames(resolved)
	if names["static:documentation"] {
		testingInstance.Errorf("excluded stems must not load")
	}
	if !names["static:php"] {
		testingInstance.Errorf("included stems must load, got %v", names)
	}
	if resolved.Origins["static:php"] != "include" {
		testingInstance.Errorf("expected the include origin, got %q", resolved.Origins["static:php"])
	}
}

// TestResolveRulesDisabled verifies that disabling rules yields no sets.
func TestResolveRulesDisabled(testingInstance *testing.T) {
	resolved := project.ResolveRules(&config.RulesConfig{}, testingInstance.TempDir(), characteristicsWith("go"), false, nil)
	if len(resolved.RuleSets) != 0 {
		testingInstance.Errorf("expected no rule sets when disabled, got %d", len(resolved.RuleSets))
	}
}

// TestResolveRulesUnknownStemSkipped verifies that an include naming a
// nonexistent stem is skipped without failing the resolution.
func TestResolveRulesUnknownStemSkipped(testingInstance *testing.T) {
	rulesConfiguration := &config.RulesConfig{Include: []string{"fortran"}}
	resolved := project.ResolveRules(rulesConfiguration, testingInstance.TempDir(), characteristicsWith(), true, nil)

	names := ruleSetNames(resolved)
	if names["static:fortran"] {
		testingInstance.Errorf("unknown stems must be skipped")
	}
	if !names["static:general"] {
		testingInstance.Errorf("known stems must still load")
	}
}

// TestResolveRulesImportAndCustom verifies imported rule files and custom
// inline sets.
func TestResolveRulesImportAndCustom(testingInstance *testing.T) {
	projectRoot := testingInstance.TempDir()
	importedPath := filepath.Join(projectRoot, "team_rules.org")
	importedContent := "follow the review checklist\n\nkeep commits small\n"
	if writeError := os.WriteFile(importedPath, []byte(importedContent), 0o644); writeError != nil {
		testingInstance.Fatalf("writing imported rules: %v", writeError)
	}

	rulesConfiguration := &config.RulesConfig{
		Import: []string{"team_rules.org"},
		Custom: map[string][]string{
			"house": {"  prefer small interfaces  ", ""},
			"empty": {},
		},
	}
	resolved := project.ResolveRules(rulesConfiguration, projectRoot, characteristicsWith(), true, nil)

	ruleMap := resolved.AsMap()
	importedRules, importedFound := ruleMap["imported:team_rules"]
	if !importedFound || len(importedRules) != 2 {
		testingInstance.Fatalf("expected two imported rule lines, got %v", importedRules)
	}
	if resolved.Origins["imported:team_rules"] != "import" {
		testingInstance.Errorf("expected the import origin, got %q", resolved.Origins["imported:team_rules"])
	}

	customRules, customFound := ruleMap["custom:house"]
	if !customFound || len(customRules) != 1 || customRules[0] != "prefer small interfaces" {
		testingInstance.Errorf("expected the trimmed custom rule, got %v", customRules)
	}
	if _, emptyPresent := ruleMap["custom:empty"]; emptyPresent {
		testingInstance.Errorf("empty custom sets must be dropped")
	}
}

// TestResolvePromptsIncludesPredefined verifies that the predefined prompts
// are always present and that custom prompts are added.
func TestResolvePromptsIncludesPredefined(testingInstance *testing.T) {
	promptsConfiguration := &config.PromptsConfig{
		Custom: map[string]string{"triage": "sort the findings by severity"},
	}
	prompts := project.ResolvePrompts(promptsConfiguration, testingInstance.TempDir(), nil)

	if _, reviewPresent := prompts["static:review"]; !reviewPresent {
		testingInstance.Errorf("expected the predefined review prompt, got %v", prompts)
	}
	if prompts["custom:triage"] != "sort the findings by severity" {
		testingInstance.Errorf("expected the custom prompt text")
	}
}
