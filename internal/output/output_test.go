package output_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/temirov/xcontext/internal/chunk"
	"github.com/temirov/xcontext/internal/config"
	"github.com/temirov/xcontext/internal/output"
	"github.com/temirov/xcontext/internal/project"
)

// buildRenderableContext assembles a small context document for rendering
// tests.
func buildRenderableContext(testingInstance *testing.T, configuration *config.Config) *project.Context {
	testingInstance.Helper()
	configuration.Meta.Values = map[string]string{"team": "platform", "area": "tooling"}
	contextDocument := project.Build(testingInstance.TempDir(), configuration, nil, nil, nil)
	contextDocument.AddFiles([]project.FileContextInfo{{Path: "main.go", Content: "package main\n"}})
	return contextDocument
}

// TestRenderContextJSONMinifyToggle verifies the compact and indented JSON
// variants.
func TestRenderContextJSONMinifyToggle(testingInstance *testing.T) {
	configuration := config.Default()
	contextDocument := buildRenderableContext(testingInstance, configuration)

	minifiedRenderer := output.NewRenderer(output.FormatJSON, configuration)
	minified, minifiedError := minifiedRenderer.RenderContext(contextDocument)
	if minifiedError != nil {
		testingInstance.Fatalf("unexpected error: %v", minifiedError)
	}
	if strings.Contains(minified, "\n") {
		testingInstance.Errorf("minified JSON must be a single line")
	}
	if !json.Valid([]byte(minified)) {
		testingInstance.Fatalf("expected valid JSON")
	}

	indentedConfiguration := config.Default()
	disabled := false
	indentedConfiguration.Output.JSONMinify = &disabled
	indentedRenderer := output.NewRenderer(output.FormatJSON, indentedConfiguration)
	indented, indentedError := indentedRenderer.RenderContext(contextDocument)
	if indentedError != nil {
		testingInstance.Fatalf("unexpected error: %v", indentedError)
	}
	if !strings.Contains(indented, "\n  ") {
		testingInstance.Errorf("expected indented JSON")
	}
}

// TestRenderContextYAML verifies YAML serialization of the document.
func TestRenderContextYAML(testingInstance *testing.T) {
	configuration := config.Default()
	contextDocument := buildRenderableContext(testingInstance, configuration)

	renderer := output.NewRenderer(output.FormatYAML, configuration)
	rendered, renderError := renderer.RenderContext(contextDocument)
	if renderError != nil {
		testingInstance.Fatalf("unexpected error: %v", renderError)
	}
	if !strings.Contains(rendered, "projectRoot:") {
		testingInstance.Errorf("expected camelCase YAML keys, got:\n%s", rendered)
	}
	if !strings.Contains(rendered, "main.go") {
		testingInstance.Errorf("expected the source file in the YAML output")
	}
}

// TestRenderContextXML verifies the XML mirror: header, sorted meta
// entries, and the source files.
func TestRenderContextXML(testingInstance *testing.T) {
	configuration := config.Default()
	contextDocument := buildRenderableContext(testingInstance, configuration)

	renderer := output.NewRenderer(output.FormatXML, configuration)
	rendered, renderError := renderer.RenderContext(contextDocument)
	if renderError != nil {
		testingInstance.Fatalf("unexpected error: %v", renderError)
	}
	if !strings.HasPrefix(rendered, "<?xml") {
		testingInstance.Errorf("expected the XML header")
	}
	if !strings.Contains(rendered, `<entry key="area">tooling</entry>`) {
		testingInstance.Errorf("expected flattened meta entries, got:\n%s", rendered)
	}
	areaPosition := strings.Index(rendered, `key="area"`)
	teamPosition := strings.Index(rendered, `key="team"`)
	if areaPosition == -1 || teamPosition == -1 || areaPosition > teamPosition {
		testingInstance.Errorf("meta entries must be sorted by key")
	}
	if !strings.Contains(rendered, "<path>main.go</path>") {
		testingInstance.Errorf("expected the source file in the XML output")
	}
}

// TestRenderFileDump verifies the flat file listing in JSON and XML form.
func TestRenderFileDump(testingInstance *testing.T) {
	configuration := config.Default()
	dump := &output.FileDump{Files: map[string]string{
		"pkg/helper.go": "package pkg\n",
		"main.go":       "package main\n",
	}}

	jsonRenderer := output.NewRenderer(output.FormatJSON, configuration)
	renderedJSON, jsonError := jsonRenderer.RenderFileDump(dump)
	if jsonError != nil {
		testingInstance.Fatalf("unexpected error: %v", jsonError)
	}
	var decoded struct {
		Files map[string]string `json:"files"`
	}
	if unmarshalError := json.Unmarshal([]byte(renderedJSON), &decoded); unmarshalError != nil {
		testingInstance.Fatalf("decoding rendered JSON: %v", unmarshalError)
	}
	if decoded.Files["main.go"] != "package main\n" || decoded.Files["pkg/helper.go"] != "package pkg\n" {
		testingInstance.Errorf("expected both files in the dump, got %v", decoded.Files)
	}

	xmlRenderer := output.NewRenderer(output.FormatXML, configuration)
	renderedXML, xmlError := xmlRenderer.RenderFileDump(dump)
	if xmlError != nil {
		testingInstance.Fatalf("unexpected error: %v", xmlError)
	}
	if !strings.Contains(renderedXML, `<file key="main.go">`) {
		testingInstance.Errorf("expected flattened file entries, got:\n%s", renderedXML)
	}
	mainPosition := strings.Index(renderedXML, `key="main.go"`)
	helperPosition := strings.Index(renderedXML, `key="pkg/helper.go"`)
	if mainPosition == -1 || helperPosition == -1 || mainPosition > helperPosition {
		testingInstance.Errorf("file entries must be sorted by path")
	}
}

// TestParseFormat verifies format name validation.
func TestParseFormat(testingInstance *testing.T) {
	testCases := []struct {
		testName    string
		formatName  string
		expected    output.Format
		expectError bool
	}{
		{testName: "json", formatName: "json", expected: output.FormatJSON},
		{testName: "yaml", formatName: "yaml", expected: output.FormatYAML},
		{testName: "yml alias", formatName: "yml", expected: output.FormatYAML},
		{testName: "xml upper case", formatName: "XML", expected: output.FormatXML},
		{testName: "unknown", formatName: "toml", expectError: true},
	}
	for _, testCase := range testCases {
		actual, parseError := output.ParseFormat(testCase.formatName)
		if testCase.expectError {
			if parseError == nil {
				testingInstance.Errorf("%s: expected an error", testCase.testName)
			}
			continue
		}
		if parseError != nil {
			testingInstance.Errorf("%s: unexpected error: %v", testCase.testName, parseError)
			continue
		}
		if actual != testCase.expected {
			testingInstance.Errorf("%s: expected %s, got %s", testCase.testName, testCase.expected, actual)
		}
	}
}

// TestFileNames verifies context and chunk file name derivation.
func TestFileNames(testingInstance *testing.T) {
	saveConfiguration := &config.SaveConfig{}
	if fileName := output.ContextFileName(saveConfiguration, output.FormatJSON); fileName != "context.json" {
		testingInstance.Errorf("expected context.json, got %s", fileName)
	}
	if fileName := output.ChunkFileName(saveConfiguration, output.FormatYAML, 3); fileName != "context.chunk003.yaml" {
		testingInstance.Errorf("expected context.chunk003.yaml, got %s", fileName)
	}

	customized := &config.SaveConfig{FilenameBase: "bundle", Extension: ".out"}
	if fileName := output.ContextFileName(customized, output.FormatXML); fileName != "bundle.out" {
		testingInstance.Errorf("expected bundle.out, got %s", fileName)
	}
}

// TestSaveToFileCreatesDirectories verifies directory creation on save.
func TestSaveToFileCreatesDirectories(testingInstance *testing.T) {
	baseDirectory := testingInstance.TempDir()
	targetDirectory := filepath.Join(baseDirectory, "nested", "out")

	writtenPath, saveError := output.SaveToFile(targetDirectory, "context.json", "{}")
	if saveError != nil {
		testingInstance.Fatalf("unexpected error: %v", saveError)
	}
	content, readError := os.ReadFile(writtenPath)
	if readError != nil {
		testingInstance.Fatalf("reading the written file: %v", readError)
	}
	if string(content) != "{}" {
		testingInstance.Errorf("expected the saved content, got %q", string(content))
	}
}

// TestWriteChunks verifies that every chunk lands in its own numbered file.
func TestWriteChunks(testingInstance *testing.T) {
	configuration := config.Default()
	renderer := output.NewRenderer(output.FormatJSON, configuration)
	outputDirectory := testingInstance.TempDir()

	chunkFiles := []chunk.File{
		{Files: []project.FileContextInfo{{Path: "a.go", Content: "package a\n"}}, ChunkInfo: chunk.Info{CurrentPart: 1, TotalParts: 2}},
		{Files: []project.FileContextInfo{{Path: "b.go", Content: "package b\n"}}, ChunkInfo: chunk.Info{CurrentPart: 2, TotalParts: 2}},
	}

	writtenPaths, writeError := renderer.WriteChunks(chunkFiles, outputDirectory, &configuration.Save)
	if writeError != nil {
		testingInstance.Fatalf("unexpected error: %v", writeError)
	}
	if len(writtenPaths) != 2 {
		testingInstance.Fatalf("expected two written chunk files, got %d", len(writtenPaths))
	}
	if filepath.Base(writtenPaths[0]) != "context.chunk001.json" {
		testingInstance.Errorf("expected numbered chunk file names, got %s", writtenPaths[0])
	}
	for _, writtenPath := range writtenPaths {
		content, readError := os.ReadFile(writtenPath)
		if readError != nil {
			testingInstance.Fatalf("reading %s: %v", writtenPath, readError)
		}
		if !json.Valid(content) {
			testingInstance.Errorf("chunk file %s must hold valid JSON", writtenPath)
		}
	}
}
