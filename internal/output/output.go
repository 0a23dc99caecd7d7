// Package output serializes context documents and chunk files to JSON, YAML,
// or XML and writes them to disk.
package output

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/temirov/xcontext/internal/chunk"
	"github.com/temirov/xcontext/internal/config"
	"github.com/temirov/xcontext/internal/gather"
	"github.com/temirov/xcontext/internal/project"
)

// Format identifies a supported serialization format.
type Format string

// Supported serialization formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatXML  Format = "xml"
)

const (
	jsonIndentation    = "  "
	xmlIndentation     = "  "
	writtenFilePermits = 0o644
)

// ParseFormat validates a format name from configuration or flags.
func ParseFormat(formatName string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(formatName)) {
	case string(FormatJSON):
		return FormatJSON, nil
	case string(FormatYAML), "yml":
		return FormatYAML, nil
	case string(FormatXML):
		return FormatXML, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (expected json, yaml, or xml)", formatName)
	}
}

// Extension returns the file extension for the format, without a leading dot.
func (format Format) Extension() string {
	if format == FormatYAML {
		return "yaml"
	}
	return string(format)
}

// Renderer serializes documents according to the output configuration.
type Renderer struct {
	format         Format
	jsonMinify     bool
	xmlPrettyPrint bool
}

// NewRenderer builds a renderer from the effective configuration.
func NewRenderer(format Format, configuration *config.Config) *Renderer {
	return &Renderer{
		format:         format,
		jsonMinify:     configuration.JSONMinify(),
		xmlPrettyPrint: configuration.XMLPrettyPrint(),
	}
}

// Format reports the renderer's serialization format.
func (renderer *Renderer) Format() Format {
	return renderer.format
}

// RenderContext serializes the context document.
func (renderer *Renderer) RenderContext(contextDocument *project.Context) (string, error) {
	if renderer.format == FormatXML {
		return renderer.renderXML(xmlContextDocument(contextDocument))
	}
	return renderer.render(contextDocument)
}

// FileDump is the flat path-to-content listing produced by the quick command.
type FileDump struct {
	Files map[string]string `json:"files" yaml:"files"`
}

// RenderFileDump serializes a quick file dump.
func (renderer *Renderer) RenderFileDump(dump *FileDump) (string, error) {
	if renderer.format == FormatXML {
		return renderer.renderXML(&xmlFileDump{Files: sortedEntries(dump.Files)})
	}
	return renderer.render(dump)
}

// RenderChunk serializes one chunk file.
func (renderer *Renderer) RenderChunk(chunkFile chunk.File) (string, error) {
	if renderer.format == FormatXML {
		return renderer.renderXML(xmlChunkDocument(chunkFile))
	}
	return renderer.render(chunkFile)
}

func (renderer *Renderer) render(document any) (string, error) {
	switch renderer.format {
	case FormatJSON:
		if renderer.jsonMinify {
			serialized, marshalError := json.Marshal(document)
			if marshalError != nil {
				return "", fmt.Errorf("serializing context as JSON: %w", marshalError)
			}
			return string(serialized), nil
		}
		serialized, marshalError := json.MarshalIndent(document, "", jsonIndentation)
		if marshalError != nil {
			return "", fmt.Errorf("serializing context as JSON: %w", marshalError)
		}
		return string(serialized), nil
	case FormatYAML:
		serialized, marshalError := yaml.Marshal(document)
		if marshalError != nil {
			return "", fmt.Errorf("serializing context as YAML: %w", marshalError)
		}
		return string(serialized), nil
	default:
		return "", fmt.Errorf("unsupported output format %q", renderer.format)
	}
}

func (renderer *Renderer) renderXML(document any) (string, error) {
	var serialized []byte
	var marshalError error
	if renderer.xmlPrettyPrint {
		serialized, marshalError = xml.MarshalIndent(document, "", xmlIndentation)
	} else {
		serialized, marshalError = xml.Marshal(document)
	}
	if marshalError != nil {
		return "", fmt.Errorf("serializing context as XML: %w", marshalError)
	}
	return xml.Header + string(serialized), nil
}

// SaveToFile writes content into directory/fileName, creating the directory
// when necessary, and returns the written path.
func SaveToFile(directory, fileName, content string) (string, error) {
	if directoryError := os.MkdirAll(directory, 0o755); directoryError != nil {
		return "", fmt.Errorf("creating output directory %s: %w", directory, directoryError)
	}
	writtenPath := filepath.Join(directory, fileName)
	if writeError := os.WriteFile(writtenPath, []byte(content), writtenFilePermits); writeError != nil {
		return "", fmt.Errorf("writing %s: %w", writtenPath, writeError)
	}
	return writtenPath, nil
}

// ContextFileName derives the context document's file name from the save
// configuration, falling back to the format's extension.
func ContextFileName(saveConfiguration *config.SaveConfig, format Format) string {
	baseName := saveConfiguration.FilenameBase
	if baseName == "" {
		baseName = "context"
	}
	extension := strings.TrimPrefix(saveConfiguration.Extension, ".")
	if extension == "" {
		extension = format.Extension()
	}
	return baseName + "." + extension
}

// ChunkFileName derives the name for one chunk file.
func ChunkFileName(saveConfiguration *config.SaveConfig, format Format, partNumber int) string {
	baseName := saveConfiguration.FilenameBase
	if baseName == "" {
		baseName = "context"
	}
	extension := strings.TrimPrefix(saveConfiguration.Extension, ".")
	if extension == "" {
		extension = format.Extension()
	}
	return fmt.Sprintf("%s.chunk%03d.%s", baseName, partNumber, extension)
}

// WriteChunks renders and writes every chunk file into the output directory,
// returning the written paths in part order.
func (renderer *Renderer) WriteChunks(chunkFiles []chunk.File, outputDirectory string, saveConfiguration *config.SaveConfig) ([]string, error) {
	writtenPaths := make([]string, 0, len(chunkFiles))
	for _, chunkFile := range chunkFiles {
		rendered, renderError := renderer.RenderChunk(chunkFile)
		if renderError != nil {
			return nil, renderError
		}
		fileName := ChunkFileName(saveConfiguration, renderer.format, chunkFile.ChunkInfo.CurrentPart)
		writtenPath, writeError := SaveToFile(outputDirectory, fileName, rendered)
		if writeError != nil {
			return nil, writeError
		}
		writtenPaths = append(writtenPaths, writtenPath)
	}
	return writtenPaths, nil
}

// XML mirror types. encoding/xml cannot marshal maps, so the meta, rules, and
// prompts maps are flattened into sorted entry lists before serialization.

type xmlEntry struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

type xmlRuleSet struct {
	Name  string   `xml:"name,attr"`
	Rules []string `xml:"rule"`
}

type xmlSource struct {
	Files  []project.FileContextInfo `xml:"files>file,omitempty"`
	Chunks []string                  `xml:"chunks>chunk,omitempty"`
}

type xmlContext struct {
	XMLName             xml.Name                  `xml:"context"`
	AIReadme            string                    `xml:"aiReadme,omitempty"`
	ProjectName         string                    `xml:"projectName,omitempty"`
	ProjectRoot         string                    `xml:"projectRoot,omitempty"`
	SystemInfo          *project.SystemInfo       `xml:"systemInfo,omitempty"`
	Meta                []xmlEntry                `xml:"meta>entry,omitempty"`
	Docs                []project.FileContextInfo `xml:"docs>file,omitempty"`
	Tree                []*gather.TreeNode        `xml:"tree>node,omitempty"`
	Source              *xmlSource                `xml:"source,omitempty"`
	Rules               []xmlRuleSet              `xml:"rules>ruleSet,omitempty"`
	Prompts             []xmlEntry                `xml:"prompts>prompt,omitempty"`
	GenerationTimestamp string                    `xml:"generationTimestamp,omitempty"`
}

type xmlFileDump struct {
	XMLName xml.Name   `xml:"fileDump"`
	Files   []xmlEntry `xml:"files>file,omitempty"`
}

type xmlChunk struct {
	XMLName   xml.Name                  `xml:"chunk"`
	Files     []project.FileContextInfo `xml:"files>file"`
	ChunkInfo chunk.Info                `xml:"chunkInfo"`
}

func xmlContextDocument(contextDocument *project.Context) *xmlContext {
	mirror := &xmlContext{
		AIReadme:    contextDocument.AIReadme,
		ProjectName: contextDocument.ProjectName,
		ProjectRoot: contextDocument.ProjectRoot,
		SystemInfo:  contextDocument.SystemInfo,
		Meta:        sortedEntries(contextDocument.Meta),
		Docs:        contextDocument.Docs,
		Tree:        contextDocument.Tree,
		Prompts:     sortedEntries(contextDocument.Prompts),
	}
	if contextDocument.Source != nil {
		mirror.Source = &xmlSource{
			Files:  contextDocument.Source.Files,
			Chunks: contextDocument.Source.Chunks,
		}
	}
	if contextDocument.ResolvedRules != nil {
		for _, ruleSet := range contextDocument.ResolvedRules.RuleSets {
			mirror.Rules = append(mirror.Rules, xmlRuleSet{Name: ruleSet.Name, Rules: ruleSet.Rules})
		}
	}
	if contextDocument.GenerationTimestamp != nil {
		mirror.GenerationTimestamp = contextDocument.GenerationTimestamp.Format(time.RFC3339)
	}
	return mirror
}

func xmlChunkDocument(chunkFile chunk.File) *xmlChunk {
	return &xmlChunk{Files: chunkFile.Files, ChunkInfo: chunkFile.ChunkInfo}
}

func sortedEntries(values map[string]string) []xmlEntry {
	if len(values) == 0 {
		return nil
	}
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	entries := make([]xmlEntry, 0, len(keys))
	for _, key := range keys {
		entries = append(entries, xmlEntry{Key: key, Value: values[key]})
	}
	return entries
}
