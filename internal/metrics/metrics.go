// Package metrics computes size and token statistics for gathered files.
package metrics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkoukk/tiktoken-go"
	"go.uber.org/zap"

	"github.com/temirov/xcontext/internal/gather"
	"github.com/temirov/xcontext/internal/utils"
)

// tokenEncodingName selects the BPE vocabulary used for token counts.
const tokenEncodingName = "cl100k_base"

// FileMetrics holds the statistics of a single file.
type FileMetrics struct {
	Path         string `json:"path" yaml:"path"`
	Lines        int    `json:"lines" yaml:"lines"`
	Bytes        int    `json:"bytes" yaml:"bytes"`
	ReadableSize string `json:"readableSize" yaml:"readableSize"`
	Tokens       int    `json:"tokens,omitempty" yaml:"tokens,omitempty"`
}

// ProjectMetrics aggregates per-file statistics with totals.
type ProjectMetrics struct {
	Files           []FileMetrics `json:"files" yaml:"files"`
	TotalFiles      int           `json:"totalFiles" yaml:"totalFiles"`
	TotalLines      int           `json:"totalLines" yaml:"totalLines"`
	TotalBytes      int           `json:"totalBytes" yaml:"totalBytes"`
	ReadableSize    string        `json:"readableSize" yaml:"readableSize"`
	TotalTokens     int           `json:"totalTokens,omitempty" yaml:"totalTokens,omitempty"`
	TokensAvailable bool          `json:"tokensAvailable" yaml:"tokensAvailable"`
}

// Calculator counts lines, bytes, and optionally tokens. Token counting is
// skipped when the encoding cannot be loaded, for example without network
// access to fetch the vocabulary.
type Calculator struct {
	encoding *tiktoken.Tiktoken
	logger   *zap.Logger
}

// NewCalculator prepares a calculator, degrading to byte and line counts
// only when the token encoding is unavailable.
func NewCalculator(logger *zap.Logger) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	calculator := &Calculator{logger: logger}
	encoding, encodingError := tiktoken.GetEncoding(tokenEncodingName)
	if encodingError != nil {
		logger.Warn("token encoding unavailable, token counts will be omitted",
			zap.String("encoding", tokenEncodingName),
			zap.Error(encodingError))
		return calculator
	}
	calculator.encoding = encoding
	return calculator
}

// TokensAvailable reports whether token counts will be produced.
func (calculator *Calculator) TokensAvailable() bool {
	return calculator.encoding != nil
}

// Compute builds project metrics for the given files, with paths reported
// relative to the project root and files sorted by path.
func (calculator *Calculator) Compute(files []gather.FileInfo, projectRoot string) *ProjectMetrics {
	projectMetrics := &ProjectMetrics{
		Files:           make([]FileMetrics, 0, len(files)),
		TokensAvailable: calculator.TokensAvailable(),
	}
	for _, file := range files {
		fileMetrics := FileMetrics{
			Path:         utils.RelativePathOrSelf(file.Path, projectRoot),
			Lines:        countLines(file.Content),
			Bytes:        len(file.Content),
			ReadableSize: humanize.Bytes(uint64(len(file.Content))),
		}
		if calculator.encoding != nil {
			fileMetrics.Tokens = len(calculator.encoding.EncodeOrdinary(file.Content))
		}
		projectMetrics.Files = append(projectMetrics.Files, fileMetrics)
		projectMetrics.TotalLines += fileMetrics.Lines
		projectMetrics.TotalBytes += fileMetrics.Bytes
		projectMetrics.TotalTokens += fileMetrics.Tokens
	}
	sort.Slice(projectMetrics.Files, func(firstIndex, secondIndex int) bool {
		return projectMetrics.Files[firstIndex].Path < projectMetrics.Files[secondIndex].Path
	})
	projectMetrics.TotalFiles = len(projectMetrics.Files)
	projectMetrics.ReadableSize = humanize.Bytes(uint64(projectMetrics.TotalBytes))
	return projectMetrics
}

// RenderTable formats the metrics as an aligned text table.
func (projectMetrics *ProjectMetrics) RenderTable() string {
	var builder strings.Builder
	pathWidth := len("TOTAL")
	for _, fileMetrics := range projectMetrics.Files {
		if len(fileMetrics.Path) > pathWidth {
			pathWidth = len(fileMetrics.Path)
		}
	}

	if projectMetrics.TokensAvailable {
		fmt.Fprintf(&builder, "%-*s  %10s  %10s  %10s\n", pathWidth, "FILE", "LINES", "SIZE", "TOKENS")
	} else {
		fmt.Fprintf(&builder, "%-*s  %10s  %10s\n", pathWidth, "FILE", "LINES", "SIZE")
	}
	for _, fileMetrics := range projectMetrics.Files {
		if projectMetrics.TokensAvailable {
			fmt.Fprintf(&builder, "%-*s  %10d  %10s  %10d\n",
				pathWidth, fileMetrics.Path, fileMetrics.Lines, fileMetrics.ReadableSize, fileMetrics.Tokens)
		} else {
			fmt.Fprintf(&builder, "%-*s  %10d  %10s\n",
				pathWidth, fileMetrics.Path, fileMetrics.Lines, fileMetrics.ReadableSize)
		}
	}
	if projectMetrics.TokensAvailable {
		fmt.Fprintf(&builder, "%-*s  %10d  %10s  %10d\n",
			pathWidth, "TOTAL", projectMetrics.TotalLines, projectMetrics.ReadableSize, projectMetrics.TotalTokens)
	} else {
		fmt.Fprintf(&builder, "%-*s  %10d  %10s\n",
			pathWidth, "TOTAL", projectMetrics.TotalLines, projectMetrics.ReadableSize)
	}
	return builder.String()
}

func countLines(content string) int {
	if content == "" {
		return 0
	}
	lineCount := strings.Count(content, "\n")
	if !strings.HasSuffix(content, "\n") {
		lineCount++
	}
	return lineCount
}
