// Package chunk splits gathered source files into size-bounded groups so the
// context document can reference external chunk files instead of carrying the
// whole source tree inline.
package chunk

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/temirov/xcontext/internal/project"
)

// Info records the position of a chunk within the generated sequence.
// Part numbers are one-based.
type Info struct {
	CurrentPart int `json:"currentPart" yaml:"currentPart" xml:"currentPart"`
	TotalParts  int `json:"totalParts" yaml:"totalParts" xml:"totalParts"`
}

// File is the payload serialized into one chunk file.
type File struct {
	Files     []project.FileContextInfo `json:"files" yaml:"files" xml:"files>file"`
	ChunkInfo Info                      `json:"chunkInfo" yaml:"chunkInfo" xml:"chunkInfo"`
}

// ParseSizeLimit converts a human readable size such as "64KB" or "2MiB"
// into a byte count.
func ParseSizeLimit(sizeSpecification string) (int, error) {
	parsedBytes, parseError := humanize.ParseBytes(sizeSpecification)
	if parseError != nil {
		return 0, fmt.Errorf("invalid chunk size %q: %w", sizeSpecification, parseError)
	}
	if parsedBytes == 0 {
		return 0, fmt.Errorf("invalid chunk size %q: size must be positive", sizeSpecification)
	}
	return int(parsedBytes), nil
}

// SplitFiles greedily packs files into chunks whose combined content stays
// under maximumChunkBytes. Files are kept whole: a file larger than the limit
// becomes a chunk of its own, and empty files are dropped. The input order is
// preserved across chunks.
func SplitFiles(sourceFiles []project.FileContextInfo, maximumChunkBytes int) []File {
	var groups [][]project.FileContextInfo
	var currentGroup []project.FileContextInfo
	currentBytes := 0

	for _, sourceFile := range sourceFiles {
		fileBytes := len(sourceFile.Content)
		if fileBytes == 0 {
			continue
		}
		if fileBytes >= maximumChunkBytes {
			if len(currentGroup) > 0 {
				groups = append(groups, currentGroup)
				currentGroup = nil
				currentBytes = 0
			}
			groups = append(groups, []project.FileContextInfo{sourceFile})
			continue
		}
		if currentBytes+fileBytes > maximumChunkBytes && len(currentGroup) > 0 {
			groups = append(groups, currentGroup)
			currentGroup = nil
			currentBytes = 0
		}
		currentGroup = append(currentGroup, sourceFile)
		currentBytes += fileBytes
	}
	if len(currentGroup) > 0 {
		groups = append(groups, currentGroup)
	}

	chunkFiles := make([]File, 0, len(groups))
	for groupIndex, group := range groups {
		chunkFiles = append(chunkFiles, File{
			Files: group,
			ChunkInfo: Info{
				CurrentPart: groupIndex + 1,
				TotalParts:  len(groups),
			},
		})
	}
	return chunkFiles
}
