// Package gather implements the file gathering, filtering, and tree-assembly
// engine. One parallel walk of the project root feeds a per-section inclusion
// decision (tree, source, docs); selected file contents are read in parallel
// and tree-classified paths are reassembled into a nested node structure.
package gather

import (
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"

	"github.com/temirov/xcontext/internal/assets"
	"github.com/temirov/xcontext/internal/config"
)

// Result holds the three gather outputs plus the per-file warnings collected
// along the way. All slices are sorted deterministically.
type Result struct {
	SourceFiles []FileInfo
	DocsFiles   []FileInfo
	TreeEntries []TreeEntry
	Warnings    []error
}

// sectionFilter holds the compiled pattern sets and settings for one section.
type sectionFilter struct {
	includeSet *patternSet
	hasInclude bool
	excludeSet *patternSet
	builtinSet *patternSet
	// useGitignore is the section-resolved gitignore setting. The single
	// global walk already applied gitignore filtering, so this value has no
	// further effect here; it is resolved and carried for a walker strategy
	// that could honor per-section policies.
	useGitignore bool
}

// newSectionFilter compiles a section's effective include/exclude lists plus
// its built-in ignore list.
func newSectionFilter(configuration *config.Config, section *config.SectionConfig, builtinPatterns []string) (*sectionFilter, error) {
	includePatterns := configuration.EffectiveInclude(section)
	excludePatterns := configuration.EffectiveExclude(section)

	includeSet, includeError := compilePatternSet(includePatterns)
	if includeError != nil {
		return nil, includeError
	}
	excludeSet, excludeError := compilePatternSet(excludePatterns)
	if excludeError != nil {
		return nil, excludeError
	}
	builtinSet, builtinError := compilePatternSet(builtinPatterns)
	if builtinError != nil {
		return nil, builtinError
	}

	return &sectionFilter{
		includeSet:   includeSet,
		hasInclude:   !includeSet.isEmpty(),
		excludeSet:   excludeSet,
		builtinSet:   builtinSet,
		useGitignore: configuration.EffectiveGitignore(section.UseGitignore),
	}, nil
}

// includes decides membership for one walked path, short-circuiting at the
// first decisive rule: explicit excludes, then explicit includes, then
// built-in ignores. Gitignore exclusion happened during the walk; excluded
// paths never reach this decision.
func (filter *sectionFilter) includes(relativePath string, isDirectory bool, useBuiltin bool, commonBuiltin *patternSet) bool {
	if filter.excludeSet.matchesPath(relativePath, isDirectory) {
		return false
	}
	if filter.hasInclude && !filter.includeSet.matchesPath(relativePath, isDirectory) {
		return false
	}
	if useBuiltin {
		if commonBuiltin.matchesPath(relativePath, isDirectory) {
			return false
		}
		if filter.builtinSet.matchesPath(relativePath, isDirectory) {
			return false
		}
	}
	return true
}

// Gather walks projectRoot once and classifies every discovered path into
// the tree, source, and docs sections according to configuration. Contents
// of the selected source and docs files are read in parallel. Per-file
// failures are collected as warnings and, unless quiet is set, reported on
// stderr; the successful portion of the output is always produced. Only a
// configuration-shape error (an invalid glob pattern) fails the whole call.
func Gather(projectRoot string, configuration *config.Config, quiet bool, logger *zap.Logger) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	builtinIgnores := assets.BuiltinIgnorePatterns()
	treeFilter, treeError := newSectionFilter(configuration, &configuration.Tree, builtinIgnores.Tree)
	if treeError != nil {
		return nil, treeError
	}
	sourceFilter, sourceError := newSectionFilter(configuration, &configuration.Source, builtinIgnores.Source)
	if sourceError != nil {
		return nil, sourceError
	}
	docsFilter, docsError := newSectionFilter(configuration, &configuration.Docs, builtinIgnores.Docs)
	if docsError != nil {
		return nil, docsError
	}
	commonBuiltinSet, commonError := compilePatternSet(builtinIgnores.Common)
	if commonError != nil {
		return nil, commonError
	}

	useBuiltinIgnores := configuration.UseBuiltinIgnore()
	treeEnabled := config.SectionEnabled(&configuration.Tree)
	sourceEnabled := config.SectionEnabled(&configuration.Source)
	docsEnabled := config.SectionEnabled(&configuration.Docs)

	logger.Debug("walking project directory",
		zap.String("root", projectRoot),
		zap.Bool("gitignore", configuration.UseGitignore()),
		zap.Bool("builtinIgnores", useBuiltinIgnores))

	walkerInstance := newWalker(projectRoot, configuration.UseGitignore(),
		[]string{config.DefaultCacheDirectory}, logger)
	walkedPaths := walkerInstance.run()
	logger.Debug("directory walk complete", zap.Int("paths", len(walkedPaths)))

	var treeEntries []TreeEntry
	var sourceFilePaths []string
	var docsFilePaths []string

	for _, walkedPath := range walkedPaths {
		relativePath := walkedPath.RelativePath
		isDirectory := walkedPath.IsDirectory

		includeInTree := treeEnabled &&
			treeFilter.includes(relativePath, isDirectory, useBuiltinIgnores, commonBuiltinSet)

		includeInDocs := !isDirectory && docsEnabled &&
			docsFilter.includes(relativePath, false, useBuiltinIgnores, commonBuiltinSet)

		// Docs takes priority: a docs-classified file never doubles as source.
		includeInSource := !isDirectory && !includeInDocs && sourceEnabled &&
			sourceFilter.includes(relativePath, false, useBuiltinIgnores, commonBuiltinSet)

		if includeInTree {
			treeEntries = append(treeEntries, TreeEntry{RelativePath: relativePath, IsDirectory: isDirectory})
		}
		if includeInDocs {
			docsFilePaths = append(docsFilePaths, walkedPath.AbsolutePath)
		} else if includeInSource {
			sourceFilePaths = append(sourceFilePaths, walkedPath.AbsolutePath)
		}
	}

	logger.Debug("path classification complete",
		zap.Int("tree", len(treeEntries)),
		zap.Int("source", len(sourceFilePaths)),
		zap.Int("docs", len(docsFilePaths)))

	sourceFiles, sourceReadErrors := readFileContents(sourceFilePaths, logger)
	docsFiles, docsReadErrors := readFileContents(docsFilePaths, logger)

	var warnings []error
	warnings = append(warnings, sourceReadErrors...)
	warnings = append(warnings, docsReadErrors...)

	sort.Slice(treeEntries, func(firstIndex, secondIndex int) bool {
		return treeEntries[firstIndex].RelativePath < treeEntries[secondIndex].RelativePath
	})

	if len(warnings) > 0 && !quiet {
		fmt.Fprintln(os.Stderr, "Warning: errors encountered during file reading:")
		for _, warning := range warnings {
			fmt.Fprintf(os.Stderr, " - %v\n", warning)
		}
	}

	return &Result{
		SourceFiles: sourceFiles,
		DocsFiles:   docsFiles,
		TreeEntries: treeEntries,
		Warnings:    warnings,
	}, nil
}
