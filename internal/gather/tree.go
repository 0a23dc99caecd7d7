package gather

import (
	"sort"
	"strings"

	"go.uber.org/zap"
)

// NodeKind is the closed set of tree node types. There is no third variant.
type NodeKind string

const (
	// NodeKindFile marks a leaf file node. File nodes carry no children.
	NodeKindFile NodeKind = "file"
	// NodeKindDirectory marks a directory node. Directory nodes always
	// carry a children list, possibly empty.
	NodeKindDirectory NodeKind = "directory"
)

// TreeNode is one node of the assembled directory tree. Sibling nodes are
// unique by name and sorted by name. Children is non-nil exactly for
// directory nodes. The structure is not mutated after assembly.
type TreeNode struct {
	Name     string      `json:"name" yaml:"name" xml:"name"`
	Kind     NodeKind    `json:"type" yaml:"type" xml:"type"`
	Children []*TreeNode `json:"children,omitempty" yaml:"children,omitempty" xml:"children>node,omitempty"`
}

// TreeEntry is one tree-classified path as produced by Gather.
type TreeEntry struct {
	RelativePath string
	IsDirectory  bool
}

// BuildTree converts a flat collection of tree entries into nested nodes.
// The input need not be sorted or deduplicated: assembly is insertion-order
// independent and the result is deterministic for a given entry set. A path
// that attempts to descend through an existing file node is a structural
// conflict; it is logged and skipped without failing the assembly.
func BuildTree(treeEntries []TreeEntry, logger *zap.Logger) ([]*TreeNode, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var rootNodes []*TreeNode
	for _, entry := range treeEntries {
		components := splitPathComponents(entry.RelativePath)
		if len(components) == 0 {
			continue
		}
		updatedRoots, insertError := insertPathComponents(rootNodes, components, entry.IsDirectory)
		if insertError != nil {
			if conflict, isConflict := insertError.(*TreeConflictError); isConflict {
				conflict.Path = entry.RelativePath
			}
			logger.Error("error inserting node into tree",
				zap.String("path", entry.RelativePath), zap.Error(insertError))
			continue
		}
		rootNodes = updatedRoots
	}

	sortNodesRecursively(rootNodes)
	return rootNodes, nil
}

// splitPathComponents splits a slash-separated relative path into its normal
// components, dropping empty, current-directory, and parent-directory parts.
func splitPathComponents(relativePath string) []string {
	rawComponents := strings.Split(strings.ReplaceAll(relativePath, "\\", "/"), "/")
	components := make([]string, 0, len(rawComponents))
	for _, component := range rawComponents {
		if component == "" || component == "." || component == ".." {
			continue
		}
		components = append(components, component)
	}
	return components
}

// insertPathComponents inserts one path, component by component, into the
// sibling list and returns the updated list. Siblings stay sorted by name;
// lookup uses ordered search.
func insertPathComponents(siblings []*TreeNode, components []string, isDirectoryAtEnd bool) ([]*TreeNode, error) {
	componentName := components[0]
	remainingComponents := components[1:]
	isLastComponent := len(remainingComponents) == 0

	position := sort.Search(len(siblings), func(index int) bool {
		return siblings[index].Name >= componentName
	})

	if position < len(siblings) && siblings[position].Name == componentName {
		existingNode := siblings[position]

		if !isLastComponent {
			if existingNode.Kind == NodeKindFile {
				return siblings, &TreeConflictError{Component: componentName}
			}
			if existingNode.Children == nil {
				existingNode.Children = []*TreeNode{}
			}
			updatedChildren, descendError := insertPathComponents(existingNode.Children, remainingComponents, isDirectoryAtEnd)
			if descendError != nil {
				return siblings, descendError
			}
			existingNode.Children = updatedChildren
			return siblings, nil
		}

		// A later-arriving directory entry for the same path wins over an
		// earlier file-type inference; the reverse is a no-op.
		if isDirectoryAtEnd && existingNode.Kind == NodeKindFile {
			existingNode.Kind = NodeKindDirectory
			existingNode.Children = []*TreeNode{}
		}
		return siblings, nil
	}

	newNode := &TreeNode{Name: componentName}
	if isLastComponent && !isDirectoryAtEnd {
		newNode.Kind = NodeKindFile
	} else {
		// An intermediate component is necessarily a directory even when no
		// entry declared it as such.
		newNode.Kind = NodeKindDirectory
		newNode.Children = []*TreeNode{}
	}

	if !isLastComponent {
		updatedChildren, descendError := insertPathComponents(newNode.Children, remainingComponents, isDirectoryAtEnd)
		if descendError != nil {
			return siblings, descendError
		}
		newNode.Children = updatedChildren
	}

	siblings = append(siblings, nil)
	copy(siblings[position+1:], siblings[position:])
	siblings[position] = newNode
	return siblings, nil
}

// sortNodesRecursively finalizes the tree by sorting every sibling level by
// name. Insertion keeps levels sorted already; this pass makes the
// guarantee explicit before the structure is handed to serialization.
func sortNodesRecursively(nodes []*TreeNode) {
	sort.Slice(nodes, func(firstIndex, secondIndex int) bool {
		return nodes[firstIndex].Name < nodes[secondIndex].Name
	})
	for _, node := range nodes {
		if node.Kind == NodeKindDirectory {
			sortNodesRecursively(node.Children)
		}
	}
}
