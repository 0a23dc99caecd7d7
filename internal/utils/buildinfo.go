package utils

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime/debug"
	"strings"
)

const unknownVersion = "unknown"

// GetApplicationVersion determines the application version from Go build
// info, falling back to git describe when running from a source checkout.
func GetApplicationVersion() string {
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if buildInfoAvailable && buildInfo.Main.Version != "" && buildInfo.Main.Version != "(devel)" {
		return buildInfo.Main.Version
	}

	repositoryDirectory, repositoryFound := findGitRepository(".")
	if repositoryFound {
		gitDescribeCommand := exec.Command("git", "describe", "--tags", "--always", "--dirty")
		gitDescribeCommand.Dir = repositoryDirectory
		gitDescribeOutput, describeError := gitDescribeCommand.Output()
		if describeError == nil && len(gitDescribeOutput) > 0 {
			return strings.TrimSpace(string(gitDescribeOutput))
		}
	}

	return unknownVersion
}

// findGitRepository walks upward from startDirectory looking for a directory
// that contains a .git folder.
func findGitRepository(startDirectory string) (string, bool) {
	absoluteStartDirectory, absoluteError := filepath.Abs(startDirectory)
	if absoluteError != nil {
		return "", false
	}

	currentDirectory := absoluteStartDirectory
	for {
		gitPath := filepath.Join(currentDirectory, ".git")
		pathInformation, statError := os.Stat(gitPath)
		if statError == nil && pathInformation.IsDir() {
			return currentDirectory, true
		}
		parentDirectory := filepath.Dir(currentDirectory)
		if parentDirectory == currentDirectory {
			return "", false
		}
		currentDirectory = parentDirectory
	}
}
