package project

import (
	"os"
	"runtime"
)

// SystemInfo describes the machine that generated the context.
type SystemInfo struct {
	OSName       string `json:"osName,omitempty" yaml:"osName,omitempty" xml:"osName,omitempty"`
	Architecture string `json:"architecture,omitempty" yaml:"architecture,omitempty" xml:"architecture,omitempty"`
	Hostname     string `json:"hostname,omitempty" yaml:"hostname,omitempty" xml:"hostname,omitempty"`
	Shell        string `json:"shell,omitempty" yaml:"shell,omitempty" xml:"shell,omitempty"`
	Terminal     string `json:"term,omitempty" yaml:"term,omitempty" xml:"term,omitempty"`
}

// GatherSystemInfo collects best-effort information about the current host.
// Missing pieces are omitted rather than treated as failures.
func GatherSystemInfo() *SystemInfo {
	info := &SystemInfo{
		OSName:       runtime.GOOS,
		Architecture: runtime.GOARCH,
		Shell:        os.Getenv("SHELL"),
		Terminal:     os.Getenv("TERM"),
	}
	if hostname, hostnameError := os.Hostname(); hostnameError == nil {
		info.Hostname = hostname
	}
	return info
}
