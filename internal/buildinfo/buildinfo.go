// Package buildinfo reports the version stamped into the binary with
// -ldflags "-X github.com/dmitrijs2005/securenotes/internal/buildinfo.buildVersion=...".
package buildinfo

import (
	"fmt"
	"io"
	"runtime/debug"
)

var (
	buildVersion = "N/A"
	buildDate    = "N/A"
	buildCommit  = "N/A"
)

// Version returns the linker-provided version, falling back to the module
// version recorded by the go tool.
func Version() string {
	info, _ := debug.ReadBuildInfo()
	return resolveVersion(info)
}

func resolveVersion(info *debug.BuildInfo) string {
	if buildVersion != "N/A" {
		return buildVersion
	}
	if info != nil && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return buildVersion
}

// PrintBuildData writes version, date and commit to w.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", Version())
	fmt.Fprintf(w, "Build date: %s\n", buildDate)
	fmt.Fprintf(w, "Build commit: %s\n", buildCommit)
}
