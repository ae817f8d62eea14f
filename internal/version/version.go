package version

import (
	"fmt"
	"runtime"
)

// Populated at build time via -ldflags
var (
	App       = "AuthHub"
	Version   = "dev"
	GitCommit string
	BuildTime string
)

// PrintVersion writes the build information to stdout
func PrintVersion() {
	fmt.Printf("%s %s\n", App, Version)
	if GitCommit != "" {
		fmt.Printf("  commit:  %s\n", shortCommit())
	}
	if BuildTime != "" {
		fmt.Printf("  built:   %s\n", BuildTime)
	}
	fmt.Printf("  runtime: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

func shortCommit() string {
	if len(GitCommit) > 7 {
		return GitCommit[:7]
	}
	return GitCommit
}
