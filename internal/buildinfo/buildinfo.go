package buildinfo

import (
	"fmt"
	"runtime"
)

// set at build time with -ldflags "-X dexsource/internal/buildinfo.Version=..."
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// UserAgent is the default user agent sent upstream by the CLI.
func UserAgent() string {
	return fmt.Sprintf("dexsource/%s (%s/%s)", Version, runtime.GOOS, runtime.GOARCH)
}
