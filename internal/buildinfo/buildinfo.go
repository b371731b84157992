package buildinfo

import "runtime"

// Set at link time:
//
//	go build -ldflags "-X arcade/internal/buildinfo.Version=v0.2.0 -X arcade/internal/buildinfo.Commit=$(git rev-parse --short HEAD)"
var (
	Version = "dev"
	Commit  = ""
	BuiltAt = ""
)

func Info() map[string]string {
	return map[string]string{
		"version":   Version,
		"commit":    Commit,
		"builtAt":   BuiltAt,
		"goVersion": runtime.Version(),
	}
}
