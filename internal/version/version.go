package version

import "runtime"

// Build metadata, overridden at link time:
//
//	go build -ldflags "-X accessibilityhire/internal/version.Commit=$(git rev-parse --short HEAD)"
var (
	Version   = "0.1.0"
	Commit    = ""
	BuildTime = ""
)

// Service is reported by /version and the CLI
const Service = "accessibility-hire"

type Info struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildTime string `json:"buildTime,omitempty"`
	GoVersion string `json:"goVersion"`
}

func Get() Info {
	return Info{
		Service:   Service,
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}
}

func (i Info) String() string {
	s := i.Service + " " + i.Version
	if i.Commit != "" {
		s += " (" + i.Commit + ")"
	}
	return s
}
