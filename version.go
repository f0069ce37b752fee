package chatlate

// Version information for chatlate.
// These values can be overridden at build time using ldflags:
//
//	go build -ldflags "-X github.com/ZaguanLabs/chatlate.GitCommit=$(git rev-parse HEAD)"
const (
	// Name is the application name.
	Name = "chatlate"

	// Description is a short description of the application.
	Description = "Chat translation bridge with span, formatting and newline preservation"

	// Version is the semantic version of the application.
	Version = "0.1.0"
)

// BuildInfo contains build-time information.
var (
	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

// FullVersion returns the version string with optional build info.
func FullVersion() string {
	v := Version
	if GitCommit != "unknown" && GitCommit != "" {
		short := GitCommit
		if len(short) > 7 {
			short = short[:7]
		}
		v += "+" + short
	}
	return v
}

// UserAgent returns a user agent string for HTTP requests.
func UserAgent() string {
	return Name + "/" + Version
}
