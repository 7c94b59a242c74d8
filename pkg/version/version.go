package version

var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// Summary returns a human-friendly version string for CLI output.
func Summary() string {
	if CommitHash == "unknown" {
		return Version
	}
	return Version + " (" + CommitHash + ")"
}
