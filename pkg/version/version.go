package version

// Set at build time with -ldflags "-X github.com/chmdznr/dcdn-simulator/pkg/version.Version=..."
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)
