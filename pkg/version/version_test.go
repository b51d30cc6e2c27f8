package version

import (
	"reflect"
	"strings"
	"testing"
)

// importPath is the package path used in the -ldflags -X settings
const importPath = "github.com/chmdznr/dcdn-simulator/pkg/version"

type marker struct{}

func TestVersionVariables(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if parts := strings.Split(Version, "."); len(parts) != 3 {
		t.Errorf("Version '%s' should be major.minor.patch", Version)
	}

	if GitCommit == "" {
		t.Error("GitCommit should not be empty")
	}
	if GitCommit != "unknown" && len(GitCommit) < 7 {
		t.Errorf("GitCommit '%s' seems invalid, should be 'unknown' or a git hash", GitCommit)
	}

	if BuildTime == "" {
		t.Error("BuildTime should not be empty")
	}
}

func TestLdflagsImportPath(t *testing.T) {
	if got := reflect.TypeOf(marker{}).PkgPath(); got != importPath {
		t.Errorf("package path = %q; want %q, update the -X flags in the build", got, importPath)
	}
}
