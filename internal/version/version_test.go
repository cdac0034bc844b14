package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	info := Info()
	if !strings.HasPrefix(info, "ohsome-filter-to-sql "+Short()+" ") {
		t.Errorf("Info() = %q, want prefix with version %q", info, Short())
	}
	if !strings.HasSuffix(info, runtime.Version()) {
		t.Errorf("Info() = %q, want Go version suffix %q", info, runtime.Version())
	}
}
