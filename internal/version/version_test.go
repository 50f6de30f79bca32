package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestGetUsesLdflags(t *testing.T) {
	oldVersion, oldCommit, oldDate := Version, GitCommit, BuildDate
	t.Cleanup(func() { Version, GitCommit, BuildDate = oldVersion, oldCommit, oldDate })

	Version, GitCommit, BuildDate = "v1.2.0", "abc1234", "2025-01-27"
	info := Get()

	if info.Version != "v1.2.0" || info.GitCommit != "abc1234" || info.BuildDate != "2025-01-27" {
		t.Errorf("Get() = %+v", info)
	}
	if info.Platform != runtime.GOOS+"/"+runtime.GOARCH {
		t.Errorf("Platform = %q", info.Platform)
	}
	if got := String(); got != "v1.2.0 (abc1234)" {
		t.Errorf("String() = %q", got)
	}
}

func TestGetNeverEmpty(t *testing.T) {
	info := Get()
	if info.GitCommit == "" || info.BuildDate == "" {
		t.Errorf("Get() left empty fields: %+v", info)
	}
	if !strings.HasPrefix(info.GoVersion, "go") && !strings.HasPrefix(info.GoVersion, "devel") {
		t.Errorf("GoVersion = %q", info.GoVersion)
	}
}

func TestShortRevision(t *testing.T) {
	if got := shortRevision("0123456789abcdef"); got != "0123456" {
		t.Errorf("shortRevision = %q", got)
	}
	if got := shortRevision("abc"); got != "abc" {
		t.Errorf("shortRevision = %q", got)
	}
}
