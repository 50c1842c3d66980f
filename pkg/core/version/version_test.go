package version

import (
	"regexp"
	"runtime"
	"testing"
)

// semverRegex validates semantic versioning format
var semverRegex = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

func TestVersion_Semver(t *testing.T) {
	if !semverRegex.MatchString(Version) {
		t.Errorf("Version %q does not match semver format (x.y.z)", Version)
	}
}

func TestGet(t *testing.T) {
	oldCommit, oldTime := GitCommit, BuildTime
	defer func() { GitCommit, BuildTime = oldCommit, oldTime }()

	tests := []struct {
		name       string
		commit     string
		buildTime  string
		wantCommit string
		wantTime   string
	}{
		{"development build", "", "", "unknown", "unknown"},
		{"release build", "abc1234", "2025-12-06T10:00:00Z", "abc1234", "2025-12-06T10:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			GitCommit, BuildTime = tt.commit, tt.buildTime
			info := Get()
			if info.GitCommit != tt.wantCommit {
				t.Errorf("GitCommit = %q, want %q", info.GitCommit, tt.wantCommit)
			}
			if info.BuildTime != tt.wantTime {
				t.Errorf("BuildTime = %q, want %q", info.BuildTime, tt.wantTime)
			}
			if info.GoVersion != runtime.Version() {
				t.Errorf("GoVersion = %q, want %q", info.GoVersion, runtime.Version())
			}
		})
	}
}

func TestInfo_String(t *testing.T) {
	info := Info{Version: "1.2.3", GitCommit: "abc1234"}
	if got := info.String(); got != "v1.2.3 (abc1234)" {
		t.Errorf("String() = %q, want %q", got, "v1.2.3 (abc1234)")
	}
}
