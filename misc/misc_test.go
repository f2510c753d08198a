package misc

import (
	"os"
	"testing"
)

func TestGetAppName(t *testing.T) {
	saved := os.Args
	defer func() { os.Args = saved }()

	tests := []struct {
		arg0 string
		want string
	}{
		{"/usr/local/bin/mvstyle", "mvstyle"},
		{"C:/tools/mvstyle.exe", "mvstyle"},
		{"/tmp/go-build/misc.test", "mvstyle"},
		{"", "mvstyle"},
		{"/opt/styles", "styles"},
	}
	for _, tt := range tests {
		os.Args = []string{tt.arg0}
		if got := GetAppName(); got != tt.want {
			t.Errorf("GetAppName() with %q = %q, want %q", tt.arg0, got, tt.want)
		}
	}
}

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion() returned empty string")
	}
	saved := version
	defer func() { version = saved }()
	version = "1.2.3"
	if got := GetVersion(); got != "1.2.3" {
		t.Errorf("GetVersion() = %q, want 1.2.3", got)
	}
}

func TestGetGitHash(t *testing.T) {
	if GetGitHash() == "" {
		t.Error("GetGitHash() returned empty string")
	}
}
