package server

import (
	"path/filepath"
	"testing"
)

func TestExecutableBase(t *testing.T) {
	tmp := filepath.FromSlash("/tmp")
	wd := filepath.FromSlash("/home/me/project")
	tests := []struct {
		exe  string
		want string
	}{
		{"/usr/local/bin/devserve", "/usr/local/bin"},
		{"/tmp/go-build123/b001/exe/devserve", wd},
		{"/tmp/devserve", wd},
		{"/tmpfoo/devserve", "/tmpfoo"},
		{"/opt/app/examples/devserve", "/opt/app/examples"},
	}
	for _, tt := range tests {
		got := executableBase(filepath.FromSlash(tt.exe), tmp, wd)
		if got != filepath.FromSlash(tt.want) {
			t.Errorf("executableBase(%q) = %q, want %q", tt.exe, got, tt.want)
		}
	}
}
