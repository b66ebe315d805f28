//go:build !windows

package main_test

import (
	"os"
	"testing"

	"fortio.org/testscript"
	main "grol.io/devserve"
)

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"devserve": main.Main,
	}))
}

func TestDevserveCli(t *testing.T) {
	testscript.Run(t, testscript.Params{Dir: "testdata"})
}

func TestParsePort(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"8080", 8080, false},
		{"9999", 9999, false},
		{"0", 0, false},
		{"65535", 65535, false},
		{"65536", 0, true},
		{"-1", 0, true},
		{"abc", 0, true},
		{"80.5", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := main.ParsePort(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePort(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePort(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
