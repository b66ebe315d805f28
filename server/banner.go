package server

import (
	"fmt"
	"io"
	"strings"

	"github.com/rivo/uniseg"
)

const minBannerWidth = 60

// BannerLines returns the startup banner content, without the separators, for a server
// reachable at baseURL and serving dir.
func BannerLines(cfg *Config, baseURL, dir string) []string {
	lines := []string{
		"📡 Server running at: " + baseURL,
		"Serving directory: " + dir,
	}
	if cfg.RedirectRootTo != "" {
		entry := cfg.RedirectRootTo
		if !strings.HasPrefix(entry, "/") {
			entry = "/" + entry
		}
		lines = append(lines, "Demo entry: "+baseURL+entry)
	}
	if len(cfg.BannerExtras) > 0 {
		lines = append(lines, "Demos:")
		for _, d := range cfg.BannerExtras {
			lines = append(lines, "  • "+d)
		}
	}
	return append(lines, "🔴 Press Ctrl+C to stop the server")
}

// WriteBanner writes title and lines framed by separators sized to the widest line
// (in terminal cells, emoji count double).
func WriteBanner(w io.Writer, title string, lines []string) {
	width := max(minBannerWidth, uniseg.StringWidth(title))
	for _, l := range lines {
		width = max(width, uniseg.StringWidth(l))
	}
	sep := strings.Repeat("=", width)
	var b strings.Builder
	fmt.Fprintln(&b, sep)
	fmt.Fprintln(&b, title)
	fmt.Fprintln(&b, sep)
	for _, l := range lines {
		fmt.Fprintln(&b, l)
	}
	fmt.Fprintln(&b, sep)
	_, _ = io.WriteString(w, b.String())
}
