package extractor

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const netscapeMarker = "# Netscape"

const netscapeHeader = "# Netscape HTTP Cookie File"

// CookieMode tells how cookies reach yt-dlp.
type CookieMode int

const (
	CookieNone CookieMode = iota
	// CookieFile passes a Netscape cookies.txt via --cookies.
	CookieFile
	// CookieHeader passes a raw "Cookie:" request header via --add-headers.
	CookieHeader
)

func (m CookieMode) String() string {
	switch m {
	case CookieFile:
		return "file"
	case CookieHeader:
		return "header"
	default:
		return "none"
	}
}

// CookieMaterial is the per-request form of user-supplied cookies. Callers
// must Release it on every exit path.
type CookieMaterial struct {
	Mode   CookieMode
	Path   string // set in CookieFile mode
	Header string // "Cookie:<pairs>" in CookieHeader mode
}

// MaterializeCookies turns raw cookie text into either a temp cookie file in
// dir or a single-line Cookie header. Empty text yields CookieNone.
func MaterializeCookies(dir, raw string) (*CookieMaterial, error) {
	if strings.TrimSpace(raw) == "" {
		return &CookieMaterial{Mode: CookieNone}, nil
	}

	hasTab := strings.Contains(raw, "\t")
	hasMarker := strings.Contains(raw, netscapeMarker)

	if !hasTab && !hasMarker && strings.Contains(raw, "=") {
		return &CookieMaterial{Mode: CookieHeader, Header: "Cookie:" + sanitizeHeaderCookies(raw)}, nil
	}

	content := raw
	if hasTab && !hasMarker {
		content = netscapeHeader + "\n" + content
	}

	path := filepath.Join(dir, uuid.New().String()+".txt")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return nil, fmt.Errorf("write cookie file: %w", err)
	}
	return &CookieMaterial{Mode: CookieFile, Path: path}, nil
}

// sanitizeHeaderCookies removes line breaks that would split the header
// argument.
func sanitizeHeaderCookies(raw string) string {
	s := strings.NewReplacer("\r", "", "\n", "").Replace(raw)
	return strings.TrimSpace(s)
}

// WithoutCookies returns material that sends no cookies. The receiver keeps
// ownership of any file.
func (c *CookieMaterial) WithoutCookies() *CookieMaterial {
	return &CookieMaterial{Mode: CookieNone}
}

// apply copies the cookie mechanism onto an invocation.
func (c *CookieMaterial) apply(inv *Invocation) {
	if c == nil {
		return
	}
	switch c.Mode {
	case CookieFile:
		inv.CookieFile = c.Path
	case CookieHeader:
		inv.Header = c.Header
	}
}

// Release deletes the cookie file, if any. Safe to call more than once.
func (c *CookieMaterial) Release() {
	if c == nil || c.Path == "" {
		return
	}
	if err := os.Remove(c.Path); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove cookie file", "path", c.Path, "err", err)
	}
	c.Path = ""
}
