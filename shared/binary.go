package shared

import (
	"log/slog"
	"os"
	"path/filepath"
)

// DefaultYtDlpBinary is used when no candidate location exists; the OS
// resolves it through PATH.
const DefaultYtDlpBinary = "yt-dlp"

// YtDlpCandidates lists the locations probed for the yt-dlp binary, in
// priority order. In serverless mode only the deployment-bundled binary is
// considered.
func YtDlpCandidates(cwd, home string, serverless bool) []string {
	if serverless {
		return []string{filepath.Join(cwd, "bin", "yt-dlp")}
	}
	var out []string
	if home != "" {
		out = append(out,
			filepath.Join(home, "Library", "Python", "3.12", "bin", "yt-dlp"),
			filepath.Join(home, ".local", "bin", "yt-dlp"),
		)
	}
	return append(out,
		"/Library/Frameworks/Python.framework/Versions/3.12/bin/yt-dlp",
		"/usr/local/bin/yt-dlp",
		"/usr/bin/yt-dlp",
	)
}

// ResolveYtDlpPath returns the explicit YTDLP_PATH when set, otherwise the
// first candidate that exists, otherwise DefaultYtDlpBinary.
func ResolveYtDlpPath(cfg *Config, exists func(string) bool) string {
	if cfg.YtDlpPath != "" {
		return cfg.YtDlpPath
	}
	if exists == nil {
		exists = fileExists
	}
	cwd, _ := os.Getwd()
	home, _ := os.UserHomeDir()
	candidates := YtDlpCandidates(cwd, home, cfg.Serverless)
	for _, c := range candidates {
		if exists(c) {
			slog.Info("yt-dlp binary found", "path", c)
			return c
		}
	}
	if cfg.Serverless {
		slog.Error("bundled yt-dlp binary not found, falling back to PATH", "candidates", candidates, "cwd", cwd)
	}
	return DefaultYtDlpBinary
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
