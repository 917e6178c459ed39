package extractor

import (
	"video-extract-api/shared"
)

// RawFormat is one entry of yt-dlp's "formats" array. Only the fields the
// normalizer reads are decoded.
type RawFormat struct {
	Ext        string `json:"ext"`
	VCodec     string `json:"vcodec"`
	ACodec     string `json:"acodec"`
	FormatNote string `json:"format_note,omitempty"`
	Height     *int   `json:"height,omitempty"`
	URL        string `json:"url"`
}

func (f RawFormat) hasVideo() bool { return f.VCodec != "none" }

func (f RawFormat) hasAudio() bool { return f.ACodec != "none" }

// resolutionLabel maps a format onto one of the kept resolution labels, or ""
// when it matches neither.
func (f RawFormat) resolutionLabel() string {
	label := ""
	if f.FormatNote == shared.Resolution720p || (f.Height != nil && *f.Height == 720) {
		label = shared.Resolution720p
	}
	if f.FormatNote == shared.Resolution1080p || (f.Height != nil && *f.Height == 1080) {
		label = shared.Resolution1080p
	}
	return label
}

// NormalizeFormats selects the mp4 video renditions at 720p and 1080p, keeps
// one per resolution, and finds a standalone m4a audio track.
func NormalizeFormats(raw []RawFormat) ([]shared.FormatEntry, string) {
	var candidates []shared.FormatEntry
	for _, f := range raw {
		if f.Ext != "mp4" || !f.hasVideo() {
			continue
		}
		label := f.resolutionLabel()
		if label == "" {
			continue
		}
		candidates = append(candidates, shared.FormatEntry{
			Resolution: label,
			URL:        f.URL,
			Ext:        "mp4",
			HasAudio:   f.hasAudio(),
		})
	}
	return DedupeFormats(candidates), findAudioURL(raw)
}

// DedupeFormats keeps one entry per resolution in first-seen order. A later
// entry replaces the kept one only when it brings audio and the kept one has
// none; between two silent entries the first wins.
func DedupeFormats(entries []shared.FormatEntry) []shared.FormatEntry {
	out := make([]shared.FormatEntry, 0, len(entries))
	slot := make(map[string]int, len(entries))
	for _, e := range entries {
		i, seen := slot[e.Resolution]
		if !seen {
			slot[e.Resolution] = len(out)
			out = append(out, e)
			continue
		}
		if !out[i].HasAudio && e.HasAudio {
			out[i] = e
		}
	}
	return out
}

func findAudioURL(raw []RawFormat) string {
	for _, f := range raw {
		if f.hasAudio() && !f.hasVideo() && f.Ext == "m4a" {
			return f.URL
		}
	}
	return ""
}
