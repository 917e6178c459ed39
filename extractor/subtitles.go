package extractor

import (
	"regexp"
	"strings"
)

// markupRe matches inline caption markup such as <c>, <i> or <00:00:01.000>.
var markupRe = regexp.MustCompile(`<[^>]*>`)

// cueIndexRe matches standalone numeric cue identifiers.
var cueIndexRe = regexp.MustCompile(`^[0-9]+$`)

// CleanVTT reduces a WebVTT caption track to its visible text, one line per
// row, in original order. A line equal to the previous kept line is dropped,
// which removes the rolling duplication of auto-generated captions but not
// repeats further apart. The output is a fixed point: cleaning it again
// returns it unchanged.
func CleanVTT(raw string) string {
	var kept []string
	last := ""

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if isCueChrome(line) {
			continue
		}

		// Stripping markup can expose chrome such as <c>42</c>.
		text := strings.TrimSpace(markupRe.ReplaceAllString(line, ""))
		if isCueChrome(text) || text == last {
			continue
		}
		kept = append(kept, text)
		last = text
	}

	return strings.Join(kept, "\n")
}

// isCueChrome reports lines that carry no caption text: blanks, the header,
// timing lines, style blocks and numeric cue identifiers.
func isCueChrome(line string) bool {
	switch {
	case line == "", line == "WEBVTT":
		return true
	case strings.Contains(line, "-->"):
		return true
	case strings.HasPrefix(line, "Style:"), strings.HasPrefix(line, "::cue"):
		return true
	}
	return cueIndexRe.MatchString(line)
}
