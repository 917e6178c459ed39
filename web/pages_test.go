package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"video-extract-api/extractor"
)

func postForm(r http.Handler, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIndexPage(t *testing.T) {
	r := newTestServer(testConfig(), &fakeExtractor{})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	html := w.Body.String()
	for _, want := range []string{`name="url"`, `name="cookies"`, "Netscape"} {
		if !strings.Contains(html, want) {
			t.Errorf("index page missing %q", want)
		}
	}
	if strings.Contains(html, `role="alert"`) {
		t.Error("index page should not show an error")
	}
}

func TestFormSubmitRendersResult(t *testing.T) {
	ext := &fakeExtractor{info: sampleInfo()}
	r := newTestServer(testConfig(), ext)

	w := postForm(r, url.Values{"url": {"https://youtu.be/abc"}})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	html := w.Body.String()
	for _, want := range []string{
		"Sample Title",
		"Sample Channel",
		"2024-01-31",
		"1:02:05",
		"1,234,567 views",
		"- likes",
		"Download 720p",
		"Download 1080p (no audio)",
		"Download audio only",
		"hello\nworld",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("result page missing %q", want)
		}
	}
	if len(ext.calls) != 1 || ext.calls[0] != "https://youtu.be/abc|" {
		t.Errorf("unexpected extractor calls %v", ext.calls)
	}
}

func TestFormSubmitEmptySubtitles(t *testing.T) {
	info := sampleInfo()
	info.Subtitles = ""
	r := newTestServer(testConfig(), &fakeExtractor{info: info})

	w := postForm(r, url.Values{"url": {"https://youtu.be/abc"}})
	if !strings.Contains(w.Body.String(), "No subtitles available") {
		t.Error("expected the empty subtitles placeholder")
	}
}

func TestFormSubmitErrors(t *testing.T) {
	r := newTestServer(testConfig(), &fakeExtractor{})
	w := postForm(r, url.Values{"url": {""}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "URL is required") {
		t.Error("expected the missing url message")
	}

	ext := &fakeExtractor{err: extractor.ErrVerificationRequired}
	r = newTestServer(testConfig(), ext)
	w = postForm(r, url.Values{"url": {"https://youtu.be/abc"}, "cookies": {"SID=1"}})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	html := w.Body.String()
	if !strings.Contains(html, "human verification") {
		t.Error("expected the verification help text")
	}
	if !strings.Contains(html, "<details open>") {
		t.Error("expected the cookie section to be expanded")
	}
	if !strings.Contains(html, "SID=1") {
		t.Error("expected the submitted cookies to be kept in the form")
	}
}

func TestFormSubmitMalformedBody(t *testing.T) {
	ext := &fakeExtractor{info: sampleInfo()}
	r := newTestServer(testConfig(), ext)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("url=%zz"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	html := w.Body.String()
	if !strings.Contains(html, "Invalid form data") {
		t.Error("expected the invalid form message")
	}
	if strings.Contains(html, "URL is required") {
		t.Error("a parse failure must not be reported as a missing url")
	}
	if len(ext.calls) != 0 {
		t.Errorf("expected no extractor calls, got %v", ext.calls)
	}
}

func TestFormatHelpers(t *testing.T) {
	dates := map[string]string{
		"20240131": "2024-01-31",
		"":         "",
		"2024":     "2024",
	}
	for in, want := range dates {
		if got := formatDate(in); got != want {
			t.Errorf("formatDate(%q) = %q, want %q", in, got, want)
		}
	}

	durations := map[int]string{
		0:    "",
		-3:   "",
		59:   "00:59",
		61:   "01:01",
		3600: "1:00:00",
		3725: "1:02:05",
	}
	for in, want := range durations {
		if got := formatDuration(in); got != want {
			t.Errorf("formatDuration(%d) = %q, want %q", in, got, want)
		}
	}

	n := int64(9876543)
	if got := formatCount(&n); got != "9,876,543" {
		t.Errorf("formatCount = %q", got)
	}
	zero := int64(0)
	if got := formatCount(&zero); got != "0" {
		t.Errorf("formatCount(0) = %q", got)
	}
	if got := formatCount(nil); got != "-" {
		t.Errorf("formatCount(nil) = %q", got)
	}
}
