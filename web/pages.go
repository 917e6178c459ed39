package web

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"video-extract-api/extractor"
	"video-extract-api/shared"
)

//go:embed templates/*.html
var templateFS embed.FS

var countPrinter = message.NewPrinter(language.English)

// pageData feeds index.html.
type pageData struct {
	URL                  string
	Cookies              string
	ShowCookies          bool
	Error                string
	VerificationRequired bool
	Result               *shared.VideoInfo
}

var templateFuncs = template.FuncMap{
	"formatDate":     formatDate,
	"formatDuration": formatDuration,
	"formatCount":    formatCount,
}

func mustParseTemplates() *template.Template {
	return template.Must(template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html"))
}

func (s *Server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", pageData{})
}

// handleFormSubmit runs the extraction for the HTML form and renders the
// result (or the error) in place.
func (s *Server) handleFormSubmit(c *gin.Context) {
	var req shared.ExtractRequest
	if err := c.ShouldBind(&req); err != nil {
		slog.Warn("invalid form submission", "err", err)
		c.HTML(http.StatusBadRequest, "index.html", pageData{Error: msgInvalidForm})
		return
	}

	data := pageData{URL: req.URL, Cookies: req.Cookies, ShowCookies: req.Cookies != ""}

	if status, msg, ok := s.validate(req); !ok {
		data.Error = msg
		c.HTML(status, "index.html", data)
		return
	}

	info, err := s.extractor.Extract(c.Request.Context(), req.URL, req.Cookies)
	if err != nil {
		slog.Error("extraction error", "url", req.URL, "err", err)
		status, body := errorResponse(err)
		data.VerificationRequired = errors.Is(err, extractor.ErrVerificationRequired)
		data.ShowCookies = data.ShowCookies || data.VerificationRequired
		data.Error, _ = body["error"].(string)
		c.HTML(status, "index.html", data)
		return
	}

	data.Result = info
	c.HTML(http.StatusOK, "index.html", data)
}

// formatDate renders YYYYMMDD as YYYY-MM-DD; anything else passes through.
func formatDate(s string) string {
	if len(s) == 8 {
		return s[:4] + "-" + s[4:6] + "-" + s[6:]
	}
	return s
}

// formatDuration renders seconds as [h:]mm:ss, or "" for zero.
func formatDuration(seconds int) string {
	if seconds <= 0 {
		return ""
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	sec := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%02d:%02d", m, sec)
}

// formatCount renders an optional count with thousands separators.
func formatCount(n *int64) string {
	if n == nil {
		return "-"
	}
	return countPrinter.Sprintf("%d", *n)
}
