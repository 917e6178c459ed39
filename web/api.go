package web

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"video-extract-api/extractor"
	"video-extract-api/shared"
)

const (
	msgURLRequired          = "URL is required"
	msgHostNotAllowed       = "URL host is not allowed"
	msgVerificationRequired = "Verification required. Please provide fresh cookies."
	msgExtractionFailed     = "Failed to extract video info"
	msgInvalidJSON          = "Invalid JSON"
	msgInvalidForm          = "Invalid form data"

	codeVerificationRequired = "VERIFICATION_REQUIRED"
)

// handleExtract serves POST /api/video/extract.
func (s *Server) handleExtract(c *gin.Context) {
	var req shared.ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidJSON})
		return
	}
	if status, msg, ok := s.validate(req); !ok {
		c.JSON(status, gin.H{"error": msg})
		return
	}

	info, err := s.extractor.Extract(c.Request.Context(), req.URL, req.Cookies)
	if err != nil {
		slog.Error("extraction error", "url", req.URL, "err", err)
		status, body := errorResponse(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, info)
}

// validate checks the request before anything touches yt-dlp.
func (s *Server) validate(req shared.ExtractRequest) (int, string, bool) {
	if strings.TrimSpace(req.URL) == "" {
		return http.StatusBadRequest, msgURLRequired, false
	}
	if !s.hostAllowed(req.URL) {
		return http.StatusBadRequest, msgHostNotAllowed, false
	}
	return http.StatusOK, "", true
}

func (s *Server) hostAllowed(raw string) bool {
	for _, h := range s.cfg.AllowedVideoHosts {
		if h == "*" {
			return true
		}
	}
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Hostname() == "" {
		return false
	}
	return s.cfg.HostAllowed(u.Hostname())
}

// errorResponse maps an extraction error onto a status code and JSON body.
func errorResponse(err error) (int, gin.H) {
	switch {
	case errors.Is(err, extractor.ErrMissingURL):
		return http.StatusBadRequest, gin.H{"error": msgURLRequired}
	case errors.Is(err, extractor.ErrVerificationRequired):
		return http.StatusForbidden, gin.H{"error": msgVerificationRequired, "code": codeVerificationRequired}
	}
	msg := err.Error()
	if msg == "" {
		msg = msgExtractionFailed
	}
	return http.StatusInternalServerError, gin.H{"error": msg}
}
