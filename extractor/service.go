// Package extractor wraps yt-dlp: it materializes user cookies, runs the
// metadata and subtitle invocations, and normalizes what comes back into a
// shared.VideoInfo.
package extractor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"video-extract-api/shared"
)

// SubtitleLangs is the subtitle language preference passed to yt-dlp.
const SubtitleLangs = "en,zh-Hans,zh-Hant"

// Service runs extractions. The temp dir is fixed at construction.
type Service struct {
	runner   Runner
	tempDir  string
	coalesce bool
	group    singleflight.Group
}

func NewService(runner Runner, tempDir string, coalesce bool) *Service {
	return &Service{runner: runner, tempDir: tempDir, coalesce: coalesce}
}

// stepOutcome is the result class of one yt-dlp invocation.
type stepOutcome int

const (
	stepOK stepOutcome = iota
	// stepSoftFail: the step failed but the extraction continues degraded.
	stepSoftFail
	// stepHardFail: the step failed and, absent a retry, ends the extraction.
	stepHardFail
)

type metadataStep struct {
	outcome stepOutcome
	meta    *rawMetadata
	err     error
	retried bool
}

type subtitleStep struct {
	outcome stepOutcome
	text    string
	err     error
}

// rawMetadata is the subset of yt-dlp's --dump-json output the service reads.
type rawMetadata struct {
	Title        string      `json:"title"`
	Thumbnail    string      `json:"thumbnail"`
	Description  string      `json:"description"`
	UploadDate   string      `json:"upload_date"`
	ViewCount    *int64      `json:"view_count"`
	LikeCount    *int64      `json:"like_count"`
	CommentCount *int64      `json:"comment_count"`
	Duration     float64     `json:"duration"`
	Channel      string      `json:"channel"`
	Formats      []RawFormat `json:"formats"`
}

// Extract fetches metadata and subtitles for url and returns the normalized
// result. Identical concurrent calls share one run when coalescing is on.
// The shared run is detached from any single caller's cancellation; each
// caller stops waiting when its own ctx is done.
func (s *Service) Extract(ctx context.Context, url, cookies string) (*shared.VideoInfo, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, ErrMissingURL
	}
	if !s.coalesce {
		return s.extract(ctx, url, cookies)
	}

	flightCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(flightKey(url, cookies), func() (interface{}, error) {
		return s.extract(flightCtx, url, cookies)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Shared {
			slog.Debug("extraction coalesced", "url", url)
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*shared.VideoInfo), nil
	}
}

func flightKey(url, cookies string) string {
	sum := sha256.Sum256([]byte(url + "\x00" + cookies))
	return hex.EncodeToString(sum[:])
}

func (s *Service) extract(ctx context.Context, url, cookies string) (*shared.VideoInfo, error) {
	material, err := MaterializeCookies(s.tempDir, cookies)
	if err != nil {
		return nil, err
	}
	defer material.Release()

	md := s.fetchMetadata(ctx, url, material)
	if md.outcome != stepOK {
		slog.Error("metadata extraction failed", "url", url, "cookies", material.Mode.String(), "retried", md.retried, "err", md.err)
		return nil, md.err
	}

	subs := s.fetchSubtitles(ctx, url, material)
	if subs.outcome == stepSoftFail {
		slog.Warn("subtitle download failed or no subtitles found", "url", url, "err", subs.err)
	}

	formats, audioURL := NormalizeFormats(md.meta.Formats)

	return &shared.VideoInfo{
		Title:        md.meta.Title,
		Thumbnail:    md.meta.Thumbnail,
		Description:  md.meta.Description,
		UploadDate:   md.meta.UploadDate,
		ViewCount:    md.meta.ViewCount,
		LikeCount:    md.meta.LikeCount,
		CommentCount: md.meta.CommentCount,
		Duration:     int(md.meta.Duration),
		Channel:      md.meta.Channel,
		Subtitles:    subs.text,
		AudioURL:     audioURL,
		Formats:      formats,
	}, nil
}

// fetchMetadata runs the --dump-json invocation. A header-cookie failure is
// retried exactly once without cookies; a file-cookie failure is not.
func (s *Service) fetchMetadata(ctx context.Context, url string, cookies *CookieMaterial) metadataStep {
	step := s.runMetadata(ctx, url, cookies)
	if step.outcome == stepHardFail && cookies.Mode == CookieHeader {
		slog.Warn("metadata extraction with cookies failed, retrying without cookies", "url", url, "err", step.err)
		step = s.runMetadata(ctx, url, cookies.WithoutCookies())
		step.retried = true
	}
	return step
}

func (s *Service) runMetadata(ctx context.Context, url string, cookies *CookieMaterial) metadataStep {
	inv := Invocation{
		URL:          url,
		DumpJSON:     true,
		SkipDownload: true,
		ForceIPv4:    true,
	}
	cookies.apply(&inv)

	out, err := s.runner.Run(ctx, inv)
	if err != nil {
		return metadataStep{outcome: stepHardFail, err: classifyToolFailure(out, err)}
	}

	var meta rawMetadata
	if err := json.Unmarshal([]byte(out.Stdout), &meta); err != nil {
		return metadataStep{outcome: stepHardFail, err: fmt.Errorf("parse yt-dlp metadata: %w", err)}
	}
	return metadataStep{outcome: stepOK, meta: &meta}
}

// fetchSubtitles writes subtitle files under a fresh id in the temp dir and
// returns the cleaned text of the first .vtt produced. Every failure here is
// soft.
func (s *Service) fetchSubtitles(ctx context.Context, url string, cookies *CookieMaterial) subtitleStep {
	id := uuid.New().String()
	defer s.removeOutputs(id)

	inv := Invocation{
		URL:            url,
		SkipDownload:   true,
		WriteSubs:      true,
		WriteAutoSubs:  true,
		SubLangs:       SubtitleLangs,
		OutputTemplate: filepath.Join(s.tempDir, id+".%(ext)s"),
	}
	cookies.apply(&inv)

	var runErr error
	if out, err := s.runner.Run(ctx, inv); err != nil {
		runErr = classifyToolFailure(out, err)
	}

	path, err := s.findSubtitleFile(id)
	if err != nil {
		return subtitleStep{outcome: stepSoftFail, err: err}
	}
	if path == "" {
		if runErr != nil {
			return subtitleStep{outcome: stepSoftFail, err: runErr}
		}
		return subtitleStep{outcome: stepOK}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return subtitleStep{outcome: stepSoftFail, err: fmt.Errorf("read subtitle file: %w", err)}
	}
	return subtitleStep{outcome: stepOK, text: CleanVTT(string(data))}
}

// findSubtitleFile returns the first <id>*.vtt in the temp dir, or "".
func (s *Service) findSubtitleFile(id string) (string, error) {
	entries, err := os.ReadDir(s.tempDir)
	if err != nil {
		return "", fmt.Errorf("list temp dir: %w", err)
	}
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && strings.HasPrefix(name, id) && strings.HasSuffix(name, ".vtt") {
			return filepath.Join(s.tempDir, name), nil
		}
	}
	return "", nil
}

// removeOutputs deletes every file the subtitle run wrote under id.
func (s *Service) removeOutputs(id string) {
	entries, err := os.ReadDir(s.tempDir)
	if err != nil {
		slog.Warn("failed to list subtitle outputs", "dir", s.tempDir, "err", err)
		return
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), id) {
			continue
		}
		path := filepath.Join(s.tempDir, e.Name())
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			slog.Warn("failed to remove subtitle output", "path", path, "err", err)
		}
	}
}
