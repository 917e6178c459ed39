package extractor

import "testing"

func isSet(b *bool) bool { return b != nil && *b }

func strValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func TestYtDlpRunnerMetadataFlags(t *testing.T) {
	runner := NewYtDlpRunner("/opt/yt-dlp")

	cfg := runner.command(Invocation{
		URL:          "https://youtu.be/abc",
		DumpJSON:     true,
		SkipDownload: true,
		ForceIPv4:    true,
		Header:       "Cookie:SID=1; HSID=2",
	}).GetFlagConfig()

	if !isSet(cfg.VerbositySimulation.DumpJSON) || !isSet(cfg.VerbositySimulation.SkipDownload) {
		t.Errorf("expected --dump-json and --skip-download")
	}
	if !isSet(cfg.VerbositySimulation.NoWarnings) {
		t.Errorf("expected --no-warnings")
	}
	if !isSet(cfg.Network.ForceIPv4) {
		t.Errorf("expected --force-ipv4")
	}
	if got := strValue(cfg.Workarounds.AddHeaders); got != "Cookie:SID=1; HSID=2" {
		t.Errorf("unexpected --add-headers %q", got)
	}
	if cfg.Filesystem.Cookies != nil {
		t.Errorf("header mode must not pass --cookies, got %q", *cfg.Filesystem.Cookies)
	}
	if cfg.Subtitle.WriteSubs != nil || cfg.Filesystem.Output != nil {
		t.Errorf("metadata run must not request subtitles or an output template")
	}
}

func TestYtDlpRunnerSubtitleFlags(t *testing.T) {
	runner := NewYtDlpRunner("")

	cfg := runner.command(Invocation{
		URL:            "https://youtu.be/abc",
		SkipDownload:   true,
		CookieFile:     "/tmp/cookies.txt",
		WriteSubs:      true,
		WriteAutoSubs:  true,
		SubLangs:       SubtitleLangs,
		OutputTemplate: "/tmp/id.%(ext)s",
	}).GetFlagConfig()

	if !isSet(cfg.Subtitle.WriteSubs) || !isSet(cfg.Subtitle.WriteAutoSubs) {
		t.Errorf("expected --write-subs and --write-auto-subs")
	}
	if got := strValue(cfg.Subtitle.SubLangs); got != "en,zh-Hans,zh-Hant" {
		t.Errorf("unexpected --sub-langs %q", got)
	}
	if got := strValue(cfg.Filesystem.Output); got != "/tmp/id.%(ext)s" {
		t.Errorf("unexpected --output %q", got)
	}
	if got := strValue(cfg.Filesystem.Cookies); got != "/tmp/cookies.txt" {
		t.Errorf("unexpected --cookies %q", got)
	}
	if cfg.Workarounds.AddHeaders != nil {
		t.Errorf("file mode must not add headers")
	}
	if cfg.VerbositySimulation.DumpJSON != nil || cfg.Network.ForceIPv4 != nil {
		t.Errorf("subtitle run must not dump json or force ipv4")
	}
}
