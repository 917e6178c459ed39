package extractor

import (
	"context"

	"github.com/lrstanley/go-ytdlp"
)

// Invocation describes one yt-dlp run. Only the flags this service needs are
// modelled.
type Invocation struct {
	URL string

	DumpJSON     bool
	SkipDownload bool
	ForceIPv4    bool

	CookieFile string
	// Header is a single "Field:Value" pair. go-ytdlp keeps only the last
	// --add-headers value, so only one extra header is supported.
	Header string

	WriteSubs      bool
	WriteAutoSubs  bool
	SubLangs       string
	OutputTemplate string
}

// RunOutput is what a finished yt-dlp process left behind.
type RunOutput struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner executes yt-dlp. Implementations return a non-nil error for any
// unsuccessful run and fill RunOutput as far as they can.
type Runner interface {
	Run(ctx context.Context, inv Invocation) (RunOutput, error)
}

// YtDlpRunner runs the real yt-dlp binary through go-ytdlp.
type YtDlpRunner struct {
	Executable string
}

func NewYtDlpRunner(executable string) *YtDlpRunner {
	return &YtDlpRunner{Executable: executable}
}

func (r *YtDlpRunner) Run(ctx context.Context, inv Invocation) (RunOutput, error) {
	dl := r.command(inv)

	res, err := dl.Run(ctx, inv.URL)
	var out RunOutput
	if res != nil {
		out = RunOutput{ExitCode: res.ExitCode, Stdout: res.Stdout, Stderr: res.Stderr}
	}
	return out, err
}

func (r *YtDlpRunner) command(inv Invocation) *ytdlp.Command {
	dl := ytdlp.New().NoWarnings()
	if r.Executable != "" {
		dl = dl.SetExecutable(r.Executable)
	}

	if inv.DumpJSON {
		dl = dl.DumpJSON()
	}
	if inv.SkipDownload {
		dl = dl.SkipDownload()
	}
	if inv.ForceIPv4 {
		dl = dl.ForceIPv4()
	}
	if inv.CookieFile != "" {
		dl = dl.Cookies(inv.CookieFile)
	}
	if inv.Header != "" {
		dl = dl.AddHeaders(inv.Header)
	}
	if inv.WriteSubs {
		dl = dl.WriteSubs()
	}
	if inv.WriteAutoSubs {
		dl = dl.WriteAutoSubs()
	}
	if inv.SubLangs != "" {
		dl = dl.SubLangs(inv.SubLangs)
	}
	if inv.OutputTemplate != "" {
		dl = dl.Output(inv.OutputTemplate)
	}
	return dl
}
