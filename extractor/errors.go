package extractor

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingURL is returned before any tool invocation when no URL is given.
	ErrMissingURL = errors.New("URL is required")

	// ErrVerificationRequired means the video host challenged the request.
	// Only fresh session cookies from the end user can get past it.
	ErrVerificationRequired = errors.New("HUMAN_VERIFICATION_REQUIRED")

	// ErrServerConfiguration means the deployment is missing a runtime
	// dependency of yt-dlp. Operators fix it, users cannot.
	ErrServerConfiguration = errors.New("SERVER_CONFIGURATION_ERROR")
)

const genericExitHint = "Failed to extract video info. This might be due to YouTube's restrictions on data center IPs."

var verificationMarkers = []string{
	"Sign in to confirm",
	"bot",
	"429",
	"403",
	"Requested format is not available",
}

var missingRuntimeMarkers = []string{
	"env: 'python3': No such file",
	"python3: not found",
}

// ToolError is a yt-dlp run that exited unsuccessfully and matched no more
// specific category.
type ToolError struct {
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ToolError) Error() string {
	if msg := strings.TrimSpace(e.Stderr); msg != "" {
		return msg
	}
	if e.Err != nil {
		if msg := strings.TrimSpace(e.Err.Error()); msg != "" {
			return msg
		}
	}
	if e.ExitCode == 1 {
		return genericExitHint
	}
	return fmt.Sprintf("yt-dlp exited with code %d", e.ExitCode)
}

func (e *ToolError) Unwrap() error { return e.Err }

// classifyToolFailure maps a failed run onto the error taxonomy by sniffing
// the tool's error text.
func classifyToolFailure(out RunOutput, err error) error {
	text := out.Stderr
	if text == "" && err != nil {
		text = err.Error()
	}

	for _, m := range verificationMarkers {
		if strings.Contains(text, m) {
			return ErrVerificationRequired
		}
	}
	for _, m := range missingRuntimeMarkers {
		if strings.Contains(text, m) {
			return fmt.Errorf("%w: yt-dlp binary is missing Python dependency or is not the standalone executable", ErrServerConfiguration)
		}
	}
	return &ToolError{ExitCode: out.ExitCode, Stderr: out.Stderr, Err: err}
}
