// shared/video.go
package shared

// ExtractRequest is the body of POST /api/video/extract.
type ExtractRequest struct {
	URL     string `json:"url" form:"url"`
	Cookies string `json:"cookies,omitempty" form:"cookies"`
}

// Resolution labels the normalizer keeps.
const (
	Resolution720p  = "720p"
	Resolution1080p = "1080p"
)

// FormatEntry is one downloadable video rendition, at most one per resolution.
type FormatEntry struct {
	Resolution string `json:"resolution"`
	URL        string `json:"url"` // ephemeral signed media URL
	Ext        string `json:"ext"`
	HasAudio   bool   `json:"hasAudio"`
}

// VideoInfo is the extraction result returned to API and page clients. It is
// built once per request and never stored.
type VideoInfo struct {
	Title        string        `json:"title"`
	Thumbnail    string        `json:"thumbnail"`
	Description  string        `json:"description"`
	UploadDate   string        `json:"upload_date"` // YYYYMMDD
	ViewCount    *int64        `json:"view_count"`
	LikeCount    *int64        `json:"like_count"`
	CommentCount *int64        `json:"comment_count"`
	Duration     int           `json:"duration"` // seconds
	Channel      string        `json:"channel"`
	Subtitles    string        `json:"subtitles"`
	AudioURL     string        `json:"audio_url,omitempty"`
	Formats      []FormatEntry `json:"formats"`
}
