package render

import (
	"regexp"
)

// Recognized YouTube URL shapes. Anything else yields no thumbnail; the email
// then shows the title and link without an image.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com|youtube-nocookie\.com)/watch\?(?:.*&)?v=([A-Za-z0-9_-]{6,})`),
	regexp.MustCompile(`youtu\.be/([A-Za-z0-9_-]{6,})`),
	regexp.MustCompile(`(?:youtube\.com|youtube-nocookie\.com)/shorts/([A-Za-z0-9_-]{6,})`),
	regexp.MustCompile(`(?:youtube\.com|youtube-nocookie\.com)/embed/([A-Za-z0-9_-]{6,})`),
}

// VideoID extracts the YouTube video identifier from a URL, or "" when no
// known URL shape matches.
func VideoID(url string) string {
	for _, pattern := range videoIDPatterns {
		if m := pattern.FindStringSubmatch(url); m != nil {
			return m[1]
		}
	}
	return ""
}

// ThumbnailURL derives a thumbnail image URL for a YouTube video URL. The URL
// is constructed, never fetched or verified. Returns "" when the video ID
// cannot be derived.
func ThumbnailURL(url string) string {
	id := VideoID(url)
	if id == "" {
		return ""
	}
	return "https://img.youtube.com/vi/" + id + "/hqdefault.jpg"
}
