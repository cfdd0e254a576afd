package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanURL(t *testing.T) {
	page := NewPage("https://www.example.com/videos/clip-123", "")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "json escaped slashes",
			in:   `https:\/\/cdn.example.com\/clip-720p.mp4`,
			want: "https://cdn.example.com/clip-720p.mp4",
		},
		{
			name: "stray backslashes",
			in:   `https://cdn.example.com/clip\_720p.mp4`,
			want: "https://cdn.example.com/clip_720p.mp4",
		},
		{
			name: "protocol relative",
			in:   "//cdn.example.com/clip.mp4",
			want: "https://cdn.example.com/clip.mp4",
		},
		{
			name: "absolute passthrough",
			in:   "http://cdn.example.com/clip.mp4",
			want: "http://cdn.example.com/clip.mp4",
		},
		{
			name: "page relative",
			in:   "/media/clip.mp4",
			want: "https://www.example.com/media/clip.mp4",
		},
		{
			name: "whitespace only",
			in:   "   ",
			want: "",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, page.CleanURL(tt.in))
		})
	}
}

func TestCleanURLFixedPoint(t *testing.T) {
	page := NewPage("https://www.example.com/videos/clip-123", "")

	inputs := []string{
		`https:\/\/cdn.example.com\/clip.mp4`,
		"//cdn.example.com/clip.mp4",
		"/media/clip.mp4",
		"https://cdn.example.com/clip.mp4?token=a%2Fb",
	}
	for _, in := range inputs {
		once := page.CleanURL(in)
		assert.Equal(t, once, page.CleanURL(once), "input %q", in)
	}
}

func TestPageDocumentParsedOnce(t *testing.T) {
	page := NewPage("https://www.example.com/v/1", `<html><body><p>hi</p></body></html>`)

	first, err := page.Document()
	assert.NoError(t, err)
	second, err := page.Document()
	assert.NoError(t, err)
	assert.Same(t, first, second)
}
