package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainText(t *testing.T) {
	html := `<h2>Banner</h2><p>Furina is <strong>back</strong>.</p><script>track()</script><ul><li>One</li><li>Two</li></ul>`
	assert.Equal(t, "Banner Furina is back. One Two", PlainText(html))
}

func TestReadingTime(t *testing.T) {
	assert.Equal(t, 1, ReadingTime(""))
	assert.Equal(t, 1, ReadingTime("<p>short</p>"))

	long := "<p>" + strings.Repeat("word ", 401) + "</p>"
	assert.Equal(t, 3, ReadingTime(long))
}

func TestExcerpt(t *testing.T) {
	html := "<p>The new limited banner arrives next week with two featured units.</p>"

	assert.Equal(t, "The new limited banner…", Excerpt(html, 25))
	assert.Equal(t, PlainText(html), Excerpt(html, 500))
	assert.Equal(t, PlainText(html), Excerpt(html, 0))
}

func TestYouTubeID(t *testing.T) {
	valid := map[string]string{
		"dQw4w9WgXcQ":                                    "dQw4w9WgXcQ",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ":    "dQw4w9WgXcQ",
		"https://youtube.com/watch?v=dQw4w9WgXcQ&t=42s":  "dQw4w9WgXcQ",
		"https://m.youtube.com/watch?v=dQw4w9WgXcQ":      "dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ":                   "dQw4w9WgXcQ",
		"https://www.youtube.com/embed/dQw4w9WgXcQ":      "dQw4w9WgXcQ",
		"https://www.youtube.com/shorts/dQw4w9WgXcQ/":    "dQw4w9WgXcQ",
		"https://www.youtube-nocookie.com/embed/dQw4w9W": "",
	}
	for in, want := range valid {
		got, err := YouTubeID(in)
		if want == "" {
			assert.ErrorIs(t, err, ErrInvalidVideo, in)
			continue
		}
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "not a url", "https://vimeo.com/123456789", "https://youtube.com/watch?v=short"} {
		_, err := YouTubeID(in)
		assert.ErrorIs(t, err, ErrInvalidVideo, in)
	}
}
