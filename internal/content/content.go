// Package content derives plain-text facts (reading time, excerpts, video ids)
// from stored content.
package content

import (
	"errors"
	"math"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// WordsPerMinute is the reading speed used by ReadingTime.
const WordsPerMinute = 200

var (
	ErrInvalidVideo = errors.New("not a YouTube video URL or id")

	videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
)

// PlainText returns the visible text of an HTML fragment with whitespace
// collapsed to single spaces.
func PlainText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	doc.Find("script, style").Remove()

	// Block elements must not glue adjacent words together.
	doc.Find("p, div, br, li, h1, h2, h3, h4, h5, h6, tr, td, th, blockquote").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml(" ")
	})

	return strings.Join(strings.Fields(doc.Text()), " ")
}

// ReadingTime estimates minutes needed to read html. It never returns less than one.
func ReadingTime(html string) int {
	words := len(strings.Fields(PlainText(html)))
	minutes := int(math.Ceil(float64(words) / WordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// Excerpt returns at most n runes of the text of html, cut on a word boundary
// and suffixed with an ellipsis when truncated.
func Excerpt(html string, n int) string {
	text := PlainText(html)
	if n <= 0 || utf8.RuneCountInString(text) <= n {
		return text
	}

	runes := []rune(text)
	cut := string(runes[:n])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}

// YouTubeID extracts the 11 character video id from a watch, short, embed or
// youtu.be URL, or accepts a bare id.
func YouTubeID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if videoIDPattern.MatchString(raw) {
		return raw, nil
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", ErrInvalidVideo
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")

	var id string
	switch host {
	case "youtu.be":
		id = strings.Trim(u.Path, "/")
	case "youtube.com", "youtube-nocookie.com", "music.youtube.com":
		switch {
		case u.Path == "/watch":
			id = u.Query().Get("v")
		case strings.HasPrefix(u.Path, "/embed/"):
			id = strings.TrimPrefix(u.Path, "/embed/")
		case strings.HasPrefix(u.Path, "/shorts/"):
			id = strings.TrimPrefix(u.Path, "/shorts/")
		case strings.HasPrefix(u.Path, "/live/"):
			id = strings.TrimPrefix(u.Path, "/live/")
		}
	}

	id = strings.Trim(id, "/")
	if !videoIDPattern.MatchString(id) {
		return "", ErrInvalidVideo
	}
	return id, nil
}
