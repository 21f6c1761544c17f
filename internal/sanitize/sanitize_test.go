package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	assert.Equal(t, "Hello world", Text("  <b>Hello</b>\n\n world <script>alert(1)</script>"))
	assert.Equal(t, "Tom & Jerry", Text("Tom &amp; Jerry"))
	assert.Equal(t, "", Text("   "))

	t.Run("EncodedMarkup", func(t *testing.T) {
		assert.Equal(t, "Patch", Text("&lt;script&gt;alert(1)&lt;/script&gt;Patch"))
		assert.Equal(t, "Banner", Text(`&lt;img src=x onerror="alert(1)"&gt;Banner`))
	})

	t.Run("SplitTags", func(t *testing.T) {
		out := Text("<<b>script>alert(1)<</b>/script>News")
		assert.NotContains(t, out, "<script")
		assert.NotContains(t, out, "<")
	})

	t.Run("KeepsComparisons", func(t *testing.T) {
		assert.Equal(t, "5 > 4", Text("5 &gt; 4"))
	})
}

func TestHTML(t *testing.T) {
	out := HTML(`<p onclick="x()">Hi <a href="https://example.com">link</a></p><script>alert(1)</script><iframe src="https://evil"></iframe>`)

	assert.Contains(t, out, "<p>Hi")
	assert.Contains(t, out, `rel="nofollow`)
	assert.NotContains(t, out, "onclick")
	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "<iframe")
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Genshin Impact 5.0 Patch Notes": "genshin-impact-5-0-patch-notes",
		"  Honkai: Star Rail!  ":         "honkai-star-rail",
		"Pokémon Masters EX":             "pokemon-masters-ex",
		"<b>Bold</b> title":              "bold-title",
		"!!!":                            "",
		"snake_case__title":              "snake-case-title",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slug(in), in)
	}
}

func TestIsSlug(t *testing.T) {
	assert.True(t, IsSlug("wuthering-waves"))
	assert.True(t, IsSlug("a1"))
	assert.False(t, IsSlug("Wuthering-Waves"))
	assert.False(t, IsSlug("double--dash"))
	assert.False(t, IsSlug("-leading"))
	assert.False(t, IsSlug(""))
}

func TestStrings(t *testing.T) {
	got := Strings([]string{" iOS ", "ios", "", "<i>PC</i>", "Android"})
	assert.Equal(t, []string{"iOS", "PC", "Android"}, got)
}
