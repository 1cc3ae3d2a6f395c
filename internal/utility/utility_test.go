package utility

import (
	"testing"

	"zeniverse_api/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello, World!":              "hello-world",
		"  Privacy   Policy  ":       "privacy-policy",
		"Zeniverse -- Ventures 2025": "zeniverse-ventures-2025",
		"Café Déjà":                  "caf-d-j",
		"!!!":                        "",
		"already-a-slug":             "already-a-slug",
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, Slugify(in))
		})
	}
}

func TestSlugCandidate(t *testing.T) {
	assert.Equal(t, "hello-world", SlugCandidate("hello-world", 0))
	assert.Equal(t, "hello-world-1", SlugCandidate("hello-world", 1))
	assert.Equal(t, "hello-world-12", SlugCandidate("hello-world", 12))
}

func TestRenderMarkdown(t *testing.T) {
	html, err := RenderMarkdown("# Title\n\nSome **bold** text with <script>x</script>")
	require.NoError(t, err)
	assert.Contains(t, html, `<h1 id="title">Title</h1>`)
	assert.Contains(t, html, "<strong>bold</strong>")
	assert.NotContains(t, html, "<script>")

	empty, err := RenderMarkdown("")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestParseObjectID(t *testing.T) {
	id := primitive.NewObjectID()

	got, err := ParseObjectID(id.Hex())
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ParseObjectID("not-an-id")
	assert.ErrorIs(t, err, common.ErrInvalidID)
}

func TestToMapHonoursOmitEmpty(t *testing.T) {
	title := "New title"
	patch := struct {
		Title       *string `bson:"title,omitempty"`
		Summary     *string `bson:"summary,omitempty"`
		IsPublished *bool   `bson:"isPublished,omitempty"`
	}{Title: &title, IsPublished: new(bool)}

	m, err := ToMap(patch)
	require.NoError(t, err)
	assert.Equal(t, "New title", m["title"])
	assert.Equal(t, false, m["isPublished"])
	assert.NotContains(t, m, "summary")
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.5 KB", FormatBytes(1536))
	assert.Equal(t, "10.0 MB", FormatBytes(10<<20))
}
