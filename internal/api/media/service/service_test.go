package mediasvc

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zeniverse_api/internal/common"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

type hostRecorder struct {
	paths  []string
	fields map[string]string
}

// formFields reads the scalar fields of a multipart or urlencoded body.
func formFields(t *testing.T, r *http.Request) map[string]string {
	t.Helper()
	fields := map[string]string{}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		require.NoError(t, r.ParseMultipartForm(4<<20))
		for k, v := range r.MultipartForm.Value {
			fields[k] = v[0]
		}
		return fields
	}
	require.NoError(t, r.ParseForm())
	for k, v := range r.PostForm {
		fields[k] = v[0]
	}
	return fields
}

func newHost(t *testing.T, handler func(w http.ResponseWriter, r *http.Request, rec *hostRecorder)) (*MediaService, *hostRecorder) {
	t.Helper()
	rec := &hostRecorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.paths = append(rec.paths, r.URL.Path)
		handler(w, r, rec)
	}))
	t.Cleanup(srv.Close)

	svc := NewMediaService(Config{
		BaseURL:    srv.URL + "/",
		CloudName:  "demo",
		APIKey:     "key",
		APISecret:  "shh",
		RootFolder: "zeniverse",
		MaxBytes:   1 << 20,
	})
	return svc, rec
}

func TestUploadSignsAndReportsDimensions(t *testing.T) {
	svc, rec := newHost(t, func(w http.ResponseWriter, r *http.Request, rec *hostRecorder) {
		rec.fields = formFields(t, r)
		f, _, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		_, _ = io.Copy(io.Discard, f)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"public_id":"zeniverse/ventures/logo","secure_url":"https://cdn.test/logo.png","format":"png"}`))
	})

	asset, err := svc.Upload(context.Background(), "../../logo.png", bytes.NewReader(pngBytes(t, 40, 20)), "Ventures/../Logos!")
	require.NoError(t, err)

	require.Len(t, rec.paths, 1)
	assert.True(t, strings.HasSuffix(rec.paths[0], "/demo/image/upload"), rec.paths[0])
	assert.Equal(t, "zeniverse/ventures/logos", rec.fields["folder"])
	assert.Equal(t, "key", rec.fields["api_key"])
	assert.NotEmpty(t, rec.fields["timestamp"])
	assert.NotEmpty(t, rec.fields["signature"])
	assert.NotContains(t, rec.fields, "api_secret")

	assert.Equal(t, "zeniverse/ventures/logo", asset.PublicID)
	assert.Equal(t, "https://cdn.test/logo.png", asset.URL)
	assert.Equal(t, ResourceImage, asset.ResourceType)
	assert.Equal(t, "image/png", asset.MimeType)
	assert.Equal(t, 40, asset.Width)
	assert.Equal(t, 20, asset.Height)
}

func TestUploadRejectsBeforeCallingHost(t *testing.T) {
	svc, rec := newHost(t, func(w http.ResponseWriter, r *http.Request, rec *hostRecorder) {
		t.Error("host must not be called")
	})
	ctx := context.Background()

	_, err := svc.Upload(ctx, "a.txt", strings.NewReader("plain text is not media"), "")
	assert.ErrorIs(t, err, common.ErrFileType)

	_, err = svc.Upload(ctx, "big.png", bytes.NewReader(make([]byte, (1<<20)+1)), "")
	assert.ErrorIs(t, err, common.ErrFileTooLarge)

	_, err = svc.Upload(ctx, "empty.png", bytes.NewReader(nil), "")
	assert.ErrorIs(t, err, common.ErrRequiredField)

	// a PNG signature followed by garbage sniffs as png but does not decode
	broken := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)
	_, err = svc.Upload(ctx, "broken.png", bytes.NewReader(broken), "")
	assert.ErrorIs(t, err, common.ErrInvalidFormat)

	assert.Empty(t, rec.paths)
}

func TestUploadSurfacesHostErrors(t *testing.T) {
	svc, _ := newHost(t, func(w http.ResponseWriter, r *http.Request, rec *hostRecorder) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid Signature"}}`))
	})

	_, err := svc.Upload(context.Background(), "a.png", bytes.NewReader(pngBytes(t, 2, 2)), "")
	require.ErrorIs(t, err, common.ErrUpstream)
	assert.Equal(t, http.StatusBadGateway, common.StatusOf(err))

	var e *common.Error
	require.ErrorAs(t, err, &e)
	assert.Contains(t, e.Details, "Invalid Signature")
}

func TestDelete(t *testing.T) {
	results := map[string]string{"gone": "ok", "missing": "not found"}
	svc, rec := newHost(t, func(w http.ResponseWriter, r *http.Request, rec *hostRecorder) {
		rec.fields = formFields(t, r)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":"` + results[rec.fields["public_id"]] + `"}`))
	})
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, "gone", ""))
	assert.True(t, strings.HasSuffix(rec.paths[0], "/demo/image/destroy"), rec.paths[0])
	assert.Equal(t, "gone", rec.fields["public_id"])
	assert.NotEmpty(t, rec.fields["signature"])

	assert.ErrorIs(t, svc.Delete(ctx, "missing", ResourceVideo), common.ErrNotFound)
	assert.True(t, strings.HasSuffix(rec.paths[1], "/demo/video/destroy"), rec.paths[1])
}

func TestUnconfigured(t *testing.T) {
	svc := NewMediaService(Config{})
	assert.False(t, svc.Configured())
	assert.EqualValues(t, 10<<20, svc.MaxBytes())

	_, err := svc.Upload(context.Background(), "a.png", strings.NewReader("x"), "")
	assert.ErrorIs(t, err, common.ErrUpstream)
	assert.ErrorIs(t, svc.Delete(context.Background(), "a", ""), common.ErrUpstream)
}

func TestFolder(t *testing.T) {
	svc := NewMediaService(Config{RootFolder: "/site/"})
	assert.Equal(t, "site", svc.Folder(""))
	assert.Equal(t, "site/news/2026", svc.Folder("News/2026"))
	assert.Equal(t, "site/a-b", svc.Folder("../a b/.."))
}
