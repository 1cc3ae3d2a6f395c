// Package mediasvc proxies uploads and deletions to the media host
// (Cloudinary upload API). Files are sniffed and size checked before they
// leave the server.
package mediasvc

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path"
	"regexp"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp"

	"zeniverse_api/config"
	"zeniverse_api/internal/common"
	"zeniverse_api/internal/logger"
	"zeniverse_api/internal/utility"
)

// Resource types understood by the media host.
const (
	ResourceImage = "image"
	ResourceVideo = "video"
)

var allowedTypes = map[string]string{
	"image/jpeg":      ResourceImage,
	"image/png":       ResourceImage,
	"image/gif":       ResourceImage,
	"image/webp":      ResourceImage,
	"video/mp4":       ResourceVideo,
	"video/webm":      ResourceVideo,
	"video/quicktime": ResourceVideo,
}

var folderPart = regexp.MustCompile(`[^a-z0-9_-]+`)

// Config holds the media host credentials.
type Config struct {
	BaseURL    string
	CloudName  string
	APIKey     string
	APISecret  string
	RootFolder string
	MaxBytes   int64
}

// ConfigFrom reads the MEDIA_* settings.
func ConfigFrom(c *config.Configuration) Config {
	return Config{
		BaseURL:    c.MediaBaseURL,
		CloudName:  c.MediaCloudName,
		APIKey:     c.MediaAPIKey,
		APISecret:  c.MediaAPISecret,
		RootFolder: c.MediaRootFolder,
		MaxBytes:   int64(c.MediaMaxUploadMB) << 20,
	}
}

// Asset is the stored file as reported back to the client.
type Asset struct {
	PublicID     string `json:"publicId"`
	URL          string `json:"url"`
	ResourceType string `json:"resourceType"`
	Format       string `json:"format"`
	MimeType     string `json:"mimeType"`
	Bytes        int64  `json:"bytes"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
	Folder       string `json:"folder"`
}

// MediaService talks to the media host.
type MediaService struct {
	cfg Config
	cld *cloudinary.Cloudinary
}

// NewMediaService returns the service. Without credentials every call
// fails with common.ErrUpstream.
func NewMediaService(cfg Config) *MediaService {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 10 << 20
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	s := &MediaService{cfg: cfg}
	if !s.Configured() {
		return s
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		logger.WithModule("media").WithError(err).Error("Media host config rejected")
		return s
	}
	if cfg.BaseURL != "" {
		cld.Config.API.UploadPrefix = cfg.BaseURL
		cld.Upload.Config.API.UploadPrefix = cfg.BaseURL
	}
	s.cld = cld
	return s
}

// Configured reports whether credentials are present.
func (s *MediaService) Configured() bool {
	return s.cfg.CloudName != "" && s.cfg.APIKey != "" && s.cfg.APISecret != ""
}

func (s *MediaService) ready() error {
	if s.cld == nil {
		return common.WithDetails(common.ErrUpstream, "media host is not configured")
	}
	return nil
}

// MaxBytes is the upload size limit.
func (s *MediaService) MaxBytes() int64 {
	return s.cfg.MaxBytes
}

// Folder joins a client folder hint under the root folder. The hint is
// lowercased and reduced to [a-z0-9_-] segments.
func (s *MediaService) Folder(hint string) string {
	parts := []string{}
	if root := strings.Trim(s.cfg.RootFolder, "/"); root != "" {
		parts = append(parts, root)
	}
	for _, seg := range strings.Split(strings.ToLower(hint), "/") {
		seg = strings.Trim(folderPart.ReplaceAllString(seg, "-"), "-")
		if seg != "" {
			parts = append(parts, seg)
		}
	}
	return path.Join(parts...)
}

// Upload checks the file and sends it to the media host.
func (s *MediaService) Upload(ctx context.Context, filename string, r io.Reader, folderHint string) (*Asset, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(r, s.cfg.MaxBytes+1))
	if err != nil {
		return nil, common.WithDetails(common.ErrInvalidFormat, err.Error())
	}
	if int64(len(data)) > s.cfg.MaxBytes {
		return nil, common.WithDetails(common.ErrFileTooLarge, map[string]string{"maxSize": utility.FormatBytes(uint64(s.cfg.MaxBytes))})
	}
	if len(data) == 0 {
		return nil, common.WithDetails(common.ErrRequiredField, map[string]string{"file": "is empty"})
	}

	mtype := mimetype.Detect(data)
	resourceType, ok := allowedTypes[mtype.String()]
	if !ok {
		return nil, common.WithDetails(common.ErrFileType, map[string]string{"mimeType": mtype.String()})
	}

	var width, height int
	if resourceType == ResourceImage {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, common.WithDetails(common.ErrInvalidFormat, "image could not be decoded")
		}
		width, height = cfg.Width, cfg.Height
	}

	folder := s.Folder(folderHint)
	res, err := s.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:       folder,
		ResourceType: resourceType,
	})
	if err != nil {
		return nil, s.hostFailure("upload", err.Error())
	}
	if res.Error.Message != "" {
		return nil, s.hostFailure("upload", res.Error.Message)
	}

	if res.Width > 0 {
		width, height = res.Width, res.Height
	}
	logger.WithModule("media").WithFields(map[string]interface{}{
		"public_id": res.PublicID,
		"filename":  path.Base(filename),
		"bytes":     len(data),
		"mime":      mtype.String(),
	}).Info("Media uploaded")

	return &Asset{
		PublicID:     res.PublicID,
		URL:          res.SecureURL,
		ResourceType: resourceType,
		Format:       res.Format,
		MimeType:     mtype.String(),
		Bytes:        int64(len(data)),
		Width:        width,
		Height:       height,
		Folder:       folder,
	}, nil
}

// Delete removes an asset. A missing asset yields common.ErrNotFound.
func (s *MediaService) Delete(ctx context.Context, publicID, resourceType string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if resourceType == "" {
		resourceType = ResourceImage
	}

	res, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceType,
	})
	if err != nil {
		return s.hostFailure("destroy", err.Error())
	}
	if res.Error.Message != "" {
		return s.hostFailure("destroy", res.Error.Message)
	}
	switch res.Result {
	case "ok":
		logger.WithModule("media").WithField("public_id", publicID).Info("Media deleted")
		return nil
	case "not found":
		return common.ErrNotFound
	default:
		return common.WithDetails(common.ErrUpstream, res.Result)
	}
}

func (s *MediaService) hostFailure(action, msg string) error {
	logger.WithModule("media").WithField("action", action).Warn("Media host rejected request: " + msg)
	return common.WithDetails(common.ErrUpstream, msg)
}
