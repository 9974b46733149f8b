package assets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MrEthical07/learnhub"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

var ErrUpload = errors.New("asset upload failed")

// CloudinaryConfig holds account credentials.
type CloudinaryConfig struct {
	CloudName string `yaml:"cloud_name" env:"CLOUD_NAME"`
	APIKey    string `yaml:"api_key" env:"CLOUD_API_KEY"`
	APISecret string `yaml:"api_secret" env:"CLOUD_SECRET_KEY"`
	// BaseURL overrides the API root, mainly for tests.
	BaseURL string `yaml:"base_url" env:"CLOUD_BASE_URL"`
}

// Cloudinary is the AssetHost backed by the Cloudinary upload API.
type Cloudinary struct {
	cld *cloudinary.Cloudinary
}

var _ learnhub.AssetHost = (*Cloudinary)(nil)

func NewCloudinary(cfg CloudinaryConfig, client *http.Client) (*Cloudinary, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, errors.New("cloudinary: cloud name, api key and secret are required")
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	if cfg.BaseURL != "" {
		cld.Upload.Config.API.UploadPrefix = strings.TrimRight(cfg.BaseURL, "/")
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	cld.Upload.Client = *client
	return &Cloudinary{cld: cld}, nil
}

// remotePayload reports whether payload is something the API fetches
// itself. Anything else would be read from local disk by the SDK.
func remotePayload(payload string) bool {
	return strings.HasPrefix(payload, "data:") ||
		strings.HasPrefix(payload, "https://") ||
		strings.HasPrefix(payload, "http://")
}

// Upload sends payload (a data URI or remote URL) into folder.
func (c *Cloudinary) Upload(ctx context.Context, payload, folder string) (learnhub.AssetRef, error) {
	if payload == "" {
		return learnhub.AssetRef{}, fmt.Errorf("%w: empty payload", ErrUpload)
	}
	if !remotePayload(payload) {
		return learnhub.AssetRef{}, fmt.Errorf("%w: payload must be a data URI or URL", ErrUpload)
	}

	res, err := c.cld.Upload.Upload(ctx, payload, uploader.UploadParams{Folder: folder})
	if err != nil {
		return learnhub.AssetRef{}, fmt.Errorf("%w: %v", ErrUpload, err)
	}
	if res.Error.Message != "" {
		return learnhub.AssetRef{}, fmt.Errorf("%w: %s", ErrUpload, res.Error.Message)
	}
	if res.PublicID == "" {
		return learnhub.AssetRef{}, fmt.Errorf("%w: response carries no public id", ErrUpload)
	}
	return learnhub.AssetRef{PublicID: res.PublicID, URL: res.SecureURL}, nil
}

// Destroy deletes publicID. A missing asset is not an error.
func (c *Cloudinary) Destroy(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	res, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("%w: destroy %s: %v", ErrUpload, publicID, err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("%w: destroy %s: %s", ErrUpload, publicID, res.Error.Message)
	}
	if res.Result != "ok" && res.Result != "not found" {
		return fmt.Errorf("%w: destroy %s: %s", ErrUpload, publicID, res.Result)
	}
	return nil
}
