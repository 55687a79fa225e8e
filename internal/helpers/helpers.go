package helpers

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// PostsFolder is the Cloudinary folder for community post images.
const PostsFolder = "community-posts"

// StringTrim trims whitespace and surrounding quotes, which show up when
// clients pass ids as JSON strings or templates.
func StringTrim(s string) string {
	s = strings.TrimSpace(s)
	return strings.Trim(s, "\"'")
}

// RemoveDuplicates keeps the first occurrence of every value, in order.
func RemoveDuplicates(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

var uriComponentFixups = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeURIComponent escapes s the way browsers do for a URL component:
// spaces become %20 and !'()* stay literal.
func EncodeURIComponent(s string) string {
	return uriComponentFixups.Replace(url.QueryEscape(s))
}

// UploadImages pushes each image (remote URL, data URI or local path) to
// Cloudinary and returns the secure URLs in input order.
func UploadImages(ctx context.Context, cld *cloudinary.Cloudinary, images []string, folder string) ([]string, error) {
	if cld == nil {
		return nil, fmt.Errorf("cloudinary client is not initialized")
	}
	var urls []string
	for i, src := range images {
		if strings.TrimSpace(src) == "" {
			continue
		}
		res, err := cld.Upload.Upload(ctx, src, uploader.UploadParams{
			Folder: folder,
			Tags:   []string{"localinsights"},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to upload image %d: %w", i, err)
		}
		if res.Error.Message != "" {
			return nil, fmt.Errorf("failed to upload image %d: %s", i, res.Error.Message)
		}
		urls = append(urls, res.SecureURL)
	}
	return urls, nil
}

// CloudinaryUploader uploads post images to one Cloudinary account.
type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryUploader(cld *cloudinary.Cloudinary) *CloudinaryUploader {
	return &CloudinaryUploader{cld: cld}
}

func (u *CloudinaryUploader) UploadImages(ctx context.Context, images []string, folder string) ([]string, error) {
	return UploadImages(ctx, u.cld, images, folder)
}
