// Package media uploads user-submitted images to Cloudinary during multipart
// request handling and hands back the hosted URL stored on the entity.
package media

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// ErrUploadsDisabled is returned when no Cloudinary credentials were
// configured.  Handlers surface it as a 500 on upload-bearing requests.
var ErrUploadsDisabled = errors.New("media uploads are not configured")

const uploadFolder = "ibrand_uploads"

// Uploader stores one image and returns its public URL.  Implemented by
// CloudinaryUploader; mocked in handler tests.
type Uploader interface {
	Upload(ctx context.Context, fh *multipart.FileHeader) (string, error)
}

// CloudinaryUploader implements Uploader against the Cloudinary upload API.
type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryUploader parses a cloudinary:// credentials URL.  An empty URL
// yields a working value whose Upload always fails with ErrUploadsDisabled,
// so local setups without credentials still boot.
func NewCloudinaryUploader(credentialsURL string) (*CloudinaryUploader, error) {
	if credentialsURL == "" {
		return &CloudinaryUploader{}, nil
	}
	cld, err := cloudinary.NewFromURL(credentialsURL)
	if err != nil {
		return nil, err
	}
	return &CloudinaryUploader{cld: cld}, nil
}

// Upload streams the multipart file to Cloudinary and returns the secure URL.
// Large originals are capped to 1000x1000 by an incoming transformation, the
// same limit the platform has always applied.
func (u *CloudinaryUploader) Upload(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	if u.cld == nil {
		return "", ErrUploadsDisabled
	}
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	publicID := strings.TrimSuffix(fh.Filename, extension(fh.Filename)) + "-" + uuid.NewString()[:8]
	resp, err := u.cld.Upload.Upload(ctx, f, uploader.UploadParams{
		Folder:         uploadFolder,
		PublicID:       publicID,
		Transformation: "w_1000,h_1000,c_limit",
	})
	if err != nil {
		return "", err
	}
	if resp.Error.Message != "" {
		return "", errors.New(resp.Error.Message)
	}
	return resp.SecureURL, nil
}

func extension(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i:]
	}
	return ""
}
