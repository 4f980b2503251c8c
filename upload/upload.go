// Package upload relays admin image uploads to Cloudinary.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sync/errgroup"
)

const MaxFiles = 10

var (
	ErrNoFiles       = errors.New("no files uploaded")
	ErrTooManyFiles  = fmt.Errorf("at most %d files per upload", MaxFiles)
	ErrNotImage      = errors.New("file is not an image")
	ErrNotConfigured = errors.New("cloudinary is not configured")
)

type Uploader interface {
	// Upload stores one image and returns its public https URL.
	Upload(ctx context.Context, r io.Reader) (string, error)
}

type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinary accepts either a cloudinary:// URL or the three credentials.
func NewCloudinary(url, cloudName, apiKey, apiSecret, folder string) (*Cloudinary, error) {
	var (
		cld *cloudinary.Cloudinary
		err error
	)
	switch {
	case url != "":
		cld, err = cloudinary.NewFromURL(url)
	case cloudName != "" && apiKey != "" && apiSecret != "":
		cld, err = cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	default:
		return nil, ErrNotConfigured
	}
	if err != nil {
		return nil, fmt.Errorf("cloudinary config: %w", err)
	}
	return &Cloudinary{cld: cld, folder: folder}, nil
}

func (c *Cloudinary) Upload(ctx context.Context, r io.Reader) (string, error) {
	res, err := c.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:       c.folder,
		ResourceType: "image",
	})
	if err != nil {
		return "", err
	}
	if res.Error.Message != "" {
		return "", errors.New(res.Error.Message)
	}
	return res.SecureURL, nil
}

// Unconfigured fails every upload. It stands in when no credentials are set
// so the route still answers with a 500 instead of the server refusing to start.
type Unconfigured struct{}

func (Unconfigured) Upload(context.Context, io.Reader) (string, error) {
	return "", ErrNotConfigured
}

// Validate checks the batch size and sniffs every file, rejecting anything
// that is not an image.
func Validate(files []*multipart.FileHeader) error {
	if len(files) == 0 {
		return ErrNoFiles
	}
	if len(files) > MaxFiles {
		return ErrTooManyFiles
	}
	for _, fh := range files {
		if err := sniff(fh); err != nil {
			return err
		}
	}
	return nil
}

func sniff(fh *multipart.FileHeader) error {
	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	m, err := mimetype.DetectReader(f)
	if err != nil {
		return fmt.Errorf("read %s: %w", fh.Filename, err)
	}
	if !strings.HasPrefix(m.String(), "image/") {
		return fmt.Errorf("%s (%s): %w", fh.Filename, m.String(), ErrNotImage)
	}
	return nil
}

// All uploads the files concurrently. The first failure cancels the rest and
// fails the batch; on success the URLs are in input order.
func All(ctx context.Context, up Uploader, files []*multipart.FileHeader) ([]string, error) {
	urls := make([]string, len(files))
	g, ctx := errgroup.WithContext(ctx)
	for i, fh := range files {
		i, fh := i, fh
		g.Go(func() error {
			f, err := fh.Open()
			if err != nil {
				return fmt.Errorf("open %s: %w", fh.Filename, err)
			}
			defer f.Close()

			url, err := up.Upload(ctx, f)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}
