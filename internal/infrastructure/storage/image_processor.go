package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"path"
	"strings"

	"github.com/disintegration/imaging"
)

// ErrInvalidImage wraps every rejection of an uploaded photo
var ErrInvalidImage = errors.New("invalid image")

type ImageProcessor struct {
	MaxSize int64 // bytes
	Edge    int   // longest edge after resize, 0 keeps the original
}

func NewImageProcessor(maxSize int64, edge int) *ImageProcessor {
	if maxSize <= 0 {
		maxSize = 5 * 1024 * 1024
	}
	return &ImageProcessor{MaxSize: maxSize, Edge: edge}
}

// ValidateImage accepts JPEG/PNG below MaxSize
func (p *ImageProcessor) ValidateImage(data []byte) error {
	if int64(len(data)) > p.MaxSize {
		return fmt.Errorf("%w: exceeds %dMB", ErrInvalidImage, p.MaxSize/(1024*1024))
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: not an image", ErrInvalidImage)
	}
	switch format {
	case "jpeg", "png":
		return nil
	default:
		return fmt.Errorf("%w: format %s not allowed (only jpeg/png)", ErrInvalidImage, format)
	}
}

// Prepare validates the upload and shrinks it to fit Edge x Edge as JPEG quality 90.
// Images already small enough are stored untouched.
func (p *ImageProcessor) Prepare(file File) (File, error) {
	if err := p.ValidateImage(file.Data); err != nil {
		return File{}, err
	}
	if p.Edge <= 0 {
		return file, nil
	}

	img, _, err := image.Decode(bytes.NewReader(file.Data))
	if err != nil {
		return File{}, fmt.Errorf("%w: cannot decode", ErrInvalidImage)
	}
	bounds := img.Bounds()
	if bounds.Dx() <= p.Edge && bounds.Dy() <= p.Edge {
		return file, nil
	}

	resized := imaging.Fit(img, p.Edge, p.Edge, imaging.Lanczos)
	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, resized, &jpeg.Options{Quality: 90}); err != nil {
		return File{}, fmt.Errorf("cannot encode photo: %w", err)
	}

	return File{
		Name:        strings.TrimSuffix(file.Name, path.Ext(file.Name)) + ".jpg",
		ContentType: "image/jpeg",
		Data:        buf.Bytes(),
	}, nil
}
