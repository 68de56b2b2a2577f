package services

import (
	"context"
	"io"
)

// UploadedImage describes a stored image
type UploadedImage struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// ImageUploader stores user-supplied images and returns where they are served
type ImageUploader interface {
	// SaveImage validates the file name, stores the content and returns its URL
	SaveImage(ctx context.Context, originalName string, content io.Reader) (*UploadedImage, error)
}
