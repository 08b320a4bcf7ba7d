// Package media provides product image processing utilities
package media

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// thumbnailWidths are the catalog rendition sizes generated for every
// product image upload.
var thumbnailWidths = []int{1200, 600, 300}

// ImageProcessor handles product image uploads for the admin dashboard.
type ImageProcessor struct {
	basePath string // media directory root
}

// NewImageProcessor creates a new ImageProcessor instance
func NewImageProcessor(basePath string) *ImageProcessor {
	return &ImageProcessor{
		basePath: basePath,
	}
}

// ProcessProductImage decodes a base64 upload, stores the original under
// products/, and generates webp thumbnails under products/thumbs/.
// Returns the relative URL of the original plus the thumbnail URLs.
func (p *ImageProcessor) ProcessProductImage(data, productID string) (string, []string, error) {
	if data == "" {
		return "", nil, fmt.Errorf("empty base64 data")
	}

	ext := extractExtension(data)
	if ext == "" {
		return "", nil, fmt.Errorf("unsupported image format")
	}

	targetDir := filepath.Join(p.basePath, "products")
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return "", nil, fmt.Errorf("failed to create directory: %w", err)
	}

	filename := fmt.Sprintf("%s.%s", productID, ext)
	originalPath, err := writeBinaryImage(data, filename, targetDir)
	if err != nil {
		return "", nil, err
	}

	thumbs, err := p.generateThumbnails(originalPath, productID)
	if err != nil {
		return "", nil, err
	}

	return "/media/products/" + filename, thumbs, nil
}

// generateThumbnails resizes the stored original into webp renditions.
func (p *ImageProcessor) generateThumbnails(originalPath, productID string) ([]string, error) {
	originalFile, err := os.Open(originalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open original image: %w", err)
	}
	defer originalFile.Close()

	img, err := imaging.Decode(originalFile)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	thumbsDir := filepath.Join(p.basePath, "products", "thumbs")
	if err := os.MkdirAll(thumbsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create thumbs directory: %w", err)
	}

	urls := make([]string, 0, len(thumbnailWidths))
	for i, width := range thumbnailWidths {
		resized := imaging.Resize(img, width, 0, imaging.Lanczos)

		thumbFilename := fmt.Sprintf("%s_%dpx.webp", productID, width)
		thumbPath := filepath.Join(thumbsDir, thumbFilename)

		// webp.Save, not imaging.Save: imaging has no webp encoder.
		if err := webp.Save(thumbPath, resized, &webp.Options{Quality: 85}); err != nil {
			for j := 0; j < i; j++ {
				os.Remove(filepath.Join(thumbsDir, fmt.Sprintf("%s_%dpx.webp", productID, thumbnailWidths[j])))
			}
			return nil, fmt.Errorf("failed to save webp thumbnail %s: %w", thumbFilename, err)
		}

		urls = append(urls, "/media/products/thumbs/"+thumbFilename)
	}

	return urls, nil
}

// DeleteProductImage removes a product's original image and thumbnails.
func (p *ImageProcessor) DeleteProductImage(productID string) error {
	productsDir := filepath.Join(p.basePath, "products")

	for _, ext := range []string{"png", "jpg", "jpeg", "webp"} {
		path := filepath.Join(productsDir, fmt.Sprintf("%s.%s", productID, ext))
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove product image: %w", err)
		}
	}

	thumbsDir := filepath.Join(productsDir, "thumbs")
	for _, width := range thumbnailWidths {
		path := filepath.Join(thumbsDir, fmt.Sprintf("%s_%dpx.webp", productID, width))
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove thumbnail: %w", err)
		}
	}
	return nil
}

// writeBinaryImage decodes and stores a binary base64 image (PNG, JPG, WebP).
func writeBinaryImage(data, filename, targetDir string) (string, error) {
	binaryPattern := regexp.MustCompile(`^data:image/\w+;base64,`)
	if !binaryPattern.MatchString(data) {
		return "", fmt.Errorf("invalid image base64 format")
	}

	b64Data := binaryPattern.ReplaceAllString(data, "")
	decoded, err := base64.StdEncoding.DecodeString(b64Data)
	if err != nil {
		return "", fmt.Errorf("failed to decode base64: %w", err)
	}

	fullPath := filepath.Join(targetDir, filename)
	if err := os.WriteFile(fullPath, decoded, 0644); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}

	return fullPath, nil
}

// extractExtension auto-detects file extension from MIME type
func extractExtension(data string) string {
	switch {
	case strings.Contains(data, "data:image/png"):
		return "png"
	case strings.Contains(data, "data:image/jpeg"), strings.Contains(data, "data:image/jpg"):
		return "jpg"
	case strings.Contains(data, "data:image/webp"):
		return "webp"
	}
	return ""
}
