// Package media resolves product image and placeholder URLs.
package media

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"parent-products/internal/catalog"
	"parent-products/internal/config"
)

var (
	ErrUnknownPreset = errors.New("unknown image preset")
	ErrNoImage       = errors.New("product has no image")
	ErrMissingFile   = errors.New("image file missing from media storage")
	ErrNoPlaceholder = errors.New("no placeholder configured")
)

// productMediaDir is where product images live, relative to the media root.
const productMediaDir = "catalog/product"

// attributeFallback lists the image attributes tried for each image type.
var attributeFallback = map[string][]string{
	catalog.AttrThumbnail:  {catalog.AttrThumbnail, catalog.AttrSmallImage, catalog.AttrImage},
	catalog.AttrSmallImage: {catalog.AttrSmallImage, catalog.AttrImage},
	catalog.AttrImage:      {catalog.AttrImage},
}

// FileChecker reports whether a media-relative file exists.
type FileChecker interface {
	Exists(rel string) bool
}

type Resolver struct {
	baseURL      string
	presets      map[string]config.ImagePreset
	placeholders map[string]string
	files        FileChecker
}

// NewResolver builds a Resolver. files may be nil to skip the existence check.
func NewResolver(cfg config.MediaConfig, files FileChecker) *Resolver {
	return &Resolver{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		presets:      lowerKeys(cfg.Presets),
		placeholders: lowerKeys(cfg.Placeholders),
		files:        files,
	}
}

// URL returns the resized image URL of product p for the named preset.
func (r *Resolver) URL(p *catalog.Product, preset string) (string, error) {
	ps, ok := r.presets[strings.ToLower(preset)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownPreset, preset)
	}
	if p == nil {
		return "", ErrNoImage
	}

	file := ""
	for _, attr := range attributeFallback[ps.Type] {
		if file = p.ImageFile(attr); file != "" {
			break
		}
	}
	if file == "" {
		return "", fmt.Errorf("%w: product %d, type %s", ErrNoImage, p.ID, ps.Type)
	}

	file = "/" + strings.TrimLeft(file, "/")
	if r.files != nil && !r.files.Exists(productMediaDir+file) {
		return "", fmt.Errorf("%w: %s", ErrMissingFile, file)
	}

	if ps.Width <= 0 || ps.Height <= 0 {
		return r.baseURL + "/" + productMediaDir + file, nil
	}
	return fmt.Sprintf("%s/%s/cache/%dx%d%s", r.baseURL, productMediaDir, ps.Width, ps.Height, file), nil
}

// PlaceholderURL returns the placeholder image URL for an image type.
func (r *Resolver) PlaceholderURL(imageType string) (string, error) {
	file := r.placeholders[strings.ToLower(imageType)]
	if file == "" {
		return "", fmt.Errorf("%w: %s", ErrNoPlaceholder, imageType)
	}
	return r.baseURL + "/" + path.Clean(strings.TrimLeft(file, "/")), nil
}

// viper lower-cases map keys, so lookups are case-insensitive.
func lowerKeys[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[strings.ToLower(k)] = v
	}
	return out
}
