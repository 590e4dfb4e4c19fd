package images

import (
	"bytes"
	"fmt"
	"image"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

func AllowedExtension(filename string) bool {
	return allowedExt[strings.ToLower(filepath.Ext(filename))]
}

func contentTypeOf(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".webp" {
		return "image/webp"
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func decode(data []byte, filename string) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrUnsupportedImage)
	}
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	ct := http.DetectContentType(head)

	var (
		img image.Image
		err error
	)
	if strings.Contains(ct, "webp") || strings.EqualFold(filepath.Ext(filename), ".webp") {
		img, err = webp.Decode(bytes.NewReader(data))
	} else {
		img, err = imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s (%s): %v", ErrUnsupportedImage, filename, ct, err)
	}
	return img, nil
}

// encode writes img in the format implied by filename.
func encode(img image.Image, filename string, quality int) ([]byte, error) {
	buf := new(bytes.Buffer)
	if strings.EqualFold(filepath.Ext(filename), ".webp") {
		if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	format, err := imaging.FormatFromFilename(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	if err := imaging.Encode(buf, img, format, imaging.JPEGQuality(quality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
