// Package artwork generates and caches badge illustrations.
package artwork

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
)

// FailureMessage is shown when artwork could not be produced.
const FailureMessage = "Couldn't generate image."

// Image is a generated illustration. Data may be empty for images loaded
// from the cache; Path is set once the image is on disk.
type Image struct {
	Path     string
	MIMEType string
	Data     []byte
}

// DataURL returns the image as a data: URL, reading it from Path when Data
// is not loaded.
func (img *Image) DataURL() (string, error) {
	data := img.Data
	if len(data) == 0 {
		if img.Path == "" {
			return "", fmt.Errorf("image has no data")
		}
		b, err := os.ReadFile(img.Path)
		if err != nil {
			return "", fmt.Errorf("read image: %w", err)
		}
		data = b
	}
	mime := img.MIMEType
	if mime == "" {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// Generator produces an image for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (*Image, error)
}
