package artwork

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const DefaultImagenModel = "imagen-4.0-generate-001"

// ImagenGenerator uses Google's Imagen models through the Gen AI SDK.
type ImagenGenerator struct {
	client *genai.Client
	model  string
}

// NewImagenGenerator creates a generator on an existing Gemini client.
func NewImagenGenerator(client *genai.Client, model string) *ImagenGenerator {
	if model == "" {
		model = DefaultImagenModel
	}
	return &ImagenGenerator{client: client, model: model}
}

func (g *ImagenGenerator) Generate(ctx context.Context, prompt string) (*Image, error) {
	resp, err := g.client.Models.GenerateImages(ctx, g.model, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		OutputMIMEType: "image/png",
		AspectRatio:    "1:1",
	})
	if err != nil {
		return nil, fmt.Errorf("imagen: %w", err)
	}
	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
		return nil, fmt.Errorf("imagen: no image returned")
	}

	img := resp.GeneratedImages[0].Image
	if len(img.ImageBytes) == 0 {
		if reason := resp.GeneratedImages[0].RAIFilteredReason; reason != "" {
			return nil, fmt.Errorf("imagen: filtered: %s", reason)
		}
		return nil, fmt.Errorf("imagen: empty image")
	}

	mime := img.MIMEType
	if mime == "" {
		mime = "image/png"
	}
	return &Image{Data: img.ImageBytes, MIMEType: mime}, nil
}
