package artwork

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	openai "github.com/sashabaranov/go-openai"
)

const DefaultOpenAIImageModel = openai.CreateImageModelDallE3

// OpenAIConfig configures the OpenAI image backend.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // Optional. Override for compatible APIs.
}

// OpenAIGenerator creates images with the OpenAI Images API and downloads
// the returned URL.
type OpenAIGenerator struct {
	client *openai.Client
	http   *resty.Client
	model  string
}

// NewOpenAIGenerator creates an OpenAI image generator.
func NewOpenAIGenerator(cfg OpenAIConfig) (*OpenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIImageModel
	}
	return &OpenAIGenerator{
		client: openai.NewClientWithConfig(config),
		http:   resty.New().SetTimeout(60 * time.Second).SetRetryCount(2),
		model:  model,
	}, nil
}

func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (*Image, error) {
	resp, err := g.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          g.model,
		N:              1,
		Size:           openai.CreateImageSize1024x1024,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	if err != nil {
		return nil, fmt.Errorf("openai image: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai image: no image returned")
	}

	item := resp.Data[0]
	if item.B64JSON != "" {
		data, err := base64.StdEncoding.DecodeString(item.B64JSON)
		if err != nil {
			return nil, fmt.Errorf("openai image: decode: %w", err)
		}
		return &Image{Data: data, MIMEType: "image/png"}, nil
	}
	if item.URL == "" {
		return nil, fmt.Errorf("openai image: empty result")
	}
	return g.download(ctx, item.URL)
}

func (g *OpenAIGenerator) download(ctx context.Context, url string) (*Image, error) {
	resp, err := g.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("download image: status %d", resp.StatusCode())
	}
	if len(resp.Body()) == 0 {
		return nil, fmt.Errorf("download image: empty body")
	}

	mime := resp.Header().Get("Content-Type")
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = mime[:i]
	}
	if !strings.HasPrefix(mime, "image/") {
		mime = http.DetectContentType(resp.Body())
	}
	return &Image{Data: resp.Body(), MIMEType: mime}, nil
}
