package speech

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const (
	DefaultGeminiModel = "gemini-2.5-flash-preview-tts"
	DefaultGeminiVoice = "Kore"
)

// GeminiSynthesizer uses Gemini's native text-to-speech models.
type GeminiSynthesizer struct {
	client *genai.Client
	model  string
	voice  string
}

// NewGeminiSynthesizer creates a synthesizer on an existing Gemini client.
// Empty model or voice select the defaults.
func NewGeminiSynthesizer(client *genai.Client, model, voice string) *GeminiSynthesizer {
	if model == "" {
		model = DefaultGeminiModel
	}
	if voice == "" {
		voice = DefaultGeminiVoice
	}
	return &GeminiSynthesizer{client: client, model: model, voice: voice}
}

func (g *GeminiSynthesizer) Synthesize(ctx context.Context, text string) (*Audio, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("nothing to say")
	}

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: g.voice},
			},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(text), config)
	if err != nil {
		return nil, fmt.Errorf("gemini speech: %w", err)
	}

	pcm := inlineAudio(resp)
	if len(pcm) == 0 {
		return nil, fmt.Errorf("gemini speech: no audio in response")
	}

	return &Audio{
		Data:     pcmToWAV(pcm, pcmSampleRate, pcmChannels, pcmBits),
		MIMEType: "audio/wav",
		Ext:      "wav",
	}, nil
}

func inlineAudio(resp *genai.GenerateContentResponse) []byte {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part.InlineData.Data
		}
	}
	return nil
}
