package speech

import (
	"context"
	"fmt"
	"strings"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
)

const (
	DefaultCloudLanguage = "en-US"
	DefaultCloudVoice    = "en-US-Neural2-F"
)

// CloudSynthesizer uses the Google Cloud Text-to-Speech API. Credentials
// come from GOOGLE_APPLICATION_CREDENTIALS.
type CloudSynthesizer struct {
	client   *texttospeech.Client
	language string
	voice    string
}

// NewCloudSynthesizer dials the Text-to-Speech API.
func NewCloudSynthesizer(ctx context.Context, voice string) (*CloudSynthesizer, error) {
	client, err := texttospeech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create text-to-speech client: %w", err)
	}
	if voice == "" {
		voice = DefaultCloudVoice
	}
	return &CloudSynthesizer{client: client, language: DefaultCloudLanguage, voice: voice}, nil
}

func (c *CloudSynthesizer) Synthesize(ctx context.Context, text string) (*Audio, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("nothing to say")
	}

	resp, err := c.client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: c.language,
			Name:         c.voice,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("cloud speech: %w", err)
	}
	if len(resp.GetAudioContent()) == 0 {
		return nil, fmt.Errorf("cloud speech: empty audio")
	}

	return &Audio{Data: resp.GetAudioContent(), MIMEType: "audio/mpeg", Ext: "mp3"}, nil
}

// Close releases the gRPC connection.
func (c *CloudSynthesizer) Close() error {
	return c.client.Close()
}
