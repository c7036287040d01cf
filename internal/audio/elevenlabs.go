package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"brainrot-quiz-service/internal/domain"
)

const (
	defaultElevenLabsURL   = "https://api.elevenlabs.io/v1/text-to-speech/"
	defaultElevenLabsVoice = "pNInz6obpgDQGcFmaJgB"
	defaultElevenLabsModel = "eleven_multilingual_v2"
	defaultRetries         = 2
	defaultBackoff         = time.Second
)

// spokenText overrides what is read aloud for characters whose display name does not
// pronounce well.
var spokenText = map[string]string{
	"tralalero":  "Tralalero Tralala",
	"bombombini": "Bombombini Gusini",
	"burbaloni":  "Burbaloni Luliloli",
	"kaktus":     "Kaktus Tus Tus Kutus Kutus",
	"bobrini":    "Bobrini Cocosini",
	"cappuccino": "Cappuccino Assassino",
	"giraffa":    "Giraffa Celeste",
	"ambatron":   "Ambatron",
	"glorbo":     "Glorbo Fruttodrillo",
	"frulli":     "Frulli Frulla",
}

// SpokenText returns the text synthesized for c.
func SpokenText(c domain.Character) string {
	if text, ok := spokenText[c.ID]; ok {
		return text
	}
	return c.Name
}

// ElevenLabsOption configures an ElevenLabs source.
type ElevenLabsOption func(*ElevenLabs)

// WithVoice sets the voice id.
func WithVoice(voice string) ElevenLabsOption {
	return func(e *ElevenLabs) {
		if voice != "" {
			e.voice = voice
		}
	}
}

// WithModel sets the synthesis model.
func WithModel(model string) ElevenLabsOption {
	return func(e *ElevenLabs) {
		if model != "" {
			e.model = model
		}
	}
}

// WithBaseURL points the source at another endpoint, for tests.
func WithBaseURL(url string) ElevenLabsOption {
	return func(e *ElevenLabs) {
		if url != "" {
			e.baseURL = strings.TrimSuffix(url, "/") + "/"
		}
	}
}

// WithRetries sets how many times a failed request is retried and the wait in between.
func WithRetries(retries int, backoff time.Duration) ElevenLabsOption {
	return func(e *ElevenLabs) {
		e.retries, e.backoff = retries, backoff
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) ElevenLabsOption {
	return func(e *ElevenLabs) { e.httpClient = c }
}

// ElevenLabs synthesizes clips through the ElevenLabs text-to-speech REST API.
type ElevenLabs struct {
	apiKey     string
	voice      string
	model      string
	baseURL    string
	retries    int
	backoff    time.Duration
	httpClient *http.Client
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type synthesisRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

// NewElevenLabs returns a source using apiKey.
func NewElevenLabs(apiKey string, opts ...ElevenLabsOption) (*ElevenLabs, error) {
	if apiKey == "" {
		return nil, errors.New("elevenlabs: api key must not be empty")
	}
	e := &ElevenLabs{
		apiKey:     apiKey,
		voice:      defaultElevenLabsVoice,
		model:      defaultElevenLabsModel,
		baseURL:    defaultElevenLabsURL,
		retries:    defaultRetries,
		backoff:    defaultBackoff,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, o := range opts {
		o(e)
	}
	return e, nil
}

func (e *ElevenLabs) Name() string { return "elevenlabs" }

func (e *ElevenLabs) Fetch(ctx context.Context, c domain.Character) (Clip, error) {
	text := SpokenText(c)
	if text == "" {
		return Clip{}, ErrNotFound
	}
	body, err := json.Marshal(synthesisRequest{
		Text:          text,
		ModelID:       e.model,
		VoiceSettings: voiceSettings{Stability: 0.5, SimilarityBoost: 0.75},
	})
	if err != nil {
		return Clip{}, err
	}

	var lastErr error
	for attempt := 0; attempt <= e.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return Clip{}, ctx.Err()
			case <-time.After(e.backoff):
			}
		}
		clip, err := e.synthesize(ctx, body)
		if err == nil {
			return clip, nil
		}
		if ctx.Err() != nil {
			return Clip{}, ctx.Err()
		}
		lastErr = err
	}
	return Clip{}, fmt.Errorf("elevenlabs: %d attempts: %w", e.retries+1, lastErr)
}

func (e *ElevenLabs) synthesize(ctx context.Context, body []byte) (Clip, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+e.voice, bytes.NewReader(body))
	if err != nil {
		return Clip{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", mpegType)
	req.Header.Set("xi-api-key", e.apiKey)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return Clip{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Clip{}, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Clip{}, err
	}
	if len(data) == 0 {
		return Clip{}, errors.New("empty audio response")
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = mpegType
	}
	return Clip{Data: data, ContentType: contentType}, nil
}
