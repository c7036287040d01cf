package audio

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"brainrot-quiz-service/internal/domain"
)

var tralalero = domain.Character{ID: "tralalero", Name: "Tralalero Tralala"}

func TestNormalizeName(t *testing.T) {
	cases := map[string]string{
		"Tralalero Tralala":           "tralalero_tralala",
		"Tracotocutulo Lirilì Larilà": "tracotocutulo_lirilì_larilà",
		"  Pot hotspot!! ":            "pot_hotspot",
	}
	for in, want := range cases {
		if got := NormalizeName(in); got != want {
			t.Fatalf("NormalizeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResolverPrefersFirstSource(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "tralalero_tralala.mp3"), []byte("normalized"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	r := NewResolver(nil, NewExactFileSource(dir), NewNormalizedFileSource(dir))
	clip, err := r.Resolve(context.Background(), tralalero)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if string(clip.Data) != "normalized" || clip.Source != "file-normalized" {
		t.Fatalf("expected normalized file, got %q from %s", clip.Data, clip.Source)
	}

	if err := os.WriteFile(filepath.Join(dir, "Tralalero Tralala.mp3"), []byte("exact"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	clip, err = r.Resolve(context.Background(), tralalero)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if string(clip.Data) != "exact" || clip.Source != "file" {
		t.Fatalf("expected exact file, got %q from %s", clip.Data, clip.Source)
	}
}

func TestResolverAllSourcesFail(t *testing.T) {
	r := NewResolver(nil, NewExactFileSource(t.TempDir()), NewNormalizedFileSource(""))
	_, err := r.Resolve(context.Background(), tralalero)
	if !errors.Is(err, domain.ErrAudioUnavailable) {
		t.Fatalf("expected ErrAudioUnavailable, got %v", err)
	}
}

func TestElevenLabsRetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/voice-1" || r.Header.Get("xi-api-key") != "key" {
			t.Errorf("unexpected request %s key=%q", r.URL.Path, r.Header.Get("xi-api-key"))
		}
		var body synthesisRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Text != "Tralalero Tralala" || body.ModelID != "model-1" {
			t.Errorf("unexpected body %+v err=%v", body, err)
		}
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("mp3"))
	}))
	defer srv.Close()

	src, err := NewElevenLabs("key", WithBaseURL(srv.URL), WithVoice("voice-1"), WithModel("model-1"), WithRetries(2, time.Millisecond))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	clip, err := NewResolver(nil, src).Resolve(context.Background(), tralalero)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if string(clip.Data) != "mp3" || clip.Source != "elevenlabs" || calls.Load() != 3 {
		t.Fatalf("unexpected clip %q from %s after %d calls", clip.Data, clip.Source, calls.Load())
	}
}

func TestElevenLabsGivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	src, _ := NewElevenLabs("key", WithBaseURL(srv.URL), WithRetries(2, time.Millisecond))
	_, err := NewResolver(nil, src).Resolve(context.Background(), tralalero)
	if !errors.Is(err, domain.ErrAudioUnavailable) {
		t.Fatalf("expected ErrAudioUnavailable, got %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestNewElevenLabsRequiresKey(t *testing.T) {
	if _, err := NewElevenLabs(""); err == nil {
		t.Fatalf("expected error for empty api key")
	}
}

func TestSpokenText(t *testing.T) {
	if got := SpokenText(domain.Character{ID: "kaktus", Name: "Kaktus"}); got != "Kaktus Tus Tus Kutus Kutus" {
		t.Fatalf("unexpected spoken text %q", got)
	}
	if got := SpokenText(domain.Character{ID: "x", Name: "Plain Name"}); got != "Plain Name" {
		t.Fatalf("expected display name fallback, got %q", got)
	}
}
