// Package audio resolves the pronunciation clip of a character from an ordered list of
// sources. The first source that yields audio wins.
package audio

import (
	"context"
	"errors"
	"fmt"

	"brainrot-quiz-service/internal/domain"
	"go.uber.org/zap"
)

// ErrNotFound is returned by a Source that has no clip for a character.
var ErrNotFound = errors.New("audio not found")

// Clip is playable audio.
type Clip struct {
	Data        []byte
	ContentType string
	Source      string
}

// Source produces a clip for a character.
type Source interface {
	Name() string
	Fetch(ctx context.Context, c domain.Character) (Clip, error)
}

// Resolver tries its sources in order.
type Resolver struct {
	sources []Source
	log     *zap.Logger
}

func NewResolver(log *zap.Logger, sources ...Source) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{sources: sources, log: log}
}

// Resolve returns the first clip any source can produce. When every source fails the
// error wraps domain.ErrAudioUnavailable; a canceled ctx is returned as is.
func (r *Resolver) Resolve(ctx context.Context, c domain.Character) (Clip, error) {
	var errs []error
	for _, src := range r.sources {
		clip, err := src.Fetch(ctx, c)
		if err == nil {
			clip.Source = src.Name()
			return clip, nil
		}
		if ctx.Err() != nil {
			return Clip{}, ctx.Err()
		}
		if !errors.Is(err, ErrNotFound) {
			r.log.Debug("audio source failed",
				zap.String("source", src.Name()),
				zap.String("character", c.ID),
				zap.Error(err))
		}
		errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
	}
	return Clip{}, fmt.Errorf("%w: %s: %v", domain.ErrAudioUnavailable, c.ID, errors.Join(errs...))
}
