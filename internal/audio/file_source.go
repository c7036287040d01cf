package audio

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"brainrot-quiz-service/internal/domain"
)

const mpegType = "audio/mpeg"

// FileSource reads pre-recorded clips from a directory. Naming maps a character to the
// file name to look for.
type FileSource struct {
	name   string
	dir    string
	naming func(domain.Character) string
}

// NewExactFileSource looks for "{Name}.mp3", the character name as displayed.
func NewExactFileSource(dir string) *FileSource {
	return &FileSource{name: "file", dir: dir, naming: func(c domain.Character) string {
		return c.Name + ".mp3"
	}}
}

// NewNormalizedFileSource looks for the lowercase, underscore separated form of the
// name, e.g. "tralalero_tralala.mp3".
func NewNormalizedFileSource(dir string) *FileSource {
	return &FileSource{name: "file-normalized", dir: dir, naming: func(c domain.Character) string {
		return NormalizeName(c.Name) + ".mp3"
	}}
}

func (s *FileSource) Name() string { return s.name }

func (s *FileSource) Fetch(ctx context.Context, c domain.Character) (Clip, error) {
	if err := ctx.Err(); err != nil {
		return Clip{}, err
	}
	if s.dir == "" {
		return Clip{}, ErrNotFound
	}
	file := s.naming(c)
	if file == "" || strings.ContainsAny(file, `/\`) {
		return Clip{}, ErrNotFound
	}
	data, err := os.ReadFile(filepath.Join(s.dir, file))
	if errors.Is(err, fs.ErrNotExist) {
		return Clip{}, ErrNotFound
	}
	if err != nil {
		return Clip{}, err
	}
	return Clip{Data: data, ContentType: mpegType}, nil
}

// NormalizeName lowercases name and joins its runs of letters and digits with underscores.
func NormalizeName(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		default:
			pendingSep = true
		}
	}
	return b.String()
}
