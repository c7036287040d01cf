package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"brainrot-quiz-service/internal/domain"
	"brainrot-quiz-service/internal/observe"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	guestbookLimit    = 30
	maxGuestNameRunes = 30
	maxGuestbookRunes = 500
)

// SocialStores groups the counters and guestbook behind the gallery pages. Remote stores
// are optional; local ones act as the fallback cache.
type SocialStores struct {
	Likes          LikeStore
	LocalLikes     LikeStore
	Guestbook      GuestbookStore
	LocalGuestbook GuestbookStore
}

// SocialService serves the gallery likes and the guestbook.
type SocialService struct {
	catalog CatalogRepository
	stores  SocialStores
	now     func() time.Time
	metrics *observe.Metrics
	log     *zap.Logger
}

func NewSocialService(catalog CatalogRepository, stores SocialStores, log *zap.Logger, metrics *observe.Metrics) *SocialService {
	if log == nil {
		log = zap.NewNop()
	}
	if metrics == nil {
		metrics = observe.Nop()
	}
	return &SocialService{catalog: catalog, stores: stores, now: time.Now, metrics: metrics, log: log}
}

// Gallery lists every character with its like count, most liked first.
func (s *SocialService) Gallery(ctx context.Context) ([]domain.GalleryItem, error) {
	var (
		characters []domain.Character
		likes      map[string]int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		characters, err = s.catalog.Characters(gctx)
		return err
	})
	g.Go(func() error {
		likes = s.readLikes(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := make([]domain.GalleryItem, 0, len(characters))
	for _, c := range characters {
		items = append(items, domain.GalleryItem{Character: c, Likes: likes[c.ID]})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Likes > items[j].Likes
	})
	return items, nil
}

// Like increments characterID's counter and returns the new value.
func (s *SocialService) Like(ctx context.Context, characterID string) (int64, error) {
	if _, err := s.Character(ctx, characterID); err != nil {
		return 0, err
	}

	local, localErr := s.stores.LocalLikes.IncrementLike(ctx, characterID)
	if localErr != nil {
		s.log.Warn("local like write failed", zap.String("character", characterID), zap.Error(localErr))
	}
	if s.stores.Likes == nil {
		return local, localErr
	}

	remote, err := s.stores.Likes.IncrementLike(ctx, characterID)
	if err != nil {
		s.metrics.RecordPersistenceFailure(ctx, "like")
		s.log.Warn("remote like write failed", zap.String("character", characterID), zap.Error(err))
		if localErr != nil {
			return 0, fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, err)
		}
		return local, nil
	}
	return remote, nil
}

// Sign adds a guestbook entry.
func (s *SocialService) Sign(ctx context.Context, name, message string) (domain.GuestbookEntry, error) {
	name, message = strings.TrimSpace(name), strings.TrimSpace(message)
	if name == "" || utf8.RuneCountInString(name) > maxGuestNameRunes {
		return domain.GuestbookEntry{}, domain.ErrInvalidName
	}
	if message == "" || utf8.RuneCountInString(message) > maxGuestbookRunes {
		return domain.GuestbookEntry{}, domain.ErrInvalidMessage
	}

	entry := domain.GuestbookEntry{
		ID:        uuid.NewString(),
		Name:      name,
		Message:   message,
		Timestamp: s.now().UTC(),
	}
	localErr := s.stores.LocalGuestbook.AddEntry(ctx, entry)
	if localErr != nil {
		s.log.Warn("local guestbook write failed", zap.Error(localErr))
	}
	if s.stores.Guestbook == nil {
		return entry, localErr
	}
	if err := s.stores.Guestbook.AddEntry(ctx, entry); err != nil {
		s.metrics.RecordPersistenceFailure(ctx, "guestbook")
		s.log.Warn("remote guestbook write failed", zap.Error(err))
		if localErr != nil {
			return domain.GuestbookEntry{}, fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, err)
		}
	}
	return entry, nil
}

// Guestbook returns the latest entries, newest first.
func (s *SocialService) Guestbook(ctx context.Context) ([]domain.GuestbookEntry, error) {
	if s.stores.Guestbook != nil {
		entries, err := s.stores.Guestbook.LatestEntries(ctx, guestbookLimit)
		if err == nil {
			return entries, nil
		}
		s.log.Warn("remote guestbook unavailable, showing local entries", zap.Error(err))
	}
	return s.stores.LocalGuestbook.LatestEntries(ctx, guestbookLimit)
}

// LikeEntry increments a guestbook entry's counter.
func (s *SocialService) LikeEntry(ctx context.Context, entryID string) (int64, error) {
	if s.stores.Guestbook != nil {
		n, err := s.stores.Guestbook.LikeEntry(ctx, entryID)
		if err == nil {
			_, _ = s.stores.LocalGuestbook.LikeEntry(ctx, entryID)
			return n, nil
		}
		if errors.Is(err, domain.ErrEntryNotFound) {
			return 0, err
		}
		s.metrics.RecordPersistenceFailure(ctx, "guestbook_like")
		s.log.Warn("remote guestbook like failed", zap.String("entry", entryID), zap.Error(err))
	}
	return s.stores.LocalGuestbook.LikeEntry(ctx, entryID)
}

func (s *SocialService) readLikes(ctx context.Context) map[string]int64 {
	if s.stores.Likes != nil {
		likes, err := s.stores.Likes.Likes(ctx)
		if err == nil {
			return likes
		}
		s.log.Warn("remote likes unavailable, using local counters", zap.Error(err))
	}
	likes, err := s.stores.LocalLikes.Likes(ctx)
	if err != nil {
		s.log.Warn("local likes unavailable", zap.Error(err))
		return map[string]int64{}
	}
	return likes
}

// Character looks up a catalog entry by id.
func (s *SocialService) Character(ctx context.Context, id string) (domain.Character, error) {
	characters, err := s.catalog.Characters(ctx)
	if err != nil {
		return domain.Character{}, err
	}
	for _, c := range characters {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Character{}, domain.ErrCharacterNotFound
}
