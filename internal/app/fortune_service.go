package app

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"brainrot-quiz-service/internal/domain"
	"go.uber.org/zap"
)

const dayLayout = "2006-01-02"

// Rank tiers for fortune characters.
const (
	RankGoated = "GOATED"
	RankGreat  = "GREAT"
	RankGood   = "GOOD"
	RankMid    = "MID"
)

var characterWeights = map[string]int{
	"udin":     10,
	"mattia":   10,
	"marco":    8,
	"carlo":    8,
	"giovanni": 5,
}

var characterRanks = map[string]string{
	"tralalero":    RankGoated,
	"bombardiro":   RankGoated,
	"lirilì":       RankGoated,
	"tung":         RankGoated,
	"trippatroppa": RankGoated,

	"brr":          RankGreat,
	"bombombini":   RankGreat,
	"chimpanzini":  RankGreat,
	"ballerina":    RankGreat,
	"talpa":        RankGreat,
	"bombardiere":  RankGreat,
	"chef":         RankGreat,
	"blueberrinni": RankGreat,

	"vaca":         RankGood,
	"tripi":        RankGood,
	"boneca":       RankGood,
	"cappuccino":   RankGood,
	"frigo":        RankGood,
	"giraffa":      RankGood,
	"tata":         RankGood,
	"svinino":      RankGood,
	"troppatrippa": RankGood,
	"trulimero":    RankGood,
}

type fortuneType struct {
	name  string
	emoji string
}

var fortuneTypes = []fortuneType{
	{"luck", "✨"},
	{"love", "💕"},
	{"success", "🔥"},
	{"money", "💰"},
	{"health", "💪"},
}

var rankTemplates = map[string][]string{
	RankGoated: {
		"{name} is on your side today. Nothing can stop you. #GOAT",
		"Your {type} is maxed out, just like {name}. Go for the big win!",
		"{name} energy everywhere! Today might be the day to buy a lottery ticket.",
	},
	RankGreat: {
		"{name} sends a strong wave of {type} your way. Something special is coming.",
		"Like {name}, you can show off today. Do not be afraid to try.",
		"{name} lights up your {type}. Expect a great result.",
	},
	RankGood: {
		"{name} brings a little extra {type}. Enjoy the small wins.",
		"A fresh start with {name}. Today is better than usual.",
		"{name} shares some {type} with you. Have fun with today's challenges.",
	},
	RankMid: {
		"{name} feels a bit quiet today. An ordinary day for your {type}.",
		"Like {name}, you are doing fine. Keep expectations modest.",
		"{name} shrugs. Your {type} will be better tomorrow.",
	},
}

// RankOf returns the tier of a character id; unknown ids are MID.
func RankOf(characterID string) string {
	if r, ok := characterRanks[characterID]; ok {
		return r
	}
	return RankMid
}

// FortuneService draws the daily character fortune.
type FortuneService struct {
	catalog    CatalogRepository
	pulls      PullStore
	dailyPulls int
	now        func() time.Time
	log        *zap.Logger

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewFortuneService(catalog CatalogRepository, pulls PullStore, dailyPulls int, log *zap.Logger) *FortuneService {
	if dailyPulls <= 0 {
		dailyPulls = 3
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &FortuneService{
		catalog:    catalog,
		pulls:      pulls,
		dailyPulls: dailyPulls,
		now:        time.Now,
		log:        log,
		rnd:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Remaining reports how many pulls userID has left today.
func (s *FortuneService) Remaining(ctx context.Context, userID string) (int, error) {
	used, err := s.pulls.Pulls(ctx, userID, s.day())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, err)
	}
	return max(0, s.dailyPulls-used), nil
}

// Pull draws a fortune for userID, consuming one of today's pulls. When the counter store
// is unavailable the pull still goes through.
func (s *FortuneService) Pull(ctx context.Context, userID string) (domain.Fortune, error) {
	if strings.TrimSpace(userID) == "" {
		return domain.Fortune{}, domain.ErrInvalidName
	}
	characters, err := s.catalog.Characters(ctx)
	if err != nil {
		return domain.Fortune{}, err
	}
	pool := make([]domain.Character, 0, len(characters))
	for _, c := range characters {
		if c.Valid() {
			pool = append(pool, c)
		}
	}
	if len(pool) == 0 {
		return domain.Fortune{}, domain.ErrCharacterNotFound
	}

	remaining := s.dailyPulls - 1
	used, err := s.pulls.IncrementPulls(ctx, userID, s.day(), s.untilTomorrow())
	switch {
	case err != nil:
		s.log.Warn("fortune pull counter unavailable", zap.String("user", userID), zap.Error(err))
	case used > s.dailyPulls:
		return domain.Fortune{}, domain.ErrNoPullsLeft
	default:
		remaining = s.dailyPulls - used
	}

	s.mu.Lock()
	character := pickWeighted(s.rnd, pool)
	kind := fortuneTypes[s.rnd.Intn(len(fortuneTypes))]
	rank := RankOf(character.ID)
	templates := rankTemplates[rank]
	tmpl := templates[s.rnd.Intn(len(templates))]
	s.mu.Unlock()

	msg := strings.NewReplacer("{name}", character.Name, "{type}", kind.name).Replace(tmpl)
	return domain.Fortune{
		Character: character,
		Type:      kind.name,
		Emoji:     kind.emoji,
		Rank:      rank,
		Message:   msg,
		PulledAt:  s.now().UTC(),
		Remaining: remaining,
	}, nil
}

func (s *FortuneService) day() string {
	return s.now().UTC().Format(dayLayout)
}

func (s *FortuneService) untilTomorrow() time.Duration {
	now := s.now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
	return midnight.Sub(now)
}

// pickWeighted selects a character with probability proportional to its weight (default 1).
func pickWeighted(rnd *rand.Rand, pool []domain.Character) domain.Character {
	total := 0
	for _, c := range pool {
		total += weightOf(c.ID)
	}
	n := rnd.Intn(total)
	for _, c := range pool {
		n -= weightOf(c.ID)
		if n < 0 {
			return c
		}
	}
	return pool[0]
}

func weightOf(id string) int {
	if w, ok := characterWeights[id]; ok {
		return w
	}
	return 1
}
