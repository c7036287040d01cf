package domain

import "time"

// Character is a read-only catalog entry. ID and Name are required.
type Character struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ImageRef    string `json:"imageRef,omitempty"`
}

// Valid reports whether the required fields are set.
func (c Character) Valid() bool {
	return c.ID != "" && c.Name != ""
}

// Phase is the step of a play-through.
type Phase string

const (
	PhaseIntro         Phase = "intro"
	PhasePlaying       Phase = "playing"
	PhaseShowingResult Phase = "showingResult"
	PhaseFinished      Phase = "finished"
)

// TimeoutText is recorded as the submitted text when a question runs out of time.
const TimeoutText = "timeout"

// QuestionOutcome is recorded once per question and never mutated afterward.
type QuestionOutcome struct {
	CharacterID     string    `json:"characterId"`
	CharacterName   string    `json:"characterName"`
	SubmittedText   string    `json:"submittedText"`
	IsCorrect       bool      `json:"isCorrect"`
	ElapsedSeconds  int       `json:"elapsedSeconds"`
	AccuracyPercent int       `json:"accuracyPercent"`
	PointsAwarded   int       `json:"pointsAwarded"`
	TimeBonus       int       `json:"timeBonus"`
	AccuracyPoints  int       `json:"accuracyPoints"`
	StreakBonus     int       `json:"streakBonus"`
	AnsweredAt      time.Time `json:"answeredAt"`
}

// SessionState is a snapshot of a single play-through.
type SessionState struct {
	ID              string            `json:"id"`
	Phase           Phase             `json:"phase"`
	Questions       []Character       `json:"questions"`
	CurrentIndex    int               `json:"currentIndex"`
	LivesRemaining  int               `json:"livesRemaining"`
	Score           int               `json:"score"`
	Streak          int               `json:"streak"`
	TimeRemaining   int               `json:"timeRemaining"`
	QuestionSeconds int               `json:"questionSeconds"`
	Outcomes        []QuestionOutcome `json:"outcomes"`
	StartedAt       time.Time         `json:"startedAt"`
}

// Summary aggregates a finished session for the results screen.
type Summary struct {
	Score              int     `json:"score"`
	Answered           int     `json:"answered"`
	Correct            int     `json:"correct"`
	AccuracyPercent    int     `json:"accuracyPercent"`
	AverageResponseSec float64 `json:"averageResponseSec"`
	BestStreak         int     `json:"bestStreak"`
}

// RankingEntry is one leaderboard submission.
type RankingEntry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Score     int       `json:"score"`
	Timestamp time.Time `json:"timestamp"`
}

// RankInfo places a score among all known submissions.
type RankInfo struct {
	Rank         int  `json:"rank"`
	TotalPlayers int  `json:"totalPlayers"`
	Percentile   int  `json:"percentile"`
	IsTopPlayer  bool `json:"isTopPlayer"`
	Persisted    bool `json:"persisted"`
}

// GalleryItem is a character with its like counter.
type GalleryItem struct {
	Character
	Likes int64 `json:"likes"`
}

// GuestbookEntry is a visitor message.
type GuestbookEntry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Likes     int64     `json:"likes"`
}

// Fortune is the result of one daily fortune pull.
type Fortune struct {
	Character Character `json:"character"`
	Type      string    `json:"type"`
	Emoji     string    `json:"emoji"`
	Rank      string    `json:"rank"`
	Message   string    `json:"message"`
	PulledAt  time.Time `json:"pulledAt"`
	Remaining int       `json:"remaining"`
}
