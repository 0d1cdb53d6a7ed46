package domain

import (
	"math"
	"time"
)

// Scores are stored as 32-bit integers
const (
	MinScore = math.MinInt32
	MaxScore = math.MaxInt32
)

// Guess is a participant's predicted score for one game
type Guess struct {
	ID               string    `json:"id"`
	ParticipantID    string    `json:"participantId"`
	GameID           string    `json:"gameId"`
	FirstTeamPoints  int       `json:"firstTeamPoints"`
	SecondTeamPoints int       `json:"secondTeamPoints"`
	CreatedAt        time.Time `json:"createdAt"`
}

// SubmitGuessRequest is the body of POST /polls/{id}/games/{gameId}/guesses.
// Pointers distinguish a missing score from zero.
type SubmitGuessRequest struct {
	FirstTeamPoints  *int `json:"firstTeamPoints" validate:"required,min=-2147483648,max=2147483647"`
	SecondTeamPoints *int `json:"secondTeamPoints" validate:"required,min=-2147483648,max=2147483647"`
}

// ValidScore reports whether points fits the stored score range
func ValidScore(points int) bool {
	return points >= MinScore && points <= MaxScore
}

// CountResponse is returned by the count endpoints
type CountResponse struct {
	Count int64 `json:"count"`
}
