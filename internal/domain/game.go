package domain

import "time"

// Game is a scheduled match. Guesses close at Date.
type Game struct {
	ID                    string    `json:"id"`
	Date                  time.Time `json:"date"`
	FirstTeamCountryCode  string    `json:"firstTeamCountryCode"`
	SecondTeamCountryCode string    `json:"secondTeamCountryCode"`
}

// HasStarted reports whether guesses are closed at now. A guess submitted at
// exactly Date is too late.
func (g *Game) HasStarted(now time.Time) bool {
	return !now.Before(g.Date)
}

// GameWithGuess is a game together with the caller's guess in one pool
type GameWithGuess struct {
	Game
	Guess *Guess `json:"guess"`
}
