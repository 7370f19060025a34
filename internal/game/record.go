package game

import "time"

// Record is a personal visit record for one game
type Record struct {
	ID        int64     `json:"id"`
	GameID    int64     `json:"game_id"`
	Place     string    `json:"place"`
	Memo      string    `json:"memo,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Game      *Game     `json:"game,omitempty"`
}
