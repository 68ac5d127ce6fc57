package types

import "time"

// Favorite associates a user with a bookmarked coin. The pair
// (user_id, coin_id) is unique; the backend enforces it.
type Favorite struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	CoinID     string    `json:"coin_id"`
	CoinName   string    `json:"coin_name"`
	CoinSymbol string    `json:"coin_symbol"`
	CreatedAt  time.Time `json:"created_at"`
}
