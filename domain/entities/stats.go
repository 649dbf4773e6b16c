package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlayerStats holds cumulative per-player results. Updated only by
// settlement; games, wins and losses are monotonically increasing.
type PlayerStats struct {
	PlayerID      uuid.UUID       `db:"player_id"`
	TotalGames    int             `db:"total_games"`
	TotalWins     int             `db:"total_wins"`
	TotalLosses   int             `db:"total_losses"`
	TotalEarnings decimal.Decimal `db:"total_earnings"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

// WinPercentage computes the share of games won, 0 when no games played
func (s *PlayerStats) WinPercentage() float64 {
	if s.TotalGames == 0 {
		return 0
	}
	return float64(s.TotalWins) / float64(s.TotalGames) * 100
}

// RecordWin applies a won match and its payout to the totals
func (s *PlayerStats) RecordWin(payout decimal.Decimal) {
	s.TotalGames++
	s.TotalWins++
	s.TotalEarnings = s.TotalEarnings.Add(payout)
}

// RecordLoss applies a lost match to the totals
func (s *PlayerStats) RecordLoss() {
	s.TotalGames++
	s.TotalLosses++
}

// RecordDraw applies a drawn match to the totals
func (s *PlayerStats) RecordDraw() {
	s.TotalGames++
}
