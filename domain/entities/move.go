package entities

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Move is one immutable entry in a match's move log. Sequence numbers
// are 1-based and contiguous per match; the ordered log is the single
// source of truth from which game state is always rederived.
type Move struct {
	ID        int64           `db:"id"`
	MatchID   uuid.UUID       `db:"match_id"`
	PlayerID  uuid.UUID       `db:"player_id"`
	Seq       int             `db:"seq"`
	Payload   json.RawMessage `db:"payload"`
	CreatedAt time.Time       `db:"created_at"`
}
