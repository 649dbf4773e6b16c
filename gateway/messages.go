package gateway

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"arena/domain/events"
)

// inboundMessage is the envelope for every client-to-server frame.
// Fields beyond Type are populated depending on the discriminator.
type inboundMessage struct {
	Type     string           `json:"type"`
	MatchID  *uuid.UUID       `json:"matchId,omitempty"`
	GameType string           `json:"gameType,omitempty"`
	Stake    *decimal.Decimal `json:"stake,omitempty"`
	Move     json.RawMessage  `json:"move,omitempty"`
}

// encodeEvent flattens an event into its wire frame with the type
// discriminator alongside the payload fields. Only facts are
// serialized, never behavior.
func encodeEvent(event events.Event) ([]byte, error) {
	raw, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to flatten event payload: %w", err)
	}
	fields["type"] = string(event.Type())

	return json.Marshal(fields)
}
