package games

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/google/uuid"

	"arena/domain/entities"
)

// maxWrongGuesses is the per-participant cap. The caps are independent:
// one player's wrong guesses never count against the other.
const maxWrongGuesses = 6

// metadataKeyWord stores the secret word on the match record so every
// recompute sees the same word that was drawn at pairing time.
const metadataKeyWord = "word"

var hangmanWords = []string{
	"arcade", "balance", "channel", "counter", "gateway",
	"lattice", "machine", "monitor", "network", "padlock",
	"pattern", "quiver", "referee", "session", "trophy",
	"upgrade", "vector", "whistle", "wizard", "zephyr",
}

// HangmanEngine adjudicates the word-guess variant. Participants
// alternate single-letter guesses against a word fixed at match start.
// Duplicate letters consume the turn without penalty; a wrong guess
// counts against the guessing participant only.
type HangmanEngine struct{}

type hangmanMovePayload struct {
	Letter string `json:"letter"`
}

// hangmanState never carries the unmasked word; the secret lives in
// match metadata and only revealed letters reach the clients.
type hangmanState struct {
	Masked         string         `json:"masked"`
	GuessedLetters []string       `json:"guessedLetters"`
	WrongGuesses   map[string]int `json:"wrongGuesses"`
	CurrentPlayer  *uuid.UUID     `json:"currentPlayer"`
}

func (e *HangmanEngine) Alternating() bool { return true }

func (e *HangmanEngine) InitialState(match *entities.Match) (json.RawMessage, map[string]string, error) {
	if match.PlayerTwoID == nil {
		return nil, nil, fmt.Errorf("match %s is not paired", match.ID)
	}
	word := hangmanWords[rand.Intn(len(hangmanWords))]

	first := match.FirstMover()
	state := hangmanState{
		Masked:        strings.Repeat("_", len(word)),
		WrongGuesses:  map[string]int{},
		CurrentPlayer: &first,
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal initial hangman state: %w", err)
	}
	return raw, map[string]string{metadataKeyWord: word}, nil
}

func (e *HangmanEngine) ComputeState(match *entities.Match, moves []*entities.Move) (*Result, error) {
	if match.PlayerTwoID == nil {
		return nil, fmt.Errorf("match %s is not paired", match.ID)
	}
	word := match.Metadata[metadataKeyWord]
	if word == "" {
		return nil, fmt.Errorf("match %s has no word fixed in metadata", match.ID)
	}

	guessed := map[string]bool{}
	wrong := map[uuid.UUID]int{}
	var winner *uuid.UUID

	for _, mv := range moves {
		var payload hangmanMovePayload
		if err := json.Unmarshal(mv.Payload, &payload); err != nil {
			continue
		}
		letter := strings.ToLower(payload.Letter)
		if len(letter) != 1 || letter[0] < 'a' || letter[0] > 'z' {
			continue
		}
		// A letter either side already guessed consumes the turn but
		// carries no penalty.
		if guessed[letter] {
			continue
		}
		guessed[letter] = true

		if strings.Contains(word, letter) {
			if wordRevealed(word, guessed) {
				playerID := mv.PlayerID
				winner = &playerID
				break
			}
			continue
		}

		wrong[mv.PlayerID]++
		if wrong[mv.PlayerID] >= maxWrongGuesses {
			opponent := match.Opponent(mv.PlayerID)
			winner = &opponent
			break
		}
	}

	letters := make([]string, 0, len(guessed))
	for letter := range guessed {
		letters = append(letters, letter)
	}
	sort.Strings(letters)

	wrongByID := map[string]int{
		match.PlayerOneID.String(): wrong[match.PlayerOneID],
		match.PlayerTwoID.String(): wrong[*match.PlayerTwoID],
	}

	state := hangmanState{
		Masked:         maskWord(word, guessed),
		GuessedLetters: letters,
		WrongGuesses:   wrongByID,
	}
	result := &Result{}

	if winner != nil {
		result.IsTerminal = true
		result.WinnerID = winner
	} else {
		next := match.ExpectedMover(len(moves))
		state.CurrentPlayer = &next
		result.NextPlayerID = &next
	}

	raw, err := json.Marshal(state)
	if err != nil {
		return nil, err
	}
	result.State = raw
	return result, nil
}

func wordRevealed(word string, guessed map[string]bool) bool {
	for _, r := range word {
		if !guessed[string(r)] {
			return false
		}
	}
	return true
}

func maskWord(word string, guessed map[string]bool) string {
	var b strings.Builder
	for _, r := range word {
		if guessed[string(r)] {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
