package games

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arena/domain/entities"
)

func TestHangman_InitialStateFixesWordInMetadata(t *testing.T) {
	t.Parallel()

	match, _, _ := newPairedMatch(entities.GameTypeHangman)
	engine := &HangmanEngine{}

	raw, metadata, err := engine.InitialState(match)
	require.NoError(t, err)
	require.NotEmpty(t, metadata[metadataKeyWord])

	var state hangmanState
	require.NoError(t, json.Unmarshal(raw, &state))
	assert.Equal(t, strings.Repeat("_", len(metadata[metadataKeyWord])), state.Masked)
	assert.NotContains(t, string(raw), metadata[metadataKeyWord])
}

func TestHangman_RevealingTheWordWins(t *testing.T) {
	t.Parallel()

	match, one, two := newPairedMatch(entities.GameTypeHangman)
	match.Metadata = map[string]string{metadataKeyWord: "zoo"}
	engine := &HangmanEngine{}

	moves := []*entities.Move{
		moveFor(match.ID, two, 1, `{"letter":"z"}`),
		moveFor(match.ID, one, 2, `{"letter":"o"}`), // completes z-o-o
	}

	result, err := engine.ComputeState(match, moves)
	require.NoError(t, err)
	assert.True(t, result.IsTerminal)
	require.NotNil(t, result.WinnerID)
	assert.Equal(t, one, *result.WinnerID)

	var state hangmanState
	require.NoError(t, json.Unmarshal(result.State, &state))
	assert.Equal(t, "zoo", state.Masked)
}

func TestHangman_DuplicateLetterConsumesTurnWithoutPenalty(t *testing.T) {
	t.Parallel()

	match, one, two := newPairedMatch(entities.GameTypeHangman)
	match.Metadata = map[string]string{metadataKeyWord: "wizard"}
	engine := &HangmanEngine{}

	// Player one repeats a wrong letter player two already burned. The
	// repeat consumes the turn but adds no wrong guess for either side.
	moves := []*entities.Move{
		moveFor(match.ID, two, 1, `{"letter":"q"}`),
		moveFor(match.ID, one, 2, `{"letter":"q"}`),
	}

	result, err := engine.ComputeState(match, moves)
	require.NoError(t, err)
	assert.False(t, result.IsTerminal)

	var state hangmanState
	require.NoError(t, json.Unmarshal(result.State, &state))
	assert.Equal(t, 1, state.WrongGuesses[two.String()])
	assert.Equal(t, 0, state.WrongGuesses[one.String()])
	assert.Equal(t, []string{"q"}, state.GuessedLetters)
	require.NotNil(t, result.NextPlayerID)
	assert.Equal(t, two, *result.NextPlayerID)
}

func TestHangman_SixWrongGuessesLosesForTheGuesserOnly(t *testing.T) {
	t.Parallel()

	match, one, two := newPairedMatch(entities.GameTypeHangman)
	match.Metadata = map[string]string{metadataKeyWord: "zephyr"}
	engine := &HangmanEngine{}

	// Player two burns six distinct wrong letters while player one
	// guesses letters of the word in between.
	wrongLetters := []string{"a", "b", "c", "d", "g", "i"}
	rightLetters := []string{"z", "e", "p", "h", "y"}

	var moves []*entities.Move
	seq := 0
	for i, wrong := range wrongLetters {
		seq++
		moves = append(moves, moveFor(match.ID, two, seq, `{"letter":"`+wrong+`"}`))
		if i < len(rightLetters) {
			seq++
			moves = append(moves, moveFor(match.ID, one, seq, `{"letter":"`+rightLetters[i]+`"}`))
		}
	}

	result, err := engine.ComputeState(match, moves)
	require.NoError(t, err)
	assert.True(t, result.IsTerminal)
	require.NotNil(t, result.WinnerID)
	assert.Equal(t, one, *result.WinnerID)
}

func TestHangman_StateNeverLeaksTheWord(t *testing.T) {
	t.Parallel()

	match, one, two := newPairedMatch(entities.GameTypeHangman)
	match.Metadata = map[string]string{metadataKeyWord: "padlock"}
	engine := &HangmanEngine{}

	moves := []*entities.Move{
		moveFor(match.ID, two, 1, `{"letter":"p"}`),
		moveFor(match.ID, one, 2, `{"letter":"x"}`),
	}

	result, err := engine.ComputeState(match, moves)
	require.NoError(t, err)
	assert.NotContains(t, string(result.State), "padlock")

	var state hangmanState
	require.NoError(t, json.Unmarshal(result.State, &state))
	assert.Equal(t, "p______", state.Masked)
}
