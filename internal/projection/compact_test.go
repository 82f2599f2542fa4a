package projection

import (
	"encoding/json"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/domain"
)

func TestCompactExpandRoundTrip(t *testing.T) {
	board := sampleBoard()

	restored := Compact(board).Expand()
	assert.Equal(t, board, restored)
}

func TestCompactRoundTripThroughJSON(t *testing.T) {
	board := sampleBoard()

	data, err := json.Marshal(Compact(board))
	require.NoError(t, err)

	var decoded CompactBoard
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, board, decoded.Expand())
}

// Position zero must survive serialization: its key is never omitted,
// unlike the other zero-valued compact fields.
func TestCompactKeepsPositionZero(t *testing.T) {
	board := sampleBoard()

	data, err := json.Marshal(Compact(board))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"p":0`)
}

func TestCompactSmallerThanFull(t *testing.T) {
	board := sampleBoard()

	full, err := json.Marshal(board)
	require.NoError(t, err)
	compact, err := json.Marshal(Compact(board))
	require.NoError(t, err)

	assert.Less(t, len(compact), len(full))
}

// Expanding a compacted card restores every field for arbitrary string
// content and positions.
func TestPropertyCompactCardRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("card round-trips through compact shape", prop.ForAll(
		func(title, content, assignee string, position int, collapsed bool, tags []string) bool {
			card := sampleBoard().Cards[0]
			card.Title = title
			card.Content = content
			card.Assignee = assignee
			card.Position = position
			card.Collapsed = collapsed
			card.Tags = tags

			restored := CompactCardOf(&card).Expand()
			return assert.ObjectsAreEqual(card, restored)
		},
		gen.AnyString(),
		gen.AnyString(),
		gen.AlphaString(),
		gen.IntRange(0, 1000),
		gen.Bool(),
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}

func TestCompactEmptyBoard(t *testing.T) {
	board := &domain.Board{ID: "b", Name: "Empty", Columns: []domain.Column{}, Cards: []domain.Card{}}
	restored := Compact(board).Expand()
	assert.Equal(t, board, restored)
}
