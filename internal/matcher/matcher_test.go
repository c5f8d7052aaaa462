package matcher

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	require.Equal(t, 100, Score("Cockroach-Knight", "cockroach knight"))
	require.Equal(t, 0, Score("", "Cockroach-Knight"))
	require.Equal(t, 0, Score("---", "Cockroach-Knight"))

	reordered := Score("Knight-Cockroach", "Cockroach-Knight")
	require.Equal(t, 95, reordered)

	unrelated := Score("Black-Lotus", "Cockroach-Knight")
	require.Less(t, unrelated, reordered)

	for _, pair := range [][2]string{
		{"Dragon-s-Fighting-Spirit", "Dragons-Fighting-Spirit"},
		{"Lightning-Bolt", "Lightning-Bolt-Alpha"},
	} {
		score := Score(pair[0], pair[1])
		require.Greater(t, score, 80, pair)
		require.Less(t, score, 100, pair)
	}
}

func TestMatch(t *testing.T) {
	wanted := []string{"Dragon-s-Fighting-Spirit", "Cockroach-Knight", "Black-Lotus"}

	testCases := []struct {
		name          string
		raw           string
		candidates    []string
		expectedID    string
		expectedScore int
	}{
		{
			name:          "exact",
			raw:           "Cockroach-Knight",
			candidates:    wanted,
			expectedID:    "Cockroach-Knight",
			expectedScore: 100,
		},
		{
			name:          "reordered words",
			raw:           "Lotus-Black",
			candidates:    wanted,
			expectedID:    "Black-Lotus",
			expectedScore: 95,
		},
		{
			name:          "no candidates",
			raw:           "Black-Lotus",
			candidates:    nil,
			expectedID:    "",
			expectedScore: 0,
		},
		{
			name:          "ties go to the earliest candidate",
			raw:           "abc",
			candidates:    []string{"abd", "abe"},
			expectedID:    "abd",
			expectedScore: Score("abc", "abd"),
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			id, score := Match(test.raw, test.candidates)
			require.Equal(t, test.expectedID, id)
			require.Equal(t, test.expectedScore, score)
		})
	}
}

func TestMatchNearMiss(t *testing.T) {
	id, score := Match("Dragons-Fighting-Spirit", []string{"Black-Lotus", "Dragon-s-Fighting-Spirit"})
	require.Equal(t, "Dragon-s-Fighting-Spirit", id)
	require.Less(t, score, 100)
}
