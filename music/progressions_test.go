package music

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChordProgressionTable(t *testing.T) {
	tests := []struct {
		key      string
		expected []string
	}{
		{key: "C", expected: []string{"C", "G", "Am", "F"}},
		{key: "G", expected: []string{"G", "D", "Em", "C"}},
		{key: "D", expected: []string{"D", "A", "Bm", "G"}},
		{key: "A", expected: []string{"A", "E", "F#m", "D"}},
		{key: "E", expected: []string{"E", "B", "C#m", "A"}},
		{key: "F", expected: []string{"F", "C", "Dm", "A#"}},
		{key: "Am", expected: []string{"Am", "G", "C", "F"}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.expected, ChordProgression(tt.key, 120.0))
		})
	}
}

func TestChordProgressionTotalOverAllKeys(t *testing.T) {
	// Every pitch class resolves to exactly four chords; keys outside the
	// table get the C progression
	for _, key := range PitchClasses {
		chords := ChordProgression(key, 98.5)
		require.Len(t, chords, 4, "key %s", key)
	}

	assert.Equal(t, []string{"C", "G", "Am", "F"}, ChordProgression("C#", 120.0))
	assert.Equal(t, []string{"C", "G", "Am", "F"}, ChordProgression("B", 120.0))
	assert.Equal(t, []string{"C", "G", "Am", "F"}, ChordProgression("", 120.0))
}

func TestChordProgressionTempoHasNoEffect(t *testing.T) {
	// Tempo is part of the signature for interface stability only
	assert.Equal(t, ChordProgression("G", 60.0), ChordProgression("G", 200.0))
}

func TestChordProgressionReturnsCopy(t *testing.T) {
	chords := ChordProgression("C", 120.0)
	chords[0] = "X"

	assert.Equal(t, []string{"C", "G", "Am", "F"}, ChordProgression("C", 120.0))
}
