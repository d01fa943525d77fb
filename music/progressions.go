package music

// progressions is the hand-curated table of four-chord (I-V-vi-IV pattern)
// progressions per key. It is pure data: keys outside the table get the C
// progression rather than a derived one.
var progressions = map[string][]string{
	"C":  {"C", "G", "Am", "F"},
	"G":  {"G", "D", "Em", "C"},
	"D":  {"D", "A", "Bm", "G"},
	"A":  {"A", "E", "F#m", "D"},
	"E":  {"E", "B", "C#m", "A"},
	"F":  {"F", "C", "Dm", "A#"},
	"Am": {"Am", "G", "C", "F"},
}

// ChordProgression returns the four-chord progression for a key. Keys
// absent from the table resolve to the C progression, so the result is
// always exactly four chords.
//
// The tempo parameter is accepted for interface stability but currently
// has no effect on the chosen progression.
func ChordProgression(key string, tempo float64) []string {
	_ = tempo

	progression, ok := progressions[key]
	if !ok {
		progression = progressions[DefaultKey]
	}

	// Copy so callers can't mutate the table.
	chords := make([]string, len(progression))
	copy(chords, progression)
	return chords
}
