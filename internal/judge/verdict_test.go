package judge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBinary(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Outcome
	}{
		{"match", "MATCH", OutcomeMatch},
		{"no match", "NO_MATCH", OutcomeNoMatch},
		{"no match with space", "no match", OutcomeNoMatch},
		{"lower case with period", "match.", OutcomeMatch},
		{"markdown bold", "**MATCH**", OutcomeMatch},
		{"quoted", `"NO_MATCH"`, OutcomeNoMatch},
		{"labelled", "Verdict: MATCH", OutcomeMatch},
		{"yes synonym", "Yes", OutcomeMatch},
		{"no synonym", "No.", OutcomeNoMatch},
		{"correct synonym", "The answer is correct.", OutcomeMatch},
		{"incorrect", "Incorrect", OutcomeNoMatch},
		{"not correct", "That is not correct", OutcomeNoMatch},
		{"not a match", "This is not a match.", OutcomeNoMatch},
		{"first keyword wins", "MATCH\nbecause it is not NO_MATCH", OutcomeMatch},
		{"does not match", "The answer does not match the expected answer.", OutcomeNoMatch},
		{"bare not match", "NOT MATCH", OutcomeNoMatch},
		{"contraction", "It doesn't match.", OutcomeNoMatch},
		{"typographic contraction", "It doesn\u2019t match.", OutcomeNoMatch},
		{"hedged negation", "Not quite correct.", OutcomeNoMatch},
		{"isnt correct", "The answer isn't correct", OutcomeNoMatch},
		{"negation in earlier clause", "Not perfect wording, but correct.", OutcomeMatch},
		{"unrelated text", "The student did well overall.", OutcomeIndeterminate},
		{"empty", "   ", OutcomeIndeterminate},
		{"keyword inside word", "NOTE: matchless prose", OutcomeIndeterminate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Parse(ModeBinary, tt.input, DefaultPassThreshold)
			assert.Equal(t, tt.want, v.Outcome)
			assert.Equal(t, tt.input, v.Raw)
			assert.Nil(t, v.Score)
			if tt.want == OutcomeIndeterminate {
				assert.NotEmpty(t, v.Reason)
			}
		})
	}
}

func TestParseScore(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      Outcome
		wantScore int
	}{
		{"pass", "5", OutcomeMatch, 5},
		{"threshold", "4", OutcomeMatch, 4},
		{"below threshold", "3", OutcomeNoMatch, 3},
		{"labelled", "Score: 2/5", OutcomeNoMatch, 2},
		{"markdown", "**1**", OutcomeNoMatch, 1},
		{"out of range high", "10", OutcomeIndeterminate, 0},
		{"out of range low", "0", OutcomeIndeterminate, 0},
		{"fractional", "4.5", OutcomeIndeterminate, 0},
		{"no number", "excellent", OutcomeIndeterminate, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Parse(ModeScore, tt.input, DefaultPassThreshold)
			assert.Equal(t, tt.want, v.Outcome)
			if tt.wantScore == 0 {
				assert.Nil(t, v.Score)
				assert.NotEmpty(t, v.Reason)
				return
			}
			require.NotNil(t, v.Score)
			assert.Equal(t, tt.wantScore, *v.Score)
		})
	}
}

func TestParseScoreCustomThreshold(t *testing.T) {
	v := Parse(ModeScore, "3", 3)
	assert.Equal(t, OutcomeMatch, v.Outcome)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeBinary, m)

	m, err = ParseMode(" Score ")
	require.NoError(t, err)
	assert.Equal(t, ModeScore, m)

	_, err = ParseMode("likert")
	assert.Error(t, err)
}

func TestVerdictString(t *testing.T) {
	score := 4
	assert.Equal(t, "MATCH", Verdict{Outcome: OutcomeMatch}.String())
	assert.Equal(t, "MATCH (score 4/5)", Verdict{Outcome: OutcomeMatch, Score: &score}.String())
	assert.Equal(t, "INDETERMINATE (no score)", Verdict{Outcome: OutcomeIndeterminate, Reason: "no score"}.String())
}
