package judge

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Mode selects the judge vocabulary.
type Mode string

const (
	// ModeBinary expects MATCH or NO_MATCH.
	ModeBinary Mode = "binary"
	// ModeScore expects an integer from MinScore to MaxScore.
	ModeScore Mode = "score"
)

// Score bounds for ModeScore.
const (
	MinScore = 1
	MaxScore = 5
)

// ParseMode converts a config value to a Mode. Empty means binary.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeBinary, "":
		return ModeBinary, nil
	case ModeScore:
		return ModeScore, nil
	default:
		return "", fmt.Errorf("unsupported judge mode %q (supported: %s, %s)", s, ModeBinary, ModeScore)
	}
}

// Outcome is the normalised judgement.
type Outcome string

const (
	OutcomeMatch         Outcome = "MATCH"
	OutcomeNoMatch       Outcome = "NO_MATCH"
	OutcomeIndeterminate Outcome = "INDETERMINATE"
)

// Verdict is the parsed judge reply.
type Verdict struct {
	Outcome Outcome `json:"outcome"`
	Score   *int    `json:"score,omitempty"`
	Raw     string  `json:"raw"`
	Reason  string  `json:"reason,omitempty"`
}

// String renders the verdict for the evaluation report.
func (v Verdict) String() string {
	if v.Score != nil {
		return fmt.Sprintf("%s (score %d/%d)", v.Outcome, *v.Score, MaxScore)
	}
	if v.Outcome == OutcomeIndeterminate && v.Reason != "" {
		return fmt.Sprintf("%s (%s)", v.Outcome, v.Reason)
	}
	return string(v.Outcome)
}

var (
	markdownStripper = strings.NewReplacer("*", "", "`", "", "\"", "", "'", "", "\u2019", "", "#", "")

	// Alternation is leftmost-first, so negative forms are listed before
	// the words they contain.
	binaryPattern = regexp.MustCompile(`\b(NO[_ -]?MATCH|NOT[_ ]A[_ ]MATCH|NOT[_ ]CORRECT|INCORRECT|CORRECT|MATCH|YES|NO)\b`)

	numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

	// Apostrophes are already stripped, so "doesn't" arrives as DOESNT.
	negations = map[string]bool{
		"NOT": true, "NO": true, "NEVER": true, "DOESNT": true, "DONT": true,
		"DIDNT": true, "ISNT": true, "WASNT": true, "ARENT": true, "CANNOT": true, "CANT": true,
	}
)

// negationWindow is how many words before a positive keyword are checked
// for a negation within the same clause.
const negationWindow = 3

// Parse interprets raw judge output. It never fails: anything it cannot
// read becomes OutcomeIndeterminate with the raw text kept.
func Parse(mode Mode, raw string, passThreshold int) Verdict {
	v := Verdict{Outcome: OutcomeIndeterminate, Raw: raw}
	text := strings.TrimSpace(markdownStripper.Replace(raw))
	if text == "" {
		v.Reason = "empty judge output"
		return v
	}

	if mode == ModeScore {
		return parseScore(v, text, passThreshold)
	}
	return parseBinary(v, text)
}

func parseBinary(v Verdict, text string) Verdict {
	upper := strings.ToUpper(text)
	loc := binaryPattern.FindStringIndex(upper)
	if loc == nil {
		v.Reason = "no verdict keyword"
		return v
	}

	switch upper[loc[0]:loc[1]] {
	case "MATCH", "CORRECT", "YES":
		if negated(upper[:loc[0]]) {
			v.Outcome = OutcomeNoMatch
		} else {
			v.Outcome = OutcomeMatch
		}
	default:
		v.Outcome = OutcomeNoMatch
	}
	return v
}

// negated reports whether the clause ending at a keyword contains a
// negation among its last few words, as in "does not match".
func negated(before string) bool {
	if i := strings.LastIndexAny(before, ".!?;:,\n"); i >= 0 {
		before = before[i+1:]
	}
	words := strings.FieldsFunc(before, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	if len(words) > negationWindow {
		words = words[len(words)-negationWindow:]
	}
	for _, w := range words {
		if negations[w] {
			return true
		}
	}
	return false
}

func parseScore(v Verdict, text string, passThreshold int) Verdict {
	m := numberPattern.FindString(text)
	if m == "" {
		v.Reason = "no score"
		return v
	}
	score, err := strconv.Atoi(m)
	if err != nil {
		v.Reason = "score is not an integer"
		return v
	}
	if score < MinScore || score > MaxScore {
		v.Reason = fmt.Sprintf("score %d out of range", score)
		return v
	}

	v.Score = &score
	if score >= passThreshold {
		v.Outcome = OutcomeMatch
	} else {
		v.Outcome = OutcomeNoMatch
	}
	return v
}
