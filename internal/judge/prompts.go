package judge

import "fmt"

// BinaryInstructions constrains the judge to a two-word vocabulary.
const BinaryInstructions = `You are an impartial examiner comparing a student's answer with the expected answer.

An answer matches when it contains the information in the expected answer. It does not need to use the same words.

Reply with exactly one word and nothing else:
MATCH
NO_MATCH`

// ScoreInstructions constrains the judge to a bounded integer score.
const ScoreInstructions = `You are an impartial examiner comparing a student's answer with the expected answer.

Rate how well the answer matches the expected answer on a scale from 1 to 5:
1 = wrong or unrelated
2 = mostly wrong
3 = partially correct
4 = correct with minor omissions
5 = fully correct

Reply with a single integer from 1 to 5 and nothing else.`

func instructions(mode Mode) string {
	if mode == ModeScore {
		return ScoreInstructions
	}
	return BinaryInstructions
}

// BuildPrompt renders the user turn of the judge conversation.
func BuildPrompt(question, expected, answer string) string {
	return fmt.Sprintf("QUESTION: %s\nEXPECTED ANSWER: %s\nSTUDENT ANSWER: %s", question, expected, answer)
}
