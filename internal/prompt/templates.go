// Package prompt renders the prompting techniques used by the harness.
//
// Every template is a plain function of typed parameters so it can be tested
// without a model. Rendering fails rather than leaving a placeholder behind.
package prompt

import (
	"fmt"
	"regexp"
	"strings"
)

// Persona opens the tutoring prompts.
const Persona = "You are KalviMentor_AI, a helpful tutor."

var placeholderPattern = regexp.MustCompile(`\{[a-z_]+\}`)

// render substitutes {name} placeholders. Every placeholder in tmpl must have
// a value; substituted values are not scanned again.
func render(tmpl string, values map[string]string) (string, error) {
	for _, ph := range placeholderPattern.FindAllString(tmpl, -1) {
		if _, ok := values[strings.Trim(ph, "{}")]; !ok {
			return "", fmt.Errorf("unsubstituted placeholder %s", ph)
		}
	}
	pairs := make([]string, 0, len(values)*2)
	for k, v := range values {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl), nil
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

// ZeroShot asks the question with no worked example.
func ZeroShot(question string) (string, error) {
	if err := required("question", question); err != nil {
		return "", err
	}
	return strings.TrimSpace(question), nil
}

const oneShotTemplate = `Answer the question in one or two sentences, following the example.

Q: What is inertia?
A: Inertia is the tendency of an object to keep doing what it is doing, staying at rest or moving at the same speed, until a force acts on it.

Q: {question}
A:`

// OneShot prefixes the question with a single worked example.
func OneShot(question string) (string, error) {
	if err := required("question", question); err != nil {
		return "", err
	}
	return render(oneShotTemplate, map[string]string{"question": strings.TrimSpace(question)})
}

const multiShotTemplate = `Answer each question briefly, following the examples.

Q: Who painted the Mona Lisa?
A: Leonardo da Vinci.

Q: Who discovered penicillin?
A: Alexander Fleming.

Q: Who proposed the theory of relativity?
A: Albert Einstein.

Q: {question}
A:`

// MultiShot prefixes the question with three worked examples.
func MultiShot(question string) (string, error) {
	if err := required("question", question); err != nil {
		return "", err
	}
	return render(multiShotTemplate, map[string]string{"question": strings.TrimSpace(question)})
}

const chainOfThoughtTemplate = `{problem}
Let's reason step by step, then give the final answer on its own line starting with "Answer:".`

// ChainOfThought asks the model to reason in steps before answering.
func ChainOfThought(problem string) (string, error) {
	if err := required("problem", problem); err != nil {
		return "", err
	}
	return render(chainOfThoughtTemplate, map[string]string{"problem": strings.TrimSpace(problem)})
}

// DynamicParams personalises a tutoring prompt.
type DynamicParams struct {
	StudentName string
	Subject     string
	Level       string // defaults to "beginner"
	Topic       string // optional; the whole subject when empty
}

const dynamicTemplate = Persona + `
Your student is {student_name}, learning {subject} at {level} level.
Explain {topic} simply, using an everyday analogy {student_name} can relate to.
Finish with one short question that checks understanding.`

// Dynamic renders a prompt personalised for one student.
func Dynamic(p DynamicParams) (string, error) {
	if err := required("student name", p.StudentName); err != nil {
		return "", err
	}
	if err := required("subject", p.Subject); err != nil {
		return "", err
	}
	level := strings.TrimSpace(p.Level)
	if level == "" {
		level = "beginner"
	}
	topic := strings.TrimSpace(p.Topic)
	if topic == "" {
		topic = strings.TrimSpace(p.Subject)
	}
	return render(dynamicTemplate, map[string]string{
		"student_name": strings.TrimSpace(p.StudentName),
		"subject":      strings.TrimSpace(p.Subject),
		"level":        level,
		"topic":        topic,
	})
}

// Framing describes a role/task/format/constraints prompt.
type Framing struct {
	Role        string
	Task        string
	Format      string
	Constraints []string
}

// Framed renders the four-part framing. Role and task are required.
func Framed(f Framing) (string, error) {
	if err := required("role", f.Role); err != nil {
		return "", err
	}
	if err := required("task", f.Task); err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "ROLE: %s\n", strings.TrimSpace(f.Role))
	fmt.Fprintf(&b, "TASK: %s\n", strings.TrimSpace(f.Task))
	if format := strings.TrimSpace(f.Format); format != "" {
		fmt.Fprintf(&b, "FORMAT: %s\n", format)
	}
	var constraints []string
	for _, c := range f.Constraints {
		if c = strings.TrimSpace(c); c != "" {
			constraints = append(constraints, c)
		}
	}
	if len(constraints) > 0 {
		b.WriteString("CONSTRAINTS:\n")
		for _, c := range constraints {
			fmt.Fprintf(&b, "- %s\n", c)
		}
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

const structuredTemplate = Persona + `
Provide answers ONLY in the following JSON format:
{
  "question": "<repeat the question>",
  "answer": "<short and clear answer>"
}

Question: "{question}"`

// Structured asks for a machine-readable JSON answer.
func Structured(question string) (string, error) {
	if err := required("question", question); err != nil {
		return "", err
	}
	return render(structuredTemplate, map[string]string{"question": strings.TrimSpace(question)})
}

// WithStopMarker appends marker after a space, the way the demo prompts end.
func WithStopMarker(prompt, marker string) string {
	if marker == "" {
		return prompt
	}
	return prompt + " " + marker
}
