package prompt

import (
	"fmt"
	"sort"
	"strings"
)

// Params carries the inputs any technique may need.
type Params struct {
	Question    string
	StudentName string
	Subject     string
	Level       string
	Topic       string
	Role        string
	Task        string
	Format      string
	Constraints []string
}

// Technique is a named prompting strategy.
type Technique struct {
	Name        string
	Title       string
	Description string
	// Defaults are the parameters the demo runs with.
	Defaults Params
	Build    func(Params) (string, error)
}

// Render builds the prompt, filling unset fields from the defaults.
func (t Technique) Render(p Params) (string, error) {
	return t.Build(t.fillDefaults(p))
}

func (t Technique) fillDefaults(p Params) Params {
	d := t.Defaults
	if p.Question == "" {
		p.Question = d.Question
	}
	if p.StudentName == "" {
		p.StudentName = d.StudentName
	}
	if p.Subject == "" {
		p.Subject = d.Subject
	}
	if p.Level == "" {
		p.Level = d.Level
	}
	if p.Topic == "" {
		p.Topic = d.Topic
	}
	if p.Role == "" {
		p.Role = d.Role
	}
	if p.Task == "" {
		p.Task = d.Task
	}
	if p.Format == "" {
		p.Format = d.Format
	}
	if p.Constraints == nil {
		p.Constraints = d.Constraints
	}
	return p
}

var techniques = []Technique{
	{
		Name:        "zero-shot",
		Title:       "ZERO SHOT",
		Description: "Ask the question directly, with no examples.",
		Defaults:    Params{Question: "Explain Newton's Second Law in simple terms."},
		Build:       func(p Params) (string, error) { return ZeroShot(p.Question) },
	},
	{
		Name:        "one-shot",
		Title:       "ONE SHOT",
		Description: "Precede the question with one worked example.",
		Defaults:    Params{Question: "What is gravity?"},
		Build:       func(p Params) (string, error) { return OneShot(p.Question) },
	},
	{
		Name:        "multi-shot",
		Title:       "MULTI SHOT",
		Description: "Precede the question with several worked examples.",
		Defaults:    Params{Question: "Who wrote 'Romeo and Juliet'?"},
		Build:       func(p Params) (string, error) { return MultiShot(p.Question) },
	},
	{
		Name:        "dynamic",
		Title:       "DYNAMIC PROMPT",
		Description: "Personalise the prompt with student name, subject, level and topic.",
		Defaults: Params{
			StudentName: "Ananya",
			Subject:     "Machine Learning",
			Level:       "beginner",
		},
		Build: func(p Params) (string, error) {
			return Dynamic(DynamicParams{
				StudentName: p.StudentName,
				Subject:     p.Subject,
				Level:       p.Level,
				Topic:       p.Topic,
			})
		},
	},
	{
		Name:        "chain-of-thought",
		Title:       "CHAIN OF THOUGHT",
		Description: "Ask the model to reason step by step before answering.",
		Defaults:    Params{Question: "If a car travels at 60 km/h for 2 hours, how far does it go?"},
		Build:       func(p Params) (string, error) { return ChainOfThought(p.Question) },
	},
	{
		Name:        "framed",
		Title:       "ROLE / TASK / FORMAT / CONSTRAINTS",
		Description: "Frame the request with an explicit role, task, output format and constraints.",
		Defaults: Params{
			Role:   "Physics tutor for high-school students",
			Task:   "Explain why the sky is blue",
			Format: "Three short bullet points",
			Constraints: []string{
				"Use no more than 60 words",
				"Avoid equations",
			},
		},
		Build: func(p Params) (string, error) {
			return Framed(Framing{Role: p.Role, Task: p.Task, Format: p.Format, Constraints: p.Constraints})
		},
	},
	{
		Name:        "structured",
		Title:       "STRUCTURED OUTPUT",
		Description: "Constrain the reply to a fixed JSON shape.",
		Defaults:    Params{Question: "What is the capital of France?"},
		Build:       func(p Params) (string, error) { return Structured(p.Question) },
	},
}

// Techniques returns all techniques in demo order.
func Techniques() []Technique {
	out := make([]Technique, len(techniques))
	copy(out, techniques)
	return out
}

// Lookup returns the technique with the given name.
func Lookup(name string) (Technique, error) {
	for _, t := range techniques {
		if t.Name == name {
			return t, nil
		}
	}
	return Technique{}, &UnknownTechniqueError{Name: name}
}

// Names returns the sorted technique names.
func Names() []string {
	names := make([]string, 0, len(techniques))
	for _, t := range techniques {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}

// UnknownTechniqueError is returned when a technique name is not registered.
type UnknownTechniqueError struct {
	Name string
}

func (e *UnknownTechniqueError) Error() string {
	return fmt.Sprintf("unknown technique %q (available: %s)", e.Name, strings.Join(Names(), ", "))
}
