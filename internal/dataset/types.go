package dataset

// Dataset is a named list of evaluation samples and the prompt used to answer them.
type Dataset struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Version     string   `yaml:"version"`
	JudgeMode   string   `yaml:"judge_mode"` // "binary" (default) or "score"
	SamplesFile string   `yaml:"samples_file"`
	Prompt      Prompt   `yaml:"prompt"`
	Samples     []Sample `yaml:"-"` // loaded separately from CSV
}

// Prompt defines the system prompt used for answer calls.
type Prompt struct {
	Role          string `yaml:"role"`
	SystemMessage string `yaml:"system_message"`
}

// Sample is a single query with its expected answer. It has no identity
// beyond ID and its position in the list.
type Sample struct {
	ID       string `json:"id"`
	Input    string `json:"input"`
	Expected string `json:"expected"`
}
