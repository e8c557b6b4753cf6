package domain

// Country is an immutable catalog entry. Name is the unique identifier
// and display label; Flag is an opaque display token (a glyph or an
// image reference the UI knows how to render).
type Country struct {
	Name string
	Flag string
}

// Difficulty selects how many options a round offers.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// optionsCount is static configuration, not derived data.
var optionsCount = map[Difficulty]int{
	DifficultyEasy:   3,
	DifficultyMedium: 5,
	DifficultyHard:   7,
}

// MaxOptionsCount is the largest option set any difficulty produces.
const MaxOptionsCount = 7

// OptionsCount returns the number of options a round at this difficulty holds.
func (d Difficulty) OptionsCount() int {
	return optionsCount[d]
}

// Valid reports whether d is one of the known difficulties.
func (d Difficulty) Valid() bool {
	_, ok := optionsCount[d]
	return ok
}

// Round is the live question: one target hidden among shuffled options.
type Round struct {
	Target  Country
	Options []Country
}

// Outcome classifies an evaluated guess.
type Outcome string

const (
	OutcomeCorrect   Outcome = "correct"
	OutcomeIncorrect Outcome = "incorrect"
)

// FeedbackKind tells the UI whether to style feedback as success or error.
type FeedbackKind string

const (
	FeedbackSuccess FeedbackKind = "success"
	FeedbackError   FeedbackKind = "error"
)

// Feedback is the display message for the most recent guess.
type Feedback struct {
	Message string
	Kind    FeedbackKind
}

// GuessResult records the evaluation of a submitted guess.
type GuessResult struct {
	Outcome Outcome
	// Target is the correct country's name, carried for feedback display.
	Target   string
	Score    int
	Feedback Feedback
}
