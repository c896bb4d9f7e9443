package models

// Recognized quiz formats. Anything else is graded as "unknown".
const (
	QuizTypeTrueFalse      = "true/false"
	QuizTypeMultipleChoice = "multiple choice"
	QuizTypeVerbalAnswer   = "verbal answer"
)

// Quiz is one generated question set. Quizzes are written by the generation
// pipeline and never updated afterwards; this service only reads them.
type Quiz struct {
	ID         string   `bson:"_id,omitempty" json:"id"`
	Topic      string   `bson:"topic" json:"topic"`
	Type       string   `bson:"type" json:"type"`
	Difficulty string   `bson:"difficulty" json:"difficulty"`
	Questions  []string `bson:"questions" json:"questions"`
	UserID     string   `bson:"userId" json:"userId"`
	Finalized  bool     `bson:"finalized" json:"finalized"`
	CreatedAt  string   `bson:"createdAt" json:"createdAt"`
}

// IsObjective reports whether the quiz format has a single correct answer per
// question, which is when the grader emits an answer key.
func IsObjective(quizType string) bool {
	return quizType == QuizTypeTrueFalse || quizType == QuizTypeMultipleChoice
}
