package models

// TranscriptEntry is one utterance captured during a voice session. Entries
// accumulate in memory only; the persisted artifact is the derived Feedback.
type TranscriptEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CategoryScore is one entry of the grader's category-wise breakdown.
type CategoryScore struct {
	Name    string  `bson:"name" json:"name"`
	Score   float64 `bson:"score" json:"score"`
	Comment string  `bson:"comment" json:"comment"`
}

// Answer statuses used in answer-key rows.
const (
	StatusCorrect   = "Correct"
	StatusIncorrect = "Incorrect"
	StatusSkipped   = "Skipped"
)

// AnswerKeyRow is one per-question comparison for objective quiz formats.
// New records carry these directly from the grader; for older records the
// rows are recovered from the finalAssessment text by the legacy parser.
type AnswerKeyRow struct {
	Question      string `bson:"question" json:"question"`
	CorrectAnswer string `bson:"correctAnswer" json:"correctAnswer"`
	UserAnswer    string `bson:"userAnswer" json:"userAnswer"`
	Status        string `bson:"status" json:"status"`
}

// Feedback is the graded outcome of one quiz attempt by one user. The store
// permits duplicates per (quizId, userId); read paths disambiguate by highest
// totalScore.
type Feedback struct {
	ID                  string          `bson:"_id,omitempty" json:"id"`
	QuizID              string          `bson:"quizId" json:"quizId"`
	UserID              string          `bson:"userId" json:"userId"`
	TotalScore          float64         `bson:"totalScore" json:"totalScore"`
	CategoryScores      []CategoryScore `bson:"categoryScores" json:"categoryScores"`
	Strengths           []string        `bson:"strengths" json:"strengths"`
	AreasForImprovement []string        `bson:"areasForImprovement" json:"areasForImprovement"`
	FinalAssessment     string          `bson:"finalAssessment" json:"finalAssessment"`
	AnswerKeyRows       []AnswerKeyRow  `bson:"answerKeyRows,omitempty" json:"answerKeyRows,omitempty"`
	CreatedAt           string          `bson:"createdAt" json:"createdAt"`
}
