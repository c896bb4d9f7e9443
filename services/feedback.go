package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"knovo/models"
)

// Pipeline failure kinds. The pipeline never panics or re-throws; a failed run
// carries exactly one of these so callers can branch on cause.
var (
	ErrInvalidTranscript  = errors.New("invalid transcript submission")
	ErrGradingUnavailable = errors.New("grading capability unavailable")
	ErrPersistenceFailed  = errors.New("failed to persist feedback")
)

// FeedbackStore is the slice of the document store the pipeline writes to.
type FeedbackStore interface {
	SaveFeedback(ctx context.Context, id string, fb models.Feedback) (string, error)
}

// FeedbackService turns a completed voice-quiz transcript into a durable,
// structured feedback record. The grading judgment itself is delegated to the
// injected Grader; both collaborators are constructed in main and passed in.
type FeedbackService struct {
	store  FeedbackStore
	grader Grader
}

func NewFeedbackService(store FeedbackStore, grader Grader) *FeedbackService {
	return &FeedbackService{store: store, grader: grader}
}

// CreateFeedbackParams carries one finished attempt. FeedbackID is set on a
// retake to overwrite the earlier record in place.
type CreateFeedbackParams struct {
	QuizID     string
	UserID     string
	QuizType   string
	Transcript []models.TranscriptEntry
	FeedbackID string
}

// CreateFeedbackResult reports the outcome. Err is nil exactly when Success is
// true; otherwise it wraps one of the pipeline failure kinds.
type CreateFeedbackResult struct {
	Success    bool
	FeedbackID string
	Err        error
}

// CreateFeedback runs the pipeline: one grading call, one store write, no
// retries. An empty transcript is still graded; concurrent invocations are not
// coordinated and may record duplicate attempts, which the best-feedback read
// path masks.
func (s *FeedbackService) CreateFeedback(ctx context.Context, p CreateFeedbackParams) CreateFeedbackResult {
	if p.QuizID == "" || p.UserID == "" {
		return failure(fmt.Errorf("%w: quizId and userId are required", ErrInvalidTranscript))
	}

	prompt := buildFeedbackPrompt(p.QuizType, p.Transcript)

	graded, err := s.grader.Grade(ctx, prompt)
	if err != nil {
		log.Printf("Grading failed for quiz %s: %v", p.QuizID, err)
		return failure(fmt.Errorf("%w: %v", ErrGradingUnavailable, err))
	}

	if models.IsObjective(p.QuizType) && len(graded.AnswerKeyRows) == 0 {
		log.Printf("Grader returned no answer key rows for objective quiz %s", p.QuizID)
	}

	fb := models.Feedback{
		QuizID:              p.QuizID,
		UserID:              p.UserID,
		TotalScore:          graded.TotalScore,
		CategoryScores:      graded.CategoryScores,
		Strengths:           graded.Strengths,
		AreasForImprovement: graded.AreasForImprovement,
		FinalAssessment:     normalizeAssessment(graded.FinalAssessment),
		AnswerKeyRows:       graded.AnswerKeyRows,
		CreatedAt:           time.Now().UTC().Format(time.RFC3339),
	}

	id, err := s.store.SaveFeedback(ctx, p.FeedbackID, fb)
	if err != nil {
		log.Printf("Saving feedback failed for quiz %s: %v", p.QuizID, err)
		return failure(fmt.Errorf("%w: %v", ErrPersistenceFailed, err))
	}

	return CreateFeedbackResult{Success: true, FeedbackID: id}
}

func failure(err error) CreateFeedbackResult {
	return CreateFeedbackResult{Err: err}
}

// normalizeAssessment forces a line break after every period so the
// period-terminated answer-key entries land on their own lines. Crude, but the
// output format depends on it staying exactly this.
func normalizeAssessment(finalAssessment string) string {
	return strings.ReplaceAll(finalAssessment, ".", ".\n")
}

// buildFeedbackPrompt renders the transcript and the fixed rule set the grader
// scores against. The answer-key delimiter format here is load-bearing: the
// legacy parser in answerkey.go matches it verbatim.
func buildFeedbackPrompt(quizType string, transcript []models.TranscriptEntry) string {
	if quizType == "" {
		quizType = "unknown"
	}

	var formatted strings.Builder
	for _, entry := range transcript {
		formatted.WriteString(fmt.Sprintf("- %s: %s\n", entry.Role, entry.Content))
	}

	return fmt.Sprintf(`You are an AI evaluator analyzing a voice-based quiz session on Knovo.

Quiz Type: %s
Transcript:
%s

Evaluation Rules:
1. The total score is 100.
2. Score should be equally divided among all questions.
3. For each question:
   - If quiz type is "true/false" or "multiple choice":
     - Evaluate based on correctness and response speed.
     - Deduct marks for delays, hesitations, or wrong answers.
     - Fill other sections with N/A.
   - If quiz type is "verbal answer":
     - Evaluate based on fluency, articulation, and correctness.
     - Partial scores are allowed.
     - Fill other sections with N/A and give score in them as '0'.
4. Provide:
   - A category-wise breakdown across Speed, Accuracy, Fluency and Articulation
   - List of user strengths
   - List of areas for improvement (if the user was perfect, say "None")
   - A final summary assessment. For verbal answers summarize the performance.
     For multiple choice and true/false, show the Answer Key (all correct
     answers) and compare it with the user's answers.

FORMATTING REQUIREMENTS FOR MCQ/TRUE-FALSE:
=============================================
When displaying the Answer Key & Results inside finalAssessment, use this EXACT format:

Question 1: [question text].
✓ Correct Answer: [correct option/answer].
Your Answer: [user's response] - Correct|Incorrect|Skipped .

Question 2: [question text].
✓ Correct Answer: [correct option/answer].
Your Answer: [user's response] - Correct|Incorrect|Skipped .

Continue this format for ALL questions. Leave one blank line between question
entries and keep the trailing space after each terminating period.

Required Output Format (JSON):
{
  "totalScore": number,
  "categoryScores": [
    {"name": "Speed", "score": number, "comment": "text"},
    {"name": "Accuracy", "score": number, "comment": "text"},
    {"name": "Fluency", "score": number, "comment": "text"},
    {"name": "Articulation", "score": number, "comment": "text"}
  ],
  "strengths": ["text"],
  "areasForImprovement": ["text"],
  "finalAssessment": "text",
  "answerKeyRows": [
    {"question": "text", "correctAnswer": "text", "userAnswer": "text", "status": "Correct|Incorrect|Skipped"}
  ]
}

For verbal answer quizzes, answerKeyRows must be an empty array.
Provide ONLY the JSON output without any additional text.`, quizType, formatted.String())
}
