package services

import (
	"regexp"
	"strings"

	"knovo/models"
)

// Legacy decoder for the "Answer Key & Results" convention embedded in a
// feedback's finalAssessment text. New records carry structured answerKeyRows
// straight from the grader; this parser only serves records written before
// that field existed, and it is best-effort by design.

// defaultUserAnswer replaces an empty captured user answer.
const defaultUserAnswer = "No response"

// answerKeyPattern matches a complete entry in one pass: question, correct
// answer, user answer and status on a single run of text. It deliberately does
// not cross newlines; text that was line-wrapped falls through to the line
// scanner.
var answerKeyPattern = regexp.MustCompile(
	`(?i)question\s*\d+:\s*(.*?)✓?\s*correct answer:\s*(.*?)your answer:\s*(.*?)\s*-\s*(correct|incorrect|skipped)`)

var (
	questionLinePattern  = regexp.MustCompile(`(?i)^\s*question\s*\d+:\s*(.*)$`)
	correctAnswerPattern = regexp.MustCompile(`(?i)correct answer:\s*(.*)$`)
	userAnswerPattern    = regexp.MustCompile(`(?i)your answer:\s*(.*?)\s*-\s*(correct|incorrect|skipped)`)
)

// ParseAnswerKeyResults recovers the per-question comparison from a feedback's
// finalAssessment. Returns no rows when the text is not an answer key; callers
// render such text as free-form prose instead. Pure and idempotent.
func ParseAnswerKeyResults(finalAssessment string) []models.AnswerKeyRow {
	lower := strings.ToLower(finalAssessment)
	if !strings.Contains(lower, "question") || !strings.Contains(lower, "correct answer") {
		return nil
	}

	if rows := parseSinglePass(finalAssessment); len(rows) > 0 {
		return rows
	}
	return parseLineScan(finalAssessment)
}

// parseSinglePass collects every non-overlapping match of the full entry
// pattern, in appearance order.
func parseSinglePass(text string) []models.AnswerKeyRow {
	var rows []models.AnswerKeyRow
	for _, match := range answerKeyPattern.FindAllStringSubmatch(text, -1) {
		rows = appendRow(rows, match[1], match[2], match[3], canonicalStatus(match[4]))
	}
	return rows
}

// parseLineScan walks the text line by line, accumulating one question block
// at a time. A block is only emitted once both its question and correct
// answer were seen; incomplete blocks are dropped silently rather than
// rendered as garbage rows.
func parseLineScan(text string) []models.AnswerKeyRow {
	var rows []models.AnswerKeyRow

	var question, correctAnswer, userAnswer string
	status := models.StatusSkipped

	for _, line := range strings.Split(text, "\n") {
		if match := questionLinePattern.FindStringSubmatch(line); match != nil {
			rows = appendRow(rows, question, correctAnswer, userAnswer, status)
			question = match[1]
			correctAnswer = ""
			userAnswer = ""
			status = models.StatusSkipped
			continue
		}

		if match := correctAnswerPattern.FindStringSubmatch(line); match != nil {
			correctAnswer = match[1]
			continue
		}

		if match := userAnswerPattern.FindStringSubmatch(line); match != nil {
			userAnswer = match[1]
			status = canonicalStatus(match[2])
		}
	}

	return appendRow(rows, question, correctAnswer, userAnswer, status)
}

// appendRow trims the captured fields and emits a row only when both the
// question and correct answer are present. An empty user answer becomes the
// "No response" sentinel.
func appendRow(rows []models.AnswerKeyRow, question, correctAnswer, userAnswer, status string) []models.AnswerKeyRow {
	question = strings.TrimSpace(question)
	correctAnswer = strings.TrimSpace(correctAnswer)
	if question == "" || correctAnswer == "" {
		return rows
	}

	userAnswer = strings.TrimSpace(userAnswer)
	if userAnswer == "" {
		userAnswer = defaultUserAnswer
	}

	return append(rows, models.AnswerKeyRow{
		Question:      question,
		CorrectAnswer: correctAnswer,
		UserAnswer:    userAnswer,
		Status:        status,
	})
}

func canonicalStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "correct":
		return models.StatusCorrect
	case "incorrect":
		return models.StatusIncorrect
	default:
		return models.StatusSkipped
	}
}
