package exam

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/veritasedu/veritas/internal/app/models"
	"github.com/veritasedu/veritas/internal/pkg/apperrors"
)

// NoSelection marks an unanswered question.
const NoSelection = -1

// Engine produces the per-exam-instance double shuffle: question order and,
// independently per question, option order. Two students sitting the same
// configuration get different visual orderings, so sharing answers by letter
// position stops working.
type Engine struct {
	rng *rand.Rand
}

// NewEngine returns an engine with a time-seeded source.
func NewEngine() *Engine {
	return NewEngineWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewEngineWithSource returns an engine with the given source, so shuffles
// are reproducible under test.
func NewEngineWithSource(src rand.Source) *Engine {
	return &Engine{rng: rand.New(src)}
}

// ShuffledExam is the student-facing presentation of a canonical question
// set plus the reversible mapping back to canonical indices. PositionMap
// lives only for the exam session; it is never persisted.
type ShuffledExam struct {
	// Questions are in presentation order with reordered options. The
	// CorrectIndex field still refers to the canonical option list; grading
	// goes through PositionMap, never through the displayed order.
	Questions []models.Question
	// PositionMap[questionID][visualPosition] = original option index.
	PositionMap map[int][]int
}

// Shuffle applies an unbiased permutation to the question order and to each
// question's option order.
func (e *Engine) Shuffle(questions []models.Question) (*ShuffledExam, error) {
	if len(questions) == 0 {
		return nil, apperrors.ErrNoQuestions
	}

	seen := make(map[int]bool, len(questions))
	for _, q := range questions {
		if len(q.Options) != models.OptionCount {
			return nil, fmt.Errorf("%w: question %d has %d options", apperrors.ErrValidationFailed, q.ID, len(q.Options))
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= models.OptionCount {
			return nil, fmt.Errorf("%w: question %d has correct index %d", apperrors.ErrValidationFailed, q.ID, q.CorrectIndex)
		}
		if seen[q.ID] {
			return nil, fmt.Errorf("%w: duplicate question id %d", apperrors.ErrValidationFailed, q.ID)
		}
		seen[q.ID] = true
	}

	shuffled := make([]models.Question, len(questions))
	copy(shuffled, questions)
	e.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	positionMap := make(map[int][]int, len(shuffled))
	for i, q := range shuffled {
		perm := e.rng.Perm(models.OptionCount)
		positionMap[q.ID] = perm

		options := make([]string, models.OptionCount)
		for visual, original := range perm {
			options[visual] = q.Options[original]
		}
		shuffled[i].Options = options
	}

	return &ShuffledExam{Questions: shuffled, PositionMap: positionMap}, nil
}

// QuestionResult is the graded outcome for one question.
type QuestionResult struct {
	QuestionID    int    `json:"questionId"`
	Text          string `json:"text"`
	IsCorrect     bool   `json:"isCorrect"`
	Selected      string `json:"selected,omitempty"`      // displayed text the student picked, empty if unanswered
	CorrectOption string `json:"correctOption"`           // displayed text of the right alternative
	Explanation   string `json:"explanation,omitempty"`
}

// GradeReport is the reconciled outcome of an exam attempt.
type GradeReport struct {
	Score   float64          `json:"score"`
	Correct int              `json:"correct"`
	Total   int              `json:"total"`
	Details []QuestionResult `json:"details"`
}

// Grade reconciles visual selections against canonical indices. answers maps
// question id to the selected visual position; a missing entry (or
// NoSelection) counts as unanswered and is never correct.
func (s *ShuffledExam) Grade(answers map[int]int) (*GradeReport, error) {
	if len(s.Questions) == 0 {
		return nil, apperrors.ErrNoQuestions
	}

	report := &GradeReport{
		Total:   len(s.Questions),
		Details: make([]QuestionResult, 0, len(s.Questions)),
	}

	for _, q := range s.Questions {
		perm := s.PositionMap[q.ID]

		visual, answered := answers[q.ID]
		if visual < 0 || visual >= len(perm) {
			answered = false
		}

		original := NoSelection
		if answered {
			original = perm[visual]
		}

		isCorrect := original == q.CorrectIndex
		if isCorrect {
			report.Correct++
		}

		detail := QuestionResult{
			QuestionID:    q.ID,
			Text:          q.Text,
			IsCorrect:     isCorrect,
			CorrectOption: q.Options[visualOf(perm, q.CorrectIndex)],
			Explanation:   q.Explanation,
		}
		if answered {
			detail.Selected = q.Options[visual]
		}
		report.Details = append(report.Details, detail)
	}

	report.Score = 100 * float64(report.Correct) / float64(report.Total)
	return report, nil
}

// visualOf finds the visual slot whose mapped original index equals target.
func visualOf(perm []int, target int) int {
	for visual, original := range perm {
		if original == target {
			return visual
		}
	}
	return 0
}
