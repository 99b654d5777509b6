package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/veritasedu/veritas/internal/app/exam"
	"github.com/veritasedu/veritas/internal/app/models"
	"github.com/veritasedu/veritas/internal/app/repositories"
	"github.com/veritasedu/veritas/internal/pkg/apperrors"
	"github.com/veritasedu/veritas/internal/pkg/logger"
)

// MaxViolations is the focus-loss count that terminates an exam with a
// zeroed score.
const MaxViolations = 3

// sessionTTL bounds how long an unfinished session is kept in memory.
const sessionTTL = 2 * time.Hour

// QuestionGenerator is the external question-generation collaborator. A
// failure aborts the current exam-start attempt; there is no automatic
// retry.
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, params models.GenerationParams) ([]models.Question, error)
}

// DisplayQuestion is the student-facing view of a shuffled question: no
// correct index, no explanation.
type DisplayQuestion struct {
	ID      int      `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// StartedExam is the response to a successful exam start.
type StartedExam struct {
	SessionID string            `json:"sessionId"`
	Questions []DisplayQuestion `json:"questions"`
}

// SubmitOutcome is the graded, persisted outcome of an exam session.
type SubmitOutcome struct {
	Report     *exam.GradeReport    `json:"report"`
	Result     models.StudentResult `json:"result"`
	Terminated bool                 `json:"terminated"`
}

// ExamService drives the exam session lifecycle: start (generate+shuffle),
// violation tracking, and submission (grade+persist).
type ExamService interface {
	Start(ctx context.Context, cfg models.ExamConfig) (*StartedExam, error)
	RecordViolation(ctx context.Context, sessionID string) (int, *SubmitOutcome, error)
	Submit(ctx context.Context, sessionID string, answers map[int]int) (*SubmitOutcome, error)
}

// session holds the per-sitting state, including the position map. It lives
// only in memory for the lifetime of the sitting.
type session struct {
	id         string
	config     models.ExamConfig
	exam       *exam.ShuffledExam
	violations int
	createdAt  time.Time
}

// examServiceImpl implements the ExamService interface
type examServiceImpl struct {
	configRepo *repositories.ConfigRepository
	resultRepo *repositories.ResultRepository
	generator  QuestionGenerator
	engine     *exam.Engine

	mu       sync.Mutex
	sessions map[string]*session
}

// NewExamService creates a new exam service instance
func NewExamService(
	configRepo *repositories.ConfigRepository,
	resultRepo *repositories.ResultRepository,
	generator QuestionGenerator,
	engine *exam.Engine,
) ExamService {
	return &examServiceImpl{
		configRepo: configRepo,
		resultRepo: resultRepo,
		generator:  generator,
		engine:     engine,
		sessions:   make(map[string]*session),
	}
}

// Start generates a fresh question set, shuffles it and opens a session.
func (s *examServiceImpl) Start(ctx context.Context, cfg models.ExamConfig) (*StartedExam, error) {
	if !models.ValidSubject(cfg.Subject) {
		return nil, fmt.Errorf("%w: unknown subject %q", apperrors.ErrValidationFailed, cfg.Subject)
	}
	if !models.ValidBimester(cfg.Bimester) {
		return nil, fmt.Errorf("%w: unknown bimester %q", apperrors.ErrValidationFailed, cfg.Bimester)
	}

	// Topics come from the teacher config when one is active; a missing
	// config falls back to the standard curriculum for the bimester.
	topics := ""
	teacherCfg, err := s.configRepo.Get(ctx, cfg.Subject, cfg.Bimester)
	switch {
	case err == nil:
		if teacherCfg.IsActive {
			topics = teacherCfg.Topics
		}
	case errors.Is(err, apperrors.ErrConfigNotFound):
		// standard curriculum
	default:
		return nil, fmt.Errorf("error loading teacher config: %w", err)
	}

	questions, err := s.generator.GenerateQuestions(ctx, models.GenerationParams{
		Subject:    cfg.Subject,
		Bimester:   cfg.Bimester,
		Difficulty: cfg.Difficulty,
		Topics:     topics,
	})
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: generator returned no questions", apperrors.ErrNoQuestions)
	}

	shuffled, err := s.engine.Shuffle(questions)
	if err != nil {
		return nil, err
	}

	sess := &session{
		id:        uuid.New().String(),
		config:    cfg,
		exam:      shuffled,
		createdAt: time.Now(),
	}

	s.mu.Lock()
	s.pruneExpiredLocked()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	display := make([]DisplayQuestion, 0, len(shuffled.Questions))
	for _, q := range shuffled.Questions {
		display = append(display, DisplayQuestion{ID: q.ID, Text: q.Text, Options: q.Options})
	}

	logger.Info().
		Str("sessionId", sess.id).
		Str("subject", string(cfg.Subject)).
		Str("bimester", string(cfg.Bimester)).
		Int("questions", len(display)).
		Msg("Exam session started")

	return &StartedExam{SessionID: sess.id, Questions: display}, nil
}

// RecordViolation counts one focus-loss event. Reaching MaxViolations
// terminates the session: the score is forced to zero and a result is
// appended immediately, with the violation count preserved so the zeroed
// score stays distinguishable from a legitimately failed exam.
func (s *examServiceImpl) RecordViolation(ctx context.Context, sessionID string) (int, *SubmitOutcome, error) {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return 0, nil, apperrors.ErrSessionNotFound
	}
	sess.violations++
	violations := sess.violations
	terminate := violations >= MaxViolations
	if terminate {
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()

	if !terminate {
		return violations, nil, nil
	}

	logger.Warn().Str("sessionId", sessionID).Int("violations", violations).Msg("Exam terminated by anti-cheat rule")

	result := s.buildResult(sess, 0)
	if err := s.resultRepo.Append(ctx, result); err != nil {
		return violations, nil, fmt.Errorf("error persisting terminated exam result: %w", err)
	}

	report, err := sess.exam.Grade(nil)
	if err != nil {
		return violations, nil, err
	}

	return violations, &SubmitOutcome{Report: report, Result: result, Terminated: true}, nil
}

// Submit grades the answers, persists the result and closes the session.
func (s *examServiceImpl) Submit(ctx context.Context, sessionID string, answers map[int]int) (*SubmitOutcome, error) {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if ok {
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()

	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}

	report, err := sess.exam.Grade(answers)
	if err != nil {
		return nil, err
	}

	result := s.buildResult(sess, report.Score)
	if err := s.resultRepo.Append(ctx, result); err != nil {
		return nil, fmt.Errorf("error persisting exam result: %w", err)
	}

	logger.Info().
		Str("sessionId", sessionID).
		Float64("score", report.Score).
		Int("violations", sess.violations).
		Msg("Exam submitted")

	return &SubmitOutcome{Report: report, Result: result}, nil
}

func (s *examServiceImpl) buildResult(sess *session, score float64) models.StudentResult {
	return models.StudentResult{
		ID:           uuid.New().String(),
		StudentName:  sess.config.StudentName,
		StudentClass: sess.config.StudentClass,
		Subject:      sess.config.Subject,
		Bimester:     sess.config.Bimester,
		Score:        score,
		Date:         time.Now().UTC().Format(time.RFC3339),
		Violations:   sess.violations,
	}
}

// pruneExpiredLocked drops abandoned sessions. Caller holds s.mu.
func (s *examServiceImpl) pruneExpiredLocked() {
	cutoff := time.Now().Add(-sessionTTL)
	for id, sess := range s.sessions {
		if sess.createdAt.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}
