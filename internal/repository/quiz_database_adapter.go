package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"birdsong-quiz/internal/domain"
	"birdsong-quiz/internal/repository/models"
	"birdsong-quiz/internal/util"

	"github.com/jmoiron/sqlx"
)

// QuizDatabaseAdapter implements domain.QuizRepository using sqlx
type QuizDatabaseAdapter struct {
	db DBTX
}

// NewQuizDatabaseAdapter creates a new instance of QuizDatabaseAdapter
func NewQuizDatabaseAdapter(db *sqlx.DB) domain.QuizRepository {
	return &QuizDatabaseAdapter{db: db}
}

// SaveQuiz implements domain.QuizRepository
func (a *QuizDatabaseAdapter) SaveQuiz(ctx context.Context, quiz *domain.Quiz) error {
	modelQuiz := toModelQuiz(quiz)
	if modelQuiz == nil {
		return fmt.Errorf("cannot save nil quiz")
	}
	if modelQuiz.ID == "" {
		modelQuiz.ID = util.NewULID()
	}
	exec := GetExecutor(ctx, a.db)

	query := `INSERT INTO quizzes (
		id, user_id, region_id, difficulty, quiz_mode,
		quiz_length, score, started_at, finished_at
	) VALUES (
		:1, :2, :3, :4, :5, :6, :7, :8, :9
	)`
	_, err := exec.ExecContext(ctx, query,
		modelQuiz.ID,
		modelQuiz.UserID,
		modelQuiz.RegionID,
		modelQuiz.Difficulty,
		modelQuiz.QuizMode,
		modelQuiz.QuizLength,
		modelQuiz.Score,
		modelQuiz.StartedAt,
		modelQuiz.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save quiz: %w", err)
	}
	quiz.ID = modelQuiz.ID

	answerQuery := `INSERT INTO answers (
		id, quiz_id, recording_id, position, user_answer, correct
	) VALUES (
		:1, :2, :3, :4, :5, :6
	)`
	for i, answer := range quiz.Answers {
		answer.QuizID = quiz.ID
		if answer.ID == "" {
			answer.ID = util.NewULID()
		}
		m := toModelAnswer(answer, i)
		_, err := exec.ExecContext(ctx, answerQuery,
			m.ID, m.QuizID, m.RecordingID, m.Position, m.UserAnswer, m.Correct)
		if err != nil {
			return fmt.Errorf("failed to save answer %d of quiz %s: %w", i, quiz.ID, err)
		}
	}
	return nil
}

// GetQuizByID implements domain.QuizRepository
func (a *QuizDatabaseAdapter) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	var modelQuiz models.Quiz
	query := `SELECT
		id, user_id, region_id, difficulty, quiz_mode,
		quiz_length, score, started_at, finished_at
	FROM quizzes
	WHERE id = :1`

	err := GetExecutor(ctx, a.db).GetContext(ctx, &modelQuiz, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz by ID %s: %w", id, err)
	}
	return toDomainQuiz(&modelQuiz), nil
}

// ListAnswerDetails implements domain.QuizRepository
func (a *QuizDatabaseAdapter) ListAnswerDetails(ctx context.Context, quizID string) ([]*domain.AnswerDetail, error) {
	query := `SELECT
		a.id, a.quiz_id, a.recording_id, a.user_answer, a.correct,
		r.species_id, r.audio, r.audio_url, r.url,
		s.scientific_name, s.name_en, s.name_fi
	FROM answers a
	LEFT JOIN recordings r ON r.id = a.recording_id
	LEFT JOIN species s ON s.id = r.species_id
	WHERE a.quiz_id = :1
	ORDER BY a.position`

	var rows []models.AnswerDetail
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query, quizID); err != nil {
		return nil, fmt.Errorf("failed to list answers of quiz %s: %w", quizID, err)
	}
	details := make([]*domain.AnswerDetail, 0, len(rows))
	for i := range rows {
		details = append(details, toDomainAnswerDetail(&rows[i]))
	}
	return details, nil
}

// ListQuizIDs implements domain.QuizRepository
func (a *QuizDatabaseAdapter) ListQuizIDs(ctx context.Context) ([]string, error) {
	var ids []string
	query := `SELECT id FROM quizzes WHERE finished_at IS NOT NULL ORDER BY started_at, id`
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &ids, query); err != nil {
		return nil, fmt.Errorf("failed to list quiz ids: %w", err)
	}
	return ids, nil
}

// UpdateAnswerCorrectness implements domain.QuizRepository
func (a *QuizDatabaseAdapter) UpdateAnswerCorrectness(ctx context.Context, answerID string, correct bool) error {
	query := `UPDATE answers SET correct = :1 WHERE id = :2`
	result, err := GetExecutor(ctx, a.db).ExecContext(ctx, query, util.BoolToNumber(correct), answerID)
	if err != nil {
		return fmt.Errorf("failed to update answer %s: %w", answerID, err)
	}
	return expectOneRow(result, "answer", answerID)
}

// UpdateScore implements domain.QuizRepository
func (a *QuizDatabaseAdapter) UpdateScore(ctx context.Context, quizID string, score int) error {
	query := `UPDATE quizzes SET score = :1 WHERE id = :2`
	result, err := GetExecutor(ctx, a.db).ExecContext(ctx, query, score, quizID)
	if err != nil {
		return fmt.Errorf("failed to update score of quiz %s: %w", quizID, err)
	}
	return expectOneRow(result, "quiz", quizID)
}

func expectOneRow(result sql.Result, kind, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s with ID %s not found or not updated", kind, id)
	}
	return nil
}
