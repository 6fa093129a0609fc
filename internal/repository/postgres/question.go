package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zizouhuweidi/trivia/internal/domain"
	"github.com/zizouhuweidi/trivia/internal/repository"
)

const questionColumns = `id, question, answer, category, difficulty`

// QuestionRepository implements the domain.QuestionRepository interface
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new question repository
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{
		pool: pool,
	}
}

// ListQuestions retrieves every question
func (r *QuestionRepository) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	return r.query(ctx, `SELECT `+questionColumns+` FROM questions`)
}

// QuestionsByCategory retrieves the questions of one category
func (r *QuestionRepository) QuestionsByCategory(ctx context.Context, categoryID int) ([]domain.Question, error) {
	return r.query(ctx, `
		SELECT `+questionColumns+`
		FROM questions
		WHERE category = $1
	`, categoryID)
}

// SearchQuestions retrieves questions whose text contains term, ignoring case
func (r *QuestionRepository) SearchQuestions(ctx context.Context, term string) ([]domain.Question, error) {
	return r.query(ctx, `
		SELECT `+questionColumns+`
		FROM questions
		WHERE LOWER(question) LIKE $1 ESCAPE '`+repository.LikeEscape+`'
	`, repository.ContainsPattern(term))
}

// GetQuestion retrieves a question by its ID
func (r *QuestionRepository) GetQuestion(ctx context.Context, id int) (*domain.Question, error) {
	var question domain.Question
	err := r.pool.QueryRow(ctx, `
		SELECT `+questionColumns+`
		FROM questions
		WHERE id = $1
	`, id).Scan(
		&question.ID,
		&question.Question,
		&question.Answer,
		&question.Category,
		&question.Difficulty,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return &question, nil
}

// CreateQuestion inserts a question and returns its new ID
func (r *QuestionRepository) CreateQuestion(ctx context.Context, question domain.NewQuestion) (int, error) {
	var id int
	err := r.pool.QueryRow(ctx, `
		INSERT INTO questions (question, answer, category, difficulty)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`,
		question.Question,
		question.Answer,
		question.Category,
		question.Difficulty,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create question: %w", err)
	}
	return id, nil
}

// DeleteQuestion deletes a question
func (r *QuestionRepository) DeleteQuestion(ctx context.Context, id int) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

func (r *QuestionRepository) query(ctx context.Context, sql string, args ...any) ([]domain.Question, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var question domain.Question
		if err := rows.Scan(
			&question.ID,
			&question.Question,
			&question.Answer,
			&question.Category,
			&question.Difficulty,
		); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, question)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating questions: %w", err)
	}

	return questions, nil
}

// Store combines the category and question repositories over one pool
type Store struct {
	*CategoryRepository
	*QuestionRepository
}

// NewStore creates a store backed by pool
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		CategoryRepository: NewCategoryRepository(pool),
		QuestionRepository: NewQuestionRepository(pool),
	}
}
