package domain

import (
	"context"
	"errors"
)

// Common errors
var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrCategoryNotFound = errors.New("category not found")
)

// Category represents a labeled grouping of questions
type Category struct {
	ID   int    `json:"id"`
	Type string `json:"type"`
}

// Question represents a trivia question. Nullable columns are pointers so
// rows created with missing fields round-trip as JSON null.
type Question struct {
	ID         int     `json:"id"`
	Question   *string `json:"question"`
	Answer     *string `json:"answer"`
	Category   *int    `json:"category"`
	Difficulty *int    `json:"difficulty"`
}

// InCategory reports whether the question belongs to the given category
func (q Question) InCategory(categoryID int) bool {
	return q.Category != nil && *q.Category == categoryID
}

// NewQuestion holds the caller-supplied fields of a question to insert
type NewQuestion struct {
	Question   *string `json:"question"`
	Answer     *string `json:"answer"`
	Category   *int    `json:"category"`
	Difficulty *int    `json:"difficulty"`
}

// CategoryRepository defines the interface for category lookups
type CategoryRepository interface {
	// ListCategories retrieves every category
	ListCategories(ctx context.Context) ([]Category, error)

	// GetCategory retrieves a category by its ID
	GetCategory(ctx context.Context, id int) (*Category, error)
}

// QuestionRepository defines the interface for question-related operations.
// List results carry no ordering guarantee.
type QuestionRepository interface {
	// ListQuestions retrieves every question
	ListQuestions(ctx context.Context) ([]Question, error)

	// GetQuestion retrieves a question by its ID
	GetQuestion(ctx context.Context, id int) (*Question, error)

	// QuestionsByCategory retrieves the questions of one category
	QuestionsByCategory(ctx context.Context, categoryID int) ([]Question, error)

	// SearchQuestions retrieves questions whose text contains term, ignoring case
	SearchQuestions(ctx context.Context, term string) ([]Question, error)

	// CreateQuestion inserts a question and returns its new ID
	CreateQuestion(ctx context.Context, question NewQuestion) (int, error)

	// DeleteQuestion deletes a question
	DeleteQuestion(ctx context.Context, id int) error
}

// Store is the full data-access contract consumed by the service layer
type Store interface {
	CategoryRepository
	QuestionRepository
}

// DefaultCategories are seeded into an empty category table
var DefaultCategories = []Category{
	{ID: 1, Type: "Science"},
	{ID: 2, Type: "Art"},
	{ID: 3, Type: "Geography"},
	{ID: 4, Type: "History"},
	{ID: 5, Type: "Entertainment"},
	{ID: 6, Type: "Sports"},
}
