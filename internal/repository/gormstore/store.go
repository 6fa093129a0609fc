// Package gormstore implements the trivia store on gorm. It backs the
// embedded sqlite mode and the router tests.
package gormstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/zizouhuweidi/trivia/internal/domain"
	"github.com/zizouhuweidi/trivia/internal/repository"
)

type category struct {
	ID   int    `gorm:"primaryKey"`
	Type string `gorm:"not null"`
}

func (category) TableName() string { return "categories" }

type question struct {
	ID         int `gorm:"primaryKey"`
	Question   *string
	Answer     *string
	Category   *int `gorm:"index"`
	Difficulty *int
}

func (question) TableName() string { return "questions" }

func (q question) toDomain() domain.Question {
	return domain.Question{
		ID:         q.ID,
		Question:   q.Question,
		Answer:     q.Answer,
		Category:   q.Category,
		Difficulty: q.Difficulty,
	}
}

// Store implements domain.Store on a gorm connection
type Store struct {
	db *gorm.DB
}

// New wraps an existing gorm connection
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// OpenSQLite opens a sqlite database at path. ":memory:" gives a private
// in-memory database.
func OpenSQLite(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sqlite handle: %w", err)
	}
	// sqlite serialises writers; every connection to :memory: is a new database
	sqlDB.SetMaxOpenConns(1)

	return New(db), nil
}

// Close releases the underlying connection pool
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// CreateSchema creates or updates the tables without seeding them
func (s *Store) CreateSchema(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&category{}, &question{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Migrate creates the tables and seeds the default categories when none exist
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.CreateSchema(ctx); err != nil {
		return err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&category{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	return s.AddCategories(ctx, domain.DefaultCategories)
}

// AddCategories inserts reference categories
func (s *Store) AddCategories(ctx context.Context, categories []domain.Category) error {
	if len(categories) == 0 {
		return nil
	}
	rows := make([]category, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, category{ID: c.ID, Type: c.Type})
	}
	if err := s.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to create categories: %w", err)
	}
	return nil
}

// ListCategories retrieves every category
func (s *Store) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var rows []category
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	categories := make([]domain.Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, domain.Category{ID: row.ID, Type: row.Type})
	}
	return categories, nil
}

// GetCategory retrieves a category by its ID
func (s *Store) GetCategory(ctx context.Context, id int) (*domain.Category, error) {
	var row category
	if err := s.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &domain.Category{ID: row.ID, Type: row.Type}, nil
}

// ListQuestions retrieves every question
func (s *Store) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	return s.find(s.db.WithContext(ctx))
}

// QuestionsByCategory retrieves the questions of one category
func (s *Store) QuestionsByCategory(ctx context.Context, categoryID int) ([]domain.Question, error) {
	return s.find(s.db.WithContext(ctx).Where("category = ?", categoryID))
}

// SearchQuestions retrieves questions whose text contains term, ignoring case.
// sqlite's LOWER only folds ASCII, so matching happens here rather than in SQL.
func (s *Store) SearchQuestions(ctx context.Context, term string) ([]domain.Question, error) {
	candidates, err := s.find(s.db.WithContext(ctx).Where("question IS NOT NULL").Order("id"))
	if err != nil {
		return nil, err
	}

	questions := make([]domain.Question, 0, len(candidates))
	for _, q := range candidates {
		if repository.ContainsFold(*q.Question, term) {
			questions = append(questions, q)
		}
	}
	return questions, nil
}

// GetQuestion retrieves a question by its ID
func (s *Store) GetQuestion(ctx context.Context, id int) (*domain.Question, error) {
	var row question
	if err := s.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	q := row.toDomain()
	return &q, nil
}

// CreateQuestion inserts a question and returns its new ID
func (s *Store) CreateQuestion(ctx context.Context, q domain.NewQuestion) (int, error) {
	row := question{
		Question:   q.Question,
		Answer:     q.Answer,
		Category:   q.Category,
		Difficulty: q.Difficulty,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, fmt.Errorf("failed to create question: %w", err)
	}
	return row.ID, nil
}

// DeleteQuestion deletes a question
func (s *Store) DeleteQuestion(ctx context.Context, id int) error {
	result := s.db.WithContext(ctx).Delete(&question{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete question: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

func (s *Store) find(db *gorm.DB) ([]domain.Question, error) {
	var rows []question
	if err := db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}
	questions := make([]domain.Question, 0, len(rows))
	for _, row := range rows {
		questions = append(questions, row.toDomain())
	}
	return questions, nil
}
