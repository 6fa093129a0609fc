package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"sync"

	"github.com/zizouhuweidi/trivia/internal/domain"
)

// AllCategories selects every question as the quiz pool
const AllCategories = 0

// QuestionPage is one paginated window of questions and the size of the
// collection it was cut from
type QuestionPage struct {
	Questions      []domain.Question
	TotalQuestions int
}

// TriviaService applies pagination and quiz selection on top of the store
type TriviaService struct {
	categories domain.CategoryRepository
	questions  domain.QuestionRepository

	mu  sync.Mutex
	rng *rand.Rand
}

// NewTriviaService creates a new trivia service. rng drives quiz selection
// and may be seeded for deterministic tests.
func NewTriviaService(categories domain.CategoryRepository, questions domain.QuestionRepository, rng *rand.Rand) *TriviaService {
	return &TriviaService{
		categories: categories,
		questions:  questions,
		rng:        rng,
	}
}

// Categories returns every category as an id to type mapping
func (s *TriviaService) Categories(ctx context.Context) (map[int]string, error) {
	categories, err := s.categoryTypes(ctx)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return nil, fmt.Errorf("no categories: %w", ErrNotFound)
	}
	return categories, nil
}

// ListQuestions returns one page of all questions together with the category
// mapping. A page outside the data is ErrNotFound.
func (s *TriviaService) ListQuestions(ctx context.Context, page int) (QuestionPage, map[int]string, error) {
	result, err := s.allQuestions(ctx, page)
	if err != nil {
		return QuestionPage{}, nil, err
	}
	if len(result.Questions) == 0 {
		return QuestionPage{}, nil, fmt.Errorf("page %d: %w", page, ErrNotFound)
	}

	categories, err := s.categoryTypes(ctx)
	if err != nil {
		return QuestionPage{}, nil, err
	}

	return result, categories, nil
}

// DeleteQuestion removes a question and returns the requested page of what remains
func (s *TriviaService) DeleteQuestion(ctx context.Context, id int, page int) (QuestionPage, error) {
	if _, err := s.questions.GetQuestion(ctx, id); err != nil {
		return QuestionPage{}, notFound(err)
	}

	if err := s.questions.DeleteQuestion(ctx, id); err != nil {
		return QuestionPage{}, notFound(err)
	}

	return s.allQuestions(ctx, page)
}

// CreateQuestion stores a new question and returns its ID with the requested
// page of all questions
func (s *TriviaService) CreateQuestion(ctx context.Context, question domain.NewQuestion, page int) (int, QuestionPage, error) {
	id, err := s.questions.CreateQuestion(ctx, question)
	if err != nil {
		return 0, QuestionPage{}, err
	}

	result, err := s.allQuestions(ctx, page)
	if err != nil {
		return 0, QuestionPage{}, err
	}
	return id, result, nil
}

// SearchQuestions returns every question containing term, in ID order
func (s *TriviaService) SearchQuestions(ctx context.Context, term string) ([]domain.Question, error) {
	questions, err := s.questions.SearchQuestions(ctx, term)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("search %q: %w", term, ErrNotFound)
	}
	sortByID(questions)
	return questions, nil
}

// CategoryQuestions returns one page of the questions in a category. The
// total counts the whole category.
func (s *TriviaService) CategoryQuestions(ctx context.Context, categoryID int, page int) (QuestionPage, error) {
	category, err := s.categories.GetCategory(ctx, categoryID)
	if err != nil {
		return QuestionPage{}, notFound(err)
	}

	questions, err := s.questions.QuestionsByCategory(ctx, category.ID)
	if err != nil {
		return QuestionPage{}, err
	}
	sortByID(questions)

	return QuestionPage{
		Questions:      Paginate(questions, page),
		TotalQuestions: len(questions),
	}, nil
}

// NextQuizQuestion picks a random question from the category pool that is
// not in previous. AllCategories draws from every question. An empty pool is
// ErrNotFound; a pool exhausted by previous yields a nil question.
func (s *TriviaService) NextQuizQuestion(ctx context.Context, categoryID int, previous []int) (*domain.Question, error) {
	var (
		pool []domain.Question
		err  error
	)
	if categoryID == AllCategories {
		pool, err = s.questions.ListQuestions(ctx)
	} else {
		pool, err = s.questions.QuestionsByCategory(ctx, categoryID)
	}
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("quiz category %d: %w", categoryID, ErrNotFound)
	}

	if len(previous) > 0 {
		pool = slices.DeleteFunc(pool, func(q domain.Question) bool {
			return slices.Contains(previous, q.ID)
		})
	}
	if len(pool) == 0 {
		return nil, nil
	}

	// Sorting first makes a seeded source reproducible regardless of store order
	sortByID(pool)
	question := pool[s.intn(len(pool))]
	return &question, nil
}

func (s *TriviaService) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

func (s *TriviaService) allQuestions(ctx context.Context, page int) (QuestionPage, error) {
	questions, err := s.questions.ListQuestions(ctx)
	if err != nil {
		return QuestionPage{}, err
	}
	sortByID(questions)

	return QuestionPage{
		Questions:      Paginate(questions, page),
		TotalQuestions: len(questions),
	}, nil
}

func (s *TriviaService) categoryTypes(ctx context.Context) (map[int]string, error) {
	categories, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	types := make(map[int]string, len(categories))
	for _, c := range categories {
		types[c.ID] = c.Type
	}
	return types, nil
}

func notFound(err error) error {
	if errors.Is(err, domain.ErrQuestionNotFound) || errors.Is(err, domain.ErrCategoryNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}

func sortByID(questions []domain.Question) {
	slices.SortFunc(questions, func(a, b domain.Question) int {
		return cmp.Compare(a.ID, b.ID)
	})
}
