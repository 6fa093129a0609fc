package gormstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/zizouhuweidi/trivia/internal/domain"
)

type StoreTestSuite struct {
	suite.Suite
	store *Store
	ctx   context.Context
}

func (s *StoreTestSuite) SetupTest() {
	store, err := OpenSQLite(":memory:")
	s.Require().NoError(err)
	s.store = store
	s.ctx = context.Background()
	s.Require().NoError(s.store.Migrate(s.ctx))
}

func (s *StoreTestSuite) TearDownTest() {
	s.NoError(s.store.Close())
}

func (s *StoreTestSuite) create(text string, categoryID int) int {
	difficulty := 1
	id, err := s.store.CreateQuestion(s.ctx, domain.NewQuestion{
		Question:   &text,
		Answer:     &text,
		Category:   &categoryID,
		Difficulty: &difficulty,
	})
	s.Require().NoError(err)
	return id
}

func (s *StoreTestSuite) TestMigrateSeedsCategoriesOnce() {
	s.Require().NoError(s.store.Migrate(s.ctx))

	categories, err := s.store.ListCategories(s.ctx)
	s.Require().NoError(err)
	s.Equal(domain.DefaultCategories, categories)
}

func (s *StoreTestSuite) TestGetCategory() {
	category, err := s.store.GetCategory(s.ctx, 3)
	s.Require().NoError(err)
	s.Equal("Geography", category.Type)

	_, err = s.store.GetCategory(s.ctx, 99)
	s.ErrorIs(err, domain.ErrCategoryNotFound)
}

func (s *StoreTestSuite) TestCreateGetDelete() {
	id := s.create("Who painted the Mona Lisa?", 2)

	q, err := s.store.GetQuestion(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("Who painted the Mona Lisa?", *q.Question)
	s.True(q.InCategory(2))

	s.Require().NoError(s.store.DeleteQuestion(s.ctx, id))

	_, err = s.store.GetQuestion(s.ctx, id)
	s.ErrorIs(err, domain.ErrQuestionNotFound)
	s.ErrorIs(s.store.DeleteQuestion(s.ctx, id), domain.ErrQuestionNotFound)
}

func (s *StoreTestSuite) TestCreateWithMissingFieldsStoresNulls() {
	id, err := s.store.CreateQuestion(s.ctx, domain.NewQuestion{})
	s.Require().NoError(err)

	q, err := s.store.GetQuestion(s.ctx, id)
	s.Require().NoError(err)
	s.Nil(q.Question)
	s.Nil(q.Answer)
	s.Nil(q.Category)
	s.Nil(q.Difficulty)
}

func (s *StoreTestSuite) TestQuestionsByCategory() {
	a := s.create("What is H2O?", 1)
	s.create("Who won the 1966 World Cup?", 6)
	b := s.create("What is the speed of light?", 1)

	questions, err := s.store.QuestionsByCategory(s.ctx, 1)
	s.Require().NoError(err)
	s.ElementsMatch([]int{a, b}, ids(questions))

	questions, err = s.store.QuestionsByCategory(s.ctx, 4)
	s.Require().NoError(err)
	s.Empty(questions)
}

func (s *StoreTestSuite) TestSearchIsCaseInsensitiveSubstring() {
	apple := s.create("Which company makes the Apple Watch?", 5)
	s.create("What is the capital of France?", 3)
	literal := s.create("Is 100% of a pie the whole pie?", 1)
	ecole := s.create("Who designed the École Militaire?", 4)
	_, err := s.store.CreateQuestion(s.ctx, domain.NewQuestion{})
	s.Require().NoError(err)

	found, err := s.store.SearchQuestions(s.ctx, "apple")
	s.Require().NoError(err)
	s.Equal([]int{apple}, ids(found))

	found, err = s.store.SearchQuestions(s.ctx, "0%")
	s.Require().NoError(err)
	s.Equal([]int{literal}, ids(found))

	found, err = s.store.SearchQuestions(s.ctx, "École")
	s.Require().NoError(err)
	s.Equal([]int{ecole}, ids(found))

	found, err = s.store.SearchQuestions(s.ctx, "ÉCOLE militaire")
	s.Require().NoError(err)
	s.Equal([]int{ecole}, ids(found))

	found, err = s.store.SearchQuestions(s.ctx, "zebra")
	s.Require().NoError(err)
	s.Empty(found)
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func TestAddCategoriesEmpty(t *testing.T) {
	store, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.AddCategories(context.Background(), nil))
}

func ids(questions []domain.Question) []int {
	out := make([]int, 0, len(questions))
	for _, q := range questions {
		out = append(out, q.ID)
	}
	return out
}

func TestCreateSchemaLeavesCategoriesEmpty(t *testing.T) {
	store, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.CreateSchema(ctx))

	categories, err := store.ListCategories(ctx)
	require.NoError(t, err)
	require.Empty(t, categories)
}
