package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/zizouhuweidi/trivia/internal/domain"
	"github.com/zizouhuweidi/trivia/internal/service"
)

// TriviaHandler handles category, question and quiz HTTP requests
type TriviaHandler struct {
	trivia *service.TriviaService
}

// NewTriviaHandler creates a new trivia handler
func NewTriviaHandler(trivia *service.TriviaService) *TriviaHandler {
	return &TriviaHandler{
		trivia: trivia,
	}
}

// Register registers the trivia routes
func (h *TriviaHandler) Register(e *echo.Echo) {
	e.GET("/categories", h.ListCategories)
	e.GET("/categories/:id/questions", h.ListCategoryQuestions)
	e.GET("/questions", h.ListQuestions)
	e.POST("/questions", h.CreateQuestion)
	e.DELETE("/questions/:id", h.DeleteQuestion)
	e.POST("/questions/search", h.SearchQuestions)
	// the static search route would otherwise fall back to /questions/:id
	e.DELETE("/questions/search", methodNotAllowed)
	e.POST("/quizzes", h.PlayQuiz)
}

func methodNotAllowed(c echo.Context) error {
	return echo.ErrMethodNotAllowed
}

// CategoriesResponse lists categories keyed by ID
type CategoriesResponse struct {
	Success    bool           `json:"success"`
	Categories map[int]string `json:"categories"`
}

// QuestionsResponse is one page of all questions
type QuestionsResponse struct {
	Success         bool              `json:"success"`
	Questions       []domain.Question `json:"questions"`
	TotalQuestions  int               `json:"total_questions"`
	Categories      map[int]string    `json:"categories"`
	CurrentCategory *int              `json:"current_category"`
}

// DeleteQuestionResponse reports a deleted question and what remains
type DeleteQuestionResponse struct {
	Success        bool              `json:"success"`
	Deleted        int               `json:"deleted"`
	Questions      []domain.Question `json:"questions"`
	TotalQuestions int               `json:"total_questions"`
}

// CreateQuestionResponse reports a created question
type CreateQuestionResponse struct {
	Success        bool              `json:"success"`
	Created        int               `json:"created"`
	Questions      []domain.Question `json:"questions"`
	TotalQuestions int               `json:"total_questions"`
}

// SearchRequest represents the request body for searching questions
type SearchRequest struct {
	SearchTerm *string `json:"searchTerm" validate:"required"`
}

// SearchResponse lists every matching question
type SearchResponse struct {
	Success         bool              `json:"success"`
	Questions       []domain.Question `json:"questions"`
	CurrentCategory *int              `json:"current_category"`
}

// CategoryQuestionsResponse is one page of a category's questions
type CategoryQuestionsResponse struct {
	Success         bool              `json:"success"`
	Questions       []domain.Question `json:"questions"`
	TotalQuestions  int               `json:"total_questions"`
	CurrentCategory int               `json:"current_category"`
}

// QuizCategory selects the quiz pool. ID 0 means every category.
type QuizCategory struct {
	ID   *int   `json:"id" validate:"required"`
	Type string `json:"type"`
}

// QuizRequest represents the request body for drawing a quiz question
type QuizRequest struct {
	QuizCategory      *QuizCategory `json:"quiz_category" validate:"required"`
	PreviousQuestions []int         `json:"previous_questions"`
}

// QuizResponse carries the drawn question, null once the pool is exhausted
type QuizResponse struct {
	Success  bool             `json:"success"`
	Question *domain.Question `json:"question"`
}

// ListCategories handles listing every category
func (h *TriviaHandler) ListCategories(c echo.Context) error {
	categories, err := h.trivia.Categories(c.Request().Context())
	if err != nil {
		return listOutcome.fail(err)
	}

	return c.JSON(http.StatusOK, CategoriesResponse{
		Success:    true,
		Categories: categories,
	})
}

// ListQuestions handles listing one page of questions
func (h *TriviaHandler) ListQuestions(c echo.Context) error {
	page, categories, err := h.trivia.ListQuestions(c.Request().Context(), queryPage(c))
	if err != nil {
		return listOutcome.fail(err)
	}

	return c.JSON(http.StatusOK, QuestionsResponse{
		Success:         true,
		Questions:       page.Questions,
		TotalQuestions:  page.TotalQuestions,
		Categories:      categories,
		CurrentCategory: nil,
	})
}

// DeleteQuestion handles deleting a question by ID
func (h *TriviaHandler) DeleteQuestion(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound).SetInternal(err)
	}

	page, err := h.trivia.DeleteQuestion(c.Request().Context(), id, queryPage(c))
	if err != nil {
		return deleteOutcome.fail(err)
	}

	return c.JSON(http.StatusOK, DeleteQuestionResponse{
		Success:        true,
		Deleted:        id,
		Questions:      page.Questions,
		TotalQuestions: page.TotalQuestions,
	})
}

// CreateQuestion handles creating a question. Fields are stored as given;
// missing ones become null.
func (h *TriviaHandler) CreateQuestion(c echo.Context) error {
	var req domain.NewQuestion
	if err := bindJSON(c, &req, http.StatusUnprocessableEntity); err != nil {
		return err
	}

	id, page, err := h.trivia.CreateQuestion(c.Request().Context(), req, queryPage(c))
	if err != nil {
		return createOutcome.fail(err)
	}

	return c.JSON(http.StatusOK, CreateQuestionResponse{
		Success:        true,
		Created:        id,
		Questions:      page.Questions,
		TotalQuestions: page.TotalQuestions,
	})
}

// SearchQuestions handles case-insensitive search over question text
func (h *TriviaHandler) SearchQuestions(c echo.Context) error {
	var req SearchRequest
	if err := bindJSON(c, &req, http.StatusBadRequest); err != nil {
		return err
	}

	questions, err := h.trivia.SearchQuestions(c.Request().Context(), *req.SearchTerm)
	if err != nil {
		return searchOutcome.fail(err)
	}

	return c.JSON(http.StatusOK, SearchResponse{
		Success:         true,
		Questions:       questions,
		CurrentCategory: nil,
	})
}

// ListCategoryQuestions handles listing one page of a category's questions
func (h *TriviaHandler) ListCategoryQuestions(c echo.Context) error {
	categoryID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound).SetInternal(err)
	}

	page, err := h.trivia.CategoryQuestions(c.Request().Context(), categoryID, queryPage(c))
	if err != nil {
		return categoryOutcome.fail(err)
	}

	return c.JSON(http.StatusOK, CategoryQuestionsResponse{
		Success:         true,
		Questions:       page.Questions,
		TotalQuestions:  page.TotalQuestions,
		CurrentCategory: categoryID,
	})
}

// PlayQuiz handles drawing the next unseen quiz question
func (h *TriviaHandler) PlayQuiz(c echo.Context) error {
	var req QuizRequest
	if err := bindJSON(c, &req, http.StatusNotFound); err != nil {
		return err
	}

	question, err := h.trivia.NextQuizQuestion(c.Request().Context(), *req.QuizCategory.ID, req.PreviousQuestions)
	if err != nil {
		return quizOutcome.fail(err)
	}

	return c.JSON(http.StatusOK, QuizResponse{
		Success:  true,
		Question: question,
	})
}

func queryPage(c echo.Context) int {
	return service.ParsePage(c.QueryParam("page"))
}
