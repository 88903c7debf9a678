package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"question-service/internal/models"
	"question-service/internal/service"
)

type QuestionHandler struct {
	Service *service.QuestionService
	Quiz    *service.QuizClient
}

func NewQuestionHandler(s *service.QuestionService, quiz *service.QuizClient) *QuestionHandler {
	return &QuestionHandler{Service: s, Quiz: quiz}
}

// GetAllQuestions returns every stored question. A store fault is surfaced as
// 503 so callers can tell it apart from an empty store.
func (h *QuestionHandler) GetAllQuestions(c *gin.Context) {
	questions, err := h.Service.ListQuestions(context.Background())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "question store unavailable", "kind": "store_unavailable"})
		return
	}
	if questions == nil {
		questions = []models.Question{}
	}
	c.JSON(http.StatusOK, questions)
}

// GetQuestionsByCategory returns questions in the path category. Unknown
// categories yield an empty list.
func (h *QuestionHandler) GetQuestionsByCategory(c *gin.Context) {
	category := c.Param("category")
	questions, err := h.Service.ListByCategory(context.Background(), category)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "question store unavailable", "kind": "store_unavailable"})
		return
	}
	if questions == nil {
		questions = []models.Question{}
	}
	c.JSON(http.StatusOK, questions)
}

// AddQuestion persists the posted question and answers with the literal body
// "success" on 201, matching what the orchestrator expects.
func (h *QuestionHandler) AddQuestion(c *gin.Context) {
	var question models.Question
	if err := c.ShouldBindJSON(&question); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "bad_request"})
		return
	}
	if _, err := h.Service.AddQuestion(context.Background(), &question); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "question store unavailable", "kind": "store_unavailable"})
		return
	}
	c.String(http.StatusCreated, "success")
}

// GenerateQuiz returns random question IDs for a category. numQuestions must
// be a positive integer.
func (h *QuestionHandler) GenerateQuiz(c *gin.Context) {
	category := c.Query("categoryName")
	numQuestions, err := strconv.Atoi(c.Query("numQuestions"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "numQuestions must be an integer", "kind": "bad_request"})
		return
	}
	if numQuestions <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "numQuestions must be positive", "kind": "bad_request"})
		return
	}

	ids, err := h.Service.GenerateQuiz(context.Background(), category, numQuestions)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "question store unavailable", "kind": "store_unavailable"})
		return
	}
	c.JSON(http.StatusOK, ids)
}

// GetQuestions resolves a list of question IDs to their answer-safe
// projections. Unknown IDs are skipped.
func (h *QuestionHandler) GetQuestions(c *gin.Context) {
	var ids []int
	if err := c.ShouldBindJSON(&ids); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "bad_request"})
		return
	}
	if len(ids) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question ID list is empty", "kind": "bad_request"})
		return
	}

	wrappers, err := h.Service.GetQuestionWrappers(context.Background(), ids)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "question store unavailable", "kind": "store_unavailable"})
		return
	}
	c.JSON(http.StatusOK, wrappers)
}

// GetScore counts exact-match answers among the posted responses and returns
// the raw count.
func (h *QuestionHandler) GetScore(c *gin.Context) {
	var responses []models.Response
	if err := c.ShouldBindJSON(&responses); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "bad_request"})
		return
	}
	if len(responses) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "response list is empty", "kind": "bad_request"})
		return
	}

	score, err := h.Service.Score(context.Background(), responses)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "question store unavailable", "kind": "store_unavailable"})
		return
	}
	c.JSON(http.StatusOK, score)
}

// CallQuiz proxies the collaborator's hello endpoint. The failure cause stays
// visible in the status code and error kind.
func (h *QuestionHandler) CallQuiz(c *gin.Context) {
	body, err := h.Quiz.CallHello()
	if err != nil {
		var callErr *service.CallError
		if errors.As(err, &callErr) {
			switch callErr.Kind {
			case service.CallErrorTimeout:
				c.JSON(http.StatusGatewayTimeout, gin.H{"error": callErr.Error(), "kind": "upstream_timeout"})
			case service.CallErrorStatus:
				c.JSON(http.StatusBadGateway, gin.H{"error": callErr.Error(), "kind": "upstream_status", "upstreamStatus": callErr.StatusCode})
			default:
				c.JSON(http.StatusBadGateway, gin.H{"error": callErr.Error(), "kind": "upstream_unreachable"})
			}
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "kind": "upstream_unreachable"})
		return
	}
	c.String(http.StatusOK, body)
}
