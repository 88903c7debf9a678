package service

import (
	"context"
	"log"

	"question-service/internal/models"
)

// QuestionStore is the persistence contract the service runs against. The
// Mongo-backed repository satisfies it; tests use an in-memory fake.
type QuestionStore interface {
	FindAll(ctx context.Context) ([]models.Question, error)
	FindByCategory(ctx context.Context, category string) ([]models.Question, error)
	// FindByID returns (nil, nil) when the ID has no matching question.
	FindByID(ctx context.Context, id int) (*models.Question, error)
	FindRandomIDsByCategory(ctx context.Context, category string, n int) ([]int, error)
	Save(ctx context.Context, question *models.Question) error
}

type QuestionService struct {
	Store  QuestionStore
	Logger *log.Logger
}

func NewQuestionService(store QuestionStore, logger *log.Logger) *QuestionService {
	if logger == nil {
		logger = log.Default()
	}
	return &QuestionService{Store: store, Logger: logger}
}

// ListQuestions returns every stored question. Store faults propagate so the
// caller can tell an empty store from a failed one.
func (s *QuestionService) ListQuestions(ctx context.Context) ([]models.Question, error) {
	questions, err := s.Store.FindAll(ctx)
	if err != nil {
		s.Logger.Printf("Error fetching all questions: %v", err)
		return nil, err
	}
	s.Logger.Printf("Fetched %d questions", len(questions))
	return questions, nil
}

// ListByCategory returns questions in the category. An unknown category is an
// empty result, not an error.
func (s *QuestionService) ListByCategory(ctx context.Context, category string) ([]models.Question, error) {
	questions, err := s.Store.FindByCategory(ctx, category)
	if err != nil {
		s.Logger.Printf("Error fetching questions for category %q: %v", category, err)
		return nil, err
	}
	s.Logger.Printf("Fetched %d questions for category %q", len(questions), category)
	return questions, nil
}

// AddQuestion persists the question and returns it with its store-assigned
// ID. Every call creates a new record; identical payloads get distinct IDs.
func (s *QuestionService) AddQuestion(ctx context.Context, question *models.Question) (*models.Question, error) {
	if err := s.Store.Save(ctx, question); err != nil {
		s.Logger.Printf("Error adding question: %v", err)
		return nil, err
	}
	s.Logger.Printf("Question added with ID %d", question.ID)
	return question, nil
}

// GenerateQuiz returns up to n randomly selected question IDs from the
// category, no repeats. n <= 0 yields an empty slice.
func (s *QuestionService) GenerateQuiz(ctx context.Context, category string, n int) ([]int, error) {
	ids, err := s.Store.FindRandomIDsByCategory(ctx, category, n)
	if err != nil {
		s.Logger.Printf("Error generating quiz for category %q: %v", category, err)
		return nil, err
	}
	s.Logger.Printf("Generated %d question IDs for category %q", len(ids), category)
	return ids, nil
}

// resolution pairs a requested ID with its question, nil when absent.
type resolution struct {
	ID       int
	Question *models.Question
}

// resolve looks up each ID independently, preserving input order. Absent IDs
// carry a nil Question; a store fault aborts the whole resolution.
func (s *QuestionService) resolve(ctx context.Context, ids []int) ([]resolution, error) {
	resolutions := make([]resolution, 0, len(ids))
	for _, id := range ids {
		q, err := s.Store.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		resolutions = append(resolutions, resolution{ID: id, Question: q})
	}
	return resolutions, nil
}

// GetQuestionWrappers returns the answer-safe projection for every ID that
// resolves, in the input's relative order. IDs with no matching question are
// logged and skipped.
func (s *QuestionService) GetQuestionWrappers(ctx context.Context, ids []int) ([]models.QuestionWrapper, error) {
	resolutions, err := s.resolve(ctx, ids)
	if err != nil {
		s.Logger.Printf("Error resolving question IDs: %v", err)
		return nil, err
	}

	wrappers := make([]models.QuestionWrapper, 0, len(resolutions))
	for _, res := range resolutions {
		if res.Question == nil {
			s.Logger.Printf("Question with ID %d not found", res.ID)
			continue
		}
		wrappers = append(wrappers, res.Question.Wrap())
	}
	s.Logger.Printf("Returning %d wrapped questions", len(wrappers))
	return wrappers, nil
}

// Score counts exact matches between each response and its question's correct
// answer. Comparison is case-sensitive with no trimming. Responses referencing
// unknown questions are skipped and count toward nothing.
func (s *QuestionService) Score(ctx context.Context, responses []models.Response) (int, error) {
	right := 0
	for _, response := range responses {
		q, err := s.Store.FindByID(ctx, response.ID)
		if err != nil {
			s.Logger.Printf("Error scoring response for question %d: %v", response.ID, err)
			return 0, err
		}
		if q == nil {
			s.Logger.Printf("Question not found for response ID %d", response.ID)
			continue
		}
		if response.Response == q.CorrectAnswer {
			right++
		}
	}
	s.Logger.Printf("Score calculated: %d/%d", right, len(responses))
	return right, nil
}
