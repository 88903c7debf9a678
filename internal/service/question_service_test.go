package service

import (
	"context"
	"errors"
	"io"
	"log"
	"math/rand"
	"testing"

	"question-service/internal/models"
)

// fakeStore is an in-memory QuestionStore mirroring the repository contract:
// absent IDs resolve to (nil, nil), sampling never repeats within one call,
// n <= 0 samples to an empty slice.
type fakeStore struct {
	questions []models.Question
	seq       int
	failAll   bool
}

var errStoreDown = errors.New("store down")

func (f *fakeStore) FindAll(ctx context.Context) ([]models.Question, error) {
	if f.failAll {
		return nil, errStoreDown
	}
	return append([]models.Question(nil), f.questions...), nil
}

func (f *fakeStore) FindByCategory(ctx context.Context, category string) ([]models.Question, error) {
	if f.failAll {
		return nil, errStoreDown
	}
	var out []models.Question
	for _, q := range f.questions {
		if q.Category == category {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeStore) FindByID(ctx context.Context, id int) (*models.Question, error) {
	if f.failAll {
		return nil, errStoreDown
	}
	for i := range f.questions {
		if f.questions[i].ID == id {
			q := f.questions[i]
			return &q, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindRandomIDsByCategory(ctx context.Context, category string, n int) ([]int, error) {
	if f.failAll {
		return nil, errStoreDown
	}
	if n <= 0 {
		return []int{}, nil
	}
	var candidates []int
	for _, q := range f.questions {
		if q.Category == category {
			candidates = append(candidates, q.ID)
		}
	}
	rand.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if n > len(candidates) {
		n = len(candidates)
	}
	return candidates[:n], nil
}

func (f *fakeStore) Save(ctx context.Context, question *models.Question) error {
	if f.failAll {
		return errStoreDown
	}
	if question.ID == 0 {
		f.seq++
		question.ID = f.seq
	}
	f.questions = append(f.questions, *question)
	return nil
}

func newTestService(store *fakeStore) *QuestionService {
	return NewQuestionService(store, log.New(io.Discard, "", 0))
}

func seedQuestions(store *fakeStore, count int, category string) {
	for i := 0; i < count; i++ {
		store.Save(context.Background(), &models.Question{
			QuestionTitle: "q",
			Option1:       "a", Option2: "b", Option3: "c", Option4: "d",
			CorrectAnswer: "a",
			Category:      category,
		})
	}
}

func TestListByCategoryUnknownIsEmpty(t *testing.T) {
	store := &fakeStore{}
	seedQuestions(store, 3, "science")
	svc := newTestService(store)

	questions, err := svc.ListByCategory(context.Background(), "no-such-category")
	if err != nil {
		t.Fatalf("Expected no error for unknown category, got %v", err)
	}
	if len(questions) != 0 {
		t.Errorf("Expected empty list for unknown category, got %d questions", len(questions))
	}
}

func TestAddQuestionAssignsDistinctIDs(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)

	payload := models.Question{
		QuestionTitle: "Largest planet?",
		Option1:       "Earth", Option2: "Jupiter", Option3: "Mars", Option4: "Venus",
		CorrectAnswer: "Jupiter",
		Category:      "science",
	}

	first := payload
	second := payload
	added1, err := svc.AddQuestion(context.Background(), &first)
	if err != nil {
		t.Fatalf("First add failed: %v", err)
	}
	added2, err := svc.AddQuestion(context.Background(), &second)
	if err != nil {
		t.Fatalf("Second add failed: %v", err)
	}

	if added1.ID == 0 || added2.ID == 0 {
		t.Errorf("Expected store-assigned IDs, got %d and %d", added1.ID, added2.ID)
	}
	if added1.ID == added2.ID {
		t.Errorf("Identical payloads must get distinct IDs, both got %d", added1.ID)
	}
}

func TestAddThenListAllIncludesQuestion(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)

	added, err := svc.AddQuestion(context.Background(), &models.Question{
		QuestionTitle: "Boiling point of water at sea level?",
		Option1:       "90C", Option2: "100C", Option3: "110C", Option4: "120C",
		CorrectAnswer: "100C",
		Category:      "science",
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	all, err := svc.ListQuestions(context.Background())
	if err != nil {
		t.Fatalf("ListQuestions failed: %v", err)
	}
	found := false
	for _, q := range all {
		if q.ID == added.ID {
			found = true
		}
	}
	if !found {
		t.Errorf("Added question ID %d missing from list all", added.ID)
	}
}

func TestRoundTripFieldEquality(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)

	original := models.Question{
		QuestionTitle:   "Smallest prime?",
		Option1:         "0",
		Option2:         "1",
		Option3:         "2",
		Option4:         "3",
		CorrectAnswer:   "2",
		Category:        "math",
		DifficultyLevel: "easy",
	}
	added, err := svc.AddQuestion(context.Background(), &original)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	fetched, err := store.FindByID(context.Background(), added.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if fetched == nil {
		t.Fatalf("Added question %d not found", added.ID)
	}
	if *fetched != *added {
		t.Errorf("Round trip mismatch: stored %+v, fetched %+v", *added, *fetched)
	}
}

func TestGenerateQuiz(t *testing.T) {
	store := &fakeStore{}
	seedQuestions(store, 5, "history")
	seedQuestions(store, 2, "science")
	svc := newTestService(store)

	testCases := []struct {
		name     string
		category string
		n        int
		expected int
	}{
		{"count within category size", "history", 3, 3},
		{"count equals category size", "history", 5, 5},
		{"count exceeds category size", "history", 10, 5},
		{"other category unaffected", "science", 5, 2},
		{"unknown category", "geography", 3, 0},
		{"zero count", "history", 0, 0},
		{"negative count", "history", -4, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ids, err := svc.GenerateQuiz(context.Background(), tc.category, tc.n)
			if err != nil {
				t.Fatalf("GenerateQuiz failed: %v", err)
			}
			if len(ids) != tc.expected {
				t.Errorf("Expected %d IDs, got %d", tc.expected, len(ids))
			}

			seen := make(map[int]bool)
			for _, id := range ids {
				if seen[id] {
					t.Errorf("Duplicate ID %d in generated quiz", id)
				}
				seen[id] = true

				q, err := store.FindByID(context.Background(), id)
				if err != nil || q == nil {
					t.Fatalf("Generated ID %d does not resolve", id)
				}
				if q.Category != tc.category {
					t.Errorf("ID %d belongs to category %q, want %q", id, q.Category, tc.category)
				}
			}
		})
	}
}

func TestGetQuestionWrappersSkipsMissingAndKeepsOrder(t *testing.T) {
	store := &fakeStore{}
	seedQuestions(store, 2, "science") // IDs 1 and 2
	svc := newTestService(store)

	wrappers, err := svc.GetQuestionWrappers(context.Background(), []int{1, 999, 2})
	if err != nil {
		t.Fatalf("GetQuestionWrappers failed: %v", err)
	}
	if len(wrappers) != 2 {
		t.Fatalf("Expected 2 wrappers, got %d", len(wrappers))
	}
	if wrappers[0].ID != 1 || wrappers[1].ID != 2 {
		t.Errorf("Expected wrappers in order [1 2], got [%d %d]", wrappers[0].ID, wrappers[1].ID)
	}
}

func TestResolveReportsMissing(t *testing.T) {
	store := &fakeStore{}
	seedQuestions(store, 2, "science")
	svc := newTestService(store)

	resolutions, err := svc.resolve(context.Background(), []int{1, 999, 2})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if len(resolutions) != 3 {
		t.Fatalf("Expected one resolution per input ID, got %d", len(resolutions))
	}

	missing := 0
	for _, res := range resolutions {
		if res.Question == nil {
			missing++
			if res.ID != 999 {
				t.Errorf("Expected ID 999 to be the missing one, got %d", res.ID)
			}
		}
	}
	if missing != 1 {
		t.Errorf("Expected exactly 1 missing resolution, got %d", missing)
	}
}

func TestScore(t *testing.T) {
	store := &fakeStore{}
	store.Save(context.Background(), &models.Question{
		QuestionTitle: "q1",
		Option1:       "A", Option2: "B", Option3: "C", Option4: "D",
		CorrectAnswer: "A",
		Category:      "science",
	})
	store.Save(context.Background(), &models.Question{
		QuestionTitle: "q2",
		Option1:       "A", Option2: "B", Option3: "C", Option4: "D",
		CorrectAnswer: "B",
		Category:      "science",
	})
	svc := newTestService(store)

	testCases := []struct {
		name      string
		responses []models.Response
		expected  int
	}{
		{
			"one right one wrong",
			[]models.Response{{ID: 1, Response: "A"}, {ID: 2, Response: "WRONG"}},
			1,
		},
		{
			"all right",
			[]models.Response{{ID: 1, Response: "A"}, {ID: 2, Response: "B"}},
			2,
		},
		{
			"comparison is case-sensitive",
			[]models.Response{{ID: 1, Response: "a"}},
			0,
		},
		{
			"unknown question skipped silently",
			[]models.Response{{ID: 1, Response: "A"}, {ID: 999, Response: "A"}},
			1,
		},
		{
			"no responses",
			[]models.Response{},
			0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			score, err := svc.Score(context.Background(), tc.responses)
			if err != nil {
				t.Fatalf("Score failed: %v", err)
			}
			if score != tc.expected {
				t.Errorf("Expected score %d, got %d", tc.expected, score)
			}
		})
	}
}

func TestStoreFaultPropagates(t *testing.T) {
	store := &fakeStore{failAll: true}
	svc := newTestService(store)

	if _, err := svc.ListQuestions(context.Background()); err == nil {
		t.Errorf("Expected store fault from ListQuestions, got nil")
	}
	if _, err := svc.ListByCategory(context.Background(), "science"); err == nil {
		t.Errorf("Expected store fault from ListByCategory, got nil")
	}
	if _, err := svc.GenerateQuiz(context.Background(), "science", 3); err == nil {
		t.Errorf("Expected store fault from GenerateQuiz, got nil")
	}
	if _, err := svc.GetQuestionWrappers(context.Background(), []int{1}); err == nil {
		t.Errorf("Expected store fault from GetQuestionWrappers, got nil")
	}
	if _, err := svc.Score(context.Background(), []models.Response{{ID: 1, Response: "A"}}); err == nil {
		t.Errorf("Expected store fault from Score, got nil")
	}
	if _, err := svc.AddQuestion(context.Background(), &models.Question{}); err == nil {
		t.Errorf("Expected store fault from AddQuestion, got nil")
	}
}
