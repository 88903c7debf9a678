package models

// Question is a stored multiple-choice item. ID is assigned by the store on
// first save and never changes afterwards.
type Question struct {
	ID              int    `bson:"_id,omitempty" json:"id"`
	QuestionTitle   string `bson:"question_title" json:"questionTitle"`
	Option1         string `bson:"option1" json:"option1"`
	Option2         string `bson:"option2" json:"option2"`
	Option3         string `bson:"option3" json:"option3"`
	Option4         string `bson:"option4" json:"option4"`
	CorrectAnswer   string `bson:"correct_answer" json:"correctAnswer"`
	Category        string `bson:"category" json:"category"`
	DifficultyLevel string `bson:"difficulty_level" json:"difficultyLevel"`
}

// QuestionWrapper is the answer-safe projection of a Question sent to quiz
// takers. It must never carry the correct answer, category or difficulty.
type QuestionWrapper struct {
	ID            int    `json:"id"`
	QuestionTitle string `json:"questionTitle"`
	Option1       string `json:"option1"`
	Option2       string `json:"option2"`
	Option3       string `json:"option3"`
	Option4       string `json:"option4"`
}

// Wrap builds the answer-safe projection.
func (q *Question) Wrap() QuestionWrapper {
	return QuestionWrapper{
		ID:            q.ID,
		QuestionTitle: q.QuestionTitle,
		Option1:       q.Option1,
		Option2:       q.Option2,
		Option3:       q.Option3,
		Option4:       q.Option4,
	}
}

// Response is one submitted answer, referencing a question by ID. It is
// consumed once per scoring call and never persisted.
type Response struct {
	ID       int    `json:"id"`
	Response string `json:"response"`
}
