package repository

import (
	"context"

	"question-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// caseInsensitiveCollation makes category filters ignore letter case.
// Strength 2 compares base characters and accents but not case.
var caseInsensitiveCollation = &options.Collation{Locale: "en", Strength: 2}

type QuestionRepository struct {
	Col      *mongo.Collection
	Counters *mongo.Collection

	// CategoryInsensitive toggles collation-based category matching.
	CategoryInsensitive bool
}

func NewQuestionRepository(db *mongo.Database) *QuestionRepository {
	return &QuestionRepository{
		Col:      db.Collection("questions"),
		Counters: db.Collection("counters"),
	}
}

func (r *QuestionRepository) FindAll(ctx context.Context) ([]models.Question, error) {
	cur, err := r.Col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var questions []models.Question
	for cur.Next(ctx) {
		var q models.Question
		if err := cur.Decode(&q); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, cur.Err()
}

func (r *QuestionRepository) FindByCategory(ctx context.Context, category string) ([]models.Question, error) {
	opts := options.Find()
	if r.CategoryInsensitive {
		opts.SetCollation(caseInsensitiveCollation)
	}
	cur, err := r.Col.Find(ctx, bson.M{"category": category}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var questions []models.Question
	for cur.Next(ctx) {
		var q models.Question
		if err := cur.Decode(&q); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, cur.Err()
}

// FindByID returns (nil, nil) when no question has the given ID.
func (r *QuestionRepository) FindByID(ctx context.Context, id int) (*models.Question, error) {
	var question models.Question
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&question)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &question, nil
}

// FindRandomIDsByCategory samples up to n distinct question IDs from the
// category. Fewer than n questions in the category yields as many as exist.
func (r *QuestionRepository) FindRandomIDsByCategory(ctx context.Context, category string, n int) ([]int, error) {
	if n <= 0 {
		return []int{}, nil
	}

	match := bson.D{{Key: "$match", Value: bson.M{"category": category}}}
	sample := bson.D{{Key: "$sample", Value: bson.M{"size": n}}}
	project := bson.D{{Key: "$project", Value: bson.M{"_id": 1}}}

	opts := options.Aggregate()
	if r.CategoryInsensitive {
		opts.SetCollation(caseInsensitiveCollation)
	}
	cur, err := r.Col.Aggregate(ctx, mongo.Pipeline{match, sample, project}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	ids := []int{}
	for cur.Next(ctx) {
		var doc struct {
			ID int `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		ids = append(ids, doc.ID)
	}
	return ids, cur.Err()
}

// Save assigns the next sequence ID when the question has none, then inserts
// it. The passed question carries the assigned ID on return.
func (r *QuestionRepository) Save(ctx context.Context, question *models.Question) error {
	if question.ID == 0 {
		id, err := r.nextID(ctx)
		if err != nil {
			return err
		}
		question.ID = id
	}
	_, err := r.Col.InsertOne(ctx, question)
	return err
}

// nextID increments the question counter atomically, creating it on first use.
func (r *QuestionRepository) nextID(ctx context.Context) (int, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Seq int `bson:"seq"`
	}
	err := r.Counters.FindOneAndUpdate(
		ctx,
		bson.M{"_id": "questions"},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Seq, nil
}
