package models

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Serialization used when matching a query against datetime fields. Matches
// the ISO-ish form the search normalizer emits ("2025-10-15 13:30:00"
// contains "-10-" and "13:30").
const mongoDateFormat = "%Y-%m-%d %H:%M:%S"

// Event text columns included in the search surface.
var eventSearchFields = []string{
	"title", "description", "category", "location", "status", "speaker", "speaker_bio",
}

// Event datetime columns, searched after casting to text.
var eventSearchDateFields = []string{"$start_dt", "$end_dt"}

type mongoEventRepo struct {
	col *mongo.Collection
}

func NewMongoEventRepository(col *mongo.Collection) EventRepository {
	return &mongoEventRepo{col: col}
}

func (r *mongoEventRepo) GetAll(ctx context.Context) ([]Event, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer cur.Close(ctx)

	var out []Event
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return out, nil
}

func (r *mongoEventRepo) GetByID(ctx context.Context, id string) (Event, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var e Event
	if err := r.col.FindOne(ctx, bson.M{"id": id}).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Event{}, ErrNotFound
		}
		return Event{}, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

func (r *mongoEventRepo) GetByOwner(ctx context.Context, ownerID int64) ([]Event, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"owner_id": ownerID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list events by owner: %w", err)
	}
	defer cur.Close(ctx)

	var out []Event
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return out, nil
}

func (r *mongoEventRepo) Create(ctx context.Context, e *Event) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := r.col.InsertOne(ctx, e); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *mongoEventRepo) Update(ctx context.Context, e *Event) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	res, err := r.col.UpdateOne(ctx, bson.M{"id": e.ID}, bson.M{"$set": e})
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoEventRepo) UpdateStatus(ctx context.Context, id, status string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	res, err := r.col.UpdateOne(ctx, bson.M{"id": id},
		bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return fmt.Errorf("update event status: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Search runs a case-insensitive substring match for any term across the
// text columns, and against the datetime columns after casting them to text
// with $dateToString. Capacity is matched via $toString. Results come back
// in natural collection order.
func (r *mongoEventRepo) Search(ctx context.Context, terms []string) ([]Event, error) {
	if len(terms) == 0 {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var ors []bson.M
	for _, term := range terms {
		pat := regexp.QuoteMeta(term)
		for _, field := range eventSearchFields {
			ors = append(ors, bson.M{field: bson.M{"$regex": pat, "$options": "i"}})
		}
		ors = append(ors, bson.M{"$expr": bson.M{"$regexMatch": bson.M{
			"input":   bson.M{"$toString": "$capacity"},
			"regex":   pat,
			"options": "i",
		}}})
		for _, field := range eventSearchDateFields {
			ors = append(ors, bson.M{"$expr": bson.M{"$regexMatch": bson.M{
				"input": bson.M{"$dateToString": bson.M{
					"format": mongoDateFormat,
					"date":   field,
				}},
				"regex":   pat,
				"options": "i",
			}}})
		}
	}

	cur, err := r.col.Find(ctx, bson.M{"$or": ors})
	if err != nil {
		return nil, fmt.Errorf("search events: %w", err)
	}
	defer cur.Close(ctx)

	var out []Event
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return out, nil
}
