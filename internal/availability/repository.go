package availability

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shelby-backend/internal/models"
)

type Repository interface {
	List(ctx context.Context) ([]models.Availability, error)
	FindByDate(ctx context.Context, date time.Time) (models.Availability, error)
	ReplaceSlots(ctx context.Context, date time.Time, slots []models.TimeSlot) (models.Availability, error)
	ReserveSlot(ctx context.Context, date time.Time, startTime, serviceType string) (bool, error)
	ReleaseSlot(ctx context.Context, date time.Time, startTime, serviceType string) error
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) List(ctx context.Context) ([]models.Availability, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]models.Availability, 0)
	for cursor.Next(ctx) {
		var doc models.Availability
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		items = append(items, doc)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoRepository) FindByDate(ctx context.Context, date time.Time) (models.Availability, error) {
	var doc models.Availability
	if err := r.col.FindOne(ctx, bson.M{"date": date}).Decode(&doc); err != nil {
		return models.Availability{}, err
	}
	return doc, nil
}

// ReplaceSlots overwrites the whole timeSlots array for the date, creating
// the document when absent. Replace, not merge: the admin panel always
// posts the complete slot list for a day.
func (r *MongoRepository) ReplaceSlots(ctx context.Context, date time.Time, slots []models.TimeSlot) (models.Availability, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)
	update := bson.M{
		"$set":         bson.M{"timeSlots": slots},
		"$setOnInsert": bson.M{"_id": primitive.NewObjectID().Hex(), "date": date},
	}

	var saved models.Availability
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"date": date}, update, opts).Decode(&saved); err != nil {
		return models.Availability{}, err
	}
	return saved, nil
}

// ReserveSlot flips isAvailable on the matching slot in a single
// conditional write. The $elemMatch filter only matches while the slot is
// still free, so two concurrent reservations cannot both succeed.
func (r *MongoRepository) ReserveSlot(ctx context.Context, date time.Time, startTime, serviceType string) (bool, error) {
	filter := bson.M{
		"date": date,
		"timeSlots": bson.M{"$elemMatch": bson.M{
			"startTime":   startTime,
			"serviceType": serviceType,
			"isAvailable": true,
		}},
	}
	update := bson.M{"$set": bson.M{"timeSlots.$.isAvailable": false}}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

func (r *MongoRepository) ReleaseSlot(ctx context.Context, date time.Time, startTime, serviceType string) error {
	filter := bson.M{
		"date": date,
		"timeSlots": bson.M{"$elemMatch": bson.M{
			"startTime":   startTime,
			"serviceType": serviceType,
			"isAvailable": false,
		}},
	}
	update := bson.M{"$set": bson.M{"timeSlots.$.isAvailable": true}}

	_, err := r.col.UpdateOne(ctx, filter, update)
	return err
}
