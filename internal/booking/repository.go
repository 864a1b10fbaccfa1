package booking

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shelby-backend/internal/models"
)

type Repository interface {
	Create(ctx context.Context, booking models.Booking) error
	ListAll(ctx context.Context) ([]models.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]models.Booking, error)
	GetByID(ctx context.Context, id string) (models.Booking, error)
	UpdateStatus(ctx context.Context, id, status, rejectionReason string) (models.Booking, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, booking models.Booking) error {
	_, err := r.col.InsertOne(ctx, booking)
	return err
}

func (r *MongoRepository) ListAll(ctx context.Context) ([]models.Booking, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoRepository) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	return r.find(ctx, bson.M{"user": userID})
}

func (r *MongoRepository) find(ctx context.Context, filter bson.M) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]models.Booking, 0)
	for cursor.Next(ctx) {
		var b models.Booking
		if err := cursor.Decode(&b); err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (models.Booking, error) {
	var b models.Booking
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		return models.Booking{}, err
	}
	return b, nil
}

// UpdateStatus writes the decision. A rejection reason only exists on a
// rejected booking; any other status clears it.
func (r *MongoRepository) UpdateStatus(ctx context.Context, id, status, rejectionReason string) (models.Booking, error) {
	update := bson.M{}
	if status == models.BookingStatusRejected {
		update["$set"] = bson.M{"status": status, "rejectionReason": rejectionReason}
	} else {
		update["$set"] = bson.M{"status": status}
		update["$unset"] = bson.M{"rejectionReason": ""}
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Booking
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated); err != nil {
		return models.Booking{}, err
	}
	return updated, nil
}
