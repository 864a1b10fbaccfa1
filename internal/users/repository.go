package users

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shelby-backend/internal/models"
)

type Repository interface {
	Create(ctx context.Context, user models.User) error
	GetByID(ctx context.Context, id string) (models.User, error)
	FindByIdentifier(ctx context.Context, identifier string) (models.User, error)
	FindByReferralCode(ctx context.Context, code string) (models.User, error)
	UpdateProfile(ctx context.Context, id string, fields map[string]interface{}) (models.User, error)
	SetPushToken(ctx context.Context, id, token string) error
	AddReferralCredit(ctx context.Context, id string, amount int) error
	AdminsWithPushTokens(ctx context.Context) ([]models.User, error)
	List(ctx context.Context, search string, page, limit int64) ([]models.User, int64, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, user models.User) error {
	_, err := r.col.InsertOne(ctx, user)
	return err
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	var u models.User
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// FindByIdentifier matches a login identifier against either the email or
// the phone number field.
func (r *MongoRepository) FindByIdentifier(ctx context.Context, identifier string) (models.User, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"email": identifier},
		bson.M{"phoneNumber": identifier},
	}}
	var u models.User
	if err := r.col.FindOne(ctx, filter).Decode(&u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (r *MongoRepository) FindByReferralCode(ctx context.Context, code string) (models.User, error) {
	var u models.User
	if err := r.col.FindOne(ctx, bson.M{"referralCode": code}).Decode(&u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (r *MongoRepository) UpdateProfile(ctx context.Context, id string, fields map[string]interface{}) (models.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.User
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&updated)
	if err != nil {
		return models.User{}, err
	}
	return updated, nil
}

func (r *MongoRepository) SetPushToken(ctx context.Context, id, token string) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"expoPushToken": token}})
	return err
}

func (r *MongoRepository) AddReferralCredit(ctx context.Context, id string, amount int) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"referralCredits": amount}})
	return err
}

func (r *MongoRepository) AdminsWithPushTokens(ctx context.Context) ([]models.User, error) {
	filter := bson.M{
		"isAdmin":       true,
		"expoPushToken": bson.M{"$exists": true, "$ne": ""},
	}
	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	admins := make([]models.User, 0)
	for cursor.Next(ctx) {
		var u models.User
		if err := cursor.Decode(&u); err != nil {
			return nil, err
		}
		admins = append(admins, u)
	}
	return admins, cursor.Err()
}

func (r *MongoRepository) List(ctx context.Context, search string, page, limit int64) ([]models.User, int64, error) {
	filter := bson.M{}
	if search = strings.TrimSpace(search); search != "" {
		pattern := primitiveRegex(search)
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"email": pattern},
			bson.M{"phoneNumber": pattern},
		}
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	items := make([]models.User, 0)
	for cursor.Next(ctx) {
		var u models.User
		if err := cursor.Decode(&u); err != nil {
			return nil, 0, err
		}
		items = append(items, u)
	}
	return items, total, cursor.Err()
}

func primitiveRegex(search string) bson.M {
	return bson.M{"$regex": escapeRegex(search), "$options": "i"}
}

var regexMeta = strings.NewReplacer(
	`\`, `\\`, `.`, `\.`, `+`, `\+`, `*`, `\*`, `?`, `\?`,
	`(`, `\(`, `)`, `\)`, `[`, `\[`, `]`, `\]`, `{`, `\{`, `}`, `\}`,
	`^`, `\^`, `$`, `\$`, `|`, `\|`,
)

func escapeRegex(s string) string {
	return regexMeta.Replace(s)
}
