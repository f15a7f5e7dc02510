package homeaddress

import (
	"context"
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/archidiocese/priestdb/internal/models"
)

var ErrNotFound = errors.New("address not found")

// Repository defines persistence operations for the single address record
// kept per priestId.
type Repository interface {
	Get(ctx context.Context, priestID string) (*models.HomeAddress, error)
	// GetFold matches priestId case-insensitively; the priest directory's
	// convenience lookup uses it.
	GetFold(ctx context.Context, priestID string) (*models.HomeAddress, error)
	Upsert(ctx context.Context, addr *models.HomeAddress) (*models.HomeAddress, error)
	Delete(ctx context.Context, priestID string) error
}

// MongoRepository implements Repository over the homeAddress collection.
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	// one address per priest; the upsert keys on priestId
	idx := mongo.IndexModel{Keys: bson.D{{Key: "priestId", Value: 1}}}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Get(ctx context.Context, priestID string) (*models.HomeAddress, error) {
	var addr models.HomeAddress
	if err := r.col.FindOne(ctx, bson.M{"priestId": priestID}).Decode(&addr); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &addr, nil
}

func (r *MongoRepository) GetFold(ctx context.Context, priestID string) (*models.HomeAddress, error) {
	filter := bson.M{"priestId": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(priestID) + "$", Options: "i"}}
	var addr models.HomeAddress
	if err := r.col.FindOne(ctx, filter).Decode(&addr); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &addr, nil
}

// Upsert atomically replaces-or-inserts the record keyed by priestId. All six
// address fields are written every time, so omitted fields reset to "".
func (r *MongoRepository) Upsert(ctx context.Context, addr *models.HomeAddress) (*models.HomeAddress, error) {
	set := bson.M{
		"priestId": addr.PriestID,
		"Name":     addr.Name,
		"HomeAdd1": addr.HomeAdd1,
		"HomeAdd2": addr.HomeAdd2,
		"HomeAdd3": addr.HomeAdd3,
		"HomeAdd4": addr.HomeAdd4,
		"HomeAdd5": addr.HomeAdd5,
		"HomePin":  addr.HomePin,
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var updated models.HomeAddress
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"priestId": addr.PriestID}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *MongoRepository) Delete(ctx context.Context, priestID string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"priestId": priestID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
