package formations

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/archidiocese/priestdb/internal/models"
)

var ErrNotFound = errors.New("formation not found")

// Repository defines persistence operations for formation records.
type Repository interface {
	List(ctx context.Context, priestID string) ([]models.Formation, error)
	Insert(ctx context.Context, f *models.Formation) error
	Update(ctx context.Context, id string, fields bson.M) (*models.Formation, error)
	Delete(ctx context.Context, id string) error
	FindBySerial(ctx context.Context, serial string) ([]models.Formation, error)
	RenamePriest(ctx context.Context, serial, name string) (matched, modified int64, err error)
}

// MongoRepository implements Repository over the formations collection.
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

// List returns all formations, or those matching the given priestId filter.
// The filter field is literally "priestId"; records link to a priest through
// Serial, so a filtered query reproduces the registry's historical behavior.
func (r *MongoRepository) List(ctx context.Context, priestID string) ([]models.Formation, error) {
	filter := bson.M{}
	if priestID != "" {
		filter["priestId"] = priestID
	}
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := []models.Formation{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoRepository) Insert(ctx context.Context, f *models.Formation) error {
	if f.ID.IsZero() {
		f.ID = primitive.NewObjectID()
	}
	_, err := r.col.InsertOne(ctx, f)
	return err
}

func (r *MongoRepository) Update(ctx context.Context, id string, fields bson.M) (*models.Formation, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Formation
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": fields}, opts).Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &updated, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) FindBySerial(ctx context.Context, serial string) ([]models.Formation, error) {
	cur, err := r.col.Find(ctx, bson.M{"Serial": serial})
	if err != nil {
		return nil, err
	}
	out := []models.Formation{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RenamePriest writes the priest's new name into Name on every formation
// carrying the given Serial.
func (r *MongoRepository) RenamePriest(ctx context.Context, serial, name string) (int64, int64, error) {
	res, err := r.col.UpdateMany(ctx, bson.M{"Serial": serial}, bson.M{"$set": bson.M{"Name": name}})
	if err != nil {
		return 0, 0, err
	}
	return res.MatchedCount, res.ModifiedCount, nil
}
