package priests

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

var (
	ErrNotFound    = errors.New("priest not found")
	ErrDuplicateID = errors.New("priestId already assigned")
)

// Repository defines persistence operations for priest records.
type Repository interface {
	// List returns every priest sorted ascending by the string form of
	// priestId (lexicographic, so "P1000" sorts before "P999").
	List(ctx context.Context) ([]models.Priest, error)
	// FindByPriestID matches priestId exactly.
	FindByPriestID(ctx context.Context, priestID string) (*models.Priest, error)
	// FindByPriestIDFold matches priestId case-insensitively.
	FindByPriestIDFold(ctx context.Context, priestID string) (*models.Priest, error)
	// FindByObjectID looks a priest up by its store-assigned identifier.
	FindByObjectID(ctx context.Context, hex string) (*models.Priest, error)
	// MaxPriestID returns the lexicographically largest priestId, or "" when
	// the collection is empty.
	MaxPriestID(ctx context.Context) (string, error)
	Insert(ctx context.Context, p *models.Priest) error
	Update(ctx context.Context, priestID string, fields bson.M) (*models.Priest, error)
	SetName(ctx context.Context, priestID, name string) (*models.Priest, error)
	// SetProfilePic stores the photo filename; "" clears it.
	SetProfilePic(ctx context.Context, priestID, filename string) (*models.Priest, error)
}

// MongoRepository implements Repository over the priests collection.
type MongoRepository struct {
	col *mongo.Collection
}

// NewMongoRepository ensures the unique priestId index; the index is the
// backstop for the max-then-increment id assignment under concurrent creates.
func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	idx := mongo.IndexModel{Keys: bson.D{{Key: "priestId", Value: 1}}, Options: options.Index().SetUnique(true)}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &MongoRepository{col: col}
}

func (r *MongoRepository) List(ctx context.Context) ([]models.Priest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "priestId", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	out := []models.Priest{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoRepository) FindByPriestID(ctx context.Context, priestID string) (*models.Priest, error) {
	return r.findOne(ctx, bson.M{"priestId": priestID})
}

func (r *MongoRepository) FindByPriestIDFold(ctx context.Context, priestID string) (*models.Priest, error) {
	filter := bson.M{"priestId": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(priestID) + "$", Options: "i"}}
	return r.findOne(ctx, filter)
}

func (r *MongoRepository) FindByObjectID(ctx context.Context, hex string) (*models.Priest, error) {
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil, ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M) (*models.Priest, error) {
	var p models.Priest
	if err := r.col.FindOne(ctx, filter).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *MongoRepository) MaxPriestID(ctx context.Context) (string, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "priestId", Value: -1}})
	var p models.Priest
	if err := r.col.FindOne(ctx, bson.M{}, opts).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return "", nil
		}
		return "", err
	}
	return p.PriestID, nil
}

func (r *MongoRepository) Insert(ctx context.Context, p *models.Priest) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if _, err := r.col.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateID
		}
		return err
	}
	return nil
}

func (r *MongoRepository) Update(ctx context.Context, priestID string, fields bson.M) (*models.Priest, error) {
	return r.findOneAndSet(ctx, priestID, fields)
}

func (r *MongoRepository) SetName(ctx context.Context, priestID, name string) (*models.Priest, error) {
	return r.findOneAndSet(ctx, priestID, bson.M{"Name": name})
}

func (r *MongoRepository) SetProfilePic(ctx context.Context, priestID, filename string) (*models.Priest, error) {
	return r.findOneAndSet(ctx, priestID, bson.M{"profilePic": filename})
}

func (r *MongoRepository) findOneAndSet(ctx context.Context, priestID string, fields bson.M) (*models.Priest, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Priest
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"priestId": priestID}, bson.M{"$set": fields}, opts).Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &updated, nil
}
