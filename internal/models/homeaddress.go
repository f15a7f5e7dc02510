package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// HomeAddress is the single address record kept per priestId. The six address
// fields are always written on upsert, defaulting to "" when the caller omits
// them, never null or absent.
type HomeAddress struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	PriestID string             `bson:"priestId" json:"priestId"`
	Name     string             `bson:"Name,omitempty" json:"Name,omitempty"`
	HomeAdd1 string             `bson:"HomeAdd1" json:"HomeAdd1"`
	HomeAdd2 string             `bson:"HomeAdd2" json:"HomeAdd2"`
	HomeAdd3 string             `bson:"HomeAdd3" json:"HomeAdd3"`
	HomeAdd4 string             `bson:"HomeAdd4" json:"HomeAdd4"`
	HomeAdd5 string             `bson:"HomeAdd5" json:"HomeAdd5"`
	HomePin  string             `bson:"HomePin" json:"HomePin"`
}
