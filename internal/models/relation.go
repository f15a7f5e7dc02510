package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Relation is a sibling/relative entry. Serial carries the owning priest's
// priestId by convention only; nothing enforces it referentially.
type Relation struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Serial       string             `bson:"Serial" json:"Serial"`
	PriestName   string             `bson:"priestName,omitempty" json:"priestName,omitempty"`
	Father       string             `bson:"Father,omitempty" json:"Father,omitempty"`
	Title        string             `bson:"Title,omitempty" json:"Title,omitempty"`
	Relationship string             `bson:"Relationship,omitempty" json:"Relationship,omitempty"`
	SiblingName  string             `bson:"siblingName,omitempty" json:"siblingName,omitempty"`
	Occupation   string             `bson:"Occupation,omitempty" json:"Occupation,omitempty"`
	Phone        string             `bson:"Phone,omitempty" json:"Phone,omitempty"`
}
