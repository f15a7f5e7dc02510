package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Formation is one training period in a priest's formation history.
type Formation struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Serial          string             `bson:"Serial" json:"Serial"`
	Name            string             `bson:"Name,omitempty" json:"Name,omitempty"`
	Father          string             `bson:"Father,omitempty" json:"Father,omitempty"`
	Title           string             `bson:"Title,omitempty" json:"Title,omitempty"`
	FormationNumber int                `bson:"Formation_Number,omitempty" json:"Formation_Number,omitempty"`
	Formation       string             `bson:"Formation,omitempty" json:"Formation,omitempty"`
	FromDate        string             `bson:"From_Date,omitempty" json:"From_Date,omitempty"`
	ToDate          string             `bson:"To_Date,omitempty" json:"To_Date,omitempty"`
	Place           string             `bson:"Place,omitempty" json:"Place,omitempty"`
	Rector          string             `bson:"Rector,omitempty" json:"Rector,omitempty"`
	Remark          string             `bson:"Remark,omitempty" json:"Remark,omitempty"`
}
