package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Appointment is one posting in a priest's assignment history.
type Appointment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Serial      string             `bson:"Serial" json:"Serial"`
	Name        string             `bson:"Name,omitempty" json:"Name,omitempty"`
	Father      string             `bson:"Father,omitempty" json:"Father,omitempty"`
	Title       string             `bson:"Title,omitempty" json:"Title,omitempty"`
	Centre      string             `bson:"Centre,omitempty" json:"Centre,omitempty"`
	FromDate    string             `bson:"From_Date,omitempty" json:"From_Date,omitempty"`
	ToDate      string             `bson:"To_Date,omitempty" json:"To_Date,omitempty"`
	Appointment string             `bson:"Appointment,omitempty" json:"Appointment,omitempty"`
	With        string             `bson:"With,omitempty" json:"With,omitempty"`
	Remark      string             `bson:"Remark,omitempty" json:"Remark,omitempty"`
}
