package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Priest is a personnel record in the priests collection. Field names mirror
// the documents stored by the registry front end, so bson and json tags keep
// the original (mixed-case) spellings.
type Priest struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	PriestID    string             `bson:"priestId" json:"priestId"`
	Name        string             `bson:"Name" json:"Name"`
	Father      string             `bson:"Father,omitempty" json:"Father,omitempty"`
	Mother      string             `bson:"Mother,omitempty" json:"Mother,omitempty"`
	Title       string             `bson:"Title,omitempty" json:"Title,omitempty"`
	Blood       string             `bson:"Blood,omitempty" json:"Blood,omitempty"`
	Born        string             `bson:"Born,omitempty" json:"Born,omitempty"`
	Feast       string             `bson:"Feast,omitempty" json:"Feast,omitempty"`
	Ordained    string             `bson:"Ordained,omitempty" json:"Ordained,omitempty"`
	Prelate     string             `bson:"Prelate,omitempty" json:"Prelate,omitempty"`
	Placeat     string             `bson:"Placeat,omitempty" json:"Placeat,omitempty"`
	Centre      string             `bson:"Centre,omitempty" json:"Centre,omitempty"`
	Institution string             `bson:"Institution,omitempty" json:"Institution,omitempty"`
	Phone       string             `bson:"Phone,omitempty" json:"Phone,omitempty"`
	HomeState   string             `bson:"homeState,omitempty" json:"homeState,omitempty"`
	HomePh      string             `bson:"homePh,omitempty" json:"homePh,omitempty"`
	Parish      string             `bson:"Parish,omitempty" json:"Parish,omitempty"`
	ParishPh    string             `bson:"parishPh,omitempty" json:"parishPh,omitempty"`
	Diocese     string             `bson:"Diocese,omitempty" json:"Diocese,omitempty"`
	Mobile1     string             `bson:"mobile1,omitempty" json:"mobile1,omitempty"`
	Mobile2     string             `bson:"mobile2,omitempty" json:"mobile2,omitempty"`
	Email       string             `bson:"Email,omitempty" json:"Email,omitempty"`
	// Serial is only present on records imported from the legacy register;
	// the print aggregator prefers it as the join key when set.
	Serial     string `bson:"Serial,omitempty" json:"Serial,omitempty"`
	ProfilePic string `bson:"profilePic,omitempty" json:"profilePic,omitempty"`
}
