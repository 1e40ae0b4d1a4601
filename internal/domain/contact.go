package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contact is an inbound inquiry submitted through the public contact form.
// Contacts are immutable once created.
type Contact struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName string             `bson:"first_name" json:"first_name"`
	LastName  string             `bson:"last_name" json:"last_name"`
	Email     string             `bson:"email" json:"email"`
	Phone     string             `bson:"phone" json:"phone"`
	Subject   string             `bson:"subject" json:"subject"`
	Message   string             `bson:"message" json:"message"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// Visitor is a traffic-counting record keyed by a cookie value or an
// IP+user-agent fingerprint, upserted on every tracked request.
type Visitor struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VisitorID  string             `bson:"visitor_id" json:"visitor_id"`
	FirstVisit time.Time          `bson:"first_visit" json:"first_visit"`
	LastSeen   time.Time          `bson:"last_seen" json:"last_seen"`
}
