package identity

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Identity is the shared user record. Email is globally unique and stored
// normalized (lower-cased, trimmed); Services is the set of service names
// that have used this identity.
type Identity struct {
	ID              bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string        `bson:"name" json:"name"`
	Email           string        `bson:"email" json:"email"`
	PasswordHash    string        `bson:"password" json:"-"`
	Services        []string      `bson:"services" json:"services,omitempty"`
	LastLoginAt     *time.Time    `bson:"last_login_at,omitempty" json:"last_login_at,omitempty"`
	IsEmailVerified bool          `bson:"is_email_verified" json:"is_email_verified"`
	CreatedAt       time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time     `bson:"updated_at" json:"updated_at"`
}

// UsedService reports whether the named service already appears in the
// identity's service set.
func (i *Identity) UsedService(name string) bool {
	for _, s := range i.Services {
		if s == name {
			return true
		}
	}
	return false
}
