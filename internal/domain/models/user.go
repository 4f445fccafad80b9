package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the numeric privilege tier of a user.
type Role int

const (
	RoleSuperAdmin Role = 0
	RoleAdmin      Role = 1
	RoleConsumer   Role = 2
	RoleSeller     Role = 3
)

// IsAdmin reports whether the role may manage other users and records.
func (r Role) IsAdmin() bool {
	return r == RoleSuperAdmin || r == RoleAdmin
}

// User is a person known to the system. Mobile is the unique identity key
// that report aggregation joins against.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email,omitempty" json:"email,omitempty"`
	Mobile       string             `bson:"mobile" json:"mobile"`
	Gender       string             `bson:"gender,omitempty" json:"gender,omitempty"`
	Address      string             `bson:"address,omitempty" json:"address,omitempty"`
	Role         Role               `bson:"role" json:"role"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	IsActive     bool               `bson:"isActive" json:"isActive"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Identity is the authenticated caller extracted from a request token.
type Identity struct {
	UserID string
	Mobile string
	Role   Role
}
