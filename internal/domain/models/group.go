// internal/domain/models/group.go
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Member roles. A group must always keep at least one reachable admin;
// the group store enforces that inside its conditional updates.
const (
	RoleAdmin   = "admin"
	RoleMember  = "member"
	RoleContact = "contact"
)

// ValidRole reports whether s is one of the known member roles.
func ValidRole(s string) bool {
	return s == RoleAdmin || s == RoleMember || s == RoleContact
}

// Member is a membership row embedded in its Group document. It has no
// identity of its own: Email is the stable key (set at invitation time),
// ID is the authenticated user id and stays empty until the invited
// person joins.
type Member struct {
	ID    string `bson:"id,omitempty" json:"id,omitempty"`
	Email string `bson:"email" json:"email"`
	Role  string `bson:"role" json:"role"`
	Hide  bool   `bson:"hide,omitempty" json:"hide,omitempty"`
	Alias string `bson:"alias,omitempty" json:"alias,omitempty"`
}

// Group is the unit of access control. Members are kept in insertion
// order and unique by email. Access holds the ids of foreign groups this
// group has granted one-hop visibility into; no transitive resolution is
// ever computed over it.
type Group struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name    string             `bson:"name" json:"name"`
	Members []Member           `bson:"members" json:"members"`
	Access  []string           `bson:"access,omitempty" json:"access,omitempty"`
}

// MemberByEmail returns the member row for email and whether it exists.
func (g Group) MemberByEmail(email string) (Member, bool) {
	for _, m := range g.Members {
		if m.Email == email {
			return m, true
		}
	}
	return Member{}, false
}

// IsAdmin reports whether the user with the given id holds the admin
// role in this group.
func (g Group) IsAdmin(userID string) bool {
	for _, m := range g.Members {
		if m.ID == userID && m.Role == RoleAdmin {
			return true
		}
	}
	return false
}
