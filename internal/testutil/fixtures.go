package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/scopehub/scopehub/internal/app/system/identity"
	"github.com/scopehub/scopehub/internal/domain/models"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// NewCaller returns a caller identity with a fresh id and a unique email.
func NewCaller(name string) identity.Caller {
	return identity.Caller{
		ID:    primitive.NewObjectID().Hex(),
		Email: fmt.Sprintf("%s-%s@test.local", name, uuid.NewString()[:8]),
	}
}

// CreateUser inserts a user with the given email and password and
// returns it.
func (f *Fixtures) CreateUser(ctx context.Context, email, password string) models.User {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		f.t.Fatalf("failed to hash fixture password: %v", err)
	}
	user := models.User{
		ID:        primitive.NewObjectID(),
		Email:     email,
		Password:  string(hash),
		Locale:    "en",
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateGroup inserts a group with the given founder as its admin.
func (f *Fixtures) CreateGroup(ctx context.Context, name string, founder identity.Caller) models.Group {
	f.t.Helper()

	g := models.Group{
		ID:   primitive.NewObjectID(),
		Name: name,
		Members: []models.Member{
			{ID: founder.ID, Email: founder.Email, Role: models.RoleAdmin},
		},
	}
	if _, err := f.db.Collection("groups").InsertOne(ctx, g); err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}
	return g
}
