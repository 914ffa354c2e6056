package userstore

import (
	"context"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/scopehub/scopehub/internal/app/system/autherr"
	"github.com/scopehub/scopehub/internal/app/system/normalize"
	"github.com/scopehub/scopehub/internal/domain/models"
)

// bcryptCost matches the work factor the account passwords were
// originally hashed with, so old and new hashes stay comparable.
const bcryptCost = 10

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// Create inserts a new account with a hashed password. The email is
// stored lowercased and accounts start out unverified.
func (s *Store) Create(ctx context.Context, email, password, locale string) (models.User, error) {
	email = normalize.Email(email)
	if email == "" || password == "" {
		return models.User{}, autherr.NewUserNotCreated("email and password are required", email, nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return models.User{}, autherr.NewUserNotCreated("password hashing failed", email, err)
	}

	u := models.User{
		ID:        primitive.NewObjectID(),
		Email:     email,
		Password:  string(hash),
		Locale:    normalize.Locale(locale),
		Verified:  false,
		CreatedAt: time.Now(),
	}

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, autherr.NewUserNotCreated("user already exist!", email, err)
		}
		return models.User{}, autherr.NewUserNotCreated("db insert failed", email, err)
	}
	return u, nil
}

// GetByEmail looks up an account by case-insensitive email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	email = normalize.Email(email)
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		return nil, autherr.NewUserNotFound(email, "", err)
	}
	return &u, nil
}

// GetByID loads an account by its hex id, as carried in token subjects.
func (s *Store) GetByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, autherr.NewUserNotFound("", id, err)
	}
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&u); err != nil {
		return nil, autherr.NewUserNotFound("", id, err)
	}
	return &u, nil
}

// SetVerified marks an account as confirmed. Confirming twice is not
// an error.
func (s *Store) SetVerified(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return autherr.NewUserVerification("account could not be verified", "", err)
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"verified": true}})
	if err != nil {
		return autherr.NewUserVerification("account could not be verified", "", err)
	}
	if res.MatchedCount == 0 {
		return autherr.NewUserVerification("account could not be verified", "", nil)
	}
	return nil
}

// SetPassword replaces the stored hash with a freshly hashed password.
func (s *Store) SetPassword(ctx context.Context, id, password string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return autherr.NewUserNotFound("", id, err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return autherr.NewUserAuthentication("password hashing failed", "", err)
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"password": string(hash)}})
	if err != nil {
		return autherr.NewUserNotFound("", id, err)
	}
	if res.MatchedCount == 0 {
		return autherr.NewUserNotFound("", id, nil)
	}
	return nil
}

// Authenticate checks a password against the stored hash and requires
// the account to be confirmed.
func (s *Store) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, autherr.NewUserAuthentication("wrong email or password", email, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, autherr.NewUserAuthentication("wrong email or password", email, err)
	}
	if !u.Verified {
		return nil, autherr.NewUserAuthentication("account not yet confirmed!", email, nil)
	}
	return u, nil
}
