package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chargallery/apperr"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

const (
	charactersCollection = "characters"
	tagsCollection       = "tags"
	mediaCollection      = "media"
	usersCollection      = "users"
)

// Connect opens a client and pings the server before returning it.
func Connect(ctx context.Context, uri string, log *zap.Logger) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	log.Info("MongoDB connected successfully")
	return client, nil
}

// EnsureIndexes creates the unique indexes the stores rely on for conflict
// detection.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	if _, err := db.Collection(usersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
	}); err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}

	if _, err := db.Collection(tagsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "name", Value: 1}}, Options: unique,
	}); err != nil {
		return fmt.Errorf("tags indexes: %w", err)
	}

	if _, err := db.Collection(mediaCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "character_id", Value: 1}},
	}); err != nil {
		return fmt.Errorf("media indexes: %w", err)
	}
	return nil
}

// translate maps driver errors onto apperr kinds. what names the entity in
// messages, for example "character".
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return apperr.NotFound(what + " not found")
	case mongo.IsDuplicateKeyError(err):
		return apperr.AlreadyExists(what + " already exists")
	default:
		return apperr.Wrap(err, apperr.CodeInternal, "failed to access "+what)
	}
}

func parseID(id, what string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.ObjectID{}, apperr.NotFound(what + " not found")
	}
	return oid, nil
}

// ParseIDs converts hex ids from a validated payload.
func ParseIDs(ids []string) ([]bson.ObjectID, error) {
	out := make([]bson.ObjectID, 0, len(ids))
	seen := make(map[bson.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		oid, err := bson.ObjectIDFromHex(id)
		if err != nil {
			return nil, apperr.Validation(apperr.FieldError{Field: "tags", Message: "must be a valid id"})
		}
		if _, dup := seen[oid]; dup {
			continue
		}
		seen[oid] = struct{}{}
		out = append(out, oid)
	}
	return out, nil
}
