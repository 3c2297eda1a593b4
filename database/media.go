package database

import (
	"context"
	"time"

	"chargallery/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type MediaRepository struct {
	media      *mongo.Collection
	characters *mongo.Collection
	tags       *mongo.Collection
}

func NewMediaRepository(db *mongo.Database) *MediaRepository {
	return &MediaRepository{
		media:      db.Collection(mediaCollection),
		characters: db.Collection(charactersCollection),
		tags:       db.Collection(tagsCollection),
	}
}

func (r *MediaRepository) Create(ctx context.Context, m models.Media) (models.Media, error) {
	if m.ID.IsZero() {
		m.ID = bson.NewObjectID()
	}
	if m.LikeIDs == nil {
		m.LikeIDs = []bson.ObjectID{}
	}
	m.UploadedAt = time.Now()

	if _, err := r.media.InsertOne(ctx, m); err != nil {
		return models.Media{}, translate(err, "media")
	}
	return m, nil
}

func (r *MediaRepository) FindByID(ctx context.Context, id string) (models.Media, error) {
	oid, err := parseID(id, "media")
	if err != nil {
		return models.Media{}, err
	}
	var m models.Media
	if err := r.media.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&m); err != nil {
		return models.Media{}, translate(err, "media")
	}
	return m, nil
}

// ToggleLike adds userID to the media's likes, or removes it when present,
// and returns the updated media.
func (r *MediaRepository) ToggleLike(ctx context.Context, id string, userID bson.ObjectID) (models.Media, error) {
	current, err := r.FindByID(ctx, id)
	if err != nil {
		return models.Media{}, err
	}

	op := "$addToSet"
	if current.LikedBy(userID) {
		op = "$pull"
	}

	var updated models.Media
	err = r.media.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: current.ID}},
		bson.D{{Key: op, Value: bson.D{{Key: "like_ids", Value: userID}}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		return models.Media{}, translate(err, "media")
	}
	return updated, nil
}

// Delete removes the media document and every reference to it.
func (r *MediaRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id, "media")
	if err != nil {
		return err
	}

	res, err := r.media.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return translate(err, "media")
	}
	if res.DeletedCount == 0 {
		return translate(mongo.ErrNoDocuments, "media")
	}

	if _, err := r.characters.UpdateMany(ctx,
		bson.D{{Key: "media_ids", Value: oid}},
		bson.D{{Key: "$pull", Value: bson.D{{Key: "media_ids", Value: oid}}}},
	); err != nil {
		return translate(err, "character")
	}

	unsetCover := bson.D{{Key: "$unset", Value: bson.D{{Key: "cover_id", Value: ""}}}}
	if _, err := r.characters.UpdateMany(ctx, bson.D{{Key: "cover_id", Value: oid}}, unsetCover); err != nil {
		return translate(err, "character")
	}
	if _, err := r.tags.UpdateMany(ctx, bson.D{{Key: "cover_id", Value: oid}}, unsetCover); err != nil {
		return translate(err, "tag")
	}
	return nil
}
