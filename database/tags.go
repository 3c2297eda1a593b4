package database

import (
	"context"

	"chargallery/apperr"
	"chargallery/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type TagRepository struct {
	tags *mongo.Collection
}

func NewTagRepository(db *mongo.Database) *TagRepository {
	return &TagRepository{tags: db.Collection(tagsCollection)}
}

func (r *TagRepository) find(ctx context.Context, filter bson.D) ([]models.Tag, error) {
	cursor, err := r.tags.Aggregate(ctx, tagPipeline(filter))
	if err != nil {
		return nil, translate(err, "tag")
	}
	defer cursor.Close(ctx)

	tags := []models.Tag{}
	if err := cursor.All(ctx, &tags); err != nil {
		return nil, translate(err, "tag")
	}
	return tags, nil
}

func (r *TagRepository) FindAll(ctx context.Context) ([]models.Tag, error) {
	return r.find(ctx, bson.D{})
}

func (r *TagRepository) FindByID(ctx context.Context, id string) (models.Tag, error) {
	oid, err := parseID(id, "tag")
	if err != nil {
		return models.Tag{}, err
	}
	found, err := r.find(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return models.Tag{}, err
	}
	if len(found) == 0 {
		return models.Tag{}, apperr.NotFound("tag not found")
	}
	return found[0], nil
}

func (r *TagRepository) Create(ctx context.Context, name string) (models.Tag, error) {
	tag := models.Tag{ID: bson.NewObjectID(), Name: name, CharacterIDs: []bson.ObjectID{}}
	if _, err := r.tags.InsertOne(ctx, tag); err != nil {
		return models.Tag{}, translate(err, "tag")
	}
	return tag, nil
}

// Update renames the tag and, when coverID is set, replaces its cover.
func (r *TagRepository) Update(ctx context.Context, id, name string, coverID *bson.ObjectID) (models.Tag, error) {
	oid, err := parseID(id, "tag")
	if err != nil {
		return models.Tag{}, err
	}

	set := bson.D{{Key: "name", Value: name}}
	if coverID != nil {
		set = append(set, bson.E{Key: "cover_id", Value: *coverID})
	}

	res, err := r.tags.UpdateOne(ctx, bson.D{{Key: "_id", Value: oid}}, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return models.Tag{}, translate(err, "tag")
	}
	if res.MatchedCount == 0 {
		return models.Tag{}, apperr.NotFound("tag not found")
	}
	return r.FindByID(ctx, id)
}

// CountExisting returns how many of ids name an existing tag.
func (r *TagRepository) CountExisting(ctx context.Context, ids []bson.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	n, err := r.tags.CountDocuments(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}})
	return n, translate(err, "tag")
}
