package database

import (
	"context"
	"time"

	"chargallery/apperr"
	"chargallery/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type CharacterRepository struct {
	characters *mongo.Collection
	tags       *mongo.Collection
}

func NewCharacterRepository(db *mongo.Database) *CharacterRepository {
	return &CharacterRepository{
		characters: db.Collection(charactersCollection),
		tags:       db.Collection(tagsCollection),
	}
}

func (r *CharacterRepository) find(ctx context.Context, filter bson.D) ([]models.Character, error) {
	cursor, err := r.characters.Aggregate(ctx, characterPipeline(filter))
	if err != nil {
		return nil, translate(err, "character")
	}
	defer cursor.Close(ctx)

	characters := []models.Character{}
	if err := cursor.All(ctx, &characters); err != nil {
		return nil, translate(err, "character")
	}
	return characters, nil
}

// FindAll returns every character in creation order.
func (r *CharacterRepository) FindAll(ctx context.Context) ([]models.Character, error) {
	return r.find(ctx, bson.D{})
}

func (r *CharacterRepository) FindByTag(ctx context.Context, tagID string) ([]models.Character, error) {
	oid, err := parseID(tagID, "tag")
	if err != nil {
		return nil, err
	}
	return r.find(ctx, bson.D{{Key: "tag_ids", Value: oid}})
}

func (r *CharacterRepository) FindByID(ctx context.Context, id string) (models.Character, error) {
	oid, err := parseID(id, "character")
	if err != nil {
		return models.Character{}, err
	}
	found, err := r.find(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return models.Character{}, err
	}
	if len(found) == 0 {
		return models.Character{}, apperr.NotFound("character not found")
	}
	return found[0], nil
}

// Create inserts the character and registers it on each of its tags.
func (r *CharacterRepository) Create(ctx context.Context, c models.Character) (models.Character, error) {
	now := time.Now()
	c.ID = bson.NewObjectID()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.TagIDs == nil {
		c.TagIDs = []bson.ObjectID{}
	}
	if c.MediaIDs == nil {
		c.MediaIDs = []bson.ObjectID{}
	}
	c.Author, c.Tags, c.Media, c.Cover = nil, nil, nil, nil

	if _, err := r.characters.InsertOne(ctx, c); err != nil {
		return models.Character{}, translate(err, "character")
	}
	if err := r.syncTags(ctx, c.ID, c.TagIDs); err != nil {
		return models.Character{}, err
	}
	return r.FindByID(ctx, c.ID.Hex())
}

// Update replaces name, description and tags, keeping tag back-references in
// step with the new tag list.
func (r *CharacterRepository) Update(ctx context.Context, id string, fields models.CharacterFields) (models.Character, error) {
	oid, err := parseID(id, "character")
	if err != nil {
		return models.Character{}, err
	}
	if fields.TagIDs == nil {
		fields.TagIDs = []bson.ObjectID{}
	}

	res, err := r.characters.UpdateOne(ctx, bson.D{{Key: "_id", Value: oid}}, bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: fields.Name},
		{Key: "description", Value: fields.Description},
		{Key: "tag_ids", Value: fields.TagIDs},
		{Key: "updated_at", Value: time.Now()},
	}}})
	if err != nil {
		return models.Character{}, translate(err, "character")
	}
	if res.MatchedCount == 0 {
		return models.Character{}, apperr.NotFound("character not found")
	}

	if err := r.syncTags(ctx, oid, fields.TagIDs); err != nil {
		return models.Character{}, err
	}
	return r.FindByID(ctx, id)
}

func (r *CharacterRepository) syncTags(ctx context.Context, characterID bson.ObjectID, tagIDs []bson.ObjectID) error {
	_, err := r.tags.UpdateMany(ctx,
		bson.D{
			{Key: "character_ids", Value: characterID},
			{Key: "_id", Value: bson.D{{Key: "$nin", Value: tagIDs}}},
		},
		bson.D{{Key: "$pull", Value: bson.D{{Key: "character_ids", Value: characterID}}}},
	)
	if err != nil {
		return translate(err, "tag")
	}
	if len(tagIDs) == 0 {
		return nil
	}
	_, err = r.tags.UpdateMany(ctx,
		bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: tagIDs}}}},
		bson.D{{Key: "$addToSet", Value: bson.D{{Key: "character_ids", Value: characterID}}}},
	)
	return translate(err, "tag")
}

// attachUpdate builds the update that attaches mediaID. A replaced cover is
// kept in the character's media so it stays reachable and its likes still
// count towards popularity.
func attachUpdate(previousCover *bson.ObjectID, mediaID bson.ObjectID, asCover bool) bson.D {
	if !asCover {
		return bson.D{{Key: "$addToSet", Value: bson.D{{Key: "media_ids", Value: mediaID}}}}
	}
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "cover_id", Value: mediaID}}}}
	if previousCover != nil && *previousCover != mediaID {
		update = append(update, bson.E{Key: "$addToSet", Value: bson.D{{Key: "media_ids", Value: *previousCover}}})
	}
	return update
}

// AttachMedia adds media to a character's gallery, or makes it the cover.
func (r *CharacterRepository) AttachMedia(ctx context.Context, characterID string, mediaID bson.ObjectID, asCover bool) error {
	oid, err := parseID(characterID, "character")
	if err != nil {
		return err
	}

	var current struct {
		CoverID *bson.ObjectID `bson:"cover_id,omitempty"`
	}
	if asCover {
		err := r.characters.FindOne(ctx, bson.D{{Key: "_id", Value: oid}},
			options.FindOne().SetProjection(bson.D{{Key: "cover_id", Value: 1}}),
		).Decode(&current)
		if err != nil {
			return translate(err, "character")
		}
	}

	res, err := r.characters.UpdateOne(ctx, bson.D{{Key: "_id", Value: oid}}, attachUpdate(current.CoverID, mediaID, asCover))
	if err != nil {
		return translate(err, "character")
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("character not found")
	}
	return nil
}

func (r *CharacterRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.characters.CountDocuments(ctx, bson.D{})
	return n, translate(err, "character")
}
