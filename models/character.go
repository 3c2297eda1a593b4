package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Character is stored with id references only; Author, Tags, Media and Cover
// are filled by the store's lookup stages and never written back.
type Character struct {
	ID          bson.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name        string          `json:"name" bson:"name"`
	Description string          `json:"description,omitempty" bson:"description,omitempty"`
	AuthorID    bson.ObjectID   `json:"authorId" bson:"author_id"`
	TagIDs      []bson.ObjectID `json:"-" bson:"tag_ids"`
	MediaIDs    []bson.ObjectID `json:"mediaIds" bson:"media_ids"`
	CoverID     *bson.ObjectID  `json:"-" bson:"cover_id,omitempty"`
	CreatedAt   time.Time       `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" bson:"updated_at"`

	Author *Author `json:"author,omitempty" bson:"author,omitempty"`
	Tags   []Tag   `json:"tags" bson:"tags,omitempty"`
	Media  []Media `json:"media" bson:"media,omitempty"`
	Cover  *Media  `json:"cover,omitempty" bson:"cover,omitempty"`
}

// TagIDSet returns the hex ids of the character's tags. Nested tags win over
// the stored id list when both are present.
func (c Character) TagIDSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.TagIDs))
	if len(c.Tags) > 0 {
		for _, t := range c.Tags {
			set[t.ID.Hex()] = struct{}{}
		}
		return set
	}
	for _, id := range c.TagIDs {
		set[id.Hex()] = struct{}{}
	}
	return set
}

// CharacterInput is the create payload.
type CharacterInput struct {
	Name        string   `json:"name" validate:"min=3,max=18"`
	Description string   `json:"description" validate:"min=3,max=140"`
	Tags        []string `json:"tags" validate:"omitempty,dive,objectid"`
}

// CharacterEdit is the edit payload. Tags must be present but may be empty.
type CharacterEdit struct {
	CharacterID string   `json:"characterId" validate:"required,objectid"`
	Name        string   `json:"name" validate:"min=3,max=18"`
	Description string   `json:"description" validate:"min=3,max=140"`
	Tags        []string `json:"tags" validate:"required,dive,objectid"`
}

// CharacterFields is what an edit is allowed to change.
type CharacterFields struct {
	Name        string
	Description string
	TagIDs      []bson.ObjectID
}
