package models

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

type Tag struct {
	ID           bson.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name         string          `json:"name" bson:"name"`
	CharacterIDs []bson.ObjectID `json:"characterIds" bson:"character_ids"`
	CoverID      *bson.ObjectID  `json:"-" bson:"cover_id,omitempty"`

	Cover *Media `json:"cover,omitempty" bson:"cover,omitempty"`
}

type TagInput struct {
	Name string `json:"name" validate:"min=3,max=18"`
}

type TagEdit struct {
	TagID   string `json:"tagId" validate:"required,objectid"`
	Name    string `json:"name" validate:"min=3,max=18"`
	CoverID string `json:"coverId" validate:"omitempty,objectid"`
}
