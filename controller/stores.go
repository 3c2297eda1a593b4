package controller

import (
	"context"
	"io"

	"chargallery/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// CharacterStore is the character half of the entity store.
type CharacterStore interface {
	FindAll(ctx context.Context) ([]models.Character, error)
	FindByTag(ctx context.Context, tagID string) ([]models.Character, error)
	FindByID(ctx context.Context, id string) (models.Character, error)
	Create(ctx context.Context, c models.Character) (models.Character, error)
	Update(ctx context.Context, id string, fields models.CharacterFields) (models.Character, error)
	AttachMedia(ctx context.Context, characterID string, mediaID bson.ObjectID, asCover bool) error
}

type TagStore interface {
	FindAll(ctx context.Context) ([]models.Tag, error)
	FindByID(ctx context.Context, id string) (models.Tag, error)
	Create(ctx context.Context, name string) (models.Tag, error)
	Update(ctx context.Context, id, name string, coverID *bson.ObjectID) (models.Tag, error)
	CountExisting(ctx context.Context, ids []bson.ObjectID) (int64, error)
}

type MediaStore interface {
	Create(ctx context.Context, m models.Media) (models.Media, error)
	FindByID(ctx context.Context, id string) (models.Media, error)
	ToggleLike(ctx context.Context, id string, userID bson.ObjectID) (models.Media, error)
	Delete(ctx context.Context, id string) error
}

type UserStore interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// AssetHost turns media ids into public URLs and storage keys.
type AssetHost interface {
	URL(mediaID, ext string) string
	ObjectKey(mediaID, ext string) string
}

type ObjectStorage interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
}
