package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Media is a file held by the asset host. Likes are a set of user ids so the
// like count is always derived.
type Media struct {
	ID          bson.ObjectID   `json:"id" bson:"_id,omitempty"`
	FileName    string          `json:"fileName" bson:"file_name"`
	FileType    string          `json:"fileType" bson:"file_type"`
	MimeType    string          `json:"mimetype" bson:"mimetype"`
	LikeIDs     []bson.ObjectID `json:"likeIds" bson:"like_ids"`
	CharacterID bson.ObjectID   `json:"characterId" bson:"character_id"`
	UploaderID  bson.ObjectID   `json:"uploaderId" bson:"uploader_id"`
	UploadedAt  time.Time       `json:"uploadedAt" bson:"uploaded_at"`
}

func (m Media) Likes() int {
	return len(m.LikeIDs)
}

func (m Media) IsImage() bool {
	return strings.HasPrefix(m.MimeType, "image/")
}

// LikedBy reports whether the user already likes this media.
func (m Media) LikedBy(userID bson.ObjectID) bool {
	for _, id := range m.LikeIDs {
		if id == userID {
			return true
		}
	}
	return false
}
