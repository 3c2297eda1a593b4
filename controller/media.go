package controller

import (
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"chargallery/apperr"
	"chargallery/middlewares"
	"chargallery/models"
	"chargallery/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

const maxUploadSize = 10 << 20

type MediaController struct {
	Media      MediaStore
	Characters CharacterStore
	Storage    ObjectStorage
	Host       AssetHost
	Log        *zap.Logger
	Timeout    time.Duration
}

func sessionUserID(c *gin.Context) (middlewares.Session, bson.ObjectID, error) {
	session, ok := middlewares.CurrentSession(c)
	if !ok {
		return session, bson.ObjectID{}, apperr.Unauthorized("not signed in")
	}
	oid, err := bson.ObjectIDFromHex(session.UserID)
	if err != nil {
		return session, bson.ObjectID{}, apperr.Unauthorized("not signed in")
	}
	return session, oid, nil
}

// fileType picks the extension stored with the media, falling back to the
// content type when the file name has none.
func fileType(fileName, contentType string) string {
	if ext := strings.TrimPrefix(filepath.Ext(fileName), "."); ext != "" {
		return strings.ToLower(ext)
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return strings.TrimPrefix(exts[0], ".")
	}
	return "bin"
}

// Upload stores the multipart "file" on the asset host and attaches it to
// the character, as its cover when the "cover" field is true.
func (h *MediaController) Upload(c *gin.Context) {
	_, uploaderID, err := sessionUserID(c)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, h.Log, apperr.Validation(apperr.FieldError{Field: "file", Message: "is required"}))
		return
	}
	if file.Size > maxUploadSize {
		respondError(c, h.Log, apperr.Validation(apperr.FieldError{Field: "file", Message: "must be at most 10 MB"}))
		return
	}
	asCover := c.PostForm("cover") == "true"

	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	character, err := h.Characters.FindByID(ctx, c.Param("id"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	body, err := file.Open()
	if err != nil {
		respondError(c, h.Log, apperr.Wrap(err, apperr.CodeInternal, "failed to read upload"))
		return
	}
	defer body.Close()

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	media := models.Media{
		ID:          bson.NewObjectID(),
		FileName:    strings.TrimSuffix(file.Filename, filepath.Ext(file.Filename)),
		FileType:    fileType(file.Filename, contentType),
		MimeType:    contentType,
		CharacterID: character.ID,
		UploaderID:  uploaderID,
	}
	key := h.Host.ObjectKey(media.ID.Hex(), media.FileType)

	if err := h.Storage.Put(ctx, key, body, contentType); err != nil {
		respondError(c, h.Log, apperr.Wrap(err, apperr.CodeInternal, "error uploading media"))
		return
	}

	media, err = h.Media.Create(ctx, media)
	if err == nil {
		err = h.Characters.AttachMedia(ctx, character.ID.Hex(), media.ID, asCover)
	}
	if err != nil {
		if delErr := h.Storage.Delete(ctx, key); delErr != nil {
			h.Log.Warn("orphaned media object", zap.String("key", key), zap.Error(delErr))
		}
		respondError(c, h.Log, err)
		return
	}

	h.Log.Info("media uploaded",
		zap.String("media", media.ID.Hex()),
		zap.String("character", character.ID.Hex()),
		zap.Bool("cover", asCover),
	)
	c.JSON(http.StatusCreated, presentMedia(h.Host, media))
}

// ToggleLike likes the media for the caller, or removes an existing like.
func (h *MediaController) ToggleLike(c *gin.Context) {
	_, userID, err := sessionUserID(c)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	media, err := h.Media.ToggleLike(ctx, c.Param("id"), userID)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"media": presentMedia(h.Host, media),
		"liked": media.LikedBy(userID),
	})
}

// Delete is limited to the uploader and admins.
func (h *MediaController) Delete(c *gin.Context) {
	session, _, err := sessionUserID(c)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	media, err := h.Media.FindByID(ctx, c.Param("id"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	if ok, _ := utils.AuthorizeOwner(session.UserID, media.UploaderID.Hex(), session.Role, models.RoleAdmin); !ok {
		respondError(c, h.Log, apperr.Forbidden("only the uploader can delete this media"))
		return
	}

	if err := h.Media.Delete(ctx, media.ID.Hex()); err != nil {
		respondError(c, h.Log, err)
		return
	}
	key := h.Host.ObjectKey(media.ID.Hex(), media.FileType)
	if err := h.Storage.Delete(ctx, key); err != nil {
		h.Log.Warn("failed to delete media object", zap.String("key", key), zap.Error(err))
	}
	c.Status(http.StatusNoContent)
}
