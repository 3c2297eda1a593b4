package controller

import (
	"errors"
	"net/http"
	"time"

	"chargallery/apperr"
	"chargallery/gallery"
	"chargallery/models"
	"chargallery/validation"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

type TagController struct {
	Tags       TagStore
	Characters CharacterStore
	Media      MediaStore
	Host       AssetHost
	Validator  *validation.Validator
	Log        *zap.Logger
	Timeout    time.Duration
}

func (h *TagController) List(c *gin.Context) {
	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	tags, err := h.Tags.FindAll(ctx)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	q := queryFromRequest(c)
	rendered := gallery.RenderTags(tags, q)
	c.JSON(http.StatusOK, gin.H{
		"tags":  presentTags(h.Host, rendered),
		"total": len(rendered),
		"query": q,
	})
}

// Get returns the tag with its characters ranked by the request's query.
func (h *TagController) Get(c *gin.Context) {
	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	tag, err := h.Tags.FindByID(ctx, c.Param("id"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	characters, err := h.Characters.FindByTag(ctx, tag.ID.Hex())
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	rendered := gallery.Render(characters, queryFromRequest(c))
	c.JSON(http.StatusOK, gin.H{
		"tag":        presentTag(h.Host, tag),
		"characters": presentCharacters(h.Host, rendered),
	})
}

func (h *TagController) Create(c *gin.Context) {
	var input models.TagInput
	if err := c.ShouldBindJSON(&input); err != nil {
		invalidBody(c)
		return
	}
	if err := h.Validator.Validate(&input); err != nil {
		respondError(c, h.Log, err)
		return
	}

	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	tag, err := h.Tags.Create(ctx, input.Name)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusCreated, presentTag(h.Host, tag))
}

func (h *TagController) Update(c *gin.Context) {
	var input models.TagEdit
	if err := c.ShouldBindJSON(&input); err != nil {
		invalidBody(c)
		return
	}
	input.TagID = c.Param("id")
	if err := h.Validator.Validate(&input); err != nil {
		respondError(c, h.Log, err)
		return
	}

	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	var coverID *bson.ObjectID
	if input.CoverID != "" {
		cover, err := h.Media.FindByID(ctx, input.CoverID)
		if errors.Is(err, apperr.ErrNotFound) {
			err = apperr.Validation(apperr.FieldError{Field: "coverId", Message: "must reference existing media"})
		}
		if err != nil {
			respondError(c, h.Log, err)
			return
		}
		coverID = &cover.ID
	}

	tag, err := h.Tags.Update(ctx, input.TagID, input.Name, coverID)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, presentTag(h.Host, tag))
}
