package controller

import (
	"context"
	"net/http"
	"time"

	"chargallery/apperr"
	"chargallery/database"
	"chargallery/gallery"
	"chargallery/middlewares"
	"chargallery/models"
	"chargallery/validation"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

type CharacterController struct {
	Characters CharacterStore
	Tags       TagStore
	Host       AssetHost
	Validator  *validation.Validator
	Log        *zap.Logger
	Timeout    time.Duration
}

// queryFromRequest reads q, tags and sort from the URL.
func queryFromRequest(c *gin.Context) gallery.Query {
	return gallery.ParseQuery(c.Query("q"), c.QueryArray("tags"), c.Query("sort"))
}

// List returns every character matching the request's query, ranked.
func (h *CharacterController) List(c *gin.Context) {
	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	characters, err := h.Characters.FindAll(ctx)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	q := queryFromRequest(c)
	rendered := gallery.Render(characters, q)
	c.JSON(http.StatusOK, gin.H{
		"characters": presentCharacters(h.Host, rendered),
		"total":      len(rendered),
		"query":      q,
	})
}

func (h *CharacterController) Get(c *gin.Context) {
	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	character, err := h.Characters.FindByID(ctx, c.Param("id"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, presentCharacter(h.Host, character))
}

// checkTags resolves tag ids and rejects any that do not exist.
func (h *CharacterController) checkTags(ctx context.Context, ids []string) ([]bson.ObjectID, error) {
	tagIDs, err := database.ParseIDs(ids)
	if err != nil {
		return nil, err
	}
	n, err := h.Tags.CountExisting(ctx, tagIDs)
	if err != nil {
		return nil, err
	}
	if int(n) != len(tagIDs) {
		return nil, apperr.Validation(apperr.FieldError{Field: "tags", Message: "must reference existing tags"})
	}
	return tagIDs, nil
}

func (h *CharacterController) Create(c *gin.Context) {
	var input models.CharacterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		invalidBody(c)
		return
	}
	if err := h.Validator.Validate(&input); err != nil {
		respondError(c, h.Log, err)
		return
	}

	session, ok := middlewares.CurrentSession(c)
	if !ok {
		respondError(c, h.Log, apperr.Unauthorized("no authenticated author"))
		return
	}
	authorID, err := bson.ObjectIDFromHex(session.UserID)
	if err != nil {
		respondError(c, h.Log, apperr.Unauthorized("no authenticated author"))
		return
	}

	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	tagIDs, err := h.checkTags(ctx, input.Tags)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	created, err := h.Characters.Create(ctx, models.Character{
		Name:        input.Name,
		Description: input.Description,
		AuthorID:    authorID,
		TagIDs:      tagIDs,
	})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	h.Log.Info("character created",
		zap.String("id", created.ID.Hex()),
		zap.String("author", session.UserID),
	)
	c.JSON(http.StatusCreated, presentCharacter(h.Host, created))
}

func (h *CharacterController) Update(c *gin.Context) {
	var input models.CharacterEdit
	if err := c.ShouldBindJSON(&input); err != nil {
		invalidBody(c)
		return
	}
	input.CharacterID = c.Param("id")
	if err := h.Validator.Validate(&input); err != nil {
		respondError(c, h.Log, err)
		return
	}

	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	tagIDs, err := h.checkTags(ctx, input.Tags)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	updated, err := h.Characters.Update(ctx, input.CharacterID, models.CharacterFields{
		Name:        input.Name,
		Description: input.Description,
		TagIDs:      tagIDs,
	})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, presentCharacter(h.Host, updated))
}
