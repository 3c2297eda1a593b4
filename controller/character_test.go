package controller_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"chargallery/controller"
	"chargallery/middlewares"
	"chargallery/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type gallerySet struct {
	hero, villain models.Tag
	characters    *fakeCharacters
	tags          *fakeTags
}

func newGallerySet() gallerySet {
	hero := models.Tag{ID: bson.NewObjectID(), Name: "hero"}
	villain := models.Tag{ID: bson.NewObjectID(), Name: "villain"}
	cover := &models.Media{ID: bson.NewObjectID(), FileType: "png", MimeType: "image/png", LikeIDs: liked(5)}

	return gallerySet{
		hero:    hero,
		villain: villain,
		tags:    &fakeTags{items: []models.Tag{hero, villain}},
		characters: &fakeCharacters{items: []models.Character{
			{ID: bson.NewObjectID(), Name: "Aria", Description: "Archer of the north", Tags: []models.Tag{hero}, Cover: cover},
			{ID: bson.NewObjectID(), Name: "Borin", Description: "Smith", Tags: []models.Tag{hero, villain},
				Media: []models.Media{{ID: bson.NewObjectID(), FileType: "jpg", LikeIDs: liked(3)}}},
			{ID: bson.NewObjectID(), Name: "Cass", Tags: []models.Tag{villain},
				Media: []models.Media{{ID: bson.NewObjectID(), FileType: "jpg", LikeIDs: liked(9)}}},
		}},
	}
}

func (g gallerySet) router(s *middlewares.Session) *gin.Engine {
	h := &controller.CharacterController{
		Characters: g.characters,
		Tags:       g.tags,
		Host:       host,
		Validator:  validate,
		Log:        nopLogger,
	}
	r := newRouter(s)
	r.GET("/characters", h.List)
	r.GET("/characters/:id", h.Get)
	r.POST("/characters", h.Create)
	r.PUT("/characters/:id", h.Update)
	return r
}

type listBody struct {
	Characters []controller.CharacterResponse `json:"characters"`
	Total      int                            `json:"total"`
}

func names(cs []controller.CharacterResponse) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Name)
	}
	return out
}

type errorBody struct {
	Error  string `json:"error"`
	Code   string `json:"code"`
	Fields []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"fields"`
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func TestCharacterList(t *testing.T) {
	g := newGallerySet()
	r := g.router(nil)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"default is most liked first", "", []string{"Cass", "Aria", "Borin"}},
		{"tag filter", "?tags=" + g.hero.ID.Hex(), []string{"Aria", "Borin"}},
		{"every tag must match", "?tags=" + g.hero.ID.Hex() + "&tags=" + g.villain.ID.Hex(), []string{"Borin"}},
		{"ascending", "?sort=asc&tags=" + g.hero.ID.Hex(), []string{"Borin", "Aria"}},
		{"text matches description", "?q=ARCHER", []string{"Aria"}},
		{"no match", "?q=zzz", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodGet, "/characters"+tt.query, "")
			require.Equal(t, http.StatusOK, w.Code)

			body := decode[listBody](t, w.Body.Bytes())
			assert.Equal(t, tt.want, names(body.Characters))
			assert.Equal(t, len(tt.want), body.Total)
		})
	}
}

func TestCharacterList_ReportsLikesAndCoverURL(t *testing.T) {
	g := newGallerySet()
	w := doJSON(t, g.router(nil), http.MethodGet, "/characters?q=aria", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode[listBody](t, w.Body.Bytes())
	require.Len(t, body.Characters, 1)
	aria := body.Characters[0]
	assert.Equal(t, 5, aria.Likes)
	require.NotNil(t, aria.Cover)
	assert.Equal(t, "https://cdn.test/"+aria.Cover.ID.Hex()+".png", aria.Cover.URL)
}

func TestCharacterGet(t *testing.T) {
	g := newGallerySet()
	r := g.router(nil)

	w := doJSON(t, r, http.MethodGet, "/characters/"+g.characters.items[1].ID.Hex(), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Borin", decode[controller.CharacterResponse](t, w.Body.Bytes()).Name)

	w = doJSON(t, r, http.MethodGet, "/characters/"+bson.NewObjectID().Hex(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decode[errorBody](t, w.Body.Bytes()).Code)
}

func TestCharacterCreate(t *testing.T) {
	author := &middlewares.Session{UserID: bson.NewObjectID().Hex(), Username: "kit", Role: models.RoleUser}

	t.Run("created with tags", func(t *testing.T) {
		g := newGallerySet()
		body := `{"name":"  Dain  ","description":"A dwarf","tags":["` + g.hero.ID.Hex() + `"]}`
		w := doJSON(t, g.router(author), http.MethodPost, "/characters", body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		got := decode[controller.CharacterResponse](t, w.Body.Bytes())
		assert.Equal(t, "Dain", got.Name)
		assert.Equal(t, author.UserID, got.AuthorID)

		stored := g.characters.items[len(g.characters.items)-1]
		assert.Equal(t, []bson.ObjectID{g.hero.ID}, stored.TagIDs)
	})

	t.Run("name too short", func(t *testing.T) {
		g := newGallerySet()
		w := doJSON(t, g.router(author), http.MethodPost, "/characters", `{"name":"ab","description":"valid text"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)

		got := decode[errorBody](t, w.Body.Bytes())
		assert.Equal(t, "VALIDATION", got.Code)
		require.Len(t, got.Fields, 1)
		assert.Equal(t, "name", got.Fields[0].Field)
		assert.Len(t, g.characters.items, 3)
	})

	t.Run("no session", func(t *testing.T) {
		g := newGallerySet()
		w := doJSON(t, g.router(nil), http.MethodPost, "/characters", `{"name":"Dain","description":"A dwarf"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "UNAUTHORIZED", decode[errorBody](t, w.Body.Bytes()).Code)
	})

	t.Run("unknown tag", func(t *testing.T) {
		g := newGallerySet()
		body := `{"name":"Dain","description":"A dwarf","tags":["` + bson.NewObjectID().Hex() + `"]}`
		w := doJSON(t, g.router(author), http.MethodPost, "/characters", body)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "tags must reference existing tags", decode[errorBody](t, w.Body.Bytes()).Error)
	})

	t.Run("malformed body", func(t *testing.T) {
		g := newGallerySet()
		w := doJSON(t, g.router(author), http.MethodPost, "/characters", `{"name":`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid Request Body", decode[errorBody](t, w.Body.Bytes()).Error)
	})
}

func TestCharacterUpdate(t *testing.T) {
	g := newGallerySet()
	r := g.router(nil)
	borin := g.characters.items[1]

	w := doJSON(t, r, http.MethodPut, "/characters/"+borin.ID.Hex(), `{"name":"Borin","description":"Smith"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "tags", decode[errorBody](t, w.Body.Bytes()).Fields[0].Field)

	w = doJSON(t, r, http.MethodPut, "/characters/"+borin.ID.Hex(), `{"name":"Borin II","description":"Smith","tags":[]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decode[controller.CharacterResponse](t, w.Body.Bytes())
	assert.Equal(t, "Borin II", got.Name)
	assert.Empty(t, got.Tags)

	w = doJSON(t, r, http.MethodPut, "/characters/not-an-id", `{"name":"Borin","description":"Smith","tags":[]}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "characterId", decode[errorBody](t, w.Body.Bytes()).Fields[0].Field)
}
