package controller_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"
	"time"

	"chargallery/apperr"
	"chargallery/cdn"
	"chargallery/middlewares"
	"chargallery/models"
	"chargallery/validation"
	"chargallery/views"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var (
	host      = cdn.NewHost("https://cdn.test", "media")
	validate  = validation.New()
	nopLogger = zap.NewNop()
)

type fakeCharacters struct {
	mu       sync.Mutex
	items    []models.Character
	err      error
	attached []attachCall
}

type attachCall struct {
	characterID string
	mediaID     bson.ObjectID
	asCover     bool
}

func (f *fakeCharacters) FindAll(ctx context.Context) ([]models.Character, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return slices.Clone(f.items), nil
}

func (f *fakeCharacters) FindByTag(ctx context.Context, tagID string) ([]models.Character, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Character
	for _, c := range f.items {
		if _, ok := c.TagIDSet()[tagID]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCharacters) FindByID(ctx context.Context, id string) (models.Character, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.items {
		if c.ID.Hex() == id {
			return c, nil
		}
	}
	return models.Character{}, apperr.NotFoundf("character %s not found", id)
}

func (f *fakeCharacters) Create(ctx context.Context, c models.Character) (models.Character, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = bson.NewObjectID()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	f.items = append(f.items, c)
	return c, nil
}

func (f *fakeCharacters) Update(ctx context.Context, id string, fields models.CharacterFields) (models.Character, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.items {
		if c.ID.Hex() == id {
			c.Name = fields.Name
			c.Description = fields.Description
			c.TagIDs = fields.TagIDs
			c.Tags = nil
			f.items[i] = c
			return c, nil
		}
	}
	return models.Character{}, apperr.NotFoundf("character %s not found", id)
}

func (f *fakeCharacters) AttachMedia(ctx context.Context, characterID string, mediaID bson.ObjectID, asCover bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attached = append(f.attached, attachCall{characterID, mediaID, asCover})
	return nil
}

type fakeTags struct {
	items []models.Tag
	err   error
}

func (f *fakeTags) FindAll(ctx context.Context) ([]models.Tag, error) {
	if f.err != nil {
		return nil, f.err
	}
	return slices.Clone(f.items), nil
}

func (f *fakeTags) FindByID(ctx context.Context, id string) (models.Tag, error) {
	for _, t := range f.items {
		if t.ID.Hex() == id {
			return t, nil
		}
	}
	return models.Tag{}, apperr.NotFoundf("tag %s not found", id)
}

func (f *fakeTags) Create(ctx context.Context, name string) (models.Tag, error) {
	for _, t := range f.items {
		if t.Name == name {
			return models.Tag{}, apperr.AlreadyExists("tag already exists")
		}
	}
	t := models.Tag{ID: bson.NewObjectID(), Name: name, CharacterIDs: []bson.ObjectID{}}
	f.items = append(f.items, t)
	return t, nil
}

func (f *fakeTags) Update(ctx context.Context, id, name string, coverID *bson.ObjectID) (models.Tag, error) {
	for i, t := range f.items {
		if t.ID.Hex() == id {
			t.Name = name
			t.CoverID = coverID
			f.items[i] = t
			return t, nil
		}
	}
	return models.Tag{}, apperr.NotFoundf("tag %s not found", id)
}

func (f *fakeTags) CountExisting(ctx context.Context, ids []bson.ObjectID) (int64, error) {
	var n int64
	for _, t := range f.items {
		if slices.Contains(ids, t.ID) {
			n++
		}
	}
	return n, nil
}

type fakeMedia struct {
	items map[string]models.Media
}

func newFakeMedia(ms ...models.Media) *fakeMedia {
	f := &fakeMedia{items: make(map[string]models.Media)}
	for _, m := range ms {
		f.items[m.ID.Hex()] = m
	}
	return f
}

func (f *fakeMedia) Create(ctx context.Context, m models.Media) (models.Media, error) {
	m.UploadedAt = time.Now()
	m.LikeIDs = []bson.ObjectID{}
	f.items[m.ID.Hex()] = m
	return m, nil
}

func (f *fakeMedia) FindByID(ctx context.Context, id string) (models.Media, error) {
	m, ok := f.items[id]
	if !ok {
		return models.Media{}, apperr.NotFoundf("media %s not found", id)
	}
	return m, nil
}

func (f *fakeMedia) ToggleLike(ctx context.Context, id string, userID bson.ObjectID) (models.Media, error) {
	m, ok := f.items[id]
	if !ok {
		return models.Media{}, apperr.NotFoundf("media %s not found", id)
	}
	if i := slices.Index(m.LikeIDs, userID); i >= 0 {
		m.LikeIDs = slices.Delete(slices.Clone(m.LikeIDs), i, i+1)
	} else {
		m.LikeIDs = append(slices.Clone(m.LikeIDs), userID)
	}
	f.items[id] = m
	return m, nil
}

func (f *fakeMedia) Delete(ctx context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return apperr.NotFoundf("media %s not found", id)
	}
	delete(f.items, id)
	return nil
}

type fakeUsers struct {
	byEmail map[string]models.User
}

func (f *fakeUsers) Create(ctx context.Context, u models.User) (models.User, error) {
	if f.byEmail == nil {
		f.byEmail = make(map[string]models.User)
	}
	u.ID = bson.NewObjectID()
	f.byEmail[u.Email] = u
	return u, nil
}

func (f *fakeUsers) FindByEmail(ctx context.Context, email string) (models.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return models.User{}, apperr.NotFound("user not found")
	}
	return u, nil
}

func (f *fakeUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, ok := f.byEmail[email]
	return ok, nil
}

type fakeStorage struct {
	objects map[string][]byte
	deleted []string
}

func (f *fakeStorage) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	if f.objects == nil {
		f.objects = make(map[string][]byte)
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.objects[key] = b
	return nil
}

func (f *fakeStorage) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	delete(f.objects, key)
	return nil
}

// newRouter returns an engine that acts as s when s is non-nil.
func newRouter(s *middlewares.Session) *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(views.Templates())
	if s != nil {
		r.Use(func(c *gin.Context) {
			middlewares.SetSession(c, *s)
			c.Next()
		})
	}
	return r
}

func do(t *testing.T, r http.Handler, method, target string, body []byte, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doJSON(t *testing.T, r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	return do(t, r, method, target, []byte(body), "application/json")
}

func liked(n int) []bson.ObjectID {
	ids := make([]bson.ObjectID, n)
	for i := range ids {
		ids[i] = bson.NewObjectID()
	}
	return ids
}
