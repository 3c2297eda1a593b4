package controller

import (
	"net/http"
	"time"

	"chargallery/gallery"
	"chargallery/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	stateError = "error"
	stateEmpty = "empty"
	stateReady = "ready"
)

// PageController composes the server-rendered gallery pages. Routes using it
// sit behind middlewares.RequireSession.
type PageController struct {
	Characters CharacterStore
	Tags       TagStore
	Host       AssetHost
	Log        *zap.Logger
	Timeout    time.Duration
}

type filterOption struct {
	ID      string
	Name    string
	Checked bool
}

type card struct {
	ID          string
	Name        string
	Description string
	CoverURL    string
	Tags        []filterOption
	Likes       int
}

type pageData struct {
	Title      string
	State      string
	Query      gallery.Query
	ToggleSort string
	Filters    []filterOption
	Cards      []card
}

func newPageData(title string, q gallery.Query) pageData {
	return pageData{Title: title, State: stateReady, Query: q, ToggleSort: q.ToggleSort().SortParam()}
}

func (h *PageController) coverURL(m *models.Media) string {
	if m == nil || !m.IsImage() {
		return ""
	}
	return h.Host.URL(m.ID.Hex(), m.FileType)
}

func (h *PageController) CharactersPage(c *gin.Context) {
	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	q := queryFromRequest(c)
	data := newPageData("Characters", q)

	// The filter selector is best effort; the list still renders without it.
	if tags, err := h.Tags.FindAll(ctx); err != nil {
		h.Log.Warn("failed to load tag filters", zap.Error(err))
	} else {
		for _, t := range tags {
			data.Filters = append(data.Filters, filterOption{ID: t.ID.Hex(), Name: t.Name, Checked: q.HasTag(t.ID.Hex())})
		}
	}

	characters, err := h.Characters.FindAll(ctx)
	if err != nil {
		h.Log.Error("failed to load characters", zap.Error(err))
		data.State = stateError
		c.HTML(http.StatusInternalServerError, "characters.html", data)
		return
	}
	if len(characters) == 0 {
		data.State = stateEmpty
	}

	for _, ch := range gallery.Render(characters, q) {
		cd := card{
			ID:          ch.ID.Hex(),
			Name:        ch.Name,
			Description: ch.Description,
			CoverURL:    h.coverURL(ch.Cover),
			Likes:       gallery.Popularity(ch),
		}
		for _, t := range ch.Tags {
			cd.Tags = append(cd.Tags, filterOption{ID: t.ID.Hex(), Name: t.Name, Checked: q.HasTag(t.ID.Hex())})
		}
		data.Cards = append(data.Cards, cd)
	}
	c.HTML(http.StatusOK, "characters.html", data)
}

func (h *PageController) TagsPage(c *gin.Context) {
	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	q := queryFromRequest(c)
	data := newPageData("Tags", q)

	tags, err := h.Tags.FindAll(ctx)
	if err != nil {
		h.Log.Error("failed to load tags", zap.Error(err))
		data.State = stateError
		c.HTML(http.StatusInternalServerError, "tags.html", data)
		return
	}
	if len(tags) == 0 {
		data.State = stateEmpty
	}

	for _, t := range gallery.RenderTags(tags, q) {
		data.Cards = append(data.Cards, card{
			ID:       t.ID.Hex(),
			Name:     t.Name,
			CoverURL: h.coverURL(t.Cover),
			Likes:    gallery.TagPopularity(t),
		})
	}
	c.HTML(http.StatusOK, "tags.html", data)
}

func (h *PageController) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{"Title": "Sign in"})
}
