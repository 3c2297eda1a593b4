package controller

import (
	"chargallery/gallery"
	"chargallery/models"
)

type MediaResponse struct {
	models.Media
	URL   string `json:"url"`
	Likes int    `json:"likes"`
}

type TagRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CharacterResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	AuthorID    string          `json:"authorId"`
	Author      *models.Author  `json:"author,omitempty"`
	Tags        []TagRef        `json:"tags"`
	Media       []MediaResponse `json:"media"`
	Cover       *MediaResponse  `json:"cover,omitempty"`
	Likes       int             `json:"likes"`
}

type TagResponse struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	CharacterIDs   []string       `json:"characterIds"`
	CharacterCount int            `json:"characterCount"`
	Cover          *MediaResponse `json:"cover,omitempty"`
}

func presentMedia(host AssetHost, m models.Media) MediaResponse {
	return MediaResponse{Media: m, URL: host.URL(m.ID.Hex(), m.FileType), Likes: m.Likes()}
}

func presentCharacter(host AssetHost, c models.Character) CharacterResponse {
	resp := CharacterResponse{
		ID:          c.ID.Hex(),
		Name:        c.Name,
		Description: c.Description,
		AuthorID:    c.AuthorID.Hex(),
		Author:      c.Author,
		Tags:        make([]TagRef, 0, len(c.Tags)),
		Media:       make([]MediaResponse, 0, len(c.Media)),
		Likes:       gallery.Popularity(c),
	}
	for _, t := range c.Tags {
		resp.Tags = append(resp.Tags, TagRef{ID: t.ID.Hex(), Name: t.Name})
	}
	for _, m := range c.Media {
		resp.Media = append(resp.Media, presentMedia(host, m))
	}
	if c.Cover != nil {
		cover := presentMedia(host, *c.Cover)
		resp.Cover = &cover
	}
	return resp
}

func presentCharacters(host AssetHost, cs []models.Character) []CharacterResponse {
	out := make([]CharacterResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, presentCharacter(host, c))
	}
	return out
}

func presentTag(host AssetHost, t models.Tag) TagResponse {
	resp := TagResponse{
		ID:             t.ID.Hex(),
		Name:           t.Name,
		CharacterIDs:   make([]string, 0, len(t.CharacterIDs)),
		CharacterCount: gallery.TagPopularity(t),
	}
	for _, id := range t.CharacterIDs {
		resp.CharacterIDs = append(resp.CharacterIDs, id.Hex())
	}
	if t.Cover != nil {
		cover := presentMedia(host, *t.Cover)
		resp.Cover = &cover
	}
	return resp
}

func presentTags(host AssetHost, ts []models.Tag) []TagResponse {
	out := make([]TagResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, presentTag(host, t))
	}
	return out
}
