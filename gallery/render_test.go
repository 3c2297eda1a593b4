package gallery_test

import (
	"math/rand/v2"
	"testing"

	"chargallery/gallery"
	"chargallery/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func mediaWithLikes(n int) models.Media {
	likes := make([]bson.ObjectID, n)
	for i := range likes {
		likes[i] = bson.NewObjectID()
	}
	return models.Media{ID: bson.NewObjectID(), FileType: "png", MimeType: "image/png", LikeIDs: likes}
}

func character(name string, tags []models.Tag, likes ...int) models.Character {
	c := models.Character{ID: bson.NewObjectID(), Name: name, Tags: tags}
	for _, n := range likes {
		c.Media = append(c.Media, mediaWithLikes(n))
	}
	return c
}

func names(cs []models.Character) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name
	}
	return out
}

func TestRender_Scenario(t *testing.T) {
	t1 := models.Tag{ID: bson.NewObjectID(), Name: "hero"}
	t2 := models.Tag{ID: bson.NewObjectID(), Name: "mage"}

	chars := []models.Character{
		character("Aria", []models.Tag{t1}, 3),
		character("Borin", []models.Tag{t1, t2}, 1),
		character("Cass", nil, 5),
	}

	q := gallery.Query{Text: "", Tags: []string{t1.ID.Hex()}, Descending: true}
	assert.Equal(t, []string{"Aria", "Borin"}, names(gallery.Render(chars, q)))
}

func TestRender_TextMatching(t *testing.T) {
	alice := character("Alice", nil, 0)
	bob := character("Bob", nil, 0)
	bob.Description = "Sworn enemy of ALICE"
	carol := character("Carol", nil, 0)

	chars := []models.Character{alice, bob, carol}

	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "upper case query", text: "ALICE", want: []string{"Alice", "Bob"}},
		{name: "lower case query", text: "alice", want: []string{"Alice", "Bob"}},
		{name: "empty matches all", text: "", want: []string{"Alice", "Bob", "Carol"}},
		{name: "description only", text: "enemy", want: []string{"Bob"}},
		{name: "no match", text: "zed", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := gallery.Render(chars, gallery.DefaultQuery().WithText(tt.text))
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestRender_ParsedTextKeepsSpaces(t *testing.T) {
	chars := []models.Character{
		character("Alice", nil, 0),
		character("Bo Al", nil, 0),
		character("Sal Vo", nil, 0),
	}

	got := gallery.Render(chars, gallery.ParseQuery("Al ", nil, ""))
	assert.Equal(t, []string{"Sal Vo"}, names(got))

	got = gallery.Render(chars, gallery.ParseQuery(" ", nil, ""))
	assert.Equal(t, []string{"Bo Al", "Sal Vo"}, names(got))
}

func TestRender_MissingDescriptionNeverMatches(t *testing.T) {
	c := character("Dorian", nil, 0)
	got := gallery.Render([]models.Character{c}, gallery.DefaultQuery().WithText("x"))
	assert.Empty(t, got)
}

func TestRender_TagFilterIsConjunctive(t *testing.T) {
	t1 := models.Tag{ID: bson.NewObjectID()}
	t2 := models.Tag{ID: bson.NewObjectID()}

	chars := []models.Character{
		character("OnlyT1", []models.Tag{t1}, 0),
		character("Both", []models.Tag{t1, t2}, 0),
		character("OnlyT2", []models.Tag{t2}, 0),
	}

	q := gallery.DefaultQuery().ToggleTag(t1.ID.Hex()).ToggleTag(t2.ID.Hex())
	assert.Equal(t, []string{"Both"}, names(gallery.Render(chars, q)))
}

func TestRender_UsesStoredTagIDsWithoutNestedTags(t *testing.T) {
	id := bson.NewObjectID()
	c := models.Character{ID: bson.NewObjectID(), Name: "Stored", TagIDs: []bson.ObjectID{id}}

	q := gallery.DefaultQuery().ToggleTag(id.Hex())
	assert.Len(t, gallery.Render([]models.Character{c}, q), 1)
}

func TestRender_StableTies(t *testing.T) {
	chars := []models.Character{
		character("First", nil, 2),
		character("Second", nil, 2),
		character("Third", nil, 5),
		character("Fourth", nil, 2),
	}

	desc := gallery.Render(chars, gallery.DefaultQuery())
	assert.Equal(t, []string{"Third", "First", "Second", "Fourth"}, names(desc))

	asc := gallery.Render(chars, gallery.DefaultQuery().ToggleSort())
	assert.Equal(t, []string{"First", "Second", "Fourth", "Third"}, names(asc))
}

func TestRender_DoesNotModifyInput(t *testing.T) {
	chars := []models.Character{
		character("Low", nil, 1),
		character("High", nil, 9),
	}
	_ = gallery.Render(chars, gallery.DefaultQuery())
	assert.Equal(t, []string{"Low", "High"}, names(chars))
}

func TestPopularity(t *testing.T) {
	t.Run("media only", func(t *testing.T) {
		c := character("A", nil, 2, 3)
		assert.Equal(t, 5, gallery.Popularity(c))
	})

	t.Run("separate cover counted", func(t *testing.T) {
		c := character("A", nil, 2)
		cover := mediaWithLikes(4)
		c.Cover = &cover
		assert.Equal(t, 6, gallery.Popularity(c))
	})

	t.Run("cover among media counted once", func(t *testing.T) {
		c := character("A", nil, 2, 3)
		cover := c.Media[1]
		c.Cover = &cover
		assert.Equal(t, 5, gallery.Popularity(c))
	})

	t.Run("no media", func(t *testing.T) {
		assert.Zero(t, gallery.Popularity(models.Character{Name: "Empty"}))
	})
}

func randomCharacters(r *rand.Rand, tags []models.Tag, n int) []models.Character {
	words := []string{"aria", "borin", "cass", "dane", "elk", "fen"}
	out := make([]models.Character, n)
	for i := range out {
		var own []models.Tag
		for _, t := range tags {
			if r.IntN(2) == 0 {
				own = append(own, t)
			}
		}
		c := character(words[r.IntN(len(words))], own, r.IntN(6), r.IntN(6))
		if r.IntN(2) == 0 {
			c.Description = words[r.IntN(len(words))]
		}
		out[i] = c
	}
	return out
}

func TestRender_Properties(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 42))
	tags := []models.Tag{
		{ID: bson.NewObjectID()},
		{ID: bson.NewObjectID()},
		{ID: bson.NewObjectID()},
	}

	for round := 0; round < 50; round++ {
		chars := randomCharacters(r, tags, r.IntN(20))

		// Empty query is a permutation of the input.
		all := gallery.Render(chars, gallery.DefaultQuery())
		require.Len(t, all, len(chars))
		seen := make(map[bson.ObjectID]int)
		for _, c := range all {
			seen[c.ID]++
		}
		for _, c := range chars {
			assert.Equal(t, 1, seen[c.ID])
		}

		// Descending output never increases in popularity.
		for i := 1; i < len(all); i++ {
			assert.GreaterOrEqual(t, gallery.Popularity(all[i-1]), gallery.Popularity(all[i]))
		}

		// Adding a tag never grows the result.
		q := gallery.DefaultQuery()
		prev := len(gallery.Render(chars, q))
		for _, tag := range tags {
			q = q.ToggleTag(tag.ID.Hex())
			n := len(gallery.Render(chars, q))
			assert.LessOrEqual(t, n, prev)
			prev = n
		}

		// Toggling sort reverses every pair with unequal popularity.
		asc := gallery.Render(chars, gallery.DefaultQuery().ToggleSort())
		pos := make(map[bson.ObjectID]int, len(asc))
		for i, c := range asc {
			pos[c.ID] = i
		}
		for i := 0; i < len(all); i++ {
			for j := i + 1; j < len(all); j++ {
				if gallery.Popularity(all[i]) != gallery.Popularity(all[j]) {
					assert.Greater(t, pos[all[i].ID], pos[all[j].ID])
				}
			}
		}
	}
}

func TestRenderTags(t *testing.T) {
	tag := func(name string, n int) models.Tag {
		ids := make([]bson.ObjectID, n)
		for i := range ids {
			ids[i] = bson.NewObjectID()
		}
		return models.Tag{ID: bson.NewObjectID(), Name: name, CharacterIDs: ids}
	}
	tags := []models.Tag{tag("Villain", 1), tag("Hero", 4), tag("Healer", 2)}

	tagNames := func(ts []models.Tag) []string {
		out := make([]string, len(ts))
		for i, t := range ts {
			out[i] = t.Name
		}
		return out
	}

	assert.Equal(t, []string{"Hero", "Healer", "Villain"}, tagNames(gallery.RenderTags(tags, gallery.DefaultQuery())))
	assert.Equal(t, []string{"Healer", "Hero"}, tagNames(gallery.RenderTags(tags, gallery.DefaultQuery().WithText("HE").ToggleSort())))

	// Selected tag ids are not a filter on the tags page.
	q := gallery.DefaultQuery().ToggleTag(bson.NewObjectID().Hex())
	assert.Len(t, gallery.RenderTags(tags, q), 3)
}
