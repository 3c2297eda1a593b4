package database

import (
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// lookupMany joins the documents whose _id is listed in localField.
func lookupMany(from, localField, as string, project bson.D) bson.D {
	lookup := bson.D{
		{Key: "from", Value: from},
		{Key: "localField", Value: localField},
		{Key: "foreignField", Value: "_id"},
		{Key: "as", Value: as},
	}
	if len(project) > 0 {
		lookup = append(lookup, bson.E{Key: "pipeline", Value: bson.A{bson.D{{Key: "$project", Value: project}}}})
	}
	return bson.D{{Key: "$lookup", Value: lookup}}
}

// lookupOne joins a single optional document and flattens it to a sub-document.
func lookupOne(from, localField, as string, project bson.D) []bson.D {
	return []bson.D{
		lookupMany(from, localField, as, project),
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$" + as},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}
}

// characterPipeline selects characters matching filter in creation order with
// their author, tags, media and cover attached.
func characterPipeline(filter bson.D) mongo.Pipeline {
	p := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
		lookupMany(tagsCollection, "tag_ids", "tags", bson.D{{Key: "name", Value: 1}}),
		lookupMany(mediaCollection, "media_ids", "media", nil),
	}
	p = append(p, lookupOne(mediaCollection, "cover_id", "cover", nil)...)
	p = append(p, lookupOne(usersCollection, "author_id", "author", bson.D{{Key: "username", Value: 1}})...)
	return p
}

func tagPipeline(filter bson.D) mongo.Pipeline {
	p := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
	return append(p, lookupOne(mediaCollection, "cover_id", "cover", nil)...)
}
