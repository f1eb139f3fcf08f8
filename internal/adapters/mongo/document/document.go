package document

import "go.mongodb.org/mongo-driver/bson/primitive"

// Document is anything BaseRepository can load by its Mongo _id.
type Document interface {
	GetID() primitive.ObjectID
}

func objectIDFromHex(id string) primitive.ObjectID {
	if id == "" {
		return primitive.NilObjectID
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID
	}
	return objectID
}
