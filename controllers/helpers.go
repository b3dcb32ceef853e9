package controllers

import "go.mongodb.org/mongo-driver/mongo/options"

func mongoReturnAfter() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}
