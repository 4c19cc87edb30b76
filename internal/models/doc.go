// Package models defines the data model for the saylist pipeline: the value
// types flowing from the tokenizer through resolution to playlist assembly,
// and the persisted entities backing the local cache.
package models
