package models

import "time"

// File is the metadata of a shared upload. The bytes live in object storage.
type File struct {
	ID          string    `bson:"id" json:"id"`
	OwnerID     string    `bson:"owner_id" json:"ownerId"`
	Name        string    `bson:"name" json:"name"`
	ContentType string    `bson:"content_type" json:"contentType"`
	Size        int64     `bson:"size" json:"size"`
	StorageKey  string    `bson:"storage_key" json:"-"`
	Driver      string    `bson:"driver" json:"-"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
}
