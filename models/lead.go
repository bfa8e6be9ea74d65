package models

import "time"

// Lead is a marketing contact captured from the landing pages.
type Lead struct {
	ID        string    `bson:"id" json:"id"`
	Email     string    `bson:"email" json:"email"`
	Name      string    `bson:"name,omitempty" json:"name,omitempty"`
	Source    string    `bson:"source,omitempty" json:"source,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

type LeadRequest struct {
	Email  string `json:"email" validate:"required,email"`
	Name   string `json:"name" validate:"max=80"`
	Source string `json:"source" validate:"max=40"`
}
