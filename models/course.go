package models

import "time"

// Course is a sellable bundle of video lessons.
type Course struct {
	ID          string    `bson:"id" json:"id"`
	Slug        string    `bson:"slug" json:"slug"`
	Title       string    `bson:"title" json:"title"`
	Subtitle    string    `bson:"subtitle,omitempty" json:"subtitle,omitempty"`
	Description string    `bson:"description" json:"description"`
	PriceCents  int64     `bson:"price_cents" json:"priceCents"`
	Currency    string    `bson:"currency" json:"currency"`
	CoverImage  string    `bson:"cover_image,omitempty" json:"coverImage,omitempty"`
	Published   bool      `bson:"published" json:"published"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updatedAt"`
}

// Lesson is a single video of a course.
type Lesson struct {
	ID              string    `bson:"id" json:"id"`
	CourseID        string    `bson:"course_id" json:"courseId"`
	Title           string    `bson:"title" json:"title"`
	Summary         string    `bson:"summary,omitempty" json:"summary,omitempty"`
	VideoURL        string    `bson:"video_url" json:"videoUrl,omitempty"`
	DurationSeconds int       `bson:"duration_seconds" json:"durationSeconds"`
	Position        int       `bson:"position" json:"position"`
	FreePreview     bool      `bson:"free_preview" json:"freePreview"`
	CreatedAt       time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updatedAt"`
}

// CourseDetail is the public course page: the course and its lesson outline.
type CourseDetail struct {
	Course  Course   `json:"course"`
	Lessons []Lesson `json:"lessons"`
	Owned   bool     `json:"owned"`
}

type CourseRequest struct {
	Slug        string `json:"slug" validate:"required,min=3,max=80"`
	Title       string `json:"title" validate:"required,max=160"`
	Subtitle    string `json:"subtitle" validate:"max=240"`
	Description string `json:"description" validate:"max=10000"`
	PriceCents  int64  `json:"priceCents" validate:"gte=0"`
	Currency    string `json:"currency" validate:"omitempty,len=3"`
	CoverImage  string `json:"coverImage" validate:"omitempty,url"`
	Published   bool   `json:"published"`
}

type LessonRequest struct {
	CourseID        string `json:"courseId" validate:"required"`
	Title           string `json:"title" validate:"required,max=160"`
	Summary         string `json:"summary" validate:"max=2000"`
	VideoURL        string `json:"videoUrl" validate:"required,url"`
	DurationSeconds int    `json:"durationSeconds" validate:"gt=0"`
	Position        int    `json:"position" validate:"gte=0"`
	FreePreview     bool   `json:"freePreview"`
}
