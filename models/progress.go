package models

import "time"

// Progress is one user's playback state for one lesson.
type Progress struct {
	ID              string     `bson:"id" json:"id"`
	UserID          string     `bson:"user_id" json:"userId"`
	CourseID        string     `bson:"course_id" json:"courseId"`
	LessonID        string     `bson:"lesson_id" json:"lessonId"`
	PositionSeconds int        `bson:"position_seconds" json:"positionSeconds"`
	Percent         int        `bson:"percent" json:"percent"`
	Completed       bool       `bson:"completed" json:"completed"`
	UpdatedAt       time.Time  `bson:"updated_at" json:"updatedAt"`
	CompletedAt     *time.Time `bson:"completed_at,omitempty" json:"completedAt,omitempty"`
}

// CourseProgress summarises progress across all lessons of a course.
type CourseProgress struct {
	CourseID         string     `json:"courseId"`
	CompletedLessons int        `json:"completedLessons"`
	TotalLessons     int        `json:"totalLessons"`
	Percent          int        `json:"percent"`
	Lessons          []Progress `json:"lessons"`
}

type ProgressUpdateRequest struct {
	PositionSeconds int `json:"positionSeconds" validate:"gte=0,max=604800"`
	DurationSeconds int `json:"durationSeconds" validate:"gte=0,max=604800"`
}
