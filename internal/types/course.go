package types

import "time"

const (
	TypeCourse = "course"
	TypeLesson = "lesson"

	CourseStatusDraft     = "draft"
	CourseStatusPublished = "published"
)

// Course is created exactly once per successful generation flow. Its slug is
// immutable identity after creation.
type Course struct {
	ID                 string      `json:"_id,omitempty"`
	Type               string      `json:"_type"`
	Title              string      `json:"title"`
	Description        string      `json:"description"`
	Slug               Slug        `json:"slug"`
	Lessons            []Reference `json:"lessons"`
	Category           Reference   `json:"category"`
	SubCategory        Reference   `json:"subCategory"`
	CourseTags         []Reference `json:"courseTags"`
	Creator            Reference   `json:"creator"`
	Level              string      `json:"level"`
	Status             string      `json:"status"`
	EstimatedDuration  int         `json:"estimatedDuration"`
	AIGenerationPrompt string      `json:"aiGenerationPrompt,omitempty"`
	AIModelUsed        string      `json:"aiModelUsed,omitempty"`
	GeneratedAt        time.Time   `json:"generatedAt,omitempty"`
	CreatedAt          time.Time   `json:"_createdAt,omitempty"`
}

// Lesson is only ever created alongside its owning course, inside the same
// transaction.
type Lesson struct {
	ID                   string    `json:"_id,omitempty"`
	Type                 string    `json:"_type"`
	Title                string    `json:"title"`
	Slug                 Slug      `json:"slug"`
	Order                int       `json:"order"`
	Content              []Block   `json:"content"`
	EstimatedReadingTime int       `json:"estimatedReadingTime"`
	Course               Reference `json:"course"`
	CreatedAt            time.Time `json:"_createdAt,omitempty"`
}
