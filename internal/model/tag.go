package model

import "time"

// Tag labels questions. NumberOfQuestions is computed from question_tags
// and is only populated by queries that aggregate it.
type Tag struct {
	ID                string    `json:"id"                db:"id"`
	Name              string    `json:"name"              db:"name"`
	Description       string    `json:"description"       db:"description"`
	CreatedAt         time.Time `json:"createdAt"         db:"created_at"`
	NumberOfQuestions int       `json:"numberOfQuestions" db:"number_of_questions"`
}

// TagSummary is a tag with its usage count, as rendered in badges.
type TagSummary struct {
	ID                string `json:"id"                db:"id"`
	Name              string `json:"name"              db:"name"`
	NumberOfQuestions int    `json:"numberOfQuestions" db:"number_of_questions"`
}
