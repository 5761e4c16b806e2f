package model

import "time"

// Question is a posted question. Tags and Answers are loaded separately
// and are not columns of the questions table.
type Question struct {
	ID        string    `json:"id"        db:"id"`
	Title     string    `json:"title"     db:"title"`
	Content   string    `json:"content"   db:"content"`
	AuthorID  string    `json:"authorId"  db:"author_id"`
	Views     int       `json:"views"     db:"views"`
	Upvotes   int       `json:"upvotes"   db:"upvotes"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	Tags    []Tag    `json:"tags"    db:"-"`
	Answers []Answer `json:"answers" db:"-"`
}

// Answer belongs to exactly one question.
type Answer struct {
	ID         string    `json:"id"         db:"id"`
	QuestionID string    `json:"questionId" db:"question_id"`
	AuthorID   string    `json:"authorId"   db:"author_id"`
	Content    string    `json:"content"    db:"content"`
	Upvotes    int       `json:"upvotes"    db:"upvotes"`
	CreatedAt  time.Time `json:"createdAt"  db:"created_at"`
}

// QuestionSummary is what the sidebar needs to link to a question.
type QuestionSummary struct {
	ID    string `json:"id"    db:"id"`
	Title string `json:"title" db:"title"`
}
