// Package repository declares the data-access collaborators the services
// depend on. The sqlite subpackage is the only production implementation;
// tests use in-memory fakes.
package repository

import (
	"context"

	"github.com/sakif/devoverflow/internal/model"
)

type ListOptions struct {
	Limit  int
	Offset int
}

type UserRepository interface {
	// Create inserts a new user. Returns apperror.ErrConflict if the
	// external id is already mirrored.
	Create(ctx context.Context, user *model.User) error
	// Upsert creates the user, or replaces its identity fields if a row
	// with the same ClerkID exists.
	Upsert(ctx context.Context, user *model.User) error
	// DeleteByClerkID removes the user together with their questions and
	// answers and returns the row as it was before deletion.
	DeleteByClerkID(ctx context.Context, clerkID string) (*model.User, error)
	GetByClerkID(ctx context.Context, clerkID string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	UpdateProfile(ctx context.Context, clerkID string, update model.ProfileUpdate) (*model.User, error)
}

type QuestionRepository interface {
	// Create inserts the question and links it to tagNames, creating tags
	// that do not exist yet.
	Create(ctx context.Context, question *model.Question, tagNames []string) error
	GetByID(ctx context.Context, id string) (*model.Question, error)
	IncrementViews(ctx context.Context, id string) error
	// Hot returns the top questions by views, then upvotes.
	Hot(ctx context.Context, limit int) ([]model.QuestionSummary, error)
	ListByTag(ctx context.Context, tagID string, opts ListOptions) ([]model.Question, error)
}

type AnswerRepository interface {
	Create(ctx context.Context, answer *model.Answer) error
}

type TagRepository interface {
	// Popular returns the tags attached to the most questions.
	Popular(ctx context.Context, limit int) ([]model.TagSummary, error)
	GetByID(ctx context.Context, id string) (*model.Tag, error)
}
