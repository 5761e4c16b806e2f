package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sakif/devoverflow/internal/apperror"
	"github.com/sakif/devoverflow/internal/model"
	"github.com/sakif/devoverflow/internal/repository"
)

type TagService struct {
	repo repository.TagRepository
}

func NewTagService(repo repository.TagRepository) *TagService {
	return &TagService{repo: repo}
}

// Popular returns the tags attached to the most questions.
func (s *TagService) Popular(ctx context.Context, limit int) ([]model.TagSummary, error) {
	if limit <= 0 {
		limit = DefaultPopularTagsLimit
	}
	tags, err := s.repo.Popular(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("loading popular tags: %w", err)
	}
	return tags, nil
}

// Get returns a tag with its question count.
func (s *TagService) Get(ctx context.Context, id string) (*model.Tag, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "tag ID is required")
	}
	return s.repo.GetByID(ctx, id)
}
