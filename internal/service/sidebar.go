package service

import (
	"context"
	"fmt"

	"github.com/sakif/devoverflow/internal/model"
)

// Sidebar is the content of the right-hand sidebar rendered on every page.
type Sidebar struct {
	HotQuestions []model.QuestionSummary `json:"hotQuestions"`
	PopularTags  []model.TagSummary      `json:"popularTags"`
}

// SidebarService loads the sidebar. It is read-only and holds no cache:
// every render sees the current data.
type SidebarService struct {
	questions *QuestionService
	tags      *TagService
	hotLimit  int
	tagLimit  int
}

func NewSidebarService(questions *QuestionService, tags *TagService, hotLimit, tagLimit int) *SidebarService {
	return &SidebarService{
		questions: questions,
		tags:      tags,
		hotLimit:  hotLimit,
		tagLimit:  tagLimit,
	}
}

// Load fetches hot questions, then popular tags. Either failure fails the
// whole sidebar.
func (s *SidebarService) Load(ctx context.Context) (*Sidebar, error) {
	hot, err := s.questions.Hot(ctx, s.hotLimit)
	if err != nil {
		return nil, fmt.Errorf("sidebar: %w", err)
	}

	tags, err := s.tags.Popular(ctx, s.tagLimit)
	if err != nil {
		return nil, fmt.Errorf("sidebar: %w", err)
	}

	if hot == nil {
		hot = []model.QuestionSummary{}
	}
	if tags == nil {
		tags = []model.TagSummary{}
	}
	return &Sidebar{HotQuestions: hot, PopularTags: tags}, nil
}
