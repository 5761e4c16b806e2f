package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/devoverflow/internal/model"
)

func newTestSidebar(t *testing.T, hotLimit, tagLimit int) (*SidebarService, *fakeQuestionRepo, *fakeTagRepo) {
	t.Helper()
	questions := newFakeQuestionRepo()
	tags := &fakeTagRepo{}
	qs := NewQuestionService(questions, &fakeAnswerRepo{questions: questions}, newFakeUserRepo(), testLogger())
	return NewSidebarService(qs, NewTagService(tags), hotLimit, tagLimit), questions, tags
}

func TestSidebarService_Load(t *testing.T) {
	svc, questions, tags := newTestSidebar(t, 5, 2)
	questions.questions["q-1"] = &model.Question{ID: "q-1", Title: "How do I X?", Views: 3}
	tags.tags = []model.TagSummary{
		{ID: "t-1", Name: "go", NumberOfQuestions: 12},
		{ID: "t-2", Name: "sql", NumberOfQuestions: 4},
		{ID: "t-3", Name: "css", NumberOfQuestions: 1},
	}

	sidebar, err := svc.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []model.QuestionSummary{{ID: "q-1", Title: "How do I X?"}}, sidebar.HotQuestions)
	assert.Len(t, sidebar.PopularTags, 2)
	assert.Equal(t, 12, sidebar.PopularTags[0].NumberOfQuestions)
	assert.Equal(t, 2, tags.lastLimit)
}

func TestSidebarService_Load_EmptyLists(t *testing.T) {
	svc, _, _ := newTestSidebar(t, 5, 5)

	sidebar, err := svc.Load(context.Background())
	require.NoError(t, err)

	assert.NotNil(t, sidebar.HotQuestions)
	assert.Empty(t, sidebar.HotQuestions)
	assert.NotNil(t, sidebar.PopularTags)
	assert.Empty(t, sidebar.PopularTags)
}

func TestSidebarService_Load_DefaultLimits(t *testing.T) {
	svc, _, tags := newTestSidebar(t, 0, 0)

	_, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultPopularTagsLimit, tags.lastLimit)
}

func TestSidebarService_Load_Failures(t *testing.T) {
	t.Run("hot questions", func(t *testing.T) {
		svc, questions, tags := newTestSidebar(t, 5, 5)
		questions.err = errDatabaseDown

		_, err := svc.Load(context.Background())
		assert.ErrorIs(t, err, errDatabaseDown)
		assert.Zero(t, tags.lastLimit, "tags are not queried after a failure")
	})

	t.Run("popular tags", func(t *testing.T) {
		svc, _, tags := newTestSidebar(t, 5, 5)
		tags.err = errDatabaseDown

		_, err := svc.Load(context.Background())
		assert.ErrorIs(t, err, errDatabaseDown)
	})
}

func TestTagService_Get(t *testing.T) {
	tags := &fakeTagRepo{tags: []model.TagSummary{{ID: "t-1", Name: "go", NumberOfQuestions: 3}}}
	svc := NewTagService(tags)

	tag, err := svc.Get(context.Background(), "t-1")
	require.NoError(t, err)
	assert.Equal(t, "go", tag.Name)
	assert.Equal(t, 3, tag.NumberOfQuestions)
}
