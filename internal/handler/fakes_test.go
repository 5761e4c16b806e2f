package handler_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sakif/devoverflow/internal/apperror"
	"github.com/sakif/devoverflow/internal/handler"
	"github.com/sakif/devoverflow/internal/model"
	"github.com/sakif/devoverflow/internal/service"
	"github.com/sakif/devoverflow/internal/validation"
	"github.com/sakif/devoverflow/web"
)

var errDatabaseDown = errors.New("database is down")

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

type fakeSidebar struct {
	sidebar *service.Sidebar
	err     error
	calls   int
}

func (f *fakeSidebar) Load(context.Context) (*service.Sidebar, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.sidebar, nil
}

func defaultSidebar() *fakeSidebar {
	return &fakeSidebar{sidebar: &service.Sidebar{
		HotQuestions: []model.QuestionSummary{
			{ID: "q1", Title: "How do I close a channel?"},
			{ID: "q2", Title: "What is a goroutine leak?"},
		},
		PopularTags: []model.TagSummary{
			{ID: "t1", Name: "go", NumberOfQuestions: 42},
			{ID: "t2", Name: "sqlite", NumberOfQuestions: 7},
		},
	}}
}

func newTestRenderer(t *testing.T, sidebar handler.SidebarLoader) *handler.Renderer {
	t.Helper()
	rd, err := handler.NewRenderer(web.Templates(), sidebar, testLogger())
	require.NoError(t, err)
	return rd
}

// fakeUsers implements handler.ProfileService over a map.
type fakeUsers struct {
	users     map[string]*model.User
	lastInput validation.ProfileInput
	err       error
}

func newFakeUsers(users ...*model.User) *fakeUsers {
	f := &fakeUsers{users: make(map[string]*model.User)}
	for _, u := range users {
		f.users[u.ClerkID] = u
	}
	return f
}

func (f *fakeUsers) GetByClerkID(_ context.Context, clerkID string) (*model.User, error) {
	u, ok := f.users[clerkID]
	if !ok {
		return nil, apperror.NotFound("user", clerkID)
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, clerkID string, in validation.ProfileInput) (*model.User, error) {
	f.lastInput = in
	if f.err != nil {
		return nil, f.err
	}
	if err := validation.Check(in); err != nil {
		return nil, err
	}
	u, ok := f.users[clerkID]
	if !ok {
		return nil, apperror.NotFound("user", clerkID)
	}
	u.Name, u.Username, u.Bio = in.Name, in.Username, in.Bio
	u.PortfolioWebsite, u.Location = in.PortfolioWebsite, in.Location
	return u, nil
}

func ada() *model.User {
	return &model.User{
		ID:               "u1",
		ClerkID:          "user_ada",
		Name:             "Ada Lovelace",
		Username:         "adalovelace",
		Email:            "ada@example.com",
		Picture:          "https://img.example.com/ada.png",
		Bio:              "Wrote the first published algorithm.",
		Location:         "London",
		PortfolioWebsite: "https://ada.example.com",
		JoinedAt:         time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

// fakeQuestions implements handler.QuestionService and handler.QuestionReader.
type fakeQuestions struct {
	questions map[string]*model.Question
	asked     []validation.QuestionInput
	askedBy   string
	err       error
}

func newFakeQuestions(qs ...*model.Question) *fakeQuestions {
	f := &fakeQuestions{questions: make(map[string]*model.Question)}
	for _, q := range qs {
		f.questions[q.ID] = q
	}
	return f
}

func (f *fakeQuestions) Ask(_ context.Context, clerkID string, in validation.QuestionInput) (*model.Question, error) {
	f.asked = append(f.asked, in)
	f.askedBy = clerkID
	if f.err != nil {
		return nil, f.err
	}
	if err := validation.Check(in); err != nil {
		return nil, err
	}
	q := &model.Question{ID: "q-new", Title: in.Title, Content: in.Explanation}
	for _, name := range in.Tags {
		q.Tags = append(q.Tags, model.Tag{ID: "t-" + name, Name: name})
	}
	f.questions[q.ID] = q
	return q, nil
}

func (f *fakeQuestions) Answer(_ context.Context, _ string, questionID string, in validation.AnswerInput) (*model.Answer, error) {
	if err := validation.Check(in); err != nil {
		return nil, err
	}
	if _, ok := f.questions[questionID]; !ok {
		return nil, apperror.NotFound("question", questionID)
	}
	return &model.Answer{ID: "a-new", QuestionID: questionID, Content: in.Answer}, nil
}

func (f *fakeQuestions) Get(_ context.Context, id string) (*model.Question, error) {
	if f.err != nil {
		return nil, f.err
	}
	q, ok := f.questions[id]
	if !ok {
		return nil, apperror.NotFound("question", id)
	}
	q.Views++
	copied := *q
	return &copied, nil
}

func (f *fakeQuestions) ListByTag(_ context.Context, tagID string, limit, offset int) ([]model.Question, error) {
	var result []model.Question
	for _, q := range f.questions {
		for _, t := range q.Tags {
			if t.ID == tagID {
				result = append(result, *q)
			}
		}
	}
	if offset >= len(result) {
		return nil, nil
	}
	result = result[offset:]
	if limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

type fakeTags map[string]*model.Tag

func (f fakeTags) Get(_ context.Context, id string) (*model.Tag, error) {
	t, ok := f[id]
	if !ok {
		return nil, apperror.NotFound("tag", id)
	}
	return t, nil
}
