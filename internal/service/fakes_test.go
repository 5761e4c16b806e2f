package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/sakif/devoverflow/internal/apperror"
	"github.com/sakif/devoverflow/internal/model"
	"github.com/sakif/devoverflow/internal/repository"
)

// In-memory fakes of the repository interfaces. They store copies, never
// the caller's pointers, so tests cannot interfere with each other.

var errDatabaseDown = errors.New("database is down")

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

type fakeUserRepo struct {
	byClerkID map[string]*model.User
	nextID    int
	err       error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byClerkID: make(map[string]*model.User)}
}

func (f *fakeUserRepo) add(clerkID string) *model.User {
	f.nextID++
	u := &model.User{ID: fmt.Sprintf("user-%d", f.nextID), ClerkID: clerkID}
	f.byClerkID[clerkID] = u
	return u
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byClerkID[user.ClerkID]; ok {
		return apperror.Conflict("user", user.ClerkID)
	}
	f.nextID++
	user.ID = fmt.Sprintf("user-%d", f.nextID)
	stored := *user
	f.byClerkID[user.ClerkID] = &stored
	return nil
}

func (f *fakeUserRepo) Upsert(_ context.Context, user *model.User) error {
	if f.err != nil {
		return f.err
	}
	existing, ok := f.byClerkID[user.ClerkID]
	if !ok {
		f.nextID++
		stored := *user
		stored.ID = fmt.Sprintf("user-%d", f.nextID)
		f.byClerkID[user.ClerkID] = &stored
		*user = stored
		return nil
	}
	existing.Name = user.Name
	existing.Username = user.Username
	existing.Email = user.Email
	existing.Picture = user.Picture
	*user = *existing
	return nil
}

func (f *fakeUserRepo) DeleteByClerkID(_ context.Context, clerkID string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byClerkID[clerkID]
	if !ok {
		return nil, apperror.NotFound("user", clerkID)
	}
	delete(f.byClerkID, clerkID)
	return u, nil
}

func (f *fakeUserRepo) GetByClerkID(_ context.Context, clerkID string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byClerkID[clerkID]
	if !ok {
		return nil, apperror.NotFound("user", clerkID)
	}
	result := *u
	return &result, nil
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	for _, u := range f.byClerkID {
		if u.ID == id {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", id)
}

func (f *fakeUserRepo) UpdateProfile(_ context.Context, clerkID string, update model.ProfileUpdate) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byClerkID[clerkID]
	if !ok {
		return nil, apperror.NotFound("user", clerkID)
	}
	u.Name = update.Name
	u.Username = update.Username
	u.Bio = update.Bio
	u.Location = update.Location
	u.PortfolioWebsite = update.PortfolioWebsite
	result := *u
	return &result, nil
}

type fakeQuestionRepo struct {
	questions map[string]*model.Question
	tagNames  map[string][]string
	nextID    int
	err       error
}

func newFakeQuestionRepo() *fakeQuestionRepo {
	return &fakeQuestionRepo{
		questions: make(map[string]*model.Question),
		tagNames:  make(map[string][]string),
	}
}

func (f *fakeQuestionRepo) Create(_ context.Context, q *model.Question, tagNames []string) error {
	if f.err != nil {
		return f.err
	}
	f.nextID++
	q.ID = fmt.Sprintf("q-%d", f.nextID)
	for _, name := range tagNames {
		q.Tags = append(q.Tags, model.Tag{ID: "tag-" + strings.ToLower(name), Name: name})
	}
	stored := *q
	f.questions[q.ID] = &stored
	f.tagNames[q.ID] = tagNames
	return nil
}

func (f *fakeQuestionRepo) GetByID(_ context.Context, id string) (*model.Question, error) {
	q, ok := f.questions[id]
	if !ok {
		return nil, apperror.NotFound("question", id)
	}
	result := *q
	return &result, nil
}

func (f *fakeQuestionRepo) IncrementViews(_ context.Context, id string) error {
	q, ok := f.questions[id]
	if !ok {
		return apperror.NotFound("question", id)
	}
	q.Views++
	return nil
}

func (f *fakeQuestionRepo) Hot(_ context.Context, limit int) ([]model.QuestionSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	all := make([]*model.Question, 0, len(f.questions))
	for _, q := range f.questions {
		all = append(all, q)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Views != all[j].Views {
			return all[i].Views > all[j].Views
		}
		return all[i].Upvotes > all[j].Upvotes
	})
	if len(all) > limit {
		all = all[:limit]
	}
	result := make([]model.QuestionSummary, 0, len(all))
	for _, q := range all {
		result = append(result, model.QuestionSummary{ID: q.ID, Title: q.Title})
	}
	return result, nil
}

func (f *fakeQuestionRepo) ListByTag(_ context.Context, tagID string, opts repository.ListOptions) ([]model.Question, error) {
	var result []model.Question
	for _, q := range f.questions {
		for _, t := range q.Tags {
			if t.ID == tagID {
				result = append(result, *q)
			}
		}
	}
	if opts.Offset >= len(result) {
		return []model.Question{}, nil
	}
	result = result[opts.Offset:]
	if opts.Limit < len(result) {
		result = result[:opts.Limit]
	}
	return result, nil
}

type fakeAnswerRepo struct {
	questions *fakeQuestionRepo
	answers   []model.Answer
}

func (f *fakeAnswerRepo) Create(_ context.Context, a *model.Answer) error {
	if _, ok := f.questions.questions[a.QuestionID]; !ok {
		return apperror.NotFound("question", a.QuestionID)
	}
	a.ID = fmt.Sprintf("a-%d", len(f.answers)+1)
	f.answers = append(f.answers, *a)
	return nil
}

type fakeTagRepo struct {
	tags      []model.TagSummary
	lastLimit int
	err       error
}

func (f *fakeTagRepo) Popular(_ context.Context, limit int) ([]model.TagSummary, error) {
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	if len(f.tags) > limit {
		return f.tags[:limit], nil
	}
	return f.tags, nil
}

func (f *fakeTagRepo) GetByID(_ context.Context, id string) (*model.Tag, error) {
	for _, t := range f.tags {
		if t.ID == id {
			return &model.Tag{ID: t.ID, Name: t.Name, NumberOfQuestions: t.NumberOfQuestions}, nil
		}
	}
	return nil, apperror.NotFound("tag", id)
}
