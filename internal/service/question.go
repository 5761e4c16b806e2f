package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/sakif/devoverflow/internal/apperror"
	"github.com/sakif/devoverflow/internal/model"
	"github.com/sakif/devoverflow/internal/repository"
	"github.com/sakif/devoverflow/internal/validation"
)

// QuestionService asks, answers and reads questions.
//
// Question explanations and answers are user-supplied HTML from a rich
// text editor. They are sanitized with bluemonday's UGC policy before they
// are stored, so templates may render them unescaped.
type QuestionService struct {
	questions repository.QuestionRepository
	answers   repository.AnswerRepository
	users     repository.UserRepository
	policy    *bluemonday.Policy
	logger    *slog.Logger
}

func NewQuestionService(
	questions repository.QuestionRepository,
	answers repository.AnswerRepository,
	users repository.UserRepository,
	logger *slog.Logger,
) *QuestionService {
	return &QuestionService{
		questions: questions,
		answers:   answers,
		users:     users,
		policy:    bluemonday.UGCPolicy(),
		logger:    logger,
	}
}

// Ask validates and stores a question posted by the identity clerkID.
func (s *QuestionService) Ask(ctx context.Context, clerkID string, in validation.QuestionInput) (*model.Question, error) {
	in.Title = strings.TrimSpace(in.Title)
	tags := make([]string, 0, len(in.Tags))
	for _, tag := range in.Tags {
		tags = append(tags, strings.TrimSpace(tag))
	}
	in.Tags = tags

	if err := validation.Check(in); err != nil {
		return nil, err
	}

	author, err := s.author(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	question := &model.Question{
		Title:    in.Title,
		Content:  s.policy.Sanitize(in.Explanation),
		AuthorID: author.ID,
	}
	if err := s.questions.Create(ctx, question, in.Tags); err != nil {
		s.logger.ErrorContext(ctx, "failed to create question",
			slog.String("authorID", author.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating question: %w", err)
	}

	s.logger.InfoContext(ctx, "question created",
		slog.String("id", question.ID),
		slog.Int("tags", len(question.Tags)),
	)
	return question, nil
}

// Answer validates and stores an answer to questionID.
func (s *QuestionService) Answer(ctx context.Context, clerkID, questionID string, in validation.AnswerInput) (*model.Answer, error) {
	in.Answer = strings.TrimSpace(in.Answer)
	if err := validation.Check(in); err != nil {
		return nil, err
	}

	author, err := s.author(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	answer := &model.Answer{
		QuestionID: questionID,
		AuthorID:   author.ID,
		Content:    s.policy.Sanitize(in.Answer),
	}
	if err := s.answers.Create(ctx, answer); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("creating answer: %w", err)
	}

	s.logger.InfoContext(ctx, "answer created",
		slog.String("id", answer.ID),
		slog.String("questionID", questionID),
	)
	return answer, nil
}

// Get returns the question with its tags and answers and counts the view.
func (s *QuestionService) Get(ctx context.Context, id string) (*model.Question, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "question ID is required")
	}

	if err := s.questions.IncrementViews(ctx, id); err != nil {
		return nil, err
	}
	return s.questions.GetByID(ctx, id)
}

// Hot returns the most viewed questions, most viewed first.
func (s *QuestionService) Hot(ctx context.Context, limit int) ([]model.QuestionSummary, error) {
	if limit <= 0 {
		limit = DefaultHotQuestionsLimit
	}
	questions, err := s.questions.Hot(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("loading hot questions: %w", err)
	}
	return questions, nil
}

// ListByTag pages through the questions carrying tagID, newest first.
func (s *QuestionService) ListByTag(ctx context.Context, tagID string, limit, offset int) ([]model.Question, error) {
	limit, offset = clampList(limit, offset)

	questions, err := s.questions.ListByTag(ctx, tagID, repository.ListOptions{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, fmt.Errorf("listing questions for tag %s: %w", tagID, err)
	}
	return questions, nil
}

// author resolves the signed-in identity to its mirrored user. An identity
// the webhook has not delivered yet cannot post.
func (s *QuestionService) author(ctx context.Context, clerkID string) (*model.User, error) {
	user, err := s.users.GetByClerkID(ctx, clerkID)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, apperror.Forbidden("your account has not been set up yet")
	}
	if err != nil {
		return nil, fmt.Errorf("resolving author %s: %w", clerkID, err)
	}
	return user, nil
}
