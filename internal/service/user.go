package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/devoverflow/internal/model"
	"github.com/sakif/devoverflow/internal/repository"
	"github.com/sakif/devoverflow/internal/validation"
)

// UserService owns the local mirror of identity-provider users. It is the
// webhook's UserSyncer and backs the profile pages.
type UserService struct {
	repo   repository.UserRepository
	logger *slog.Logger
}

func NewUserService(repo repository.UserRepository, logger *slog.Logger) *UserService {
	return &UserService{
		repo:   repo,
		logger: logger,
	}
}

// CreateFromIdentity mirrors a newly created identity. Creating the same
// clerkID twice is an apperror.ErrConflict.
func (s *UserService) CreateFromIdentity(ctx context.Context, clerkID string, fields model.IdentityFields) (*model.User, error) {
	user := &model.User{
		ClerkID:  clerkID,
		Name:     fields.Name,
		Username: fields.Username,
		Email:    fields.Email,
		Picture:  fields.Picture,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("creating user %s: %w", clerkID, err)
	}

	s.logger.InfoContext(ctx, "user created",
		slog.String("id", user.ID),
		slog.String("clerkID", clerkID),
	)
	return user, nil
}

// UpdateFromIdentity replaces the identity-owned fields of the user. A user
// the store has never seen is created, so an update that overtakes its
// create event is not lost.
func (s *UserService) UpdateFromIdentity(ctx context.Context, clerkID string, fields model.IdentityFields) (*model.User, error) {
	user := &model.User{
		ClerkID:  clerkID,
		Name:     fields.Name,
		Username: fields.Username,
		Email:    fields.Email,
		Picture:  fields.Picture,
	}
	if err := s.repo.Upsert(ctx, user); err != nil {
		return nil, fmt.Errorf("updating user %s: %w", clerkID, err)
	}

	s.logger.InfoContext(ctx, "user updated",
		slog.String("id", user.ID),
		slog.String("clerkID", clerkID),
	)
	return user, nil
}

// DeleteByClerkID removes the user and everything they posted.
func (s *UserService) DeleteByClerkID(ctx context.Context, clerkID string) (*model.User, error) {
	user, err := s.repo.DeleteByClerkID(ctx, clerkID)
	if err != nil {
		return nil, fmt.Errorf("deleting user %s: %w", clerkID, err)
	}

	s.logger.InfoContext(ctx, "user deleted",
		slog.String("id", user.ID),
		slog.String("clerkID", clerkID),
	)
	return user, nil
}

// GetByClerkID returns the mirrored user, or apperror.ErrNotFound.
func (s *UserService) GetByClerkID(ctx context.Context, clerkID string) (*model.User, error) {
	return s.repo.GetByClerkID(ctx, clerkID)
}

// UpdateProfile validates and saves the fields edited on /profile/edit.
// Invalid input returns an apperror.ErrValidation carrying every failed
// field.
func (s *UserService) UpdateProfile(ctx context.Context, clerkID string, in validation.ProfileInput) (*model.User, error) {
	in = validation.ProfileInput{
		Name:             strings.TrimSpace(in.Name),
		Username:         strings.TrimSpace(in.Username),
		Bio:              strings.TrimSpace(in.Bio),
		PortfolioWebsite: strings.TrimSpace(in.PortfolioWebsite),
		Location:         strings.TrimSpace(in.Location),
	}
	if err := validation.Check(in); err != nil {
		return nil, err
	}

	user, err := s.repo.UpdateProfile(ctx, clerkID, model.ProfileUpdate{
		Name:             in.Name,
		Username:         in.Username,
		Bio:              in.Bio,
		Location:         in.Location,
		PortfolioWebsite: in.PortfolioWebsite,
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "profile updated", slog.String("clerkID", clerkID))
	return user, nil
}
