package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/devoverflow/internal/apperror"
	"github.com/sakif/devoverflow/internal/model"
)

// newTestUserDB returns the users repository of a fresh in-memory DB.
func newTestUserDB(t *testing.T) (*DB, *UserDB) {
	t.Helper()
	db := newTestDB(t)
	return db, db.Users()
}

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestUserCreate(t *testing.T) {
	_, u := newTestUserDB(t)

	user := &model.User{
		ClerkID:  "user_2abc",
		Name:     "Ada Lovelace",
		Username: "ada",
		Email:    "ada@example.com",
		Picture:  "https://img.clerk.com/ada",
	}

	if err := u.Create(context.Background(), user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if user.ID == "" {
		t.Error("Create() did not set user.ID")
	}
	if user.JoinedAt.IsZero() {
		t.Error("Create() did not set user.JoinedAt")
	}
	if user.UpdatedAt.IsZero() {
		t.Error("Create() did not set user.UpdatedAt")
	}
}

func TestUserCreate_DuplicateClerkID(t *testing.T) {
	_, u := newTestUserDB(t)
	createTestUser(t, u, "user_dup", "firstuser")

	duplicate := &model.User{ClerkID: "user_dup", Username: "seconduser"}
	err := u.Create(context.Background(), duplicate)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("Create() error = %v, want ErrConflict", err)
	}
}

// =========================================================================
// UPSERT TESTS
// =========================================================================

func TestUserUpsert_InsertsWhenMissing(t *testing.T) {
	_, u := newTestUserDB(t)

	user := &model.User{ClerkID: "user_new", Name: "New", Username: "newbie"}
	if err := u.Upsert(context.Background(), user); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	found, err := u.GetByClerkID(context.Background(), "user_new")
	if err != nil {
		t.Fatalf("GetByClerkID() error = %v", err)
	}
	if found.ID != user.ID {
		t.Errorf("ID = %q, want %q", found.ID, user.ID)
	}
}

func TestUserUpsert_OverwritesIdentityKeepsProfile(t *testing.T) {
	_, u := newTestUserDB(t)
	ctx := context.Background()
	created := createTestUser(t, u, "user_up", "original")

	if _, err := u.UpdateProfile(ctx, "user_up", model.ProfileUpdate{
		Name: "Original", Username: "original", Bio: "I write compilers", Location: "London",
		PortfolioWebsite: "https://example.com",
	}); err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}

	user := &model.User{
		ClerkID:  "user_up",
		Name:     "Renamed Person",
		Username: "renamed",
		Email:    "renamed@example.com",
		Picture:  "https://img.clerk.com/renamed",
	}
	if err := u.Upsert(ctx, user); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	if user.ID != created.ID {
		t.Errorf("ID = %q, want existing %q", user.ID, created.ID)
	}
	if user.Name != "Renamed Person" || user.Username != "renamed" || user.Email != "renamed@example.com" {
		t.Errorf("identity fields not overwritten: %+v", user)
	}
	if user.Bio != "I write compilers" || user.Location != "London" {
		t.Errorf("profile fields lost: %+v", user)
	}
}

// =========================================================================
// GET TESTS
// =========================================================================

func TestUserGetByID(t *testing.T) {
	_, u := newTestUserDB(t)
	created := createTestUser(t, u, "user_111", "getbyid_user")

	found, err := u.GetUserByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if found.ClerkID != "user_111" {
		t.Errorf("ClerkID = %q, want %q", found.ClerkID, "user_111")
	}
	if found.Username != "getbyid_user" {
		t.Errorf("Username = %q, want %q", found.Username, "getbyid_user")
	}
}

func TestUserGetByClerkID_NotFound(t *testing.T) {
	_, u := newTestUserDB(t)

	_, err := u.GetByClerkID(context.Background(), "user_missing")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByClerkID() error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// DELETE TESTS
// =========================================================================

func TestUserDeleteByClerkID_CascadesContent(t *testing.T) {
	db, u := newTestUserDB(t)
	ctx := context.Background()

	author := createTestUser(t, u, "user_author", "author")
	other := createTestUser(t, u, "user_other", "otherguy")
	q := createTestQuestion(t, db, author, "How do goroutines work?", "go")
	kept := createTestQuestion(t, db, other, "What is a channel?", "go")

	if err := db.Answers().Create(ctx, &model.Answer{
		QuestionID: kept.ID, AuthorID: author.ID, Content: "A channel is a typed conduit.",
	}); err != nil {
		t.Fatalf("Answers().Create() error = %v", err)
	}

	deleted, err := u.DeleteByClerkID(ctx, "user_author")
	if err != nil {
		t.Fatalf("DeleteByClerkID() error = %v", err)
	}
	if deleted.ID != author.ID {
		t.Errorf("deleted.ID = %q, want %q", deleted.ID, author.ID)
	}

	if _, err := u.GetByClerkID(ctx, "user_author"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("user still present after delete, err = %v", err)
	}
	if _, err := db.Questions().GetByID(ctx, q.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("question of deleted user still present, err = %v", err)
	}

	stillThere, err := db.Questions().GetByID(ctx, kept.ID)
	if err != nil {
		t.Fatalf("GetByID(kept) error = %v", err)
	}
	if len(stillThere.Answers) != 0 {
		t.Errorf("answers of deleted user = %d, want 0", len(stillThere.Answers))
	}
}

func TestUserDeleteByClerkID_NotFound(t *testing.T) {
	_, u := newTestUserDB(t)

	_, err := u.DeleteByClerkID(context.Background(), "user_ghost")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("DeleteByClerkID() error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// PROFILE TESTS
// =========================================================================

func TestUserUpdateProfile(t *testing.T) {
	_, u := newTestUserDB(t)
	createTestUser(t, u, "user_prof", "profiler")

	updated, err := u.UpdateProfile(context.Background(), "user_prof", model.ProfileUpdate{
		Name:             "Grace Hopper",
		Username:         "ghopper",
		Bio:              "Found the first actual bug.",
		Location:         "Arlington",
		PortfolioWebsite: "https://navy.mil",
	})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if updated.Name != "Grace Hopper" || updated.PortfolioWebsite != "https://navy.mil" {
		t.Errorf("UpdateProfile() = %+v", updated)
	}
	// Identity-owned email is untouched by profile edits.
	if updated.Email != "profiler@example.com" {
		t.Errorf("Email = %q, want unchanged", updated.Email)
	}
}

func TestUserUpdateProfile_NotFound(t *testing.T) {
	_, u := newTestUserDB(t)

	_, err := u.UpdateProfile(context.Background(), "user_none", model.ProfileUpdate{Name: "x"})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("UpdateProfile() error = %v, want ErrNotFound", err)
	}
}
