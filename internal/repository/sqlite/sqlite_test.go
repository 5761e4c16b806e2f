package sqlite

import (
	"context"
	"testing"

	"github.com/sakif/devoverflow/internal/model"
)

// newTestDB opens a fresh in-memory database with the full schema.
// Each test gets its own database, so tests never see each other's rows.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("New(:memory:) error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser creates a user and fails the test if it errors.
func createTestUser(t *testing.T, u *UserDB, clerkID, username string) *model.User {
	t.Helper()
	user := &model.User{
		ClerkID:  clerkID,
		Name:     "Test " + username,
		Username: username,
		Email:    username + "@example.com",
		Picture:  "https://img.clerk.com/" + username,
	}
	if err := u.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// createTestQuestion asks a question as author and fails the test on error.
func createTestQuestion(t *testing.T, db *DB, author *model.User, title string, tags ...string) *model.Question {
	t.Helper()
	q := &model.Question{
		Title:    title,
		Content:  "Some long enough explanation for " + title,
		AuthorID: author.ID,
	}
	if err := db.Questions().Create(context.Background(), q, tags); err != nil {
		t.Fatalf("failed to create test question: %v", err)
	}
	return q
}

func TestNew_MigratesTwice(t *testing.T) {
	db := newTestDB(t)

	// Running the migrations on an up-to-date schema is a no-op.
	if err := db.migrate(); err != nil {
		t.Fatalf("migrate() on migrated db error = %v", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		t.Fatalf("PingContext() error = %v", err)
	}
}
