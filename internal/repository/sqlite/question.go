package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/rs/xid"

	"github.com/sakif/devoverflow/internal/apperror"
	"github.com/sakif/devoverflow/internal/model"
	"github.com/sakif/devoverflow/internal/repository"
)

var _ repository.QuestionRepository = (*QuestionDB)(nil)

// QuestionDB is the questions table and its tag links.
type QuestionDB struct {
	conn *sqlx.DB
}

const questionColumns = "q.id, q.title, q.content, q.author_id, q.views, q.upvotes, q.created_at"

// Create inserts the question and links every tag name to it inside one
// transaction. Tag names are matched case-insensitively; unknown names
// become new tags.
func (db *QuestionDB) Create(ctx context.Context, question *model.Question, tagNames []string) error {
	question.ID = xid.New().String()
	question.CreatedAt = time.Now().UTC()

	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning question insert: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.NamedExecContext(ctx,
		`INSERT INTO questions (id, title, content, author_id, views, upvotes, created_at)
		 VALUES (:id, :title, :content, :author_id, :views, :upvotes, :created_at)`,
		question,
	)
	if isForeignKeyViolation(err) {
		return apperror.NotFound("user", question.AuthorID)
	}
	if err != nil {
		return fmt.Errorf("sqlite: inserting question: %w", err)
	}

	question.Tags = make([]model.Tag, 0, len(tagNames))
	for _, name := range tagNames {
		tag, err := ensureTag(ctx, tx, strings.TrimSpace(name))
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO question_tags (question_id, tag_id) VALUES (?, ?)`,
			question.ID, tag.ID,
		)
		if err != nil {
			return fmt.Errorf("sqlite: linking tag %s: %w", tag.Name, err)
		}
		// Duplicate names in one question link once.
		if n, _ := res.RowsAffected(); n > 0 {
			question.Tags = append(question.Tags, *tag)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing question: %w", err)
	}
	return nil
}

func ensureTag(ctx context.Context, tx *sqlx.Tx, name string) (*model.Tag, error) {
	var tag model.Tag
	err := tx.GetContext(ctx, &tag,
		`SELECT id, name, description, created_at FROM tags WHERE name = ? COLLATE NOCASE`, name)
	if err == nil {
		return &tag, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sqlite: looking up tag %s: %w", name, err)
	}

	tag = model.Tag{
		ID:        xid.New().String(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	_, err = tx.NamedExecContext(ctx,
		`INSERT INTO tags (id, name, description, created_at)
		 VALUES (:id, :name, :description, :created_at)`,
		tag,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: inserting tag %s: %w", name, err)
	}
	return &tag, nil
}

// GetByID loads a question with its tags and answers (oldest first).
func (db *QuestionDB) GetByID(ctx context.Context, id string) (*model.Question, error) {
	var q model.Question
	err := db.conn.GetContext(ctx, &q,
		`SELECT `+questionColumns+` FROM questions q WHERE q.id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("question", id)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: getting question %s: %w", id, err)
	}

	q.Tags = []model.Tag{}
	err = db.conn.SelectContext(ctx, &q.Tags,
		`SELECT t.id, t.name, t.description, t.created_at
		 FROM tags t JOIN question_tags qt ON qt.tag_id = t.id
		 WHERE qt.question_id = ?
		 ORDER BY t.name`, id)
	if err != nil {
		return nil, fmt.Errorf("sqlite: getting tags of question %s: %w", id, err)
	}

	q.Answers = []model.Answer{}
	err = db.conn.SelectContext(ctx, &q.Answers,
		`SELECT id, question_id, author_id, content, upvotes, created_at
		 FROM answers WHERE question_id = ?
		 ORDER BY created_at`, id)
	if err != nil {
		return nil, fmt.Errorf("sqlite: getting answers of question %s: %w", id, err)
	}

	return &q, nil
}

// IncrementViews bumps the view counter used by the hot ranking.
func (db *QuestionDB) IncrementViews(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx, `UPDATE questions SET views = views + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: incrementing views of %s: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound("question", id)
	}
	return nil
}

// Hot returns the most viewed questions, ties broken by upvotes then
// recency.
func (db *QuestionDB) Hot(ctx context.Context, limit int) ([]model.QuestionSummary, error) {
	query, args, err := sq.Select("id", "title").
		From("questions").
		OrderBy("views DESC", "upvotes DESC", "created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("sqlite: building hot questions query: %w", err)
	}

	questions := make([]model.QuestionSummary, 0, limit)
	if err := db.conn.SelectContext(ctx, &questions, query, args...); err != nil {
		return nil, fmt.Errorf("sqlite: listing hot questions: %w", err)
	}
	return questions, nil
}

// ListByTag returns the questions carrying tagID, newest first.
func (db *QuestionDB) ListByTag(ctx context.Context, tagID string, opts repository.ListOptions) ([]model.Question, error) {
	query, args, err := sq.Select(questionColumns).
		From("questions q").
		Join("question_tags qt ON qt.question_id = q.id").
		Where(sq.Eq{"qt.tag_id": tagID}).
		OrderBy("q.created_at DESC").
		Limit(uint64(opts.Limit)).
		Offset(uint64(opts.Offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("sqlite: building tag listing query: %w", err)
	}

	questions := make([]model.Question, 0, opts.Limit)
	if err := db.conn.SelectContext(ctx, &questions, query, args...); err != nil {
		return nil, fmt.Errorf("sqlite: listing questions for tag %s: %w", tagID, err)
	}
	return questions, nil
}
