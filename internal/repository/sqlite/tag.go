package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/sakif/devoverflow/internal/apperror"
	"github.com/sakif/devoverflow/internal/model"
	"github.com/sakif/devoverflow/internal/repository"
)

var _ repository.TagRepository = (*TagDB)(nil)

// TagDB is the tags table.
type TagDB struct {
	conn *sqlx.DB
}

// Popular ranks tags by how many questions carry them. Tags without any
// question still appear, with a count of zero, after the used ones.
func (db *TagDB) Popular(ctx context.Context, limit int) ([]model.TagSummary, error) {
	query, args, err := sq.Select("t.id", "t.name", "COUNT(qt.question_id) AS number_of_questions").
		From("tags t").
		LeftJoin("question_tags qt ON qt.tag_id = t.id").
		GroupBy("t.id", "t.name").
		OrderBy("number_of_questions DESC", "t.name ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("sqlite: building popular tags query: %w", err)
	}

	tags := make([]model.TagSummary, 0, limit)
	if err := db.conn.SelectContext(ctx, &tags, query, args...); err != nil {
		return nil, fmt.Errorf("sqlite: listing popular tags: %w", err)
	}
	return tags, nil
}

// GetByID returns the tag together with its question count.
func (db *TagDB) GetByID(ctx context.Context, id string) (*model.Tag, error) {
	var tag model.Tag
	err := db.conn.GetContext(ctx, &tag,
		`SELECT t.id, t.name, t.description, t.created_at,
			(SELECT COUNT(*) FROM question_tags qt WHERE qt.tag_id = t.id) AS number_of_questions
		 FROM tags t WHERE t.id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("tag", id)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: getting tag %s: %w", id, err)
	}
	return &tag, nil
}
