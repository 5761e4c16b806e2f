package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/xid"

	"github.com/sakif/devoverflow/internal/apperror"
	"github.com/sakif/devoverflow/internal/model"
	"github.com/sakif/devoverflow/internal/repository"
)

var _ repository.AnswerRepository = (*AnswerDB)(nil)

// AnswerDB is the answers table.
type AnswerDB struct {
	conn *sqlx.DB
}

// Create inserts an answer. A missing question surfaces as NotFound.
func (db *AnswerDB) Create(ctx context.Context, answer *model.Answer) error {
	answer.ID = xid.New().String()
	answer.CreatedAt = time.Now().UTC()

	_, err := db.conn.NamedExecContext(ctx,
		`INSERT INTO answers (id, question_id, author_id, content, upvotes, created_at)
		 VALUES (:id, :question_id, :author_id, :content, :upvotes, :created_at)`,
		answer,
	)
	if isForeignKeyViolation(err) {
		return apperror.NotFound("question", answer.QuestionID)
	}
	if err != nil {
		return fmt.Errorf("sqlite: inserting answer on %s: %w", answer.QuestionID, err)
	}
	return nil
}
