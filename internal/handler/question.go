package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/devoverflow/internal/model"
	"github.com/sakif/devoverflow/internal/validation"
)

// QuestionService is what the question API needs from the service layer.
type QuestionService interface {
	Ask(ctx context.Context, clerkID string, in validation.QuestionInput) (*model.Question, error)
	Answer(ctx context.Context, clerkID, questionID string, in validation.AnswerInput) (*model.Answer, error)
	Get(ctx context.Context, id string) (*model.Question, error)
}

// QuestionHandler serves the question JSON API.
type QuestionHandler struct {
	questions QuestionService
	logger    *slog.Logger
}

func NewQuestionHandler(questions QuestionService, logger *slog.Logger) *QuestionHandler {
	return &QuestionHandler{questions: questions, logger: logger}
}

// HandleCreate asks a new question.
//
// HTTP: POST /api/questions
// Body: {"title": "...", "explanation": "...", "tags": ["go"]}
func (h *QuestionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	clerkID, err := identity(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var in validation.QuestionInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.logger.WarnContext(r.Context(), "invalid question JSON", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	question, err := h.questions.Ask(r.Context(), clerkID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, question)
}

// HandleAnswer posts an answer to a question.
//
// HTTP: POST /api/questions/{id}/answers
// Body: {"answer": "..."}
func (h *QuestionHandler) HandleAnswer(w http.ResponseWriter, r *http.Request) {
	clerkID, err := identity(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var in validation.AnswerInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}

	answer, err := h.questions.Answer(r.Context(), clerkID, chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, answer)
}

// HandleGet returns a question with its tags and answers.
//
// HTTP: GET /api/questions/{id}
func (h *QuestionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	question, err := h.questions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, question)
}
