package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/devoverflow/internal/model"
)

// tagPageSize is the number of questions listed per tag page.
const tagPageSize = 20

// QuestionReader loads questions for display.
type QuestionReader interface {
	Get(ctx context.Context, id string) (*model.Question, error)
	ListByTag(ctx context.Context, tagID string, limit, offset int) ([]model.Question, error)
}

// TagReader loads a single tag.
type TagReader interface {
	Get(ctx context.Context, id string) (*model.Tag, error)
}

// PageHandler serves the browsing pages. Every page shows the sidebar and
// the mobile navigation sheet from the shared layout.
type PageHandler struct {
	questions QuestionReader
	tags      TagReader
	render    *Renderer
	logger    *slog.Logger
}

func NewPageHandler(questions QuestionReader, tags TagReader, render *Renderer, logger *slog.Logger) *PageHandler {
	return &PageHandler{
		questions: questions,
		tags:      tags,
		render:    render,
		logger:    logger,
	}
}

// HandleHome serves GET /.
func (h *PageHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	h.render.render(w, r, http.StatusOK, "home", "Home", nil)
}

// HandleQuestion serves GET /question/{id}. Each view is counted.
func (h *PageHandler) HandleQuestion(w http.ResponseWriter, r *http.Request) {
	question, err := h.questions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.render.renderError(w, r, err)
		return
	}
	h.render.render(w, r, http.StatusOK, "question", question.Title, question)
}

type tagPage struct {
	Tag       *model.Tag
	Questions []model.Question
	NextPage  int
}

// HandleTag serves GET /tags/{id}?page=N, 20 questions per page.
func (h *PageHandler) HandleTag(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tag, err := h.tags.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.render.renderError(w, r, err)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	questions, err := h.questions.ListByTag(ctx, tag.ID, tagPageSize, (page-1)*tagPageSize)
	if err != nil {
		h.render.renderError(w, r, err)
		return
	}

	data := tagPage{Tag: tag, Questions: questions}
	if len(questions) == tagPageSize {
		data.NextPage = page + 1
	}
	h.render.render(w, r, http.StatusOK, "tag", tag.Name, data)
}
