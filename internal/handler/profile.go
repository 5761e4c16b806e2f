package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/devoverflow/internal/apperror"
	"github.com/sakif/devoverflow/internal/model"
	"github.com/sakif/devoverflow/internal/validation"
)

// ProfileService reads and edits mirrored users.
type ProfileService interface {
	GetByClerkID(ctx context.Context, clerkID string) (*model.User, error)
	UpdateProfile(ctx context.Context, clerkID string, in validation.ProfileInput) (*model.User, error)
}

// ProfileHandler serves the profile pages.
type ProfileHandler struct {
	users  ProfileService
	render *Renderer
	logger *slog.Logger
}

func NewProfileHandler(users ProfileService, render *Renderer, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		users:  users,
		render: render,
		logger: logger,
	}
}

// profileEditPage is the data of pages/profile_edit.html. User is
// serialized into the page as JSON for client-side scripts.
type profileEditPage struct {
	User   *model.User
	Form   validation.ProfileInput
	Errors map[string]string
}

// HandleShow renders a user's public profile.
//
// HTTP: GET /profile/{clerkId}
func (h *ProfileHandler) HandleShow(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByClerkID(r.Context(), chi.URLParam(r, "clerkId"))
	if err != nil {
		h.render.renderError(w, r, err)
		return
	}
	h.render.render(w, r, http.StatusOK, "profile", user.Name, user)
}

// HandleEdit renders the edit form pre-populated with the signed-in
// user's record.
//
// HTTP: GET /profile/edit
func (h *ProfileHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	clerkID, err := identity(r)
	if err != nil {
		h.render.renderError(w, r, err)
		return
	}

	user, err := h.users.GetByClerkID(r.Context(), clerkID)
	if err != nil {
		h.render.renderError(w, r, err)
		return
	}

	h.render.render(w, r, http.StatusOK, "profile_edit", "Edit Profile", profileEditPage{
		User: user,
		Form: validation.ProfileInput{
			Name:             user.Name,
			Username:         user.Username,
			Bio:              user.Bio,
			PortfolioWebsite: user.PortfolioWebsite,
			Location:         user.Location,
		},
	})
}

// HandleUpdate saves the submitted form. Invalid input re-renders the form
// with the submitted values and one message per failed field (422); success
// redirects to the profile page (303).
//
// HTTP: POST /profile/edit
func (h *ProfileHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	clerkID, err := identity(r)
	if err != nil {
		h.render.renderError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		h.render.renderError(w, r, apperror.ValidationFailed("form", "invalid form body"))
		return
	}
	form := validation.ProfileInput{
		Name:             r.PostForm.Get("name"),
		Username:         r.PostForm.Get("username"),
		Bio:              r.PostForm.Get("bio"),
		PortfolioWebsite: r.PostForm.Get("portfolioWebsite"),
		Location:         r.PostForm.Get("location"),
	}

	_, err = h.users.UpdateProfile(r.Context(), clerkID, form)
	var appErr *apperror.AppError
	if errors.Is(err, apperror.ErrValidation) && errors.As(err, &appErr) {
		user, getErr := h.users.GetByClerkID(r.Context(), clerkID)
		if getErr != nil {
			h.render.renderError(w, r, getErr)
			return
		}
		h.render.render(w, r, http.StatusUnprocessableEntity, "profile_edit", "Edit Profile", profileEditPage{
			User:   user,
			Form:   form,
			Errors: fieldMessages(appErr.Fields),
		})
		return
	}
	if err != nil {
		h.render.renderError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "profile saved", slog.String("clerkID", clerkID))
	http.Redirect(w, r, "/profile/"+url.PathEscape(clerkID), http.StatusSeeOther)
}

// fieldMessages keeps the first message reported for each field.
func fieldMessages(fields []apperror.FieldError) map[string]string {
	msgs := make(map[string]string, len(fields))
	for _, f := range fields {
		if _, ok := msgs[f.Field]; !ok {
			msgs[f.Field] = f.Message
		}
	}
	return msgs
}
