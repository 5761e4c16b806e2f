// Package webhook receives user lifecycle events from the external
// identity provider and mirrors them into the local user store.
//
// Deliveries are signed with Svix. Every request goes through the same
// gates in order: configuration, required headers, signature, payload.
// Only a request that passes all four reaches the handler table, and each
// handled event performs exactly one user mutation.
//
// Events are not deduplicated by svix-id and concurrent deliveries for one
// user are not ordered; the store resolves them last-write-wins.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/sakif/devoverflow/internal/logctx"
	"github.com/sakif/devoverflow/internal/model"
)

const (
	headerID        = "svix-id"
	headerTimestamp = "svix-timestamp"
	headerSignature = "svix-signature"

	// maxBodyBytes bounds the payload read before verification.
	maxBodyBytes = 1 << 20
)

// Config is injected at construction; the handler never reads the
// process environment.
type Config struct {
	// Secret is the provider's signing secret ("whsec_..."). Empty means
	// unconfigured: every delivery is answered with 500.
	Secret string
}

// UserSyncer applies identity events to the user store.
type UserSyncer interface {
	CreateFromIdentity(ctx context.Context, clerkID string, fields model.IdentityFields) (*model.User, error)
	UpdateFromIdentity(ctx context.Context, clerkID string, fields model.IdentityFields) (*model.User, error)
	DeleteByClerkID(ctx context.Context, clerkID string) (*model.User, error)
}

// Response is the JSON body of a successful delivery.
type Response struct {
	Message string      `json:"message"`
	User    *model.User `json:"user,omitempty"`
}

// ErrorResponse is the JSON body of a failed delivery.
type ErrorResponse struct {
	Error string `json:"error"`
}

var errMissingUserID = errors.New("missing user id")

type eventFunc func(ctx context.Context, data json.RawMessage) (*Response, *Error)

// Handler serves POST /api/webhook.
type Handler struct {
	verifier Verifier
	users    UserSyncer
	logger   *slog.Logger
	handlers map[EventType]eventFunc
}

// Option customises a Handler.
type Option func(*Handler)

// WithVerifier replaces the Svix verifier built from Config.Secret.
func WithVerifier(v Verifier) Option {
	return func(h *Handler) { h.verifier = v }
}

// NewHandler builds the webhook handler. An empty secret is not an error
// here: the server still starts and the endpoint reports the missing
// configuration on every call. A malformed secret is an error.
func NewHandler(cfg Config, users UserSyncer, logger *slog.Logger, opts ...Option) (*Handler, error) {
	h := &Handler{
		users:  users,
		logger: logger,
	}
	if cfg.Secret != "" {
		v, err := NewSvixVerifier(cfg.Secret)
		if err != nil {
			return nil, err
		}
		h.verifier = v
	}
	for _, opt := range opts {
		opt(h)
	}

	h.handlers = map[EventType]eventFunc{
		EventUserCreated: h.userCreated,
		EventUserUpdated: h.userUpdated,
		EventUserDeleted: h.userDeleted,
	}
	return h, nil
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp, werr := h.handle(w, r)
	if werr != nil {
		writeJSON(w, werr.Status, ErrorResponse{Error: werr.Message})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request) (*Response, *Error) {
	ctx := r.Context()

	if h.verifier == nil {
		h.logger.ErrorContext(ctx, "webhook secret is not configured")
		return nil, configurationError("WEBHOOK_SECRET not defined in environment")
	}

	id := r.Header.Get(headerID)
	if id == "" || r.Header.Get(headerTimestamp) == "" || r.Header.Get(headerSignature) == "" {
		return nil, badRequest("Missing required Svix headers", nil)
	}
	ctx = logctx.With(ctx, slog.String("svix_id", id))

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, badRequest("Error reading webhook body", err)
	}

	if err := h.verifier.Verify(body, r.Header); err != nil {
		h.logger.WarnContext(ctx, "error verifying webhook", slog.String("error", err.Error()))
		return nil, verificationError(err)
	}

	var evt Event
	if err := json.Unmarshal(body, &evt); err != nil {
		h.logger.WarnContext(ctx, "invalid webhook payload", slog.String("error", err.Error()))
		return nil, badRequest("Invalid webhook payload", err)
	}

	eventType := ParseEventType(evt.Type)
	ctx = logctx.With(ctx, slog.String("event_type", evt.Type))

	fn, ok := h.handlers[eventType]
	if !ok {
		h.logger.InfoContext(ctx, "webhook event ignored")
		return &Response{Message: "Event type not handled"}, nil
	}
	return fn(ctx, evt.Data)
}

func (h *Handler) userCreated(ctx context.Context, raw json.RawMessage) (*Response, *Error) {
	data, werr := decodeUser(raw)
	if werr != nil {
		return nil, werr
	}

	user, err := h.users.CreateFromIdentity(ctx, data.ID, identityFields(data))
	if err != nil {
		h.logger.ErrorContext(ctx, "error creating user",
			slog.String("clerkID", data.ID),
			slog.String("error", err.Error()),
		)
		return nil, mutationError("Error creating user", err)
	}
	return &Response{Message: "User created", User: user}, nil
}

func (h *Handler) userUpdated(ctx context.Context, raw json.RawMessage) (*Response, *Error) {
	data, werr := decodeUser(raw)
	if werr != nil {
		return nil, werr
	}

	user, err := h.users.UpdateFromIdentity(ctx, data.ID, identityFields(data))
	if err != nil {
		h.logger.ErrorContext(ctx, "error updating user",
			slog.String("clerkID", data.ID),
			slog.String("error", err.Error()),
		)
		return nil, mutationError("Error updating user", err)
	}
	return &Response{Message: "User updated", User: user}, nil
}

func (h *Handler) userDeleted(ctx context.Context, raw json.RawMessage) (*Response, *Error) {
	var data DeletedUserData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, badRequest("Invalid webhook payload", err)
	}
	if data.ID == "" {
		return nil, badRequest("Invalid webhook payload", errMissingUserID)
	}

	user, err := h.users.DeleteByClerkID(ctx, data.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "error deleting user",
			slog.String("clerkID", data.ID),
			slog.String("error", err.Error()),
		)
		return nil, mutationError("Error deleting user", err)
	}
	return &Response{Message: "User deleted", User: user}, nil
}

func decodeUser(raw json.RawMessage) (UserData, *Error) {
	var data UserData
	if err := json.Unmarshal(raw, &data); err != nil {
		return UserData{}, badRequest("Invalid webhook payload", err)
	}
	if data.ID == "" {
		return UserData{}, badRequest("Invalid webhook payload", errMissingUserID)
	}
	return data, nil
}

func identityFields(data UserData) model.IdentityFields {
	return model.IdentityFields{
		Name:     data.DisplayName(),
		Username: deref(data.Username),
		Email:    data.PrimaryEmail(),
		Picture:  data.ImageURL,
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}
