package webhook

import (
	"encoding/json"
)

// EventType is the closed set of identity events this service reacts to.
// Everything the provider may add in the future maps to EventUnhandled.
type EventType int

const (
	EventUnhandled EventType = iota
	EventUserCreated
	EventUserUpdated
	EventUserDeleted
)

var eventNames = map[string]EventType{
	"user.created": EventUserCreated,
	"user.updated": EventUserUpdated,
	"user.deleted": EventUserDeleted,
}

// ParseEventType maps the provider's "type" string to an EventType.
func ParseEventType(s string) EventType {
	if t, ok := eventNames[s]; ok {
		return t
	}
	return EventUnhandled
}

func (t EventType) String() string {
	switch t {
	case EventUserCreated:
		return "user.created"
	case EventUserUpdated:
		return "user.updated"
	case EventUserDeleted:
		return "user.deleted"
	default:
		return "unhandled"
	}
}

// Event is the envelope every identity webhook shares. Data is decoded
// once the type is known.
type Event struct {
	Type   string          `json:"type"`
	Object string          `json:"object"`
	Data   json.RawMessage `json:"data"`
}

// EmailAddress is one entry of a user's email_addresses list.
type EmailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

// UserData is the payload of user.created and user.updated.
// Nullable provider fields are pointers.
type UserData struct {
	ID                    string         `json:"id"`
	EmailAddresses        []EmailAddress `json:"email_addresses"`
	PrimaryEmailAddressID *string        `json:"primary_email_address_id"`
	ImageURL              string         `json:"image_url"`
	Username              *string        `json:"username"`
	FirstName             *string        `json:"first_name"`
	LastName              *string        `json:"last_name"`
}

// DeletedUserData is the payload of user.deleted.
type DeletedUserData struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// DisplayName joins first and last name, omitting the separator when
// last is empty: ("Ada", "") → "Ada", ("Ada", "Lovelace") → "Ada Lovelace".
func DisplayName(first, last string) string {
	if last == "" {
		return first
	}
	return first + " " + last
}

// DisplayName composes the user's display name from the nullable name
// fields.
func (u UserData) DisplayName() string {
	return DisplayName(deref(u.FirstName), deref(u.LastName))
}

// PrimaryEmail returns the address marked primary, falling back to the
// first listed address, or "" when the user has none.
func (u UserData) PrimaryEmail() string {
	if u.PrimaryEmailAddressID != nil {
		for _, e := range u.EmailAddresses {
			if e.ID == *u.PrimaryEmailAddressID {
				return e.EmailAddress
			}
		}
	}
	if len(u.EmailAddresses) > 0 {
		return u.EmailAddresses[0].EmailAddress
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
