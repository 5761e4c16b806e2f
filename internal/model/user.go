// Package model defines the data structures used throughout the application.
package model

import "time"

// User is the local mirror of an identity owned by the external identity
// provider.
//
// ClerkID is the provider's stable user id (e.g. "user_2abc..."). It is the
// key every webhook mutation is addressed by. ID is our own xid so that
// questions and answers never reference a third-party key directly.
//
// Name, Username, Email and Picture are overwritten wholesale whenever the
// provider reports a change. Bio, Location and PortfolioWebsite are only
// ever edited from the profile page.
type User struct {
	ID               string    `json:"id"               db:"id"`
	ClerkID          string    `json:"clerkId"          db:"clerk_id"`
	Name             string    `json:"name"             db:"name"`
	Username         string    `json:"username"         db:"username"`
	Email            string    `json:"email"            db:"email"`
	Picture          string    `json:"picture"          db:"picture"`
	Bio              string    `json:"bio"              db:"bio"`
	Location         string    `json:"location"         db:"location"`
	PortfolioWebsite string    `json:"portfolioWebsite" db:"portfolio_website"`
	Reputation       int       `json:"reputation"       db:"reputation"`
	JoinedAt         time.Time `json:"joinedAt"         db:"joined_at"`
	UpdatedAt        time.Time `json:"updatedAt"        db:"updated_at"`
}

// IdentityFields are the attributes the identity provider owns.
// A "user updated" event replaces all of them at once.
type IdentityFields struct {
	Name     string
	Username string
	Email    string
	Picture  string
}

// ProfileUpdate carries the fields a user may edit on /profile/edit.
type ProfileUpdate struct {
	Name             string
	Username         string
	Bio              string
	Location         string
	PortfolioWebsite string
}
