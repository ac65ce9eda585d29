// Package models defines the domain types shared by every layer.
//
// json tags shape API responses; request types carry validate tags checked by
// pkg/validate.
package models

import "time"

// Tier is the privilege level attached to an account.
type Tier int

const (
	TierMember Tier = 0
	TierAdmin  Tier = 10
)

// ListName names one of the deduplicated lists on an account.
type ListName string

const (
	ListLikes    ListName = "likes"
	ListWishlist ListName = "wishlist"
)

// Valid reports whether l is a known list.
func (l ListName) Valid() bool {
	return l == ListLikes || l == ListWishlist
}

// Account is a registered user.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never serialized
	Tier         Tier      `json:"tier"`
	Likes        []string  `json:"likes"`
	Wishlist     []string  `json:"wishlist"`
	Sessions     []string  `json:"-"` // back-reference only, ids are bearer tokens
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// List returns the values of the named list.
func (a *Account) List(name ListName) []string {
	switch name {
	case ListLikes:
		return a.Likes
	case ListWishlist:
		return a.Wishlist
	default:
		return nil
	}
}

// RegisterRequest is the registration payload. Field order is the order in
// which validation runs.
type RegisterRequest struct {
	Password string `json:"password" validate:"required"`
	Email    string `json:"email" validate:"required,contact"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateAccountRequest is a partial update; nil fields are left untouched and
// unknown JSON fields are ignored.
type UpdateAccountRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}
