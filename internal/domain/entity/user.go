package entity

import (
	"errors"
	"time"
)

type Role string

const (
	RoleSeeker Role = "SEEKER"
	RoleOwner  Role = "OWNER"
	RoleAdmin  Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleSeeker, RoleOwner, RoleAdmin:
		return true
	default:
		return false
	}
}

type User struct {
	ID            string     `bson:"_id,omitempty"`
	Email         string     `bson:"email"`
	Phone         string     `bson:"phone,omitempty"`
	PasswordHash  string     `bson:"password_hash"`
	Role          Role       `bson:"role"`
	TrustScore    int        `bson:"trust_score"`
	IsBanned      bool       `bson:"is_banned"`
	HasActivePass bool       `bson:"has_active_pass"`
	PassExpiry    *time.Time `bson:"pass_expiry,omitempty"`
	CreatedAt     time.Time  `bson:"created_at"`
	UpdatedAt     time.Time  `bson:"updated_at"`
}

func NewUser(email, passwordHash string, role Role) (*User, error) {
	if email == "" {
		return nil, errors.New("email cannot be empty")
	}
	if passwordHash == "" {
		return nil, errors.New("password hash cannot be empty")
	}
	if !role.Valid() {
		return nil, errors.New("invalid user role")
	}
	now := time.Now().UTC()
	return &User{
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		TrustScore:   50,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// HasValidPass reports whether the user's visit pass is active at the given
// instant. A pass flag without an expiry in the future counts as expired.
func (u *User) HasValidPass(now time.Time) bool {
	return u.HasActivePass && u.PassExpiry != nil && u.PassExpiry.After(now)
}
