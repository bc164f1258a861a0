package internal

import (
	"context"
	"time"
)

type ctxKey string

const ContextUserKey ctxKey = "sessionUser"

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User is the session view of an account: the cached copy held by a session,
// not re-read from storage on each request.
type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Role      string `json:"role"`
	StaffCode string `json:"staff_code,omitempty"`
	SessionID string `json:"-"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// CanAccess reports whether the user may read or modify a record owned by ownerID.
func (u *User) CanAccess(ownerID int64) bool {
	if u == nil {
		return false
	}
	return u.IsAdmin() || u.ID == ownerID
}

func ContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, ContextUserKey, user)
}

func UserFromContext(ctx context.Context) (*User, bool) {
	if ctx == nil {
		return nil, false
	}
	u, ok := ctx.Value(ContextUserKey).(*User)
	return u, ok && u != nil
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
