package domain

type CtxKey string

// Values set by the auth middleware on the gin context.
// KeyUserID holds an int64 and KeyUserRole a Role.
const (
	KeyUserID    CtxKey = "UserID"
	KeyUserEmail CtxKey = "Email"
	KeyUserRole  CtxKey = "Role"
)
