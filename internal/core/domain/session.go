package domain

// DefaultTokenType is the auth scheme used when the server does not name one.
const DefaultTokenType = "Bearer"

// Session is the authenticated identity for one running client instance.
// Token empty means unauthenticated, and every other field must be empty too —
// partial state is the bug class the store guards against.
type Session struct {
	Token       string `json:"token"`
	TokenType   string `json:"token_type"`
	UserID      string `json:"id"`
	RoleName    string `json:"role"`
	RoleID      string `json:"rolId"`
	DisplayName string `json:"name"`
}

// Authenticated reports whether the session carries a bearer token.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Claims are the fields decoded from a bearer token's payload segment.
// Any field may be empty; callers treat empty as "absent".
type Claims struct {
	UserID      string
	RoleName    string
	RoleID      string
	DisplayName string
}

// UserRecord is the user object the login endpoint returns alongside the
// token. Fields present here override the corresponding decoded claim.
type UserRecord struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	RoleID string `json:"rolId"`
}
