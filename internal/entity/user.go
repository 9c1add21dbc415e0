package entity

// User is a registered account. Gameplay only ever sees the derived
// (userId, username) pair.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

// Session is a transport session stored between connections, so a client
// that reconnects within the TTL window is re-identified without a fresh
// login.
type Session struct {
	Token    string `json:"token"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
}
