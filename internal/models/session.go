package models

// SessionState tags the two shapes a session can take. The variant is
// resolved once at the session boundary so downstream code never has to
// truthiness-check a maybe-user.
type SessionState int

const (
	SessionAnonymous SessionState = iota
	SessionAuthenticated
)

// Session is either anonymous or carries the authenticated user.
type Session struct {
	State SessionState
	User  *User
}

func Anonymous() Session {
	return Session{State: SessionAnonymous}
}

func ForUser(u User) Session {
	return Session{State: SessionAuthenticated, User: &u}
}

func (s Session) Authenticated() bool {
	return s.State == SessionAuthenticated && s.User != nil
}
