package domain

// Identity is the authenticated principal returned by the session backend.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Profile holds best-effort display data keyed by Identity.ID.
type Profile struct {
	UserID   string
	Nickname *string
	ImageURL *string
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
