package model

// Profile is what callers get to see of a user. It never carries the
// password digest or token pairs.
type Profile struct {
	ID              string `json:"_id"`
	Nickname        string `json:"nickname"`
	Email           string `json:"email"`
	Role            string `json:"role"`
	IsEmailVerified bool   `json:"isEmailVerified"`
}
