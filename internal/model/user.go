package model

type User struct {
	ID                 int64   `db:"id"`
	Username           string  `db:"username"`
	Email              string  `db:"email"`
	PasswordHash       string  `db:"password_hash"`
	Inactive           bool    `db:"inactive"`
	ActivationToken    *string `db:"activation_token"`
	PasswordResetToken *string `db:"password_reset_token"`
	Image              *string `db:"image"`
	CreatedAt          int64   `db:"created_at"` // unix millis
}

// IsActive reports whether the account has completed activation.
func (u *User) IsActive() bool {
	return !u.Inactive
}

// View is the caller-facing projection of a user. It never carries credentials.
func (u *User) View() UserView {
	return UserView{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Image:    u.Image,
	}
}

type UserView struct {
	ID       int64   `json:"id" db:"id"`
	Username string  `json:"username" db:"username"`
	Email    string  `json:"email" db:"email"`
	Image    *string `json:"image" db:"image"`
}
