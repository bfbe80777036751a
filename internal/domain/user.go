package domain

// User Model
type User struct {
	ID           uint          `gorm:"primaryKey"`                                    // Primary key
	Username     string        `gorm:"size:20;uniqueIndex;not null"`                  // Unique username
	Email        string        `gorm:"size:120;uniqueIndex;not null"`                 // Unique, lower-cased email
	PasswordHash string        `gorm:"size:60;not null"`                              // Bcrypt hash, never the plaintext
	Transactions []Transaction `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"` // One-to-many, removed with the user
}

// PublicUser is the identity exposed to clients
type PublicUser struct {
	ID       uint   `json:"id"`       // User ID
	Username string `json:"username"` // Username
	Email    string `json:"email"`    // Email address
}

// Public strips the password hash from a user record
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Email: u.Email}
}
