package domain

// User Model
type User struct {
	ID         uint   `gorm:"primaryKey" json:"id"`                              // Primary key
	ExternalID string `gorm:"size:191;uniqueIndex;not null" json:"external_id"` // Identity provider subject
	Name       string `gorm:"size:255" json:"name"`                              // Display name
	Username   string `gorm:"size:255" json:"username,omitempty"`                // Username from the identity provider
	Email      string `gorm:"size:255" json:"email"`                             // Primary email address
	Address    string `gorm:"size:500" json:"address,omitempty"`                 // Postal address, set by the user
	Role       string `gorm:"size:16;default:user" json:"role"`                  // Role: user or admin
	CreatedAt  int64  `gorm:"autoCreateTime:milli" json:"created_at"`            // Timestamp of creation in milliseconds
	UpdatedAt  int64  `gorm:"autoUpdateTime:milli" json:"updated_at"`            // Timestamp of last update in milliseconds
}

// Roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// MaxAddressLength caps the stored address
const MaxAddressLength = 500
