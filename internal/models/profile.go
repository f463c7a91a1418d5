package models

import "time"

// UserProfile holds the public-facing attributes of a user. Exactly one row
// exists per user; it is provisioned automatically on registration and
// lazily on first read for accounts that predate provisioning.
type UserProfile struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	User      *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	AvatarKey string     `json:"avatar_key,omitempty" example:"avatars/moviefan_a1b2c3d4.png"`
	Bio       string     `gorm:"size:500" json:"bio,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Phone     string     `gorm:"size:32" json:"phone,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}
