package models

import (
	"time"
)

type User struct {
	ID             uint64     `gorm:"primarykey" json:"id"`
	Username       string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email          string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash   string     `gorm:"type:varchar(255);not null" json:"-"`
	FirstName      string     `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName       string     `gorm:"type:varchar(100);not null" json:"last_name"`
	Bio            string     `gorm:"type:text" json:"bio"`
	ProfilePicture string     `gorm:"type:varchar(255)" json:"profile_picture"`
	LastLoginAt    *time.Time `json:"last_login_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// Relations
	OwnedTasks    []Task `gorm:"foreignKey:UserID" json:"-"`
	AssignedTasks []Task `gorm:"foreignKey:AssignedTo" json:"-"`
}
