package models

import "time"

type User struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Email     string `gorm:"size:255;uniqueIndex;not null"` // เทียบแบบ exact-case
	Password  string `gorm:"not null" json:"-"`           // bcrypt hash
	FirstName string `gorm:"size:100;not null"`
	LastName  string `gorm:"size:100;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string {
	return "users"
}

// FullName รวมชื่อ-นามสกุลสำหรับ log
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
