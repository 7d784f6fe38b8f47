package models

import "time"

// DateLayout is the calendar-date format used for due dates on the wire and in queries.
const DateLayout = "2006-01-02"

type Task struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	Title       string    `gorm:"size:255;not null"`
	Description *string   `gorm:"size:2000"`
	DueDate     time.Time `gorm:"type:date;not null;index"`
	Priority    int       `gorm:"not null;default:1"`
	Completed   bool      `gorm:"not null;default:false"`
	// owner เก็บเป็น foreign key อย่างเดียว ไม่ preload User
	UserID    int64 `gorm:"not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Task) TableName() string {
	return "tasks"
}

// OwnedBy reports whether ownerID owns the task.
func (t *Task) OwnedBy(ownerID int64) bool {
	return t != nil && t.UserID == ownerID
}
