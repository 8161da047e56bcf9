package domain

import "time"

type Lecturer struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	FullName      string    `gorm:"column:fullName;not null" json:"fullName"`
	Field         string    `gorm:"column:field" json:"field"`
	LecturerText  string    `gorm:"column:lecturer_text;type:text" json:"lecturer_text"`
	LecturerImage string    `gorm:"column:lecturer_image" json:"lecturer_image"`
}

func (Lecturer) TableName() string { return TableLecturers }
func (l Lecturer) GetID() uint { return l.ID }
