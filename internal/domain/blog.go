package domain

import "time"

type Blog struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
	Title         string     `gorm:"column:title;not null" json:"title"`
	Text          string     `gorm:"column:text;type:text" json:"text"`
	Image         string     `gorm:"column:image" json:"image"`
	ImageFilePath string     `gorm:"column:image_file_path" json:"image_file_path"`
	ImageFileName string     `gorm:"column:image_file_name" json:"image_file_name"`
	Tags          StringList `gorm:"column:tags" json:"tags"`
}

func (Blog) TableName() string { return TableBlogs }
func (b Blog) GetID() uint { return b.ID }
