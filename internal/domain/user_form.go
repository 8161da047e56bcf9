package domain

import "time"

// UserFormSubmission is written by the public intake form; the admin side only reads and deletes.
type UserFormSubmission struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
	Email         string    `gorm:"column:email" json:"email"`
	FirstName     string    `gorm:"column:firstName" json:"firstName"`
	LastName      string    `gorm:"column:lastName" json:"lastName"`
	PhoneNumber   string    `gorm:"column:phoneNumber" json:"phoneNumber"`
	SocialID      string    `gorm:"column:socialId" json:"socialId"`
	BirthDate     string    `gorm:"column:birth_date" json:"birth_date"`
	ChoosedCourse string    `gorm:"column:choosedCourse" json:"choosedCourse"`
	ChoosedMedia  string    `gorm:"column:choosedMedia" json:"choosedMedia"`
}

func (UserFormSubmission) TableName() string { return TableUserForms }
func (u UserFormSubmission) GetID() uint { return u.ID }
