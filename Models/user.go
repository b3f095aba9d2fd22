package Models

import "gorm.io/gorm"

// Permission levels: 1 viewer, 2 field staff, 3 office manager, 4 admin.
type User struct {
	gorm.Model
	Name       string `json:"name"`
	Email      string `json:"email" gorm:"uniqueIndex;not null"`
	Phone      string `json:"phone"`
	Password   []byte `json:"-"`
	Permission int    `json:"permission"`
	IsApproved int    `json:"is_approved"`
}
