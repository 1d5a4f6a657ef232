package model

import "time"

// User 身份记录；认证由外部身份服务负责，这里不保存凭据
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"type:varchar(150);uniqueIndex;not null"`
	Email     string    `json:"email" gorm:"type:varchar(254)"`
	CreatedAt time.Time `json:"created_at"`
}

func (User) TableName() string { return "users" }
