package model

import "time"

// 用户角色
const (
	RoleEmployee = "employee"
	RoleManager  = "manager"
	RoleAdmin    = "admin"
)

// User 用户表 — 对应 users
type User struct {
	UserID       string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Username     string    `gorm:"type:varchar(50);not null;uniqueIndex"          json:"username"`
	Name         string    `gorm:"type:varchar(100);not null"                     json:"name"`
	Role         string    `gorm:"type:varchar(20);not null;default:'employee'"   json:"role"` // employee | manager | admin
	PasswordHash string    `gorm:"type:varchar(100);not null"                     json:"-"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
}

func (User) TableName() string { return "users" }
