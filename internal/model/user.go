package model

type User struct {
	Model
	Username string `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"` // 用户名，唯一标识用户
	Password string `gorm:"type:varchar(255);not null" json:"-"`                   // 密码哈希，永不下发
}
