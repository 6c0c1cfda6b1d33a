package model

import "time"

const (
	RegistrationStatusConfirmed = "confirmed" // 已确认
	RegistrationStatusCancelled = "cancelled" // 已取消
)

// Registration 报名记录。(user_id, activity_id) 全局唯一：
// 取消报名复用同一行，不会产生新行
type Registration struct {
	Model
	UserID           uint      `gorm:"not null;uniqueIndex:uniq_user_activity" json:"user_id"`     // 用户ID
	ActivityID       uint      `gorm:"not null;uniqueIndex:uniq_user_activity" json:"activity_id"` // 活动ID
	Status           string    `gorm:"type:varchar(20);not null;default:confirmed" json:"status"`  // 报名状态 confirmed/cancelled
	RegistrationTime time.Time `gorm:"not null" json:"registration_time"`                          // 报名时间
	Notes            string    `gorm:"type:text" json:"notes"`                                     // 备注信息
	User             User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Activity         Activity  `gorm:"foreignKey:ActivityID" json:"activity,omitempty"`
}
