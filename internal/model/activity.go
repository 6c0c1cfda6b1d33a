package model

import "time"

const (
	ActivityStatusDraft     = "draft"     // 草稿
	ActivityStatusPublished = "published" // 已发布
	ActivityStatusCancelled = "cancelled" // 已取消
	ActivityStatusCompleted = "completed" // 已结束
)

type Activity struct {
	Model
	Title               string    `gorm:"type:varchar(100);not null" json:"title"`                   // 活动标题
	Description         string    `gorm:"type:text" json:"description"`                              // 活动描述
	Location            string    `gorm:"type:varchar(255)" json:"location"`                         // 活动地点
	CoverURL            string    `gorm:"type:varchar(255)" json:"cover_url"`                        // 活动封面URL
	StartTime           time.Time `gorm:"not null" json:"start_time"`                                // 开始时间
	EndTime             time.Time `gorm:"not null" json:"end_time"`                                  // 结束时间
	MaxParticipants     int       `gorm:"not null;default:0" json:"max_participants"`                // 最大参与人数
	CurrentParticipants int       `gorm:"not null;default:0" json:"current_participants"`            // 当前参与人数，只由报名流程维护
	Price               float64   `gorm:"type:decimal(10,2);not null;default:0" json:"price"`        // 活动价格
	Status              string    `gorm:"type:varchar(20);not null;default:draft" json:"status"`     // 活动状态 draft/published/cancelled/completed
	OrganizerID         uint      `gorm:"not null;index" json:"organizer_id"`                        // 组织者ID
	Organizer           User      `gorm:"foreignKey:OrganizerID" json:"organizer,omitempty"`         // 关联组织者
}

// ValidStatus 校验活动状态取值
func ValidStatus(status string) bool {
	switch status {
	case ActivityStatusDraft, ActivityStatusPublished, ActivityStatusCancelled, ActivityStatusCompleted:
		return true
	}
	return false
}
