package model

// Comment 活动评论。ParentID 为空表示顶级评论，否则为对某条顶级评论的回复，
// 回复不再嵌套（深度固定为 1）
type Comment struct {
	Model
	UserID     uint      `gorm:"not null;index" json:"user_id"`     // 评论作者ID
	ActivityID uint      `gorm:"not null;index" json:"activity_id"` // 活动ID
	Content    string    `gorm:"type:text;not null" json:"content"` // 评论内容
	Rating     *int      `gorm:"" json:"rating"`                    // 评分 1-5，可为空
	ParentID   *uint     `gorm:"index" json:"parent_id"`            // 父评论ID，回复时使用
	User       User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Activity   Activity  `gorm:"foreignKey:ActivityID" json:"activity,omitempty"`
	Replies    []Comment `gorm:"foreignKey:ParentID" json:"replies,omitempty"`
}
