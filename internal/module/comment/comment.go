package comment

import (
	"math"

	"sports-activity-platform/internal/global/database"
	"sports-activity-platform/internal/global/jwt"
	"sports-activity-platform/internal/global/response"
	"sports-activity-platform/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// AddCommentReq 定义发表评论请求的结构体
type AddCommentReq struct {
	ActivityID uint   `json:"activity_id" binding:"required"` // 活动ID
	Content    string `json:"content" binding:"required"`     // 评论内容
	Rating     *int   `json:"rating"`                         // 评分 1-5，可选
	ParentID   *uint  `json:"parent_id"`                      // 父评论ID，回复时填写
}

// validRating 校验评分范围
func validRating(rating *int) bool {
	return rating == nil || (*rating >= 1 && *rating <= 5)
}

// AddComment 发表评论或回复。回复的父评论必须存在且属于同一活动
func AddComment(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	var req AddCommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定评论请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	// 检查活动是否存在
	var activity model.Activity
	if err := database.DB.First(&activity, "id = ?", req.ActivityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, response.ErrNotFound.WithTips("活动不存在"))
			return
		}
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	// 回复评论时检查父评论
	if req.ParentID != nil {
		var parent model.Comment
		if err := database.DB.First(&parent, "id = ?", *req.ParentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				response.Fail(c, response.ErrNotFound.WithTips("回复的评论不存在"))
				return
			}
			response.Fail(c, response.ErrDatabase.WithOrigin(err))
			return
		}
		if parent.ActivityID != req.ActivityID {
			response.Fail(c, response.ErrInvalidRequest.WithTips("回复的评论不属于此活动"))
			return
		}
	}

	if !validRating(req.Rating) {
		response.Fail(c, response.ErrInvalidRequest.WithTips("评分必须在1-5之间"))
		return
	}

	comment := model.Comment{
		UserID:     payload.UserID,
		ActivityID: req.ActivityID,
		Content:    req.Content,
		Rating:     req.Rating,
		ParentID:   req.ParentID,
	}

	if err := database.DB.Create(&comment).Error; err != nil {
		log.Error("创建评论失败", "error", err, "activity_id", req.ActivityID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("评论创建成功",
		"comment_id", comment.ID,
		"activity_id", req.ActivityID,
		"user_id", payload.UserID)

	response.Success(c, comment)
}

// ActivityCommentsReq 定义获取活动评论列表的参数结构体
type ActivityCommentsReq struct {
	Page     int `form:"page"`      // 页码，默认为1
	PageSize int `form:"page_size"` // 每页大小，默认为10
}

// GetActivityComments 获取活动的评论列表。
// 只有顶级评论参与分页，每条顶级评论携带全部回复（按时间正序）
func GetActivityComments(c *gin.Context) {
	activityID := c.Param("activity_id")
	if activityID == "" {
		response.Fail(c, response.ErrInvalidRequest.WithTips("活动ID不能为空"))
		return
	}

	var req ActivityCommentsReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 10
	}

	query := database.DB.Model(&model.Comment{}).
		Where("activity_id = ? AND parent_id IS NULL", activityID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	var comments []model.Comment
	offset := (req.Page - 1) * req.PageSize
	if err := query.Preload("User").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Replies.User").
		Order("created_at DESC").
		Offset(offset).Limit(req.PageSize).
		Find(&comments).Error; err != nil {
		log.Error("获取评论列表失败", "error", err, "activity_id", activityID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, gin.H{
		"comments":    comments,
		"total":       total,
		"page":        req.Page,
		"page_size":   req.PageSize,
		"total_pages": (total + int64(req.PageSize) - 1) / int64(req.PageSize),
	})
}

// GetComment 获取评论详情（含回复）
func GetComment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.Fail(c, response.ErrInvalidRequest.WithTips("评论ID不能为空"))
		return
	}

	var comment model.Comment
	if err := database.DB.Preload("User").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Replies.User").
		First(&comment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, response.ErrNotFound.WithTips("评论不存在"))
			return
		}
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, comment)
}

// UpdateCommentReq 定义修改评论请求的结构体
type UpdateCommentReq struct {
	Content string `json:"content" binding:"required"` // 评论内容
	Rating  *int   `json:"rating"`                     // 评分 1-5，不传则保持不变
}

// UpdateComment 修改评论，仅作者本人可操作
func UpdateComment(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	id := c.Param("id")
	if id == "" {
		response.Fail(c, response.ErrInvalidRequest.WithTips("评论ID不能为空"))
		return
	}

	var req UpdateCommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定修改评论请求失败", "error", err, "id", id)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	if !validRating(req.Rating) {
		response.Fail(c, response.ErrInvalidRequest.WithTips("评分必须在1-5之间"))
		return
	}

	var comment model.Comment
	if err := database.DB.First(&comment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, response.ErrNotFound.WithTips("评论不存在"))
			return
		}
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	// 权限检查
	if comment.UserID != payload.UserID {
		log.Warn("无权限修改评论", "id", id, "author_id", comment.UserID, "user_id", payload.UserID)
		response.Fail(c, response.ErrForbidden.WithTips("只能修改自己的评论"))
		return
	}

	comment.Content = req.Content
	if req.Rating != nil {
		comment.Rating = req.Rating
	}

	if err := database.DB.Save(&comment).Error; err != nil {
		log.Error("修改评论失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, comment)
}

// DeleteComment 删除评论，仅作者本人可操作。
// 同一事务内级联删除其全部直接回复（回复不嵌套，无需递归）
func DeleteComment(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	id := c.Param("id")
	if id == "" {
		response.Fail(c, response.ErrInvalidRequest.WithTips("评论ID不能为空"))
		return
	}

	var comment model.Comment
	if err := database.DB.First(&comment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, response.ErrNotFound.WithTips("评论不存在"))
			return
		}
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	if comment.UserID != payload.UserID {
		log.Warn("无权限删除评论", "id", id, "author_id", comment.UserID, "user_id", payload.UserID)
		response.Fail(c, response.ErrForbidden.WithTips("只能删除自己的评论"))
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Where("id = ? OR parent_id = ?", comment.ID, comment.ID).
			Delete(&model.Comment{}).Error
	})
	if err != nil {
		log.Error("删除评论失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("评论删除成功",
		"comment_id", comment.ID,
		"user_id", payload.UserID)

	response.Success(c)
}

// ratingStats 评分统计结果
type ratingStats struct {
	AverageRating float64 `json:"average_rating"`
	TotalRatings  int64   `json:"total_ratings"`
}

// GetRatingStats 获取活动的评分统计。
// 平均分只统计有评分的评论，保留一位小数，无评分时为 0.0
func GetRatingStats(c *gin.Context) {
	activityID := c.Param("activity_id")
	if activityID == "" {
		response.Fail(c, response.ErrInvalidRequest.WithTips("活动ID不能为空"))
		return
	}

	var stats ratingStats
	if err := database.DB.Model(&model.Comment{}).
		Select("COALESCE(AVG(rating), 0) AS average_rating, COUNT(id) AS total_ratings").
		Where("activity_id = ? AND rating IS NOT NULL", activityID).
		Scan(&stats).Error; err != nil {
		log.Error("获取评分统计失败", "error", err, "activity_id", activityID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	stats.AverageRating = math.Round(stats.AverageRating*10) / 10

	response.Success(c, stats)
}

// MyCommentsReq 定义查询自己评论的参数结构体
type MyCommentsReq struct {
	Page     int `form:"page"`      // 页码，默认为1
	PageSize int `form:"page_size"` // 每页大小，默认为10
}

// GetMyComments 获取当前用户的所有评论
func GetMyComments(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	var req MyCommentsReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 10
	}

	query := database.DB.Model(&model.Comment{}).Where("user_id = ?", payload.UserID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	var comments []model.Comment
	offset := (req.Page - 1) * req.PageSize
	if err := query.Preload("Activity").
		Order("created_at DESC").
		Offset(offset).Limit(req.PageSize).
		Find(&comments).Error; err != nil {
		log.Error("获取我的评论失败", "error", err, "user_id", payload.UserID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, gin.H{
		"comments":    comments,
		"total":       total,
		"page":        req.Page,
		"page_size":   req.PageSize,
		"total_pages": (total + int64(req.PageSize) - 1) / int64(req.PageSize),
	})
}
