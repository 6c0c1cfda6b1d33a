package activity

import (
	"time"

	"sports-activity-platform/internal/global/database"
	"sports-activity-platform/internal/global/jwt"
	"sports-activity-platform/internal/global/response"
	"sports-activity-platform/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ActivityCreateReq 定义创建活动请求的结构体
type ActivityCreateReq struct {
	Title           string  `json:"title" binding:"required"`      // 活动标题
	Description     string  `json:"description"`                   // 活动描述
	Location        string  `json:"location"`                      // 活动地点
	CoverURL        string  `json:"cover_url"`                     // 活动封面URL
	StartTime       int64   `json:"start_time" binding:"required"` // 开始时间（毫秒时间戳）
	EndTime         int64   `json:"end_time" binding:"required"`   // 结束时间（毫秒时间戳）
	MaxParticipants int     `json:"max_participants"`              // 最大参与人数
	Price           float64 `json:"price"`                         // 活动价格
	Status          string  `json:"status"`                        // 活动状态，默认 draft
}

// ActivityUpdateReq 定义更新活动请求的结构体，使用指针类型支持部分更新。
// 不包含 current_participants：参与人数只由报名流程维护
type ActivityUpdateReq struct {
	Title           *string  `json:"title"`            // 活动标题，可选
	Description     *string  `json:"description"`      // 活动描述，可选
	Location        *string  `json:"location"`         // 活动地点，可选
	CoverURL        *string  `json:"cover_url"`        // 活动封面URL，可选
	StartTime       *int64   `json:"start_time"`       // 开始时间，可选
	EndTime         *int64   `json:"end_time"`         // 结束时间，可选
	MaxParticipants *int     `json:"max_participants"` // 最大参与人数，可选
	Price           *float64 `json:"price"`            // 活动价格，可选
	Status          *string  `json:"status"`           // 活动状态，可选
}

// CreateActivity 处理创建活动请求，组织者为当前登录用户
func CreateActivity(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	var req ActivityCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定创建活动请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	if req.MaxParticipants < 0 {
		response.Fail(c, response.ErrInvalidRequest.WithTips("最大参与人数不能为负数"))
		return
	}
	if req.Price < 0 {
		response.Fail(c, response.ErrInvalidRequest.WithTips("活动价格不能为负数"))
		return
	}
	if req.Status == "" {
		req.Status = model.ActivityStatusDraft
	}
	if !model.ValidStatus(req.Status) {
		response.Fail(c, response.ErrInvalidRequest.WithTips("活动状态无效"))
		return
	}

	activity := model.Activity{
		Title:           req.Title,
		Description:     req.Description,
		Location:        req.Location,
		CoverURL:        req.CoverURL,
		StartTime:       time.UnixMilli(req.StartTime),
		EndTime:         time.UnixMilli(req.EndTime),
		MaxParticipants: req.MaxParticipants,
		// 新活动的参与人数固定从 0 开始
		CurrentParticipants: 0,
		Price:               req.Price,
		Status:              req.Status,
		OrganizerID:         payload.UserID,
	}

	if err := database.DB.Create(&activity).Error; err != nil {
		log.Error("创建活动失败", "error", err, "title", req.Title)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("活动创建成功",
		"activity_id", activity.ID,
		"title", activity.Title,
		"organizer_id", payload.UserID)

	response.Success(c, gin.H{
		"activity_id": activity.ID,
	})
}

// ListActivitiesReq 定义获取活动列表的查询参数结构体
type ListActivitiesReq struct {
	Status   string `form:"status"`    // 活动状态筛选
	Page     int    `form:"page"`      // 页码，默认为1
	PageSize int    `form:"page_size"` // 每页大小，默认为10
}

// ListActivities 获取活动列表（分页，可按状态筛选）
func ListActivities(c *gin.Context) {
	var req ListActivitiesReq
	if err := c.ShouldBindQuery(&req); err != nil {
		log.Error("绑定查询参数失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 10
	}

	query := database.DB.Model(&model.Activity{})
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Error("获取活动总数失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	var activities []model.Activity
	offset := (req.Page - 1) * req.PageSize
	if err := query.Preload("Organizer").
		Order("created_at DESC").
		Offset(offset).Limit(req.PageSize).
		Find(&activities).Error; err != nil {
		log.Error("获取活动列表失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, gin.H{
		"activities":  activities,
		"total":       total,
		"page":        req.Page,
		"page_size":   req.PageSize,
		"total_pages": (total + int64(req.PageSize) - 1) / int64(req.PageSize),
	})
}

// GetMyActivities 获取当前用户创建的活动
func GetMyActivities(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	var req ListActivitiesReq
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

	query := database.DB.Model(&model.Activity{}).Where("organizer_id = ?", payload.UserID)
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	var activities []model.Activity
	offset := (req.Page - 1) * req.PageSize
	if err := query.Order("created_at DESC").
		Offset(offset).Limit(req.PageSize).
		Find(&activities).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, gin.H{
		"activities":  activities,
		"total":       total,
		"page":        req.Page,
		"page_size":   req.PageSize,
		"total_pages": (total + int64(req.PageSize) - 1) / int64(req.PageSize),
	})
}

// GetActivity 获取单个活动详情
func GetActivity(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.Fail(c, response.ErrInvalidRequest.WithTips("活动ID不能为空"))
		return
	}

	var activity model.Activity
	if err := database.DB.Preload("Organizer").First(&activity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("活动不存在", "id", id)
			response.Fail(c, response.ErrNotFound.WithTips("活动不存在"))
			return
		}
		log.Error("查询活动失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, activity)
}

// UpdateActivity 处理更新活动请求，仅组织者本人可操作
func UpdateActivity(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	id := c.Param("id")
	if id == "" {
		response.Fail(c, response.ErrInvalidRequest.WithTips("活动ID不能为空"))
		return
	}

	var req ActivityUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定更新活动请求失败", "error", err, "id", id)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	var activity model.Activity
	if err := database.DB.First(&activity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("活动不存在", "id", id)
			response.Fail(c, response.ErrNotFound.WithTips("活动不存在"))
			return
		}
		log.Error("查询活动失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	// 权限检查
	if activity.OrganizerID != payload.UserID {
		log.Warn("无权限更新活动", "id", id, "organizer_id", activity.OrganizerID, "user_id", payload.UserID)
		response.Fail(c, response.ErrForbidden.WithTips("无权限更新该活动"))
		return
	}

	if req.Title != nil {
		activity.Title = *req.Title
	}
	if req.Description != nil {
		activity.Description = *req.Description
	}
	if req.Location != nil {
		activity.Location = *req.Location
	}
	if req.CoverURL != nil {
		activity.CoverURL = *req.CoverURL
	}
	if req.StartTime != nil {
		activity.StartTime = time.UnixMilli(*req.StartTime)
	}
	if req.EndTime != nil {
		activity.EndTime = time.UnixMilli(*req.EndTime)
	}
	if req.MaxParticipants != nil {
		if *req.MaxParticipants < 0 {
			response.Fail(c, response.ErrInvalidRequest.WithTips("最大参与人数不能为负数"))
			return
		}
		activity.MaxParticipants = *req.MaxParticipants
	}
	if req.Price != nil {
		if *req.Price < 0 {
			response.Fail(c, response.ErrInvalidRequest.WithTips("活动价格不能为负数"))
			return
		}
		activity.Price = *req.Price
	}
	if req.Status != nil {
		if !model.ValidStatus(*req.Status) {
			response.Fail(c, response.ErrInvalidRequest.WithTips("活动状态无效"))
			return
		}
		activity.Status = *req.Status
	}

	if err := database.DB.Save(&activity).Error; err != nil {
		log.Error("更新活动失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("活动更新成功",
		"id", activity.ID,
		"title", activity.Title)

	response.Success(c)
}

// DeleteActivity 处理删除活动请求，仅组织者本人可操作
func DeleteActivity(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	id := c.Param("id")
	if id == "" {
		response.Fail(c, response.ErrInvalidRequest.WithTips("活动ID不能为空"))
		return
	}

	var activity model.Activity
	if err := database.DB.First(&activity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("活动不存在", "id", id)
			response.Fail(c, response.ErrNotFound.WithTips("活动不存在"))
			return
		}
		log.Error("查询活动失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	if activity.OrganizerID != payload.UserID {
		log.Warn("无权限删除活动", "id", id, "organizer_id", activity.OrganizerID, "user_id", payload.UserID)
		response.Fail(c, response.ErrForbidden.WithTips("无权限删除该活动"))
		return
	}

	if err := database.DB.Delete(&activity).Error; err != nil {
		log.Error("删除活动失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("活动删除成功", "id", activity.ID)

	response.Success(c)
}
