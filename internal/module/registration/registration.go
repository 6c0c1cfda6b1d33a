package registration

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

// RegisterReq 定义报名请求的结构体
type RegisterReq struct {
	ActivityID uint   `json:"activity_id" binding:"required"` // 活动ID
	Notes      string `json:"notes"`                          // 备注信息，可选
}

// Register 处理报名请求。容量检查、报名行写入和参与人数自增在同一个事务内完成：
// 自增是条件更新（current_participants < max_participants），并发报名不会超员；
// (user_id, activity_id) 唯一索引兜底并发首次报名的重复插入。
// 已取消的报名会被重新激活，而不是新建一行；激活翻转同样是条件更新，
// 并发重报只有一个事务会占座。
func Register(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	var req RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定报名请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	var registration model.Registration

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		// 检查活动是否存在且状态为已发布
		var activity model.Activity
		if err := tx.First(&activity, "id = ?", req.ActivityID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.ErrNotFound.WithTips("活动不存在")
			}
			return response.ErrDatabase.WithOrigin(err)
		}
		if activity.Status != model.ActivityStatusPublished {
			return response.ErrInvalidState.WithTips("活动未发布，无法报名")
		}

		// 检查是否已经报名
		var existing model.Registration
		err := tx.Where("user_id = ? AND activity_id = ?", payload.UserID, req.ActivityID).
			First(&existing).Error
		switch {
		case err == nil:
			if existing.Status == model.RegistrationStatusConfirmed {
				return response.ErrAlreadyExists.WithTips("您已经报名过此活动")
			}
			// 已取消的报名：先原子翻转状态，赢得翻转的事务才去占座
			now := time.Now()
			if err := reactivateRow(tx, existing.ID, req.Notes, now); err != nil {
				return err
			}
			if err := occupySeat(tx, req.ActivityID); err != nil {
				return err
			}
			existing.Status = model.RegistrationStatusConfirmed
			existing.RegistrationTime = now
			existing.Notes = req.Notes
			registration = existing
			return nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return response.ErrDatabase.WithOrigin(err)
		}

		// 首次报名：占座后插入新行
		if err := occupySeat(tx, req.ActivityID); err != nil {
			return err
		}
		registration = model.Registration{
			UserID:           payload.UserID,
			ActivityID:       req.ActivityID,
			Status:           model.RegistrationStatusConfirmed,
			RegistrationTime: time.Now(),
			Notes:            req.Notes,
		}
		if err := tx.Create(&registration).Error; err != nil {
			// 并发下两个事务都可能通过上面的查重，唯一索引保证只有一个成功
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return response.ErrAlreadyExists.WithTips("您已经报名过此活动")
			}
			return response.ErrDatabase.WithOrigin(err)
		}
		return nil
	})
	if err != nil {
		response.Fail(c, err)
		return
	}

	log.Info("报名成功",
		"user_id", payload.UserID,
		"activity_id", req.ActivityID,
		"registration_id", registration.ID)

	response.Success(c, registration)
}

// occupySeat 原子占座：仅在还有空位时把参与人数加一。
// RowsAffected 为 0 说明活动已满员
func occupySeat(tx *gorm.DB, activityID uint) error {
	result := tx.Model(&model.Activity{}).
		Where("id = ? AND current_participants < max_participants", activityID).
		UpdateColumn("current_participants", gorm.Expr("current_participants + 1"))
	if result.Error != nil {
		return response.ErrDatabase.WithOrigin(result.Error)
	}
	if result.RowsAffected == 0 {
		return response.ErrAlreadyExists.WithTips("活动已满员")
	}
	return nil
}

// reactivateRow 原子地把已取消的报名行翻回已确认。
// 条件更新保证同一行的翻转只生效一次：并发重报时输掉翻转的事务
// RowsAffected 为 0，不会重复占座
func reactivateRow(tx *gorm.DB, registrationID uint, notes string, at time.Time) error {
	result := tx.Model(&model.Registration{}).
		Where("id = ? AND status = ?", registrationID, model.RegistrationStatusCancelled).
		Updates(map[string]any{
			"status":            model.RegistrationStatusConfirmed,
			"registration_time": at,
			"notes":             notes,
		})
	if result.Error != nil {
		return response.ErrDatabase.WithOrigin(result.Error)
	}
	if result.RowsAffected == 0 {
		return response.ErrAlreadyExists.WithTips("您已经报名过此活动")
	}
	return nil
}

// releaseRow 原子地把已确认的报名行翻成已取消，与 reactivateRow 对称：
// 只有赢得翻转的事务才去回退参与人数
func releaseRow(tx *gorm.DB, registrationID uint) error {
	result := tx.Model(&model.Registration{}).
		Where("id = ? AND status = ?", registrationID, model.RegistrationStatusConfirmed).
		UpdateColumn("status", model.RegistrationStatusCancelled)
	if result.Error != nil {
		return response.ErrDatabase.WithOrigin(result.Error)
	}
	if result.RowsAffected == 0 {
		return response.ErrInvalidState.WithTips("报名已取消")
	}
	return nil
}

// Cancel 处理取消报名请求。状态翻转与参与人数回退在同一事务内：
// 翻转本身是条件更新，并发重复取消只会回退一次人数，
// 回退的条件更新保证人数不会被减成负数
func Cancel(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	activityID := c.Param("activity_id")
	if activityID == "" {
		response.Fail(c, response.ErrInvalidRequest.WithTips("活动ID不能为空"))
		return
	}

	var registration model.Registration

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND activity_id = ?", payload.UserID, activityID).
			First(&registration).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.ErrNotFound.WithTips("未找到报名记录")
			}
			return response.ErrDatabase.WithOrigin(err)
		}

		if registration.Status == model.RegistrationStatusCancelled {
			return response.ErrInvalidState.WithTips("报名已取消")
		}

		if err := releaseRow(tx, registration.ID); err != nil {
			return err
		}
		registration.Status = model.RegistrationStatusCancelled

		// 即使计数已经漂移也不会减成负数
		result := tx.Model(&model.Activity{}).
			Where("id = ? AND current_participants > 0", activityID).
			UpdateColumn("current_participants", gorm.Expr("current_participants - 1"))
		if result.Error != nil {
			return response.ErrDatabase.WithOrigin(result.Error)
		}
		return nil
	})
	if err != nil {
		response.Fail(c, err)
		return
	}

	log.Info("取消报名成功",
		"user_id", payload.UserID,
		"activity_id", activityID)

	response.Success(c, registration)
}

// MyRegistrationsReq 定义查询自己报名记录的参数结构体
type MyRegistrationsReq struct {
	Status   string `form:"status"`    // 报名状态筛选，all 或空表示不筛选
	Page     int    `form:"page"`      // 页码，默认为1
	PageSize int    `form:"page_size"` // 每页大小，默认为10
}

// GetMyRegistrations 获取当前用户的所有报名记录
func GetMyRegistrations(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	var req MyRegistrationsReq
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

	query := database.DB.Model(&model.Registration{}).Where("user_id = ?", payload.UserID)
	if req.Status != "" && req.Status != "all" {
		query = query.Where("status = ?", req.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	var registrations []model.Registration
	offset := (req.Page - 1) * req.PageSize
	if err := query.Preload("Activity").Preload("Activity.Organizer").
		Order("registration_time DESC").
		Offset(offset).Limit(req.PageSize).
		Find(&registrations).Error; err != nil {
		log.Error("获取报名记录失败", "error", err, "user_id", payload.UserID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, gin.H{
		"registrations": registrations,
		"total":         total,
		"page":          req.Page,
		"page_size":     req.PageSize,
		"total_pages":   (total + int64(req.PageSize) - 1) / int64(req.PageSize),
	})
}

// CheckRegistration 检查当前用户是否已报名某活动
func CheckRegistration(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	activityID := c.Param("activity_id")
	if activityID == "" {
		response.Fail(c, response.ErrInvalidRequest.WithTips("活动ID不能为空"))
		return
	}

	var registration model.Registration
	err := database.DB.Where("user_id = ? AND activity_id = ?", payload.UserID, activityID).
		First(&registration).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.Success(c, gin.H{"registered": false})
		return
	}
	if err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, gin.H{
		"registered":   registration.Status == model.RegistrationStatusConfirmed,
		"registration": registration,
	})
}

// ActivityRegistrationsReq 定义查询活动报名列表的参数结构体
type ActivityRegistrationsReq struct {
	Status   string `form:"status"`    // 报名状态筛选
	Page     int    `form:"page"`      // 页码，默认为1
	PageSize int    `form:"page_size"` // 每页大小，默认为10
}

// loadOwnedActivity 查询活动并校验当前用户是组织者
func loadOwnedActivity(c *gin.Context, activityID string, userID uint) (*model.Activity, bool) {
	var activity model.Activity
	if err := database.DB.First(&activity, "id = ?", activityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, response.ErrNotFound.WithTips("活动不存在"))
			return nil, false
		}
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return nil, false
	}
	if activity.OrganizerID != userID {
		log.Warn("无权限查看活动报名", "activity_id", activityID, "user_id", userID)
		response.Fail(c, response.ErrForbidden.WithTips("仅组织者可查看"))
		return nil, false
	}
	return &activity, true
}

// GetActivityRegistrations 组织者查看活动的报名列表
func GetActivityRegistrations(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	activityID := c.Param("activity_id")
	if _, ok := loadOwnedActivity(c, activityID, payload.UserID); !ok {
		return
	}

	var req ActivityRegistrationsReq
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

	query := database.DB.Model(&model.Registration{}).Where("activity_id = ?", activityID)
	if req.Status != "" && req.Status != "all" {
		query = query.Where("status = ?", req.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	var registrations []model.Registration
	offset := (req.Page - 1) * req.PageSize
	if err := query.Preload("User").
		Order("registration_time ASC").
		Offset(offset).Limit(req.PageSize).
		Find(&registrations).Error; err != nil {
		log.Error("获取活动报名列表失败", "error", err, "activity_id", activityID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, gin.H{
		"registrations": registrations,
		"total":         total,
		"page":          req.Page,
		"page_size":     req.PageSize,
		"total_pages":   (total + int64(req.PageSize) - 1) / int64(req.PageSize),
	})
}

// statusCount 报名统计的单行结果
type statusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// GetRegistrationStats 组织者查看报名统计（按状态分组计数），纯读操作
func GetRegistrationStats(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	activityID := c.Param("activity_id")
	if _, ok := loadOwnedActivity(c, activityID, payload.UserID); !ok {
		return
	}

	var stats []statusCount
	if err := database.DB.Model(&model.Registration{}).
		Select("status, COUNT(id) AS count").
		Where("activity_id = ?", activityID).
		Group("status").
		Scan(&stats).Error; err != nil {
		log.Error("获取报名统计失败", "error", err, "activity_id", activityID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, gin.H{"stats": stats})
}
