package activity

import (
	"context"
	"time"

	"sports-activity-platform/internal/global/cache"
	"sports-activity-platform/internal/global/database"
	"sports-activity-platform/internal/global/response"
	"sports-activity-platform/internal/model"

	"github.com/gin-gonic/gin"
)

// SearchActivitiesReq 定义搜索活动的查询参数结构体
type SearchActivitiesReq struct {
	Keyword     string   `form:"keyword"`      // 关键词，匹配标题/描述/地点
	Status      string   `form:"status"`       // 活动状态筛选
	StartDate   *int64   `form:"start_date"`   // 开始时间下限（毫秒时间戳）
	EndDate     *int64   `form:"end_date"`     // 结束时间上限（毫秒时间戳）
	MinPrice    *float64 `form:"min_price"`    // 价格下限
	MaxPrice    *float64 `form:"max_price"`    // 价格上限
	OrganizerID *uint    `form:"organizer_id"` // 组织者筛选
	Page        int      `form:"page"`         // 页码，默认为1
	PageSize    int      `form:"page_size"`    // 每页大小，默认为10
}

// SearchActivities 按条件搜索活动
func SearchActivities(c *gin.Context) {
	var req SearchActivitiesReq
	if err := c.ShouldBindQuery(&req); err != nil {
		log.Error("绑定搜索参数失败", "error", err)
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

	if req.Keyword != "" {
		like := "%" + req.Keyword + "%"
		query = query.Where("title LIKE ? OR description LIKE ? OR location LIKE ?", like, like, like)
	}
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.StartDate != nil {
		query = query.Where("start_time >= ?", time.UnixMilli(*req.StartDate))
	}
	if req.EndDate != nil {
		query = query.Where("end_time <= ?", time.UnixMilli(*req.EndDate))
	}
	if req.MinPrice != nil {
		query = query.Where("price >= ?", *req.MinPrice)
	}
	if req.MaxPrice != nil {
		query = query.Where("price <= ?", *req.MaxPrice)
	}
	if req.OrganizerID != nil {
		query = query.Where("organizer_id = ?", *req.OrganizerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Error("搜索活动计数失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	var activities []model.Activity
	offset := (req.Page - 1) * req.PageSize
	if err := query.Preload("Organizer").
		Order("created_at DESC").
		Offset(offset).Limit(req.PageSize).
		Find(&activities).Error; err != nil {
		log.Error("搜索活动失败", "error", err)
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

// popularCacheKey 热门活动缓存键，列表随报名变化，只做短 TTL 缓存
const popularCacheKey = "activity:popular"

const popularCacheTTL = 5 * time.Minute

type limitReq struct {
	Limit int `form:"limit"` // 返回条数，默认为10
}

// GetPopularActivities 获取热门活动（按参与人数排序），结果走 redis 缓存
func GetPopularActivities(c *gin.Context) {
	var req limitReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	if req.Limit <= 0 {
		req.Limit = 10
	}

	ctx := context.Background()
	cacheKey := popularCacheKey

	// 只缓存默认条数的请求，自定义 limit 直接查库
	if req.Limit == 10 {
		var cached []model.Activity
		if cache.GetJSON(ctx, cacheKey, &cached) {
			response.Success(c, gin.H{"activities": cached})
			return
		}
	}

	var activities []model.Activity
	if err := database.DB.Preload("Organizer").
		Where("status = ?", model.ActivityStatusPublished).
		Order("current_participants DESC").
		Limit(req.Limit).
		Find(&activities).Error; err != nil {
		log.Error("获取热门活动失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	if req.Limit == 10 {
		cache.SetJSON(ctx, cacheKey, activities, popularCacheTTL)
	}

	response.Success(c, gin.H{"activities": activities})
}

// GetUpcomingActivities 获取即将开始的活动
func GetUpcomingActivities(c *gin.Context) {
	var req limitReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	if req.Limit <= 0 {
		req.Limit = 10
	}

	var activities []model.Activity
	if err := database.DB.Preload("Organizer").
		Where("status = ? AND start_time > ?", model.ActivityStatusPublished, time.Now()).
		Order("start_time ASC").
		Limit(req.Limit).
		Find(&activities).Error; err != nil {
		log.Error("获取即将开始的活动失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, gin.H{"activities": activities})
}
