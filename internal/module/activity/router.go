package activity

import (
	"sports-activity-platform/internal/global/middleware"

	"github.com/gin-gonic/gin"
)

func (a *ModuleActivity) InitRouter(r *gin.RouterGroup) {
	activityGroup := r.Group("/activity")

	// 浏览类端点无需认证
	activityGroup.GET("", ListActivities)
	activityGroup.GET("/search", SearchActivities)
	activityGroup.GET("/popular", GetPopularActivities)
	activityGroup.GET("/upcoming", GetUpcomingActivities)

	authGroup := activityGroup.Group("").Use(middleware.Auth())
	{
		// 创建活动端点
		authGroup.POST("", CreateActivity)
		// 查询自己创建的活动端点
		authGroup.GET("/user/my", GetMyActivities)
		// 封面上传端点
		authGroup.POST("/cover", UploadCover)
		authGroup.POST("/cover/presign", PresignCover)
		// 更新活动端点
		authGroup.PUT("/:id", UpdateActivity)
		// 删除活动端点
		authGroup.DELETE("/:id", DeleteActivity)
	}

	// :id 路由放在具名路由之后，避免吞掉 /search 等路径
	activityGroup.GET("/:id", GetActivity)
}
