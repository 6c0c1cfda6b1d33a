package comment

import (
	"sports-activity-platform/internal/global/middleware"

	"github.com/gin-gonic/gin"
)

func (m *ModuleComment) InitRouter(r *gin.RouterGroup) {
	commentGroup := r.Group("/comment")

	// 浏览类端点无需认证
	commentGroup.GET("/activity/:activity_id", GetActivityComments)
	commentGroup.GET("/stats/:activity_id", GetRatingStats)

	authGroup := commentGroup.Group("").Use(middleware.Auth())
	{
		// 发表评论端点
		authGroup.POST("/add", AddComment)
		// 查询自己所有评论端点
		authGroup.GET("/user/my", GetMyComments)
		// 修改评论端点
		authGroup.PUT("/:id", UpdateComment)
		// 删除评论端点
		authGroup.DELETE("/:id", DeleteComment)
	}

	// :id 路由放在具名路由之后，避免吞掉 /stats 等路径
	commentGroup.GET("/:id", GetComment)
}
