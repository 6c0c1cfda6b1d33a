package user

import (
	"sports-activity-platform/internal/global/middleware"

	"github.com/gin-gonic/gin"
)

// InitRouter 初始化用户模块的路由
func (u *ModuleUser) InitRouter(r *gin.RouterGroup) {
	userGroup := r.Group("/user")

	// 注册与登录无需认证
	userGroup.POST("/register", Register)
	userGroup.POST("/login", Login)

	authGroup := userGroup.Use(middleware.Auth())
	{
		// 获取当前用户信息端点
		authGroup.GET("/me", GetMe)
		// 修改密码端点
		authGroup.PUT("/password", ChangePassword)
	}
}
