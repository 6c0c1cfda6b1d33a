package registration

import (
	"sports-activity-platform/internal/global/middleware"

	"github.com/gin-gonic/gin"
)

func (m *ModuleRegistration) InitRouter(r *gin.RouterGroup) {
	// 报名相关端点全部需要认证
	registrationGroup := r.Group("/registration").Use(middleware.Auth())
	{
		// 报名活动端点
		registrationGroup.POST("/register", Register)
		// 取消报名端点
		registrationGroup.DELETE("/cancel/:activity_id", Cancel)
		// 查询自己所有报名记录端点
		registrationGroup.GET("/my", GetMyRegistrations)
		// 查询自己是否已报名某活动端点
		registrationGroup.GET("/check/:activity_id", CheckRegistration)
		// 组织者查看活动报名列表端点
		registrationGroup.GET("/activity/:activity_id", GetActivityRegistrations)
		// 组织者查看报名统计端点
		registrationGroup.GET("/stats/:activity_id", GetRegistrationStats)
		// 组织者导出报名名单端点
		registrationGroup.GET("/export/:activity_id", ExportRegistrations)
	}
}
