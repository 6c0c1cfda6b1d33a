package ping

import (
	"sports-activity-platform/internal/global/response"

	"github.com/gin-gonic/gin"
)

// Ping 健康检查
func Ping(c *gin.Context) {
	response.Success(c, gin.H{"message": "pong"})
}
