package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"sports-activity-platform/config"
	"sports-activity-platform/internal/global/logger"
	internalSentry "sports-activity-platform/internal/global/sentry"

	"github.com/gin-gonic/gin"
)

// ResponseBody 统一响应体。HTTP 状态码恒为 200，业务状态由 code 表达
type ResponseBody struct {
	Code   int32           `json:"code"`
	Msg    string          `json:"msg"`
	Origin string          `json:"origin,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// Success 返回成功响应，data 最多传一个
func Success(c *gin.Context, data ...any) {
	body := gin.H{
		"code": int32(200),
		"msg":  "成功",
	}
	if len(data) > 0 && data[0] != nil {
		body["data"] = data[0]
	}
	c.JSON(http.StatusOK, body)
}

// Fail 返回失败响应。非 *Error 类型的错误统一按内部错误处理
func Fail(c *gin.Context, err error) {
	var e *Error
	if !errors.As(err, &e) {
		e = ErrInternal.WithOrigin(err)
	}

	// 供中间件与 Sentry 上报读取
	c.Set(ErrorContextKey, e)

	// 5xxxx 级别错误上报 Sentry
	internalSentry.CaptureException(c, e)

	body := gin.H{
		"code": e.Code,
		"msg":  e.Message,
	}
	// 原始错误链只在 debug 模式下发给前端
	if config.Get().Mode == config.ModeDebug && e.Origin != "" {
		body["origin"] = e.Origin
	}
	c.JSON(http.StatusOK, body)
}

// Recovery 捕获 handler panic，记录堆栈后返回内部错误
func Recovery(c *gin.Context) {
	if r := recover(); r != nil {
		logger.New("Recovery").Error("panic recovered",
			"panic", fmt.Sprintf("%v", r),
			"path", c.Request.URL.Path,
			"stack", string(debug.Stack()),
		)
		Fail(c, ErrInternal.WithOrigin(fmt.Errorf("panic: %v", r)))
		c.Abort()
	}
}
