package test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"sports-activity-platform/internal/global/jwt"
	"sports-activity-platform/internal/global/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// Option 在调用 handler 前调整测试上下文
type Option func(c *gin.Context)

// WithUser 模拟已通过认证中间件的用户
func WithUser(userID uint) Option {
	return func(c *gin.Context) {
		c.Set("payload", &jwt.Claims{Payload: jwt.Payload{
			UserID:   userID,
			Username: fmt.Sprintf("user%d", userID),
		}})
	}
}

// WithParam 设置路径参数
func WithParam(key, value string) Option {
	return func(c *gin.Context) {
		c.Params = append(c.Params, gin.Param{Key: key, Value: value})
	}
}

// WithQuery 设置查询参数
func WithQuery(values url.Values) Option {
	return func(c *gin.Context) {
		c.Request.URL.RawQuery = values.Encode()
	}
}

// DoRequest 直接调用 handler 并解析统一响应体，request 为 nil 时不携带请求体
func DoRequest(t *testing.T, handlerFunc gin.HandlerFunc, request any, opts ...Option) response.ResponseBody {
	resp, err := TryRequest(handlerFunc, request, opts...)
	require.NoError(t, err)
	return resp
}

// TryRequest 与 DoRequest 相同，但以返回值报告失败。
// 工作协程里不能调用 t.FailNow，并发测试用这个变体，在测试协程里统一断言
func TryRequest(handlerFunc gin.HandlerFunc, request any, opts ...Option) (resp response.ResponseBody, err error) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	if request != nil {
		requestBytes, err := json.Marshal(request)
		if err != nil {
			return resp, err
		}
		c.Request = httptest.NewRequest(http.MethodPost, "/test", bytes.NewReader(requestBytes))
		c.Request.Header.Set("Content-Type", "application/json")
	} else {
		c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)
	}

	for _, opt := range opts {
		opt(c)
	}

	handlerFunc(c)
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		return resp, err
	}
	return resp, nil
}
