package sentry

import (
	"fmt"
	"time"

	"sports-activity-platform/config"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// CodedError 定义带错误码的错误接口，用于判断是否需要上报
type CodedError interface {
	error
	GetCode() int32
}

// Init 初始化 Sentry SDK，未配置 DSN 时跳过
func Init() error {
	cfg := config.Get()

	if cfg.Sentry.Dsn == "" {
		return nil
	}

	tracesSampleRate := cfg.Sentry.SampleRate
	if tracesSampleRate <= 0 {
		tracesSampleRate = 1.0
	}

	environment := cfg.Sentry.Environment
	if environment == "" {
		environment = string(cfg.Mode)
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.Sentry.Dsn,
		Environment:      environment,
		Release:          "sports-activity-platform@1.0.0",
		SampleRate:       1.0, // 错误事件 100% 上报，不采样
		EnableTracing:    true,
		TracesSampleRate: tracesSampleRate,
		EnableLogs:       true,
	})

	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}

	return nil
}

// Middleware 返回 Sentry Gin 中间件，未配置 DSN 时为空中间件
func Middleware() gin.HandlerFunc {
	cfg := config.Get()

	if cfg.Sentry.Dsn == "" {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return sentrygin.New(sentrygin.Options{
		Repanic:         true, // 让 panic 继续传播，由后续的 Recovery 中间件处理
		WaitForDelivery: false,
		Timeout:         2 * time.Second,
	})
}

// CaptureException 捕获异常并上报到 Sentry
// 仅上报服务器错误，不上报业务错误
func CaptureException(c *gin.Context, err error) {
	cfg := config.Get()
	if cfg.Sentry.Dsn == "" {
		return
	}

	if !shouldReport(err) {
		return
	}

	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetRequest(c.Request)
			scope.SetTag("path", c.Request.URL.Path)
			scope.SetTag("method", c.Request.Method)

			if payload, exists := c.Get("payload"); exists {
				scope.SetUser(sentry.User{
					Data: map[string]string{
						"payload": fmt.Sprintf("%+v", payload),
					},
				})
			}

			hub.CaptureException(err)
		})
	}
}

// shouldReport 判断错误是否需要上报到 Sentry，只上报 5xxxx 级别错误
func shouldReport(err error) bool {
	if e, ok := err.(CodedError); ok {
		return e.GetCode() >= 50000 && e.GetCode() < 60000
	}
	return true
}

// Flush 刷新 Sentry 缓冲区，应在程序退出前调用
func Flush(timeout time.Duration) {
	sentry.Flush(timeout)
}
