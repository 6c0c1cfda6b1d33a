package response

// 业务错误码表。4xxxx 为调用方错误，5xxxx 为服务端错误，
// 5xxxx 级别的错误会上报到 Sentry
var (
	ErrInvalidRequest  = newError(40001, "请求参数错误")
	ErrInvalidPassword = newError(40002, "密码错误")
	ErrTokenInvalid    = newError(40101, "登录状态无效")
	ErrUnauthorized    = newError(40102, "未授权")
	ErrForbidden       = newError(40301, "无权限操作")
	ErrNotFound        = newError(40401, "资源不存在")
	ErrAlreadyExists   = newError(40901, "资源已存在")
	ErrInvalidState    = newError(40902, "当前状态不允许该操作")
	ErrInternal        = newError(50000, "服务器内部错误")
	ErrDatabase        = newError(50001, "数据库错误")
)
