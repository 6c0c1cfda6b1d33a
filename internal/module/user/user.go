package user

import (
	"strings"

	"sports-activity-platform/internal/global/database"
	"sports-activity-platform/internal/global/jwt"
	"sports-activity-platform/internal/global/response"
	"sports-activity-platform/internal/model"
	"sports-activity-platform/tools"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// User 定义登录和注册请求的结构体
type User struct {
	Username string `json:"username" binding:"required"` // 用户名，唯一标识用户
	Password string `json:"password" binding:"required"` // 密码，登录时验证，注册时加密
}

// validatePasswordStrength 验证密码强度
func validatePasswordStrength(password string) error {
	if len(password) < 8 {
		return errors.New("密码长度必须至少8字符")
	}

	hasLetter := false
	hasDigit := false

	for _, char := range password {
		switch {
		case strings.ContainsRune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ", char):
			hasLetter = true
		case strings.ContainsRune("0123456789", char):
			hasDigit = true
		}
	}

	if !hasLetter {
		return errors.New("密码必须包含至少一个字母")
	}
	if !hasDigit {
		return errors.New("密码必须包含至少一个数字")
	}

	return nil
}

// Register 处理用户注册请求
func Register(c *gin.Context) {
	var req User
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定注册请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	// 验证密码强度
	if err := validatePasswordStrength(req.Password); err != nil {
		log.Warn("密码强度验证失败", "error", err, "username", req.Username)
		response.Fail(c, response.ErrInvalidRequest.WithTips(err.Error()))
		return
	}

	// 检查用户名是否已存在
	var existingUser model.User
	err := database.DB.Where("username = ?", req.Username).First(&existingUser).Error
	if err == nil {
		log.Warn("用户已存在", "username", req.Username)
		response.Fail(c, response.ErrAlreadyExists.WithTips("用户名已被使用"))
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error("数据库查询失败", "error", err, "username", req.Username)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	user := model.User{
		Username: req.Username,
		Password: tools.PasswordEncrypt(req.Password),
	}

	if err := database.DB.Create(&user).Error; err != nil {
		// 并发注册同名用户时由唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			response.Fail(c, response.ErrAlreadyExists.WithTips("用户名已被使用"))
			return
		}
		log.Error("创建用户失败", "error", err, "username", req.Username)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("用户注册成功",
		"user_id", user.ID,
		"username", user.Username)

	response.Success(c, gin.H{
		"user_id":  user.ID,
		"username": user.Username,
	})
}

// Login 处理用户登录请求
func Login(c *gin.Context) {
	var req User
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定登录请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	// 查询用户是否存在
	var user model.User
	err := database.DB.Where("username = ?", req.Username).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		log.Warn("用户不存在", "username", req.Username)
		response.Fail(c, response.ErrNotFound.WithTips("用户不存在"))
		return
	case err != nil:
		log.Error("数据库查询失败", "error", err, "username", req.Username)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	// 验证密码
	if !tools.PasswordCompare(req.Password, user.Password) {
		log.Warn("密码错误", "username", req.Username)
		response.Fail(c, response.ErrInvalidPassword)
		return
	}

	log.Info("用户登录成功",
		"user_id", user.ID,
		"username", user.Username)

	response.Success(c, gin.H{
		"token": jwt.CreateToken(jwt.Payload{
			UserID:   user.ID,
			Username: user.Username,
		}),
		"user_id":  user.ID,
		"username": user.Username,
	})
}

// GetMe 获取当前登录用户信息
func GetMe(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	var user model.User
	if err := database.DB.First(&user, "id = ?", payload.UserID).Error; err != nil {
		log.Error("查询用户失败", "error", err, "user_id", payload.UserID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, user)
}

// ChangePasswordReq 定义修改密码请求的结构体
type ChangePasswordReq struct {
	OldPassword string `json:"old_password" binding:"required"` // 旧密码，用于验证
	NewPassword string `json:"new_password" binding:"required"` // 新密码，需加密后保存
}

// ChangePassword 处理用户修改密码请求
// 验证旧密码正确性后更新新密码，要求用户已通过认证
func ChangePassword(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	var req ChangePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定修改密码请求失败", "error", err, "user_id", payload.UserID)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	// 验证新密码强度
	if err := validatePasswordStrength(req.NewPassword); err != nil {
		log.Warn("新密码强度验证失败", "error", err, "user_id", payload.UserID)
		response.Fail(c, response.ErrInvalidRequest.WithTips(err.Error()))
		return
	}

	var user model.User
	if err := database.DB.First(&user, "id = ?", payload.UserID).Error; err != nil {
		log.Error("查询用户失败", "error", err, "user_id", payload.UserID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	// 验证旧密码
	if !tools.PasswordCompare(req.OldPassword, user.Password) {
		log.Warn("旧密码错误", "user_id", payload.UserID)
		response.Fail(c, response.ErrInvalidPassword)
		return
	}

	if err := database.DB.Model(&user).Update("password", tools.PasswordEncrypt(req.NewPassword)).Error; err != nil {
		log.Error("更新密码失败", "error", err, "user_id", payload.UserID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("用户修改密码成功",
		"user_id", user.ID,
		"username", user.Username)

	response.Success(c)
}
