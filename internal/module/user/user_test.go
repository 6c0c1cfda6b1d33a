package user_test

import (
	"testing"

	"sports-activity-platform/internal/global/database"
	"sports-activity-platform/internal/global/response"
	"sports-activity-platform/internal/model"
	. "sports-activity-platform/internal/module/user"
	"sports-activity-platform/test"

	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	test.Init(t)

	resp := test.DoRequest(t, Register, User{Username: "zhangsan", Password: "pass1234"})
	test.NoError(t, resp)

	// 密码已加密存储
	var stored model.User
	require.NoError(t, database.DB.Where("username = ?", "zhangsan").First(&stored).Error)
	require.NotEqual(t, "pass1234", stored.Password)

	// 重复用户名
	resp = test.DoRequest(t, Register, User{Username: "zhangsan", Password: "pass5678"})
	test.ErrorEqual(t, response.ErrAlreadyExists.WithTips("用户名已被使用"), resp)

	// 登录成功返回令牌
	var login struct {
		Token    string `json:"token"`
		UserID   uint   `json:"user_id"`
		Username string `json:"username"`
	}
	resp = test.DoRequest(t, Login, User{Username: "zhangsan", Password: "pass1234"})
	test.DecodeData(t, resp, &login)
	require.NotEmpty(t, login.Token)
	require.Equal(t, "zhangsan", login.Username)

	// 密码错误
	resp = test.DoRequest(t, Login, User{Username: "zhangsan", Password: "wrong123"})
	test.ErrorEqual(t, response.ErrInvalidPassword, resp)

	// 用户不存在
	resp = test.DoRequest(t, Login, User{Username: "nobody", Password: "pass1234"})
	test.ErrorEqual(t, response.ErrNotFound.WithTips("用户不存在"), resp)
}

func TestRegisterPasswordStrength(t *testing.T) {
	test.Init(t)

	cases := []struct {
		name     string
		password string
		tips     string
	}{
		{"太短", "a1", "密码长度必须至少8字符"},
		{"没有数字", "abcdefgh", "密码必须包含至少一个数字"},
		{"没有字母", "12345678", "密码必须包含至少一个字母"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := test.DoRequest(t, Register, User{Username: "weakuser", Password: tc.password})
			test.ErrorEqual(t, response.ErrInvalidRequest.WithTips(tc.tips), resp)
		})
	}

	// 弱密码不会创建用户
	var count int64
	require.NoError(t, database.DB.Model(&model.User{}).
		Where("username = ?", "weakuser").Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestGetMe(t *testing.T) {
	test.Init(t)

	test.NoError(t, test.DoRequest(t, Register, User{Username: "lisi", Password: "pass1234"}))

	var stored model.User
	require.NoError(t, database.DB.Where("username = ?", "lisi").First(&stored).Error)

	var me model.User
	resp := test.DoRequest(t, GetMe, nil, test.WithUser(stored.ID))
	test.DecodeData(t, resp, &me)
	require.Equal(t, "lisi", me.Username)
}

func TestChangePassword(t *testing.T) {
	test.Init(t)

	test.NoError(t, test.DoRequest(t, Register, User{Username: "wangwu", Password: "old12345"}))

	var stored model.User
	require.NoError(t, database.DB.Where("username = ?", "wangwu").First(&stored).Error)

	// 旧密码错误
	resp := test.DoRequest(t, ChangePassword,
		ChangePasswordReq{OldPassword: "wrong123", NewPassword: "new12345"},
		test.WithUser(stored.ID))
	test.ErrorEqual(t, response.ErrInvalidPassword, resp)

	// 新密码强度不足
	resp = test.DoRequest(t, ChangePassword,
		ChangePasswordReq{OldPassword: "old12345", NewPassword: "short"},
		test.WithUser(stored.ID))
	test.ErrorEqual(t, response.ErrInvalidRequest.WithTips("密码长度必须至少8字符"), resp)

	resp = test.DoRequest(t, ChangePassword,
		ChangePasswordReq{OldPassword: "old12345", NewPassword: "new12345"},
		test.WithUser(stored.ID))
	test.NoError(t, resp)

	// 旧密码失效，新密码可登录
	resp = test.DoRequest(t, Login, User{Username: "wangwu", Password: "old12345"})
	test.ErrorEqual(t, response.ErrInvalidPassword, resp)
	test.NoError(t, test.DoRequest(t, Login, User{Username: "wangwu", Password: "new12345"}))
}
