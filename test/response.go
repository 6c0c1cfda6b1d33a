package test

import (
	"encoding/json"
	"testing"

	"sports-activity-platform/internal/global/response"

	"github.com/stretchr/testify/require"
)

func ErrorEqual(t *testing.T, expected *response.Error, resp response.ResponseBody) {
	require.Equal(t, expected.Code, resp.Code)
	require.Equal(t, expected.Message, resp.Msg)
}

func NoError(t *testing.T, resp response.ResponseBody) {
	require.Equal(t, int32(200), resp.Code, "unexpected error: %s", resp.Msg)
}

// DecodeData 把响应中的 data 字段解析到目标结构
func DecodeData(t *testing.T, resp response.ResponseBody, dest any) {
	NoError(t, resp)
	require.NoError(t, json.Unmarshal(resp.Data, dest))
}
