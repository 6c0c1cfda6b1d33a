package activity

import (
	"mime/multipart"
	"time"

	"sports-activity-platform/internal/global/imagestore"
	"sports-activity-platform/internal/global/response"

	"github.com/gin-gonic/gin"
)

// CoverUploadReq 服务端直传封面请求
type CoverUploadReq struct {
	File *multipart.FileHeader `form:"file" binding:"required"` // 封面图片文件
}

// UploadCover 上传活动封面图，返回可写入 cover_url 的访问地址
func UploadCover(c *gin.Context) {
	store := imagestore.Get()
	if store == nil {
		response.Fail(c, response.ErrInvalidState.WithTips("对象存储未配置"))
		return
	}

	var req CoverUploadReq
	if err := c.ShouldBind(&req); err != nil {
		log.Error("绑定封面上传请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	url, err := store.Upload(c.Request.Context(), req.File)
	if err != nil {
		log.Error("封面上传失败", "error", err, "filename", req.File.Filename)
		response.Fail(c, response.ErrInternal.WithOrigin(err))
		return
	}

	log.Info("封面上传成功", "filename", req.File.Filename, "url", url)

	response.Success(c, gin.H{"cover_url": url})
}

// PresignCoverReq 预签名上传请求
type PresignCoverReq struct {
	Filename    string `json:"filename" binding:"required"` // 原始文件名
	ContentType string `json:"content_type"`                // 文件 MIME 类型
	ExpiresIn   int64  `json:"expires_in"`                  // 过期时间（秒），默认 15 分钟
}

// PresignCover 生成封面图的预签名上传 URL，前端可直接上传到对象存储
func PresignCover(c *gin.Context) {
	store := imagestore.Get()
	if store == nil {
		response.Fail(c, response.ErrInvalidState.WithTips("对象存储未配置"))
		return
	}

	var req PresignCoverReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定预签名请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	result, err := store.PresignUpload(
		c.Request.Context(),
		req.Filename,
		req.ContentType,
		time.Duration(req.ExpiresIn)*time.Second,
	)
	if err != nil {
		log.Error("生成预签名 URL 失败", "error", err, "filename", req.Filename)
		response.Fail(c, response.ErrInternal.WithOrigin(err))
		return
	}

	response.Success(c, result)
}
