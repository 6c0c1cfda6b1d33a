package imagestore

import (
	"context"
	"fmt"
	"mime/multipart"
	"path"
	"strings"
	"time"

	appconfig "sports-activity-platform/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Store 活动封面图的对象存储，基于 S3 兼容接口
type Store struct {
	client    *s3.Client
	uploader  *manager.Uploader
	bucket    string
	prefix    string
	baseURL   string
	pathStyle bool
}

var instance *Store

// Init 根据配置初始化 S3 客户端，未配置 bucket 时跳过
func Init() error {
	cfg := appconfig.Get().S3
	if cfg.Bucket == "" {
		return nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return fmt.Errorf("加载 S3 配置失败: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = strings.TrimRight(cfg.Endpoint, "/")
	}

	instance = &Store{
		client:    client,
		uploader:  manager.NewUploader(client),
		bucket:    cfg.Bucket,
		prefix:    strings.Trim(cfg.Prefix, "/"),
		baseURL:   baseURL,
		pathStyle: cfg.UsePathStyle,
	}
	return nil
}

// Get 返回全局实例，未初始化时为 nil
func Get() *Store {
	return instance
}

// objectKey 生成唯一对象 key（时间戳 + 原始扩展名）
func (s *Store) objectKey(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	name := fmt.Sprintf("%d%s", time.Now().UnixNano(), ext)
	key := path.Join(s.prefix, name)
	return strings.TrimLeft(key, "/")
}

// fileURL 拼接上传成功后的访问 URL
func (s *Store) fileURL(key string) string {
	if s.pathStyle {
		return s.baseURL + "/" + s.bucket + "/" + key
	}
	return s.baseURL + "/" + key
}

// Upload 服务端直传：把 multipart 文件上传到 S3 并返回访问 URL
func (s *Store) Upload(ctx context.Context, fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	key := s.objectKey(fileHeader.Filename)
	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("上传文件失败: %w", err)
	}

	return s.fileURL(key), nil
}

// PresignedUpload 预签名上传响应
type PresignedUpload struct {
	UploadURL string            `json:"upload_url"` // 预签名上传 URL
	FileKey   string            `json:"file_key"`   // 对象存储中的文件 key
	FileURL   string            `json:"file_url"`   // 上传成功后的访问 URL
	ExpiresAt time.Time         `json:"expires_at"` // 过期时间
	Method    string            `json:"method"`     // HTTP 方法（PUT）
	Headers   map[string]string `json:"headers"`    // 上传时需携带的 Headers
}

// PresignUpload 生成预签名 PUT URL，允许前端直接上传而无需经过后端中转
func (s *Store) PresignUpload(ctx context.Context, filename, contentType string, expiresIn time.Duration) (*PresignedUpload, error) {
	if filename == "" {
		return nil, fmt.Errorf("文件名不能为空")
	}
	if expiresIn <= 0 {
		expiresIn = 15 * time.Minute
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := s.objectKey(filename)

	presignClient := s3.NewPresignClient(s.client)
	presignedReq, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expiresIn
	})
	if err != nil {
		return nil, fmt.Errorf("生成预签名 URL 失败: %w", err)
	}

	result := &PresignedUpload{
		UploadURL: presignedReq.URL,
		FileKey:   key,
		FileURL:   s.fileURL(key),
		ExpiresAt: time.Now().Add(expiresIn),
		Method:    presignedReq.Method,
		Headers: map[string]string{
			"Content-Type": contentType,
		},
	}
	for k, v := range presignedReq.SignedHeader {
		if len(v) > 0 {
			result.Headers[k] = v[0]
		}
	}
	return result, nil
}
