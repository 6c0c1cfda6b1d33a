package comment

// RatingStats 供外部测试包访问未导出的 ratingStats 类型
type RatingStats = ratingStats
