package registration

// 供外部测试包访问未导出的标识符
var (
	ReactivateRow = reactivateRow
	ReleaseRow    = releaseRow
)

type StatusCount = statusCount
