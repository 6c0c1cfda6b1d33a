package registration

import (
	"fmt"
	"net/url"
	"time"

	"sports-activity-platform/internal/global/database"
	"sports-activity-platform/internal/global/jwt"
	"sports-activity-platform/internal/global/response"
	"sports-activity-platform/internal/model"
	"sports-activity-platform/tools"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const excelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// exportRow 导出名单的一行，excel 标签作为表头
type exportRow struct {
	Username         string `excel:"用户名"`
	Status           string `excel:"报名状态"`
	RegistrationTime string `excel:"报名时间"`
	Notes            string `excel:"备注"`
}

// ExportRegistrations 组织者导出活动报名名单为 Excel
func ExportRegistrations(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	activityID := c.Param("activity_id")
	activity, ok := loadOwnedActivity(c, activityID, payload.UserID)
	if !ok {
		return
	}

	var registrations []model.Registration
	if err := database.DB.Preload("User").
		Where("activity_id = ?", activityID).
		Order("registration_time ASC").
		Find(&registrations).Error; err != nil {
		log.Error("查询报名名单失败", "error", err, "activity_id", activityID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	rows := make([]exportRow, 0, len(registrations))
	for _, r := range registrations {
		rows = append(rows, exportRow{
			Username:         r.User.Username,
			Status:           r.Status,
			RegistrationTime: r.RegistrationTime.Format(time.DateTime),
			Notes:            r.Notes,
		})
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := tools.ExportToExcel(f, "报名名单", rows); err != nil {
		log.Error("生成报名名单失败", "error", err, "activity_id", activityID)
		response.Fail(c, response.ErrInternal.WithOrigin(err))
		return
	}
	// 删除 excelize 默认创建的 Sheet1
	f.DeleteSheet("Sheet1")

	displayName := url.QueryEscape(activity.Title + "-报名名单.xlsx")
	c.Header("Content-Type", excelContentType)
	c.Header(
		"Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, displayName, displayName),
	)

	if err := f.Write(c.Writer); err != nil {
		log.Error("写出报名名单失败", "error", err, "activity_id", activityID)
		return
	}

	log.Info("导出报名名单成功",
		"activity_id", activityID,
		"rows", len(rows))
}
