package activity_test

import (
	"fmt"
	"testing"
	"time"

	"sports-activity-platform/internal/global/database"
	"sports-activity-platform/internal/global/response"
	"sports-activity-platform/internal/model"
	. "sports-activity-platform/internal/module/activity"
	"sports-activity-platform/test"

	"github.com/stretchr/testify/require"
)

func createTestUser(t *testing.T, username string) *model.User {
	u := &model.User{Username: username, Password: "hashed"}
	require.NoError(t, database.DB.Create(u).Error)
	return u
}

func createViaHandler(t *testing.T, userID uint, req ActivityCreateReq) uint {
	resp := test.DoRequest(t, CreateActivity, req, test.WithUser(userID))
	var data struct {
		ActivityID uint `json:"activity_id"`
	}
	test.DecodeData(t, resp, &data)
	return data.ActivityID
}

func defaultCreateReq(title string) ActivityCreateReq {
	return ActivityCreateReq{
		Title:           title,
		Description:     "周末友谊赛",
		Location:        "市体育馆",
		StartTime:       time.Now().Add(48 * time.Hour).UnixMilli(),
		EndTime:         time.Now().Add(50 * time.Hour).UnixMilli(),
		MaxParticipants: 10,
		Price:           25.5,
		Status:          model.ActivityStatusPublished,
	}
}

func TestCreateAndGetActivity(t *testing.T) {
	test.Init(t)

	organizer := createTestUser(t, "organizer")
	id := createViaHandler(t, organizer.ID, defaultCreateReq("羽毛球约战"))

	var activity model.Activity
	resp := test.DoRequest(t, GetActivity, nil, test.WithParam("id", fmt.Sprint(id)))
	test.DecodeData(t, resp, &activity)
	require.Equal(t, "羽毛球约战", activity.Title)
	require.Equal(t, 25.5, activity.Price)
	require.Equal(t, organizer.ID, activity.OrganizerID)
	require.Equal(t, organizer.Username, activity.Organizer.Username)
	// 新活动参与人数从 0 开始
	require.Equal(t, 0, activity.CurrentParticipants)

	// 不存在的活动
	resp = test.DoRequest(t, GetActivity, nil, test.WithParam("id", "99999"))
	test.ErrorEqual(t, response.ErrNotFound.WithTips("活动不存在"), resp)
}

func TestCreateActivityValidation(t *testing.T) {
	test.Init(t)

	u := createTestUser(t, "organizer")

	req := defaultCreateReq("非法活动")
	req.MaxParticipants = -1
	resp := test.DoRequest(t, CreateActivity, req, test.WithUser(u.ID))
	test.ErrorEqual(t, response.ErrInvalidRequest.WithTips("最大参与人数不能为负数"), resp)

	req = defaultCreateReq("非法活动")
	req.Price = -0.5
	resp = test.DoRequest(t, CreateActivity, req, test.WithUser(u.ID))
	test.ErrorEqual(t, response.ErrInvalidRequest.WithTips("活动价格不能为负数"), resp)

	req = defaultCreateReq("非法活动")
	req.Status = "archived"
	resp = test.DoRequest(t, CreateActivity, req, test.WithUser(u.ID))
	test.ErrorEqual(t, response.ErrInvalidRequest.WithTips("活动状态无效"), resp)

	// 不填状态时默认为草稿
	req = defaultCreateReq("草稿活动")
	req.Status = ""
	id := createViaHandler(t, u.ID, req)

	var activity model.Activity
	require.NoError(t, database.DB.First(&activity, "id = ?", id).Error)
	require.Equal(t, model.ActivityStatusDraft, activity.Status)
}

func TestUpdateActivityOwnershipAndPartialUpdate(t *testing.T) {
	test.Init(t)

	organizer := createTestUser(t, "organizer")
	outsider := createTestUser(t, "outsider")
	id := createViaHandler(t, organizer.ID, defaultCreateReq("待修改活动"))

	newTitle := "改名后的活动"
	resp := test.DoRequest(t, UpdateActivity,
		ActivityUpdateReq{Title: &newTitle},
		test.WithUser(outsider.ID), test.WithParam("id", fmt.Sprint(id)))
	test.ErrorEqual(t, response.ErrForbidden.WithTips("无权限更新该活动"), resp)

	// 部分更新只改动给定字段
	resp = test.DoRequest(t, UpdateActivity,
		ActivityUpdateReq{Title: &newTitle},
		test.WithUser(organizer.ID), test.WithParam("id", fmt.Sprint(id)))
	test.NoError(t, resp)

	var activity model.Activity
	require.NoError(t, database.DB.First(&activity, "id = ?", id).Error)
	require.Equal(t, newTitle, activity.Title)
	require.Equal(t, "市体育馆", activity.Location)
	require.Equal(t, 10, activity.MaxParticipants)

	badStatus := "archived"
	resp = test.DoRequest(t, UpdateActivity,
		ActivityUpdateReq{Status: &badStatus},
		test.WithUser(organizer.ID), test.WithParam("id", fmt.Sprint(id)))
	test.ErrorEqual(t, response.ErrInvalidRequest.WithTips("活动状态无效"), resp)
}

func TestCurrentParticipantsNotClientWritable(t *testing.T) {
	test.Init(t)

	organizer := createTestUser(t, "organizer")
	id := createViaHandler(t, organizer.ID, defaultCreateReq("人数保护"))

	// 更新接口没有参与人数字段，值保持由报名流程维护
	newTitle := "人数保护2"
	resp := test.DoRequest(t, UpdateActivity,
		ActivityUpdateReq{Title: &newTitle},
		test.WithUser(organizer.ID), test.WithParam("id", fmt.Sprint(id)))
	test.NoError(t, resp)

	var activity model.Activity
	require.NoError(t, database.DB.First(&activity, "id = ?", id).Error)
	require.Equal(t, 0, activity.CurrentParticipants)
}

func TestDeleteActivity(t *testing.T) {
	test.Init(t)

	organizer := createTestUser(t, "organizer")
	outsider := createTestUser(t, "outsider")
	id := createViaHandler(t, organizer.ID, defaultCreateReq("待删除活动"))

	resp := test.DoRequest(t, DeleteActivity, nil,
		test.WithUser(outsider.ID), test.WithParam("id", fmt.Sprint(id)))
	test.ErrorEqual(t, response.ErrForbidden.WithTips("无权限删除该活动"), resp)

	resp = test.DoRequest(t, DeleteActivity, nil,
		test.WithUser(organizer.ID), test.WithParam("id", fmt.Sprint(id)))
	test.NoError(t, resp)

	resp = test.DoRequest(t, GetActivity, nil, test.WithParam("id", fmt.Sprint(id)))
	test.ErrorEqual(t, response.ErrNotFound.WithTips("活动不存在"), resp)
}

func TestSearchActivities(t *testing.T) {
	test.Init(t)

	u := createTestUser(t, "organizer")

	basketball := defaultCreateReq("篮球训练营")
	basketball.Price = 50
	createViaHandler(t, u.ID, basketball)

	swim := defaultCreateReq("游泳入门")
	swim.Price = 100
	createViaHandler(t, u.ID, swim)

	draft := defaultCreateReq("篮球草稿")
	draft.Status = ""
	createViaHandler(t, u.ID, draft)

	var list struct {
		Activities []model.Activity `json:"activities"`
		Total      int64            `json:"total"`
	}

	// 关键词搜索
	resp := test.DoRequest(t, SearchActivities, nil,
		test.WithQuery(map[string][]string{"keyword": {"篮球"}}))
	test.DecodeData(t, resp, &list)
	require.EqualValues(t, 2, list.Total)

	// 关键词加状态筛选
	resp = test.DoRequest(t, SearchActivities, nil,
		test.WithQuery(map[string][]string{
			"keyword": {"篮球"},
			"status":  {model.ActivityStatusPublished},
		}))
	test.DecodeData(t, resp, &list)
	require.EqualValues(t, 1, list.Total)
	require.Equal(t, "篮球训练营", list.Activities[0].Title)

	// 价格区间筛选
	resp = test.DoRequest(t, SearchActivities, nil,
		test.WithQuery(map[string][]string{
			"min_price": {"80"},
			"status":    {model.ActivityStatusPublished},
		}))
	test.DecodeData(t, resp, &list)
	require.EqualValues(t, 1, list.Total)
	require.Equal(t, "游泳入门", list.Activities[0].Title)
}

func TestUpcomingActivities(t *testing.T) {
	test.Init(t)

	u := createTestUser(t, "organizer")

	soon := defaultCreateReq("即将开始")
	soon.StartTime = time.Now().Add(2 * time.Hour).UnixMilli()
	soon.EndTime = time.Now().Add(4 * time.Hour).UnixMilli()
	createViaHandler(t, u.ID, soon)

	later := defaultCreateReq("下周开始")
	createViaHandler(t, u.ID, later)

	// 已结束的活动不出现在即将开始列表
	past := defaultCreateReq("已经结束")
	past.StartTime = time.Now().Add(-4 * time.Hour).UnixMilli()
	past.EndTime = time.Now().Add(-2 * time.Hour).UnixMilli()
	createViaHandler(t, u.ID, past)

	var list struct {
		Activities []model.Activity `json:"activities"`
	}
	resp := test.DoRequest(t, GetUpcomingActivities, nil)
	test.DecodeData(t, resp, &list)
	require.Len(t, list.Activities, 2)
	require.Equal(t, "即将开始", list.Activities[0].Title)
	require.Equal(t, "下周开始", list.Activities[1].Title)
}

func TestPopularActivitiesOrder(t *testing.T) {
	test.Init(t)

	u := createTestUser(t, "organizer")

	hot := defaultCreateReq("热门活动")
	hotID := createViaHandler(t, u.ID, hot)
	cold := defaultCreateReq("冷门活动")
	createViaHandler(t, u.ID, cold)

	require.NoError(t, database.DB.Model(&model.Activity{}).
		Where("id = ?", hotID).
		Update("current_participants", 8).Error)

	var list struct {
		Activities []model.Activity `json:"activities"`
	}
	// 自定义条数绕过缓存直接查库
	resp := test.DoRequest(t, GetPopularActivities, nil,
		test.WithQuery(map[string][]string{"limit": {"5"}}))
	test.DecodeData(t, resp, &list)
	require.Len(t, list.Activities, 2)
	require.Equal(t, "热门活动", list.Activities[0].Title)
}

func TestMyActivities(t *testing.T) {
	test.Init(t)

	u1 := createTestUser(t, "organizer1")
	u2 := createTestUser(t, "organizer2")
	createViaHandler(t, u1.ID, defaultCreateReq("我的活动"))
	createViaHandler(t, u2.ID, defaultCreateReq("别人的活动"))

	var list struct {
		Activities []model.Activity `json:"activities"`
		Total      int64            `json:"total"`
	}
	resp := test.DoRequest(t, GetMyActivities, nil, test.WithUser(u1.ID))
	test.DecodeData(t, resp, &list)
	require.EqualValues(t, 1, list.Total)
	require.Equal(t, "我的活动", list.Activities[0].Title)
}
