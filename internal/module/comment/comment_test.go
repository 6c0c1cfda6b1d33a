package comment_test

import (
	"fmt"
	"testing"
	"time"

	"sports-activity-platform/internal/global/database"
	"sports-activity-platform/internal/global/response"
	"sports-activity-platform/internal/model"
	. "sports-activity-platform/internal/module/comment"
	"sports-activity-platform/test"

	"github.com/stretchr/testify/require"
)

func createTestUser(t *testing.T, username string) *model.User {
	u := &model.User{Username: username, Password: "hashed"}
	require.NoError(t, database.DB.Create(u).Error)
	return u
}

func createTestActivity(t *testing.T, organizerID uint) *model.Activity {
	a := &model.Activity{
		Title:           "夜跑活动",
		StartTime:       time.Now().Add(24 * time.Hour),
		EndTime:         time.Now().Add(26 * time.Hour),
		MaxParticipants: 20,
		Status:          model.ActivityStatusPublished,
		OrganizerID:     organizerID,
	}
	require.NoError(t, database.DB.Create(a).Error)
	return a
}

func ratingOf(v int) *int { return &v }

func TestAddCommentAndReply(t *testing.T) {
	test.Init(t)

	author := createTestUser(t, "author")
	replier := createTestUser(t, "replier")
	activity := createTestActivity(t, author.ID)

	resp := test.DoRequest(t, AddComment,
		AddCommentReq{ActivityID: activity.ID, Content: "场地不错", Rating: ratingOf(5)},
		test.WithUser(author.ID))
	var top model.Comment
	test.DecodeData(t, resp, &top)
	require.Nil(t, top.ParentID)
	require.Equal(t, 5, *top.Rating)

	resp = test.DoRequest(t, AddComment,
		AddCommentReq{ActivityID: activity.ID, Content: "同感", ParentID: &top.ID},
		test.WithUser(replier.ID))
	var reply model.Comment
	test.DecodeData(t, resp, &reply)
	require.Equal(t, top.ID, *reply.ParentID)

	// 列表只分页顶级评论，回复挂在顶级评论下
	var list struct {
		Comments []model.Comment `json:"comments"`
		Total    int64           `json:"total"`
	}
	resp = test.DoRequest(t, GetActivityComments, nil,
		test.WithParam("activity_id", fmt.Sprint(activity.ID)))
	test.DecodeData(t, resp, &list)
	require.EqualValues(t, 1, list.Total)
	require.Len(t, list.Comments, 1)
	require.Equal(t, author.Username, list.Comments[0].User.Username)
	require.Len(t, list.Comments[0].Replies, 1)
	require.Equal(t, replier.Username, list.Comments[0].Replies[0].User.Username)
}

func TestAddCommentValidation(t *testing.T) {
	test.Init(t)

	u := createTestUser(t, "author")
	a1 := createTestActivity(t, u.ID)
	a2 := createTestActivity(t, u.ID)

	// 活动不存在
	resp := test.DoRequest(t, AddComment,
		AddCommentReq{ActivityID: 99999, Content: "测试"},
		test.WithUser(u.ID))
	test.ErrorEqual(t, response.ErrNotFound.WithTips("活动不存在"), resp)

	// 父评论不存在
	parentID := uint(99999)
	resp = test.DoRequest(t, AddComment,
		AddCommentReq{ActivityID: a1.ID, Content: "测试", ParentID: &parentID},
		test.WithUser(u.ID))
	test.ErrorEqual(t, response.ErrNotFound.WithTips("回复的评论不存在"), resp)

	// 父评论属于其他活动，且不会写入任何记录
	resp = test.DoRequest(t, AddComment,
		AddCommentReq{ActivityID: a1.ID, Content: "顶级"},
		test.WithUser(u.ID))
	var top model.Comment
	test.DecodeData(t, resp, &top)

	resp = test.DoRequest(t, AddComment,
		AddCommentReq{ActivityID: a2.ID, Content: "跨活动回复", ParentID: &top.ID},
		test.WithUser(u.ID))
	test.ErrorEqual(t, response.ErrInvalidRequest.WithTips("回复的评论不属于此活动"), resp)

	var count int64
	require.NoError(t, database.DB.Model(&model.Comment{}).
		Where("activity_id = ?", a2.ID).Count(&count).Error)
	require.EqualValues(t, 0, count)

	// 评分越界
	for _, bad := range []int{0, 6, -1} {
		resp = test.DoRequest(t, AddComment,
			AddCommentReq{ActivityID: a1.ID, Content: "打分", Rating: ratingOf(bad)},
			test.WithUser(u.ID))
		test.ErrorEqual(t, response.ErrInvalidRequest.WithTips("评分必须在1-5之间"), resp)
	}
}

func TestUpdateComment(t *testing.T) {
	test.Init(t)

	author := createTestUser(t, "author")
	other := createTestUser(t, "other")
	activity := createTestActivity(t, author.ID)

	resp := test.DoRequest(t, AddComment,
		AddCommentReq{ActivityID: activity.ID, Content: "原内容", Rating: ratingOf(4)},
		test.WithUser(author.ID))
	var comment model.Comment
	test.DecodeData(t, resp, &comment)

	// 非作者不能修改
	resp = test.DoRequest(t, UpdateComment,
		UpdateCommentReq{Content: "篡改"},
		test.WithUser(other.ID), test.WithParam("id", fmt.Sprint(comment.ID)))
	test.ErrorEqual(t, response.ErrForbidden.WithTips("只能修改自己的评论"), resp)

	// 只改内容时评分保持不变
	resp = test.DoRequest(t, UpdateComment,
		UpdateCommentReq{Content: "新内容"},
		test.WithUser(author.ID), test.WithParam("id", fmt.Sprint(comment.ID)))
	var updated model.Comment
	test.DecodeData(t, resp, &updated)
	require.Equal(t, "新内容", updated.Content)
	require.Equal(t, 4, *updated.Rating)

	resp = test.DoRequest(t, UpdateComment,
		UpdateCommentReq{Content: "新内容", Rating: ratingOf(2)},
		test.WithUser(author.ID), test.WithParam("id", fmt.Sprint(comment.ID)))
	test.DecodeData(t, resp, &updated)
	require.Equal(t, 2, *updated.Rating)
}

func TestDeleteCommentCascadesReplies(t *testing.T) {
	test.Init(t)

	author := createTestUser(t, "author")
	other := createTestUser(t, "other")
	activity := createTestActivity(t, author.ID)

	resp := test.DoRequest(t, AddComment,
		AddCommentReq{ActivityID: activity.ID, Content: "顶级"},
		test.WithUser(author.ID))
	var top model.Comment
	test.DecodeData(t, resp, &top)

	for i := 0; i < 2; i++ {
		test.NoError(t, test.DoRequest(t, AddComment,
			AddCommentReq{ActivityID: activity.ID, Content: "回复", ParentID: &top.ID},
			test.WithUser(other.ID)))
	}

	// 非作者不能删除
	resp = test.DoRequest(t, DeleteComment, nil,
		test.WithUser(other.ID), test.WithParam("id", fmt.Sprint(top.ID)))
	test.ErrorEqual(t, response.ErrForbidden.WithTips("只能删除自己的评论"), resp)

	resp = test.DoRequest(t, DeleteComment, nil,
		test.WithUser(author.ID), test.WithParam("id", fmt.Sprint(top.ID)))
	test.NoError(t, resp)

	// 顶级评论与全部回复一起删除
	var count int64
	require.NoError(t, database.DB.Model(&model.Comment{}).
		Where("activity_id = ?", activity.ID).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestRatingStats(t *testing.T) {
	test.Init(t)

	u := createTestUser(t, "author")
	activity := createTestActivity(t, u.ID)
	empty := createTestActivity(t, u.ID)

	for _, rating := range []int{5, 4, 3} {
		test.NoError(t, test.DoRequest(t, AddComment,
			AddCommentReq{ActivityID: activity.ID, Content: "打分", Rating: ratingOf(rating)},
			test.WithUser(u.ID)))
	}
	// 无评分的评论不参与统计
	test.NoError(t, test.DoRequest(t, AddComment,
		AddCommentReq{ActivityID: activity.ID, Content: "不打分"},
		test.WithUser(u.ID)))

	var stats RatingStats
	resp := test.DoRequest(t, GetRatingStats, nil,
		test.WithParam("activity_id", fmt.Sprint(activity.ID)))
	test.DecodeData(t, resp, &stats)
	require.Equal(t, 4.0, stats.AverageRating)
	require.EqualValues(t, 3, stats.TotalRatings)

	// 没有任何评分时返回 0
	resp = test.DoRequest(t, GetRatingStats, nil,
		test.WithParam("activity_id", fmt.Sprint(empty.ID)))
	test.DecodeData(t, resp, &stats)
	require.Equal(t, 0.0, stats.AverageRating)
	require.EqualValues(t, 0, stats.TotalRatings)
}

func TestRatingStatsRounding(t *testing.T) {
	test.Init(t)

	u := createTestUser(t, "author")
	activity := createTestActivity(t, u.ID)

	for _, rating := range []int{5, 4, 4} {
		test.NoError(t, test.DoRequest(t, AddComment,
			AddCommentReq{ActivityID: activity.ID, Content: "打分", Rating: ratingOf(rating)},
			test.WithUser(u.ID)))
	}

	var stats RatingStats
	resp := test.DoRequest(t, GetRatingStats, nil,
		test.WithParam("activity_id", fmt.Sprint(activity.ID)))
	test.DecodeData(t, resp, &stats)
	require.Equal(t, 4.3, stats.AverageRating)
}

func TestGetMyComments(t *testing.T) {
	test.Init(t)

	u := createTestUser(t, "author")
	other := createTestUser(t, "other")
	activity := createTestActivity(t, u.ID)

	test.NoError(t, test.DoRequest(t, AddComment,
		AddCommentReq{ActivityID: activity.ID, Content: "我的评论"},
		test.WithUser(u.ID)))
	test.NoError(t, test.DoRequest(t, AddComment,
		AddCommentReq{ActivityID: activity.ID, Content: "别人的评论"},
		test.WithUser(other.ID)))

	var list struct {
		Comments []model.Comment `json:"comments"`
		Total    int64           `json:"total"`
	}
	resp := test.DoRequest(t, GetMyComments, nil, test.WithUser(u.ID))
	test.DecodeData(t, resp, &list)
	require.EqualValues(t, 1, list.Total)
	require.Equal(t, "我的评论", list.Comments[0].Content)
	require.Equal(t, "夜跑活动", list.Comments[0].Activity.Title)
}
