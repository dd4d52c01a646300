package normalizer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/socialmux/cleanser/model"
)

func TestScoreCardBounds(t *testing.T) {
	a := NewQualityAssessor()

	assert.Equal(t, 0.0, a.ScoreCard(nil))

	empty := &Mblog{}
	assert.InDelta(t, 0.5, a.ScoreCard(empty), 1e-9)

	full := &Mblog{
		Text:           "今天天气不错",
		CreatedAt:      "刚刚",
		User:           &MblogUser{ScreenName: "张三"},
		Pics:           []MblogPic{{}},
		AttitudesCount: 3,
	}
	score := a.ScoreCard(full)
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestScorePostAndEnhance(t *testing.T) {
	a := NewQualityAssessor()

	post := &model.Post{
		Content: model.PostContent{
			Raw:      "内容",
			Cleaned:  "参加#活动#的@朋友 都说这次的组织工作非常到位，明年还要再来一次",
			Hashtags: []string{"活动"},
			Mentions: []string{"朋友"},
		},
		Metrics: model.PostMetrics{Reposts: 5, Comments: 10, Likes: 100},
	}
	initial := a.ScorePost(post)
	assert.GreaterOrEqual(t, initial, 0.0)
	assert.LessOrEqual(t, initial, 1.0)

	post.Quality.Score = initial
	a.EnhancePostScore(post)
	assert.GreaterOrEqual(t, post.Quality.Score, initial)
	assert.LessOrEqual(t, post.Quality.Score, 1.0)
}

func TestPostCompleteness(t *testing.T) {
	a := NewQualityAssessor()

	assert.Equal(t, 0.0, a.PostCompleteness(&model.Post{}))

	full := &model.Post{
		Content:  model.PostContent{Raw: "文本"},
		AuthorId: "42",
		Timing:   model.PostTiming{CreatedAt: time.Now()},
		Source:   "微博 weibo.com",
		MediaIds: []string{"m1"},
		Metrics:  model.PostMetrics{Likes: 1},
	}
	assert.InDelta(t, 1.0, a.PostCompleteness(full), 1e-9)
}

func TestPostIssues(t *testing.T) {
	a := NewQualityAssessor()

	issues := a.PostIssues(&model.Post{})
	assert.Contains(t, issues, "empty_text")
	assert.Contains(t, issues, "missing_author")
	assert.Contains(t, issues, "missing_timestamp")

	short := &model.Post{Content: model.PostContent{Cleaned: "短"}}
	assert.Contains(t, a.PostIssues(short), "text_too_short")
}

func TestUserInfluence(t *testing.T) {
	a := NewQualityAssessor()

	nobody := &model.User{}
	assert.Equal(t, 0.0, a.UserInfluence(nobody))

	celebrity := &model.User{
		Verification: model.UserVerification{Verified: true},
		Stats:        model.UserStats{Followers: 2_000_000, Posts: 20_000},
	}
	assert.Equal(t, 100.0, a.UserInfluence(celebrity))

	middling := &model.User{Stats: model.UserStats{Followers: 5_000, Posts: 500}}
	assert.Equal(t, 30.0, a.UserInfluence(middling))
}

func TestVerificationTier(t *testing.T) {
	a := NewQualityAssessor()

	assert.Equal(t, model.VerificationTierYellow, a.VerificationTier(0))
	assert.Equal(t, model.VerificationTierBlue, a.VerificationTier(1))
	assert.Equal(t, model.VerificationTierRed, a.VerificationTier(5))
	assert.Equal(t, model.VerificationTierNone, a.VerificationTier(-1))
	assert.Equal(t, model.VerificationTierNone, a.VerificationTier(200))
}

func TestCommentSentiment(t *testing.T) {
	a := NewQualityAssessor()

	assert.Equal(t, model.SentimentPositive, a.CommentSentiment("真棒，非常支持"))
	assert.Equal(t, model.SentimentNegative, a.CommentSentiment("太差了，很失望"))
	assert.Equal(t, model.SentimentNeutral, a.CommentSentiment("今天出门了"))
}

func TestCommentSpamScore(t *testing.T) {
	a := NewQualityAssessor()

	assert.Equal(t, 0.0, a.CommentSpamScore("普通评论，今天很开心"))

	spammy := a.CommentSpamScore("加微信领优惠券！！！！！！")
	assert.Greater(t, spammy, 0.3)
	assert.LessOrEqual(t, spammy, 1.0)
}

func TestCommentSpamScoreRepeatedRunes(t *testing.T) {
	a := NewQualityAssessor()

	// Six identical runes in a row trip the repetition rule, five do not.
	assert.Equal(t, 0.3, a.CommentSpamScore("啊啊啊啊啊啊"))
	assert.Equal(t, 0.0, a.CommentSpamScore("啊啊啊啊啊"))
	assert.Equal(t, 0.3, a.CommentSpamScore("太好笑了哈哈哈哈哈哈真的"))
}
