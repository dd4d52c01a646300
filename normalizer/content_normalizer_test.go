package normalizer

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialmux/cleanser/model"
	Logger "github.com/socialmux/cleanser/utils/log"
)

func searchResultPayload(cards ...string) string {
	joined := ""
	for i, card := range cards {
		if i > 0 {
			joined += ","
		}
		joined += card
	}
	return fmt.Sprintf(`{"ok": 1, "data": {"cards": [%s]}}`, joined)
}

func postCard(mid, text string) string {
	return fmt.Sprintf(`{
		"card_type": 9,
		"mblog": {
			"id": "%s",
			"mid": "%s",
			"created_at": "3分钟前",
			"text": "%s",
			"source": "微博 weibo.com",
			"reposts_count": 5,
			"comments_count": 10,
			"attitudes_count": 100,
			"user": {
				"id": 1001,
				"screen_name": "测试用户",
				"verified": true,
				"verified_type": 1,
				"followers_count": 20000,
				"statuses_count": 1500
			}
		}
	}`, mid, mid, text)
}

func TestNormalizeEmptyCardsYieldsEmptyAggregate(t *testing.T) {
	n := NewContentNormalizer(DefaultConfig())

	content, err := n.Normalize(`{"ok": 1, "data": {"cards": []}}`)
	require.NoError(t, err)
	assert.Empty(t, content.Posts)
	assert.Empty(t, content.Users)
	assert.Empty(t, content.Comments)
	assert.Empty(t, content.Media)
	assert.Equal(t, 0, content.Metadata.Counts.Posts)
}

func TestNormalizeWrongCardTypeYieldsNoPosts(t *testing.T) {
	hook := test.NewLocal(Logger.Log.Logger)
	defer hook.Reset()

	n := NewContentNormalizer(DefaultConfig())

	content, err := n.Normalize(searchResultPayload(`{"card_type": 4, "itemid": "ad"}`))
	require.NoError(t, err)
	assert.Empty(t, content.Posts)

	// A payload whose cards all filter out is suspicious enough to warn on.
	require.NotEmpty(t, hook.Entries)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Contains(t, hook.LastEntry().Message, "filtered out")
}

func TestNormalizeDeduplicatesByMid(t *testing.T) {
	n := NewContentNormalizer(DefaultConfig())

	content, err := n.Normalize(searchResultPayload(
		postCard("1000", "第一条"),
		postCard("1000", "重复的第一条"),
		postCard("2000", "第二条"),
	))
	require.NoError(t, err)
	require.Len(t, content.Posts, 2)

	seen := map[string]bool{}
	for _, post := range content.Posts {
		assert.False(t, seen[post.Mid], "duplicate mid %s", post.Mid)
		seen[post.Mid] = true
	}
	assert.Equal(t, 1, content.Metadata.Counts.DroppedCards)
}

func TestNormalizeExtractsPostContent(t *testing.T) {
	n := NewContentNormalizer(DefaultConfig())

	content, err := n.Normalize(searchResultPayload(
		postCard("1000", "讨论#科技#话题 感谢@张三和@李四的支持"),
	))
	require.NoError(t, err)
	require.Len(t, content.Posts, 1)

	post := content.Posts[0]
	assert.Equal(t, "1000", post.Mid)
	if diff := cmp.Diff([]string{"科技"}, []string(post.Content.Hashtags)); diff != "" {
		t.Errorf("hashtags mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"张三", "李四"}, []string(post.Content.Mentions)); diff != "" {
		t.Errorf("mentions mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, post.Timing.CreatedAt.IsZero())
	assert.NotEmpty(t, post.Timing.CreatedAtISO)

	require.Len(t, content.Users, 1)
	author := content.Users[0]
	assert.Equal(t, "1001", author.Id)
	assert.Equal(t, post.AuthorId, author.Id)
	assert.Equal(t, model.VerificationTierBlue, author.Verification.Tier)
	assert.Greater(t, author.Influence.Score, 0.0)
}

func TestNormalizeQualityScoresAreBounded(t *testing.T) {
	n := NewContentNormalizer(DefaultConfig())

	content, err := n.Normalize(searchResultPayload(
		postCard("1000", "很长的内容很长的内容很长的内容很长的内容很长的内容很长的内容"),
		postCard("2000", "短"),
	))
	require.NoError(t, err)

	for _, post := range content.Posts {
		assert.GreaterOrEqual(t, post.Quality.Score, 0.0)
		assert.LessOrEqual(t, post.Quality.Score, 1.0)
		assert.GreaterOrEqual(t, post.Quality.Completeness, 0.0)
		assert.LessOrEqual(t, post.Quality.Completeness, 1.0)
	}
	assert.GreaterOrEqual(t, content.Metadata.Quality.Overall, 0.0)
	assert.LessOrEqual(t, content.Metadata.Quality.Overall, 1.0)
	assert.GreaterOrEqual(t, content.Metadata.Quality.Freshness, 0.0)
	assert.LessOrEqual(t, content.Metadata.Quality.Freshness, 1.0)
}

func TestNormalizeRepostChain(t *testing.T) {
	n := NewContentNormalizer(DefaultConfig())

	payload := searchResultPayload(`{
		"card_type": 9,
		"mblog": {
			"mid": "outer",
			"created_at": "刚刚",
			"text": "转发理由",
			"user": {"id": 1, "screen_name": "转发者"},
			"retweeted_status": {
				"mid": "inner",
				"created_at": "1小时前",
				"text": "原始内容",
				"user": {"id": 2, "screen_name": "原作者"}
			}
		}
	}`)

	content, err := n.Normalize(payload)
	require.NoError(t, err)
	require.Len(t, content.Posts, 1)

	outer := content.Posts[0]
	assert.True(t, outer.Interaction.IsRepost)
	require.NotNil(t, outer.Interaction.OriginalPost)
	assert.Equal(t, "inner", outer.Interaction.OriginalPost.Mid)
	require.NotNil(t, outer.Interaction.OriginalPostMid)
	assert.Equal(t, "inner", *outer.Interaction.OriginalPostMid)

	// Both authors land in the deduplicated user set.
	assert.Len(t, content.Users, 2)
}

func TestNormalizeRepostDepthIsCapped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxRepostDepth = 2
	n := NewContentNormalizer(cfg)

	inner := `{"mid": "d3", "text": "最深", "user": {"id": 4, "screen_name": "u4"}}`
	payload := searchResultPayload(fmt.Sprintf(`{
		"card_type": 9,
		"mblog": {
			"mid": "d0", "text": "转0", "user": {"id": 1, "screen_name": "u1"},
			"retweeted_status": {
				"mid": "d1", "text": "转1", "user": {"id": 2, "screen_name": "u2"},
				"retweeted_status": {
					"mid": "d2", "text": "转2", "user": {"id": 3, "screen_name": "u3"},
					"retweeted_status": %s
				}
			}
		}
	}`, inner))

	content, err := n.Normalize(payload)
	require.NoError(t, err)
	require.Len(t, content.Posts, 1)

	depth := 0
	for post := content.Posts[0]; post.Interaction.OriginalPost != nil; post = post.Interaction.OriginalPost {
		depth++
	}
	assert.Equal(t, 2, depth)
}

func TestNormalizeCardGroupOneLevel(t *testing.T) {
	n := NewContentNormalizer(DefaultConfig())

	payload := searchResultPayload(fmt.Sprintf(
		`{"card_type": 11, "card_group": [%s]}`, postCard("3000", "嵌套卡片")))

	content, err := n.Normalize(payload)
	require.NoError(t, err)
	require.Len(t, content.Posts, 1)
	assert.Equal(t, "3000", content.Posts[0].Mid)
}

func TestNormalizeComments(t *testing.T) {
	n := NewContentNormalizer(DefaultConfig())

	payload := searchResultPayload(`{
		"card_type": 9,
		"mblog": {
			"mid": "5000",
			"text": "主帖",
			"user": {"id": 1, "screen_name": "作者"},
			"comments": [
				{"id": "c1", "text": "太棒了，非常支持", "like_count": 3, "user": {"id": 7, "screen_name": "评论者"}},
				{"id": "c2", "text": "回复你", "reply_id": "c1", "user": {"id": 8, "screen_name": "回复者"}}
			]
		}
	}`)

	content, err := n.Normalize(payload)
	require.NoError(t, err)
	require.Len(t, content.Comments, 2)

	first, second := content.Comments[0], content.Comments[1]
	assert.Equal(t, model.SentimentPositive, first.Quality.Sentiment)
	assert.Equal(t, 1, first.Threading.Depth)
	assert.Equal(t, 2, second.Threading.Depth)
	assert.Equal(t, "c1", second.Threading.ReplyToCommentId)
	assert.Contains(t, []string(first.Threading.ChildIds), "c2")
}

func TestNormalizeMedia(t *testing.T) {
	n := NewContentNormalizer(DefaultConfig())

	payload := searchResultPayload(`{
		"card_type": 9,
		"mblog": {
			"mid": "6000",
			"text": "带图",
			"user": {"id": 1, "screen_name": "作者"},
			"pics": [
				{"pid": "p1", "url": "http://wx1.sinaimg.cn/orj360/p1.jpg",
				 "large": {"url": "http://wx1.sinaimg.cn/large/p1.jpg", "geo": {"width": 1080, "height": 720}}}
			],
			"page_info": {
				"type": "video", "object_id": "v1",
				"media_info": {"stream_url_hd": "http://f.video.weibocdn.com/v1.mp4", "duration": 32.5}
			}
		}
	}`)

	content, err := n.Normalize(payload)
	require.NoError(t, err)
	require.Len(t, content.Media, 2)
	require.Len(t, content.Posts, 1)
	assert.Len(t, content.Posts[0].MediaIds, 2)

	picture := content.Media[0]
	assert.Equal(t, model.MediaTypeImage, picture.Type)
	assert.Equal(t, "http://wx1.sinaimg.cn/large/p1.jpg", picture.Urls.Original)
	assert.Equal(t, int64(1080), picture.Meta.Width)
	assert.Equal(t, "jpg", picture.Meta.Format)

	video := content.Media[1]
	assert.Equal(t, model.MediaTypeVideo, video.Type)
	assert.Equal(t, "http://f.video.weibocdn.com/v1.mp4", video.Urls.Original)
}

func TestNormalizeDisabledStagesAreSkipped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnableMediaAnalysis = false
	cfg.EnableCommentAnalysis = false
	cfg.EnableUserProfiling = false
	cfg.EnableTimestampStandardization = false
	n := NewContentNormalizer(cfg)

	payload := searchResultPayload(`{
		"card_type": 9,
		"mblog": {
			"mid": "7000",
			"created_at": "刚刚",
			"text": "全开关关闭",
			"user": {"id": 1, "screen_name": "作者", "followers_count": 100000},
			"pics": [{"pid": "p1", "url": "http://wx1.sinaimg.cn/orj360/p1.jpg"}],
			"comments": [{"id": "c1", "text": "评论", "user": {"id": 2, "screen_name": "评"}}]
		}
	}`)

	content, err := n.Normalize(payload)
	require.NoError(t, err)
	require.Len(t, content.Posts, 1)

	post := content.Posts[0]
	assert.Empty(t, post.MediaIds)
	assert.Empty(t, content.Media)
	assert.Empty(t, content.Comments)
	assert.Empty(t, post.Timing.CreatedAtISO)
	assert.Equal(t, 0.0, content.Users[0].Influence.Score)
}

func TestNormalizeMalformedPayloadIsFatal(t *testing.T) {
	n := NewContentNormalizer(DefaultConfig())

	_, err := n.Normalize(`{"data": {}}`)
	require.Error(t, err)

	_, err = n.Normalize(`not json at all`)
	require.Error(t, err)
}
