package normalizer

import (
	"regexp"
	"strings"

	"github.com/socialmux/cleanser/model"
	"github.com/socialmux/cleanser/utils"
)

// QualityAssessor computes deterministic quality, completeness, influence and
// spam scores. Scoring is additive with a hard ceiling and never fails.
type QualityAssessor struct{}

func NewQualityAssessor() *QualityAssessor {
	return &QualityAssessor{}
}

// Cards scoring below this threshold are discarded before normalization.
const CardAcceptanceThreshold = 0.3

var positiveKeywords = []string{
	"好", "棒", "赞", "喜欢", "支持", "哈哈", "不错", "厉害", "优秀", "感谢",
}

var negativeKeywords = []string{
	"差", "烂", "讨厌", "垃圾", "失望", "生气", "愤怒", "无语", "恶心", "骗",
}

var spamKeywords = []string{
	"加微信", "加V", "代购", "刷单", "兼职", "赚钱", "点击链接", "优惠券", "免费领取", "私聊",
}

// Text made only of digits, whitespace and non-word symbols carries no
// real content.
var noWordContentRe = regexp.MustCompile(`^[\d\s\pP\pS]+$`)

// A run of this many identical runes marks the comment as spammy.
const spamRepeatRunLength = 6

// hasRepeatedRun reports whether text contains runLength or more consecutive
// identical runes. RE2 cannot express backreferences, so runs are counted by
// hand.
func hasRepeatedRun(text string, runLength int) bool {
	var prev rune
	count := 0
	for _, r := range text {
		if r == prev {
			count++
		} else {
			prev = r
			count = 1
		}
		if count >= runLength {
			return true
		}
	}
	return false
}

// ScoreCard computes the pre-filter acceptance score for a raw card.
func (a *QualityAssessor) ScoreCard(mblog *Mblog) float64 {
	if mblog == nil {
		return 0
	}
	score := 0.5
	if strings.TrimSpace(mblog.Text) != "" {
		score += 0.2
	}
	if mblog.User != nil && mblog.User.ScreenName != "" {
		score += 0.1
	}
	if mblog.CreatedAt != "" {
		score += 0.1
	}
	if len(mblog.Pics) > 0 {
		score += 0.05
	}
	if mblog.RepostsCount.Int64() > 0 || mblog.CommentsCount.Int64() > 0 || mblog.AttitudesCount.Int64() > 0 {
		score += 0.05
	}
	return capScore(score, 1.0)
}

// ScorePost computes the initial post quality score.
func (a *QualityAssessor) ScorePost(post *model.Post) float64 {
	score := 0.5
	textLen := runeLen(post.Content.Cleaned)
	if textLen > 20 {
		score += 0.1
	}
	if textLen > 100 {
		score += 0.1
	}
	if len(post.MediaIds) > 0 {
		score += 0.1
	}
	engagement := post.Metrics.Total()
	if engagement > 10 {
		score += 0.1
	}
	if engagement > 100 {
		score += 0.1
	}
	return capScore(score, 1.0)
}

// EnhancePostScore applies the post-construction enhancement bonuses on top
// of the current score, in place.
func (a *QualityAssessor) EnhancePostScore(post *model.Post) {
	score := post.Quality.Score
	if runeLen(post.Content.Cleaned) > 50 {
		score += 0.1
	}
	if len(post.Content.Hashtags) > 0 {
		score += 0.05
	}
	if len(post.Content.Mentions) > 0 {
		score += 0.05
	}
	if post.Metrics.Likes > post.Metrics.Comments {
		score += 0.05
	}
	if post.Metrics.Reposts > 0 {
		score += 0.05
	}
	post.Quality.Score = capScore(score, 1.0)
}

// PostCompleteness is the plain presence ratio over the six structural
// fields: text, author, created-at, source, media, any engagement metric.
func (a *QualityAssessor) PostCompleteness(post *model.Post) float64 {
	present := 0
	if post.Content.Raw != "" {
		present++
	}
	if post.AuthorId != "" {
		present++
	}
	if !post.Timing.CreatedAt.IsZero() {
		present++
	}
	if post.Source != "" {
		present++
	}
	if len(post.MediaIds) > 0 {
		present++
	}
	if post.Metrics.Total() > 0 {
		present++
	}
	return float64(present) / 6.0
}

// PostIssues emits the construction-time issue labels.
func (a *QualityAssessor) PostIssues(post *model.Post) []string {
	issues := []string{}
	if post.Content.Cleaned == "" {
		issues = append(issues, "empty_text")
	} else if runeLen(post.Content.Cleaned) < 5 {
		issues = append(issues, "text_too_short")
	}
	if post.AuthorId == "" {
		issues = append(issues, "missing_author")
	}
	if post.Timing.CreatedAt.IsZero() {
		issues = append(issues, "missing_timestamp")
	}
	return issues
}

// EnhancePostIssues appends the enhancement-pass issue labels, in place.
func (a *QualityAssessor) EnhancePostIssues(post *model.Post, author *model.User) {
	if runeLen(post.Content.Cleaned) < 10 {
		post.Quality.Issues = appendIssue(post.Quality.Issues, "low_content_length")
	}
	if post.Metrics.Likes == 0 && post.Metrics.Comments == 0 {
		post.Quality.Issues = appendIssue(post.Quality.Issues, "no_engagement")
	}
	if author == nil || author.Id == "" || author.Username == "" {
		post.Quality.Issues = appendIssue(post.Quality.Issues, "incomplete_author")
	}
}

// UserInfluence computes the 0-100 influence score from follower, post and
// verification signals.
func (a *QualityAssessor) UserInfluence(user *model.User) float64 {
	score := 0.0
	followers := user.Stats.Followers
	switch {
	case followers > 1_000_000:
		score += 50
	case followers > 100_000:
		score += 40
	case followers > 10_000:
		score += 30
	case followers > 1_000:
		score += 20
	case followers > 100:
		score += 10
	}
	if user.Verification.Verified {
		score += 30
	}
	posts := user.Stats.Posts
	switch {
	case posts > 10_000:
		score += 20
	case posts > 1_000:
		score += 15
	case posts > 100:
		score += 10
	}
	return capScore(score, 100)
}

// VerificationTier maps the platform's numeric verified_type to a tier.
func (a *QualityAssessor) VerificationTier(verifiedType int64) string {
	switch {
	case verifiedType == 0:
		return model.VerificationTierYellow
	case verifiedType == 1:
		return model.VerificationTierBlue
	case verifiedType >= 2 && verifiedType <= 7:
		return model.VerificationTierRed
	default:
		return model.VerificationTierNone
	}
}

// ScoreComment computes the comment quality score.
func (a *QualityAssessor) ScoreComment(comment *model.Comment, authorVerified bool) float64 {
	score := 0.5
	if runeLen(comment.Content.Cleaned) > 10 {
		score += 0.2
	}
	if comment.Engagement.Likes > 0 {
		score += 0.1
	}
	if authorVerified {
		score += 0.1
	}
	if !containsKeyword(comment.Content.Cleaned, spamKeywords) {
		score += 0.1
	}
	return capScore(score, 1.0)
}

// CommentSentiment is a majority vote between the fixed positive and
// negative keyword sets. Tie or no match is neutral.
func (a *QualityAssessor) CommentSentiment(text string) string {
	folded := strings.ToLower(text)
	positive := countKeywords(folded, positiveKeywords)
	negative := countKeywords(folded, negativeKeywords)
	switch {
	case positive > negative:
		return model.SentimentPositive
	case negative > positive:
		return model.SentimentNegative
	default:
		return model.SentimentNeutral
	}
}

// CommentSpamScore computes the [0,1] spam likelihood of a comment.
func (a *QualityAssessor) CommentSpamScore(text string) float64 {
	score := 0.0
	if hasRepeatedRun(text, spamRepeatRunLength) {
		score += 0.3
	}
	if containsKeyword(text, spamKeywords) {
		score += 0.4
	}
	if text != "" && noWordContentRe.MatchString(text) {
		score += 0.2
	}
	if l := runeLen(text); l < 2 || l > 500 {
		score += 0.1
	}
	return capScore(score, 1.0)
}

func capScore(score, ceiling float64) float64 {
	if score > ceiling {
		return ceiling
	}
	if score < 0 {
		return 0
	}
	return score
}

func runeLen(s string) int {
	return len([]rune(s))
}

func containsKeyword(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func countKeywords(text string, keywords []string) int {
	count := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			count++
		}
	}
	return count
}

func appendIssue(issues []string, issue string) []string {
	if utils.ContainsString(issues, issue) {
		return issues
	}
	return append(issues, issue)
}
