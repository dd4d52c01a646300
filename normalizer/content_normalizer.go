package normalizer

import (
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/socialmux/cleanser/model"
	Logger "github.com/socialmux/cleanser/utils/log"
)

// ContentNormalizer turns one raw search-result document into a
// NormalizedContent aggregate. Preprocessing failures are fatal, everything
// after that degrades per item instead of aborting the call.
type ContentNormalizer struct {
	cfg     Config
	time    *TimeNormalizer
	quality *QualityAssessor
}

func NewContentNormalizer(cfg Config) *ContentNormalizer {
	return &ContentNormalizer{
		cfg:     cfg,
		time:    NewTimeNormalizer(),
		quality: NewQualityAssessor(),
	}
}

// Normalize runs the strictly ordered pipeline: preprocess, filter, extract,
// enhance, metadata.
func (n *ContentNormalizer) Normalize(raw interface{}) (*model.NormalizedContent, error) {
	start := time.Now()

	cards, err := DecodePayload(raw)
	if err != nil {
		return nil, err
	}

	accepted, dropped := n.filterCards(cards)
	if len(cards) > 0 && len(accepted) == 0 {
		Logger.Log.Warnf("all %d cards filtered out, payload yields no posts", len(cards))
	}

	state := newExtractionState()
	state.dropped = dropped
	for _, card := range accepted {
		n.extractCard(card, state)
	}

	if n.cfg.EnableQualityEnhancement {
		n.enhance(state)
	}

	content := &model.NormalizedContent{
		Posts:    state.posts,
		Users:    state.users,
		Comments: state.comments,
		Media:    state.media,
	}
	content.Metadata = n.buildMetadata(content, state, time.Since(start))
	return content, nil
}

// filterCards keeps deduplicated post cards above the acceptance threshold,
// recursing one level into embedded card groups. Filtering is best effort:
// an unexpected failure yields an empty card set rather than propagating.
func (n *ContentNormalizer) filterCards(cards []Card) (accepted []*Mblog, dropped int) {
	defer func() {
		if r := recover(); r != nil {
			Logger.Log.Warnf("card filtering failed, dropping all cards: %v", r)
			accepted, dropped = nil, len(cards)
		}
	}()

	candidates := make([]*Mblog, 0, len(cards))
	for i := range cards {
		card := &cards[i]
		if card.IsPostCard() {
			candidates = append(candidates, card.Mblog)
		}
		for j := range card.CardGroup {
			if inner := &card.CardGroup[j]; inner.IsPostCard() {
				candidates = append(candidates, inner.Mblog)
			}
		}
	}

	seen := make(map[string]bool, len(candidates))
	for _, mblog := range candidates {
		key := mblog.DedupKey()
		if key == "" || seen[key] {
			dropped++
			continue
		}
		if n.quality.ScoreCard(mblog) < CardAcceptanceThreshold {
			dropped++
			continue
		}
		seen[key] = true
		accepted = append(accepted, mblog)
	}
	return accepted, dropped
}

// extractCard builds a post and its satellite entities out of one surviving
// card. A single item failing to construct is logged and skipped, it never
// aborts extraction of the remaining items.
func (n *ContentNormalizer) extractCard(mblog *Mblog, state *extractionState) {
	post := n.safeBuildPost(mblog, state, 0)
	if post == nil {
		return
	}
	state.posts = append(state.posts, post)

	if n.cfg.EnableCommentAnalysis {
		for i := range mblog.Comments {
			n.safeBuildComment(&mblog.Comments[i], post, state)
		}
	}
}

func (n *ContentNormalizer) safeBuildPost(mblog *Mblog, state *extractionState, depth int) (post *model.Post) {
	defer func() {
		if r := recover(); r != nil {
			Logger.Log.Warnf("skip malformed post card (mid=%s): %v", mblog.DedupKey(), r)
			post = nil
		}
	}()
	return n.buildPost(mblog, state, depth)
}

func (n *ContentNormalizer) buildPost(mblog *Mblog, state *extractionState, depth int) *model.Post {
	rawText := mblog.Text
	if rawText == "" {
		rawText = mblog.RawText
	}

	cleaned := CleanText(rawText)
	if mblog.IsLongText {
		// Long posts carry rich HTML where line breaks are semantic, flatten
		// them before the entity cleanup.
		cleaned = CleanText(FlattenRichText(rawText))
	}

	post := &model.Post{
		Id:  mblog.Id.String(),
		Mid: mblog.DedupKey(),
		Content: model.PostContent{
			Raw:      rawText,
			Cleaned:  cleaned,
			Hashtags: ExtractHashtags(rawText),
			Mentions: ExtractMentions(rawText),
			Links:    ExtractLinks(rawText),
			Emojis:   ExtractEmojis(rawText),
		},
		Metrics: model.PostMetrics{
			Reposts:  mblog.RepostsCount.Int64(),
			Comments: mblog.CommentsCount.Int64(),
			Likes:    mblog.AttitudesCount.Int64(),
		},
		Source: strings.TrimSpace(mblog.Source),
		Location: model.PostLocation{
			Name: strings.TrimPrefix(mblog.RegionName, "发布于 "),
		},
		Engagement: model.PostEngagement{
			IsPinned: mblog.IsTop.Int64() == 1,
			IsHot:    mblog.Title != nil && strings.Contains(mblog.Title.Text, "热门"),
		},
	}
	if mblog.ViewCount != nil {
		views := mblog.ViewCount.Int64()
		post.Metrics.Views = &views
	}

	if mblog.CreatedAt != "" {
		createdAt := n.time.Parse(mblog.CreatedAt)
		post.Timing.CreatedAt = createdAt
		post.Timing.CreatedAtDisplay = n.time.Relativize(createdAt)
		if n.cfg.EnableTimestampStandardization {
			post.Timing.CreatedAtISO = n.time.Standardize(createdAt)
		}
	}

	if mblog.User != nil {
		author := n.mergeUser(mblog.User, state)
		if author != nil {
			post.AuthorId = author.Id
		}
	}

	if n.cfg.EnableMediaAnalysis {
		post.MediaIds = n.buildMedia(mblog, post.Id, state)
	}

	if mblog.RetweetedStatus != nil {
		post.Interaction.IsRepost = true
		if depth < n.cfg.maxDepth() {
			if original := n.safeBuildPost(mblog.RetweetedStatus, state, depth+1); original != nil {
				post.Interaction.OriginalPost = original
				mid := original.Mid
				post.Interaction.OriginalPostMid = &mid
			}
		}
		// Beyond the recursion cap the chain is truncated silently.
	}

	post.Quality = model.PostQuality{
		Score:        n.quality.ScorePost(post),
		Completeness: n.quality.PostCompleteness(post),
		Issues:       n.quality.PostIssues(post),
	}
	return post
}

// mergeUser adds the author to the deduplicated user set. The first
// occurrence of an id wins, later cards do not overwrite it.
func (n *ContentNormalizer) mergeUser(raw *MblogUser, state *extractionState) *model.User {
	id := raw.Id.String()
	if id == "" {
		return nil
	}
	if existing, ok := state.userIndex[id]; ok {
		return existing
	}

	verifiedType := int64(-1)
	if raw.VerifiedType != nil {
		verifiedType = raw.VerifiedType.Int64()
	}
	user := &model.User{
		Id:          id,
		Username:    raw.ScreenName,
		DisplayName: raw.ScreenName,
		Description: raw.Description,
		AvatarUrl:   raw.ProfileImageUrl,
		AvatarHdUrl: raw.AvatarHd,
		Verification: model.UserVerification{
			Verified: raw.Verified,
			Type:     verifiedType,
			Tier:     n.quality.VerificationTier(verifiedType),
		},
		Stats: model.UserStats{
			Followers: raw.FollowersCount.Int64(),
			Following: raw.FollowCount.Int64(),
			Posts:     raw.StatusesCount.Int64(),
		},
		Gender:   normalizeGender(raw.Gender),
		Location: raw.Location,
		IsActive: raw.StatusesCount.Int64() > 0,
		Relation: model.UserRelation{
			Following:  raw.Following,
			FollowedBy: raw.FollowMe,
		},
	}
	if n.cfg.EnableUserProfiling {
		user.Influence.Score = n.quality.UserInfluence(user)
		user.Influence.Categories = influenceCategories(user)
	}

	state.userIndex[id] = user
	state.users = append(state.users, user)
	return user
}

// buildMedia creates MediaItems for the post's pictures and embedded video,
// capped to the configured maximum. Returns the referenced media ids.
func (n *ContentNormalizer) buildMedia(mblog *Mblog, postId string, state *extractionState) []string {
	ids := []string{}
	for i := range mblog.Pics {
		if len(ids) >= n.cfg.maxMedia() {
			break
		}
		if item := n.safeBuildPicture(&mblog.Pics[i], postId); item != nil {
			state.media = append(state.media, item)
			ids = append(ids, item.Id)
		}
	}
	if page := mblog.PageInfo; page != nil && len(ids) < n.cfg.maxMedia() {
		if item := buildPageMedia(page, postId); item != nil {
			state.media = append(state.media, item)
			ids = append(ids, item.Id)
		}
	}
	return ids
}

func (n *ContentNormalizer) safeBuildPicture(pic *MblogPic, postId string) (item *model.MediaItem) {
	defer func() {
		if r := recover(); r != nil {
			Logger.Log.Warnf("skip malformed picture (pid=%s): %v", pic.Pid, r)
			item = nil
		}
	}()

	if pic.Pid == "" && pic.Url == "" {
		return nil
	}
	id := pic.Pid
	if id == "" {
		id = pic.Url
	}

	mediaType := model.MediaTypeImage
	if strings.EqualFold(pic.Type, "gif") {
		mediaType = model.MediaTypeGif
	}

	item = &model.MediaItem{
		Id:     id,
		PostId: postId,
		Type:   mediaType,
		Urls: model.MediaUrls{
			Thumbnail: pic.Url,
			Medium:    pic.Url,
		},
	}
	if pic.Large != nil {
		item.Urls.Original = pic.Large.Url
		item.Urls.Large = pic.Large.Url
		if pic.Large.Geo != nil {
			item.Meta.Width = pic.Large.Geo.Width.Int64()
			item.Meta.Height = pic.Large.Geo.Height.Int64()
		}
	} else {
		item.Urls.Original = pic.Url
		item.Urls.Large = pic.Url
	}
	if item.Meta.Width == 0 && pic.Geo != nil {
		item.Meta.Width = pic.Geo.Width.Int64()
		item.Meta.Height = pic.Geo.Height.Int64()
	}
	item.Meta.Format = formatFromUrl(item.Urls.Original)
	return item
}

func buildPageMedia(page *MblogPageInfo, postId string) *model.MediaItem {
	var mediaType string
	switch page.Type {
	case "video":
		mediaType = model.MediaTypeVideo
	case "live":
		mediaType = model.MediaTypeLive
	case "article":
		mediaType = model.MediaTypeArticle
	default:
		return nil
	}

	id := page.ObjectId
	if id == "" {
		id = page.PageUrl
	}
	if id == "" {
		return nil
	}

	item := &model.MediaItem{
		Id:     id,
		PostId: postId,
		Type:   mediaType,
	}
	if page.PagePic != nil {
		item.Urls.Thumbnail = page.PagePic.Url
	}
	if page.Media != nil {
		item.Urls.Original = page.Media.StreamUrlHd
		if item.Urls.Original == "" {
			item.Urls.Original = page.Media.StreamUrl
		}
		item.Urls.Large = item.Urls.Original
		item.Meta.DurationSeconds = page.Media.Duration
	}
	return item
}

func (n *ContentNormalizer) safeBuildComment(raw *MblogComment, post *model.Post, state *extractionState) {
	defer func() {
		if r := recover(); r != nil {
			Logger.Log.Warnf("skip malformed comment (id=%s): %v", raw.Id.String(), r)
		}
	}()

	id := raw.Id.String()
	if id == "" {
		return
	}

	comment := &model.Comment{
		Id:     id,
		PostId: post.Id,
		Content: model.PostContent{
			Raw:      raw.Text,
			Cleaned:  CleanText(raw.Text),
			Hashtags: ExtractHashtags(raw.Text),
			Mentions: ExtractMentions(raw.Text),
			Links:    ExtractLinks(raw.Text),
			Emojis:   ExtractEmojis(raw.Text),
		},
		Engagement: model.CommentEngagement{
			Likes:   raw.LikeCount.Int64(),
			Replies: raw.TotalNumber.Int64(),
		},
	}
	if raw.CreatedAt != "" {
		comment.CreatedAt = n.time.Parse(raw.CreatedAt)
	}

	authorVerified := false
	if raw.User != nil {
		if author := n.mergeUser(raw.User, state); author != nil {
			comment.AuthorId = author.Id
			authorVerified = author.Verification.Verified
		}
	}

	// Thread linking only resolves against comments already built in the
	// same batch, an unresolved parent defaults to depth 1.
	comment.Threading.Depth = 1
	if replyTo := raw.ReplyId.String(); replyTo != "" {
		comment.Threading.ReplyToCommentId = replyTo
		if parent, ok := state.commentIndex[replyTo]; ok {
			comment.Threading.Depth = parent.Threading.Depth + 1
			parent.Threading.ChildIds = append(parent.Threading.ChildIds, comment.Id)
		}
	}

	comment.Quality = model.CommentQuality{
		Score:     n.quality.ScoreComment(comment, authorVerified),
		Sentiment: n.quality.CommentSentiment(comment.Content.Cleaned),
		SpamScore: n.quality.CommentSpamScore(comment.Content.Cleaned),
	}

	state.commentIndex[id] = comment
	state.comments = append(state.comments, comment)
}

// enhance recomputes scores in place with the second-pass formulas.
func (n *ContentNormalizer) enhance(state *extractionState) {
	for _, post := range state.posts {
		n.enhancePostChain(post, state, 0)
	}
	if n.cfg.EnableUserProfiling {
		for _, user := range state.users {
			user.Influence.Score = n.quality.UserInfluence(user)
			user.Influence.Categories = influenceCategories(user)
		}
	}
	if n.cfg.EnableCommentAnalysis {
		for _, comment := range state.comments {
			verified := false
			if author, ok := state.userIndex[comment.AuthorId]; ok {
				verified = author.Verification.Verified
			}
			comment.Quality.Score = n.quality.ScoreComment(comment, verified)
		}
	}
}

func (n *ContentNormalizer) enhancePostChain(post *model.Post, state *extractionState, depth int) {
	if post == nil || depth > n.cfg.maxDepth() {
		return
	}
	n.quality.EnhancePostScore(post)
	n.quality.EnhancePostIssues(post, state.userIndex[post.AuthorId])
	n.enhancePostChain(post.Interaction.OriginalPost, state, depth+1)
}

func (n *ContentNormalizer) buildMetadata(content *model.NormalizedContent, state *extractionState, elapsed time.Duration) model.ContentMetadata {
	now := time.Now()

	scores := make([]float64, 0, len(content.Posts))
	completeness := make([]float64, 0, len(content.Posts))
	freshness := make([]float64, 0, len(content.Posts))
	for _, post := range content.Posts {
		scores = append(scores, post.Quality.Score)
		completeness = append(completeness, post.Quality.Completeness)
		hours := now.Sub(post.Timing.CreatedAt).Hours()
		f := 1 - hours/24
		if f < 0 {
			f = 0
		}
		freshness = append(freshness, f)
	}

	verifiedRatio := 0.0
	if len(content.Users) > 0 {
		verified := 0
		for _, user := range content.Users {
			if user.Verification.Verified {
				verified++
			}
		}
		verifiedRatio = float64(verified) / float64(len(content.Users))
	}

	overallCompleteness := safeMean(completeness)
	return model.ContentMetadata{
		ParsedAt:      now,
		ParserVersion: ParserVersion,
		Method:        "weibo_search_cards",
		Quality: model.AggregateQuality{
			Overall:      safeMean(scores),
			Completeness: overallCompleteness,
			Freshness:    safeMean(freshness),
			Reliability:  0.6*verifiedRatio + 0.4*overallCompleteness,
		},
		Counts: model.ContentCounts{
			Posts:        len(content.Posts),
			Users:        len(content.Users),
			Comments:     len(content.Comments),
			Media:        len(content.Media),
			DroppedCards: state.dropped,
		},
		DurationMs:     elapsed.Milliseconds(),
		AppliedFilters: []string{"card_type", "mid_dedup", "acceptance_score"},
	}
}

type extractionState struct {
	posts        []*model.Post
	users        []*model.User
	userIndex    map[string]*model.User
	comments     []*model.Comment
	commentIndex map[string]*model.Comment
	media        []*model.MediaItem
	dropped      int
}

func newExtractionState() *extractionState {
	return &extractionState{
		posts:        []*model.Post{},
		users:        []*model.User{},
		userIndex:    map[string]*model.User{},
		comments:     []*model.Comment{},
		commentIndex: map[string]*model.Comment{},
		media:        []*model.MediaItem{},
	}
}

func normalizeGender(g string) string {
	switch strings.ToLower(g) {
	case "m":
		return model.GenderMale
	case "f":
		return model.GenderFemale
	default:
		return model.GenderUnknown
	}
}

func influenceCategories(user *model.User) []string {
	categories := []string{}
	switch {
	case user.Influence.Score >= 80, user.Stats.Followers > 1_000_000:
		categories = append(categories, "top_influencer")
	case user.Stats.Followers > 10_000:
		categories = append(categories, "mid_influencer")
	case user.Stats.Followers > 100:
		categories = append(categories, "micro_influencer")
	}
	if user.Verification.Verified {
		categories = append(categories, "verified")
	}
	return categories
}

func formatFromUrl(url string) string {
	idx := strings.LastIndex(url, ".")
	if idx < 0 || idx == len(url)-1 {
		return ""
	}
	ext := strings.ToLower(url[idx+1:])
	if len(ext) > 4 {
		return ""
	}
	return ext
}

func safeMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}
