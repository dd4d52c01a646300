package normalizer

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// The cards/mblog payload is an external, loosely typed contract: ids arrive
// as strings or numbers, counters arrive as numbers or strings like "12万+",
// and whole objects come and go between source versions. Every field here
// tolerates either shape, a card that doesn't decode is opaque and ignored.

// Card type marker for a card that wraps a post body.
const postCardType = 9

// FlexString decodes a JSON string or number into a string.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.Wrap(err, "value is neither string nor number")
	}
	*s = FlexString(n.String())
	return nil
}

func (s FlexString) String() string { return string(s) }

// FlexInt decodes a JSON number, a numeric string, or a humanized Chinese
// count like "4.5万" / "1亿" / "100万+" into an int64. Anything unparsable
// decodes to zero rather than failing the whole card.
type FlexInt int64

func (i *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*i = 0
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*i = FlexInt(parseHumanizedCount(v))
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		*i = 0
		return nil
	}
	*i = FlexInt(f)
	return nil
}

func (i FlexInt) Int64() int64 { return int64(i) }

func parseHumanizedCount(v string) int64 {
	v = strings.TrimSpace(v)
	v = strings.TrimSuffix(v, "+")
	multiplier := float64(1)
	switch {
	case strings.HasSuffix(v, "万"):
		multiplier = 1e4
		v = strings.TrimSuffix(v, "万")
	case strings.HasSuffix(v, "亿"):
		multiplier = 1e8
		v = strings.TrimSuffix(v, "亿")
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0
	}
	return int64(f * multiplier)
}

// Card is one raw nested record from the source payload. It wraps zero or
// one Mblog and may nest a group of further cards one level deep.
type Card struct {
	CardType  FlexInt `json:"card_type"`
	ItemId    string  `json:"itemid"`
	Mblog     *Mblog  `json:"mblog"`
	CardGroup []Card  `json:"card_group"`
}

// IsPostCard reports whether this card's type marker indicates a post card
// and it actually carries a post body.
func (c *Card) IsPostCard() bool {
	return c.CardType.Int64() == postCardType && c.Mblog != nil
}

type MblogTitle struct {
	Text string `json:"text"`
}

// Mblog is the embedded post body of a post card.
type Mblog struct {
	Id        FlexString `json:"id"`
	Mid       FlexString `json:"mid"`
	Bid       string     `json:"bid"`
	CreatedAt string     `json:"created_at"`
	Text      string     `json:"text"`
	RawText   string     `json:"raw_text"`
	Source    string     `json:"source"`

	RepostsCount   FlexInt  `json:"reposts_count"`
	CommentsCount  FlexInt  `json:"comments_count"`
	AttitudesCount FlexInt  `json:"attitudes_count"`
	ViewCount      *FlexInt `json:"view_count,omitempty"`

	IsLongText bool        `json:"isLongText"`
	IsTop      FlexInt     `json:"isTop"`
	Title      *MblogTitle `json:"title"`
	RegionName string      `json:"region_name"`

	User            *MblogUser     `json:"user"`
	RetweetedStatus *Mblog         `json:"retweeted_status"`
	Pics            []MblogPic     `json:"pics"`
	PageInfo        *MblogPageInfo `json:"page_info"`
	Comments        []MblogComment `json:"comments"`
}

// DedupKey returns the authoritative deduplication key for the post. Older
// payload versions omit mid, in which case the record id has to do.
func (m *Mblog) DedupKey() string {
	if m.Mid != "" {
		return m.Mid.String()
	}
	return m.Id.String()
}

type MblogUser struct {
	Id              FlexString `json:"id"`
	ScreenName      string     `json:"screen_name"`
	ProfileImageUrl string     `json:"profile_image_url"`
	AvatarHd        string     `json:"avatar_hd"`
	Description     string     `json:"description"`
	Gender          string     `json:"gender"`
	Location        string     `json:"location"`

	Verified     bool     `json:"verified"`
	VerifiedType *FlexInt `json:"verified_type,omitempty"`

	FollowersCount FlexInt `json:"followers_count"`
	FollowCount    FlexInt `json:"follow_count"`
	StatusesCount  FlexInt `json:"statuses_count"`

	Following  bool `json:"following"`
	FollowMe   bool `json:"follow_me"`
	CloseBlueV bool `json:"close_blue_v"`
}

type MblogPicGeo struct {
	Width  FlexInt `json:"width"`
	Height FlexInt `json:"height"`
}

type MblogPicVariant struct {
	Size string       `json:"size"`
	Url  string       `json:"url"`
	Geo  *MblogPicGeo `json:"geo"`
}

type MblogPic struct {
	Pid   string           `json:"pid"`
	Url   string           `json:"url"`
	Size  string           `json:"size"`
	Type  string           `json:"type"`
	Geo   *MblogPicGeo     `json:"geo"`
	Large *MblogPicVariant `json:"large"`
}

type MblogMediaInfo struct {
	StreamUrl   string  `json:"stream_url"`
	StreamUrlHd string  `json:"stream_url_hd"`
	Duration    float64 `json:"duration"`
}

type MblogPageInfo struct {
	Type     string           `json:"type"`
	ObjectId string           `json:"object_id"`
	PageUrl  string           `json:"page_url"`
	Title    string           `json:"page_title"`
	PagePic  *MblogPicVariant `json:"page_pic"`
	Media    *MblogMediaInfo  `json:"media_info"`
}

type MblogComment struct {
	Id          FlexString `json:"id"`
	Text        string     `json:"text"`
	CreatedAt   string     `json:"created_at"`
	User        *MblogUser `json:"user"`
	LikeCount   FlexInt    `json:"like_count"`
	TotalNumber FlexInt    `json:"total_number"`
	ReplyId     FlexString `json:"reply_id"`
}

// searchPayload matches both framing variants of the search-result document:
// the mobile API wraps cards under "data", older dumps keep them top-level.
type searchPayload struct {
	Ok   FlexInt `json:"ok"`
	Data *struct {
		Cards []json.RawMessage `json:"cards"`
	} `json:"data"`
	Cards []json.RawMessage `json:"cards"`
}

// DecodePayload parses a raw search-result document into its card list.
// The raw value may be a serialized payload (string or bytes) or an already
// decoded document. A payload without a cards collection is a validation
// failure, entries that are not objects are dropped silently.
func DecodePayload(raw interface{}) ([]Card, error) {
	data, err := payloadBytes(raw)
	if err != nil {
		return nil, err
	}

	var payload searchPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, errors.Wrap(err, "parse error: malformed search payload")
	}

	rawCards := payload.Cards
	if payload.Data != nil && payload.Data.Cards != nil {
		rawCards = payload.Data.Cards
	}
	if rawCards == nil {
		return nil, errors.New("data validation error: payload has no cards collection")
	}

	cards := make([]Card, 0, len(rawCards))
	for _, rc := range rawCards {
		trimmed := bytes.TrimSpace(rc)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			continue
		}
		var card Card
		if err := json.Unmarshal(trimmed, &card); err != nil {
			continue
		}
		cards = append(cards, card)
	}
	return cards, nil
}

func payloadBytes(raw interface{}) ([]byte, error) {
	switch v := raw.(type) {
	case nil:
		return nil, errors.New("data validation error: raw content is empty")
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	case json.RawMessage:
		return v, nil
	default:
		// Already-decoded documents (e.g. a bson map from the raw store) are
		// round-tripped through JSON so decoding stays uniform.
		data, err := json.Marshal(v)
		if err != nil {
			return nil, errors.Wrap(err, "parse error: cannot serialize raw content")
		}
		return data, nil
	}
}
