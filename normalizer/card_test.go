package normalizer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexStringAcceptsStringsAndNumbers(t *testing.T) {
	var v struct {
		Id  FlexString `json:"id"`
		Mid FlexString `json:"mid"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"id": 4887727199028260, "mid": "4887727199028261"}`), &v))
	assert.Equal(t, "4887727199028260", v.Id.String())
	assert.Equal(t, "4887727199028261", v.Mid.String())
}

func TestFlexIntAcceptsHumanizedCounts(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{`123`, 123},
		{`"456"`, 456},
		{`"4.5万"`, 45000},
		{`"1亿"`, 100000000},
		{`"100万+"`, 1000000},
		{`"垃圾数据"`, 0},
		{`null`, 0},
	}
	for _, c := range cases {
		var v FlexInt
		require.NoError(t, json.Unmarshal([]byte(c.in), &v), c.in)
		assert.Equal(t, c.want, v.Int64(), c.in)
	}
}

func TestDedupKeyPrefersMid(t *testing.T) {
	withMid := &Mblog{Id: "111", Mid: "222"}
	assert.Equal(t, "222", withMid.DedupKey())

	withoutMid := &Mblog{Id: "111"}
	assert.Equal(t, "111", withoutMid.DedupKey())
}

func TestDecodePayloadWrappedAndTopLevelFraming(t *testing.T) {
	wrapped := `{"ok": 1, "data": {"cards": [{"card_type": 9, "mblog": {"mid": "1"}}]}}`
	cards, err := DecodePayload(wrapped)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.True(t, cards[0].IsPostCard())

	topLevel := `{"cards": [{"card_type": 9, "mblog": {"mid": "2"}}]}`
	cards, err = DecodePayload([]byte(topLevel))
	require.NoError(t, err)
	require.Len(t, cards, 1)
}

func TestDecodePayloadAcceptsDecodedDocument(t *testing.T) {
	doc := map[string]interface{}{
		"cards": []interface{}{
			map[string]interface{}{"card_type": 9, "mblog": map[string]interface{}{"mid": "3"}},
		},
	}
	cards, err := DecodePayload(doc)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "3", cards[0].Mblog.DedupKey())
}

func TestDecodePayloadWithoutCardsIsValidationError(t *testing.T) {
	_, err := DecodePayload(`{"ok": 1, "data": {}}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation")
}

func TestDecodePayloadMalformedIsParseError(t *testing.T) {
	_, err := DecodePayload(`{"cards": [`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse error")
}

func TestDecodePayloadDropsNonObjectCards(t *testing.T) {
	cards, err := DecodePayload(`{"cards": [42, "junk", {"card_type": 9, "mblog": {"mid": "4"}}]}`)
	require.NoError(t, err)
	assert.Len(t, cards, 1)
}
