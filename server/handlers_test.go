package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialmux/cleanser/cleaner"
	"github.com/socialmux/cleanser/model"
	"github.com/socialmux/cleanser/sink"
	"github.com/socialmux/cleanser/store"
)

func testRouter(records ...*model.RawData) (*gin.Engine, *sink.FakeSink) {
	gin.SetMode(gin.TestMode)

	completionSink := sink.NewFakeSink()
	orchestrator := cleaner.NewOrchestrator(
		store.NewFakeRawStore(records...),
		store.NewFakeContentStore(),
		completionSink,
		cleaner.NoopDuplicateChecker{},
		model.DefaultCleaningOptions(),
	)

	router := gin.New()
	router.POST("/clean", CleanHandler(orchestrator))
	router.POST("/clean/batch", CleanBatchHandler(orchestrator))
	router.GET("/healthcheck", HealthcheckHandler(completionSink))
	return router, completionSink
}

func weiboRecord(id string) *model.RawData {
	return &model.RawData{
		Id: id,
		RawContent: `{"ok": 1, "data": {"cards": [{
			"card_type": 9,
			"mblog": {
				"mid": "m-` + id + `",
				"created_at": "刚刚",
				"text": "接口测试内容，附带一些正文",
				"attitudes_count": 12,
				"user": {"id": 1, "screen_name": "作者"}
			}
		}]}}`,
	}
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCleanHandler(t *testing.T) {
	router, completionSink := testRouter(weiboRecord("raw-1"))

	rec := postJSON(t, router, "/clean", CleanRequest{
		Notification: model.RawDataNotification{
			RawDataId:      "raw-1",
			SourceType:     model.SourceTypeWeiboSearch,
			SourcePlatform: model.SourcePlatformWeibo,
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result model.CleaningResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Processed)
	assert.Len(t, completionSink.Pushed(), 1)
}

func TestCleanHandlerRejectsForeignSource(t *testing.T) {
	router, _ := testRouter()

	rec := postJSON(t, router, "/clean", CleanRequest{
		Notification: model.RawDataNotification{
			RawDataId:  "raw-1",
			SourceType: "twitter_search_result",
		},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCleanHandlerMissingRecordMapsToStorageStatus(t *testing.T) {
	router, _ := testRouter()

	rec := postJSON(t, router, "/clean", CleanRequest{
		Notification: model.RawDataNotification{
			RawDataId:      "raw-unknown",
			SourceType:     model.SourceTypeWeiboSearch,
			SourcePlatform: model.SourcePlatformWeibo,
		},
	})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestCleanBatchHandler(t *testing.T) {
	records := []*model.RawData{}
	ids := []string{}
	for i := 0; i < 3; i++ {
		id := fmt.Sprintf("raw-%d", i)
		records = append(records, weiboRecord(id))
		ids = append(ids, id)
	}
	ids = append(ids, "raw-missing")

	router, _ := testRouter(records...)

	rec := postJSON(t, router, "/clean/batch", CleanBatchRequest{RawDataIds: ids})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var response struct {
		Results []model.CleaningResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response.Results, 4)
	assert.True(t, response.Results[0].Success)
	assert.False(t, response.Results[3].Success)
}

func TestHealthcheckHandler(t *testing.T) {
	router, completionSink := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	completionSink.Unhealthy = true
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
