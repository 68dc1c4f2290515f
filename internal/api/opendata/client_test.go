package opendata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/langchou/parkgazer/internal/apperr"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "/dataset", 5*time.Second, zap.NewNop())
}

func jsonHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}
}

func TestFetchAllPlainArray(t *testing.T) {
	client := newTestClient(t, jsonHandler(`[
		{"prkplceNm": "시청 주차장", "latitude": "37.5665", "longitude": "126.9780", "prkcmprt": "120"},
		{"prkplceNm": "역전 주차장"}
	]`))

	lots, err := client.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, lots, 2)

	assert.Equal(t, "시청 주차장", lots[0].Name)
	require.NotNil(t, lots[0].Latitude)
	assert.InDelta(t, 37.5665, *lots[0].Latitude, 1e-9)
	require.NotNil(t, lots[0].TotalParkingSpaces)
	assert.Equal(t, 120, *lots[0].TotalParkingSpaces)
}

func TestFetchAllWrappedShapes(t *testing.T) {
	bodies := map[string]string{
		"data":          `{"data": [{"prkplceNm": "가"}]}`,
		"result":        `{"result": [{"prkplceNm": "가"}]}`,
		"response.body": `{"response": {"body": {"items": [{"prkplceNm": "가"}]}}}`,
		"items.item":    `{"response": {"body": {"items": {"item": [{"prkplceNm": "가"}]}}}}`,
		"seoul row":     `{"GetParkingInfo": {"row": [{"PKLT_NM": "가"}]}}`,
	}

	for name, body := range bodies {
		client := newTestClient(t, jsonHandler(body))
		lots, err := client.FetchAll(context.Background())
		require.NoError(t, err, name)
		require.Len(t, lots, 1, name)
		assert.Equal(t, "가", lots[0].Name, name)
	}
}

func TestFetchAllFieldAliases(t *testing.T) {
	// 서울 열린데이터 스타일 대문자 필드
	client := newTestClient(t, jsonHandler(`[{
		"PKLT_NM": "남산 주차장",
		"ADDR": "서울 중구",
		"LAT": 37.55, "LOT": 126.99,
		"TPKCT": 80,
		"PAY_YN_NM": "유료",
		"BSC_PRK_CRG": 1000, "BSC_PRK_HR": 30,
		"ADD_PRK_CRG": 500, "ADD_PRK_HR": 30,
		"WD_OPER_BGNG_TM": "0900", "WD_OPER_END_TM": "2100"
	}]`))

	lots, err := client.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, lots, 1)

	lot := lots[0]
	assert.Equal(t, "남산 주차장", lot.Name)
	require.NotNil(t, lot.Address)
	assert.Equal(t, "서울 중구", *lot.Address)
	require.NotNil(t, lot.BasicParkingFee)
	assert.Equal(t, 1000, *lot.BasicParkingFee)
	require.NotNil(t, lot.WeekdayStartTime)
	assert.Equal(t, "0900", *lot.WeekdayStartTime)
}

func TestFetchAllNormalizesTimes(t *testing.T) {
	client := newTestClient(t, jsonHandler(`[{
		"prkplceNm": "주차장",
		"weekdayOperOpenHhmm": "9:00",
		"weekdayOperColseHhmm": "18:00"
	}]`))

	lots, err := client.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, lots, 1)

	require.NotNil(t, lots[0].WeekdayStartTime)
	assert.Equal(t, "0900", *lots[0].WeekdayStartTime, "콜론 제거 후 4자리로 채움")
	assert.Equal(t, "1800", *lots[0].WeekdayEndTime)
}

func TestFetchAllSkipsNamelessRecords(t *testing.T) {
	client := newTestClient(t, jsonHandler(`[
		{"prkplceNm": "이름 있음"},
		{"rdnmadr": "이름이 없는 레코드"},
		{"prkplceNm": "   "}
	]`))

	lots, err := client.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, lots, 1)
	assert.Equal(t, "이름 있음", lots[0].Name)
}

func TestFetchAllHTMLResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>점검 중</html>"))
	})

	_, err := client.FetchAll(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperr.KindServer, apperr.KindOf(err))
}

func TestFetchAllServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.FetchAll(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperr.KindServer, apperr.KindOf(err))
}

func TestFetchAllNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.FetchAll(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestFetchAllNetworkError(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "/dataset", time.Second, zap.NewNop())

	_, err := client.FetchAll(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperr.KindNetwork, apperr.KindOf(err))
}

func TestFetchAllSendsBrowserHeaders(t *testing.T) {
	var gotUA, gotAccept string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	})

	_, err := client.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Contains(t, gotUA, "Mozilla")
	assert.Contains(t, gotAccept, "application/json")
}
