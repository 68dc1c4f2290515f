package opendata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/langchou/parkgazer/internal/apperr"
	"github.com/langchou/parkgazer/internal/models"
)

// 공공데이터 포털이 브라우저가 아닌 요청을 차단하는 경우가 있어 브라우저 헤더를 사용한다
const (
	userAgent    = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	acceptHeader = "application/json, text/plain, */*"
)

// Client 공공데이터 주차장 API 클라이언트
type Client struct {
	baseURL     string
	datasetPath string
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewClient 공공데이터 클라이언트 생성
func NewClient(baseURL, datasetPath string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		datasetPath: datasetPath,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// FetchAll 전체 주차장 데이터셋 조회
func (c *Client) FetchAll(ctx context.Context) ([]models.ParkingLot, error) {
	const op = "opendata.FetchAll"

	apiURL := c.baseURL + c.datasetPath

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, apperr.E(apperr.KindUnknown, op, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptHeader)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.E(apperr.KindNetwork, op, fmt.Errorf("send request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		kind := apperr.KindServer
		if resp.StatusCode == http.StatusNotFound {
			kind = apperr.KindNotFound
		}
		return nil, apperr.Errorf(kind, op, "open data api returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.E(apperr.KindNetwork, op, fmt.Errorf("read response: %w", err))
	}

	// 포털이 점검 중일 때 JSON 대신 HTML 안내 페이지를 내려준다
	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "text/html") || strings.HasPrefix(strings.TrimSpace(string(body)), "<") {
		return nil, apperr.Errorf(apperr.KindServer, op, "open data api returned html instead of json")
	}

	var payload interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, apperr.E(apperr.KindServer, op, fmt.Errorf("decode response: %w", err))
	}

	records, err := extractRecords(payload)
	if err != nil {
		return nil, apperr.E(apperr.KindServer, op, err)
	}

	lots := make([]models.ParkingLot, 0, len(records))
	skipped := 0
	for _, record := range records {
		lot, ok := parseRecord(record)
		if !ok {
			skipped++
			continue
		}
		lots = append(lots, lot)
	}

	c.logger.Info("Fetched parking lot dataset",
		zap.Int("total", len(records)),
		zap.Int("parsed", len(lots)),
		zap.Int("skipped", skipped))

	return lots, nil
}

// extractRecords 응답에서 레코드 배열 추출
// 포털·데이터셋마다 래핑 형태가 달라 알려진 형태를 순서대로 시도한다
func extractRecords(payload interface{}) ([]map[string]interface{}, error) {
	if arr, ok := payload.([]interface{}); ok {
		return toRecordMaps(arr), nil
	}

	obj, ok := payload.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected payload type %T", payload)
	}

	// 최상위 래핑 키
	for _, key := range []string{"data", "result", "list", "items", "records", "row"} {
		if arr, ok := obj[key].([]interface{}); ok {
			return toRecordMaps(arr), nil
		}
	}

	// 표준 공공데이터 형태: response.body.items 또는 response.body.items.item
	if response, ok := obj["response"].(map[string]interface{}); ok {
		if body, ok := response["body"].(map[string]interface{}); ok {
			if arr, ok := body["items"].([]interface{}); ok {
				return toRecordMaps(arr), nil
			}
			if items, ok := body["items"].(map[string]interface{}); ok {
				if arr, ok := items["item"].([]interface{}); ok {
					return toRecordMaps(arr), nil
				}
			}
		}
	}

	// 서울 열린데이터 형태: {"GetParkingInfo": {"row": [...]}}
	for _, v := range obj {
		if inner, ok := v.(map[string]interface{}); ok {
			if arr, ok := inner["row"].([]interface{}); ok {
				return toRecordMaps(arr), nil
			}
		}
	}

	return nil, fmt.Errorf("no record array found in payload")
}

func toRecordMaps(arr []interface{}) []map[string]interface{} {
	records := make([]map[string]interface{}, 0, len(arr))
	for _, v := range arr {
		if m, ok := v.(map[string]interface{}); ok {
			records = append(records, m)
		}
	}
	return records
}

// parseRecord 레코드 하나를 주차장으로 변환. 이름이 없으면 버린다
func parseRecord(record map[string]interface{}) (models.ParkingLot, bool) {
	var lot models.ParkingLot

	name := stringField(record, "prkplceNm", "pkltNm", "PKLT_NM", "PARKING_NAME", "name", "주차장명")
	if name == nil || strings.TrimSpace(*name) == "" {
		return lot, false
	}
	lot.Name = strings.TrimSpace(*name)

	lot.Address = stringField(record, "rdnmadr", "lnmadr", "ADDR", "address", "소재지도로명주소", "소재지지번주소")
	lot.Latitude = floatField(record, "latitude", "lat", "LAT", "위도")
	lot.Longitude = floatField(record, "longitude", "lng", "lot", "LOT", "LNG", "경도")
	lot.TotalParkingSpaces = intField(record, "prkcmprt", "TPKCT", "capacity", "주차구획수")
	lot.ParkingTypeName = stringField(record, "prkplceType", "PRK_TYPE_NM", "parkingType", "주차장구분")
	lot.Phone = stringField(record, "phoneNumber", "TELNO", "phone", "전화번호")

	lot.PaidFreeType = stringField(record, "parkingchrgeInfo", "PAY_YN", "paidFreeType", "요금정보")
	lot.PaidFreeTypeName = stringField(record, "parkingchrgeInfoNm", "PAY_YN_NM", "paidFreeTypeName", "요금정보명")
	if lot.PaidFreeTypeName == nil {
		lot.PaidFreeTypeName = lot.PaidFreeType
	}

	lot.BasicParkingFee = intField(record, "basicCharge", "BSC_PRK_CRG", "basicFee", "주차기본요금")
	lot.BasicParkingTime = intField(record, "basicTime", "BSC_PRK_HR", "주차기본시간")
	lot.AdditionalUnitFee = intField(record, "addCharge", "ADD_PRK_CRG", "additionalFee", "추가단위요금")
	lot.AdditionalUnitTime = intField(record, "addUnitTime", "ADD_PRK_HR", "additionalTime", "추가단위시간")
	lot.DailyMaxFee = intField(record, "dayMaxCharge", "DAY_MAX_CRG", "dailyMaxFee", "일최대요금")
	lot.MonthlyPassFee = intField(record, "monthCharge", "PRD_AMT", "monthlyFee", "월정기권요금")

	lot.WeekdayStartTime = timeField(record, "weekdayOperOpenHhmm", "WD_OPER_BGNG_TM", "weekdayStart", "평일운영시작시각")
	lot.WeekdayEndTime = timeField(record, "weekdayOperColseHhmm", "weekdayOperCloseHhmm", "WD_OPER_END_TM", "weekdayEnd", "평일운영종료시각")
	lot.WeekendStartTime = timeField(record, "satOperOperOpenHhmm", "satOperOpenHhmm", "WE_OPER_BGNG_TM", "weekendStart", "토요일운영시작시각")
	lot.WeekendEndTime = timeField(record, "satOperCloseHhmm", "WE_OPER_END_TM", "weekendEnd", "토요일운영종료시각")
	lot.HolidayStartTime = timeField(record, "holidayOperOpenHhmm", "LHLDY_OPER_BGNG_TM", "holidayStart", "공휴일운영시작시각")
	lot.HolidayEndTime = timeField(record, "holidayCloseOpenHhmm", "holidayOperCloseHhmm", "LHLDY_OPER_END_TM", "holidayEnd", "공휴일운영종료시각")

	return lot, true
}

// stringField 별칭 키 목록에서 첫 번째 비어 있지 않은 문자열 반환
func stringField(record map[string]interface{}, keys ...string) *string {
	for _, key := range keys {
		v, ok := record[key]
		if !ok || v == nil {
			continue
		}
		var s string
		switch val := v.(type) {
		case string:
			s = strings.TrimSpace(val)
		case float64:
			s = strconv.FormatFloat(val, 'f', -1, 64)
		default:
			continue
		}
		if s != "" {
			return &s
		}
	}
	return nil
}

// floatField 숫자 또는 숫자 문자열을 실수로 변환
func floatField(record map[string]interface{}, keys ...string) *float64 {
	for _, key := range keys {
		v, ok := record[key]
		if !ok || v == nil {
			continue
		}
		switch val := v.(type) {
		case float64:
			f := val
			return &f
		case string:
			s := strings.TrimSpace(val)
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

// intField 숫자 또는 숫자 문자열을 정수로 변환
func intField(record map[string]interface{}, keys ...string) *int {
	f := floatField(record, keys...)
	if f == nil {
		return nil
	}
	n := int(*f)
	return &n
}

// timeField HHMM 시각 필드. "9:00" 같은 콜론 표기도 정규화한다
func timeField(record map[string]interface{}, keys ...string) *string {
	s := stringField(record, keys...)
	if s == nil {
		return nil
	}
	normalized := strings.ReplaceAll(*s, ":", "")
	if len(normalized) == 3 {
		normalized = "0" + normalized
	}
	return &normalized
}
