package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/langchou/parkgazer/internal/models"
)

const kakaoAddressURL = "https://dapi.kakao.com/v2/local/search/address.json"

// Client 카카오 주소 지오코딩 클라이언트
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger

	// 캐시: 동일 주소 반복 요청 방지
	cache   map[string]models.Location
	cacheMu sync.RWMutex
}

// addressResponse 카카오 주소 검색 응답
type addressResponse struct {
	Documents []struct {
		AddressName string `json:"address_name"`
		X           string `json:"x"` // 경도
		Y           string `json:"y"` // 위도
	} `json:"documents"`
}

// NewClient 카카오 지오코딩 클라이언트 생성
func NewClient(apiKey string, logger *zap.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: kakaoAddressURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
		cache:  make(map[string]models.Location),
	}
}

// Geocode 주소를 좌표로 변환
func (c *Client) Geocode(ctx context.Context, address string) (*models.Location, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("kakao api key not configured")
	}
	if address == "" {
		return nil, fmt.Errorf("empty address")
	}

	// 캐시 확인
	c.cacheMu.RLock()
	if loc, ok := c.cache[address]; ok {
		c.cacheMu.RUnlock()
		return &loc, nil
	}
	c.cacheMu.RUnlock()

	apiURL := c.baseURL + "?query=" + url.QueryEscape(address)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "KakaoAK "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kakao api returned status %d", resp.StatusCode)
	}

	var result addressResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(result.Documents) == 0 {
		return nil, fmt.Errorf("no geocode result for address")
	}

	doc := result.Documents[0]
	lat, err := strconv.ParseFloat(doc.Y, 64)
	if err != nil {
		return nil, fmt.Errorf("parse latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(doc.X, 64)
	if err != nil {
		return nil, fmt.Errorf("parse longitude: %w", err)
	}

	loc := models.Location{Latitude: lat, Longitude: lng}

	// 캐시 저장
	c.cacheMu.Lock()
	c.cache[address] = loc
	// 캐시 크기 제한: 10000건 초과 시 비움
	if len(c.cache) > 10000 {
		c.cache = make(map[string]models.Location)
		c.cache[address] = loc
	}
	c.cacheMu.Unlock()

	c.logger.Debug("Geocoded address",
		zap.String("address", address),
		zap.Float64("lat", lat),
		zap.Float64("lng", lng))

	return &loc, nil
}

// IsConfigured API Key 설정 여부
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}
