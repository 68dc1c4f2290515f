package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/langchou/parkgazer/internal/apperr"
	"github.com/langchou/parkgazer/internal/models"
	"github.com/langchou/parkgazer/internal/parking"
	"github.com/langchou/parkgazer/internal/state"
)

// ErrSyncRunning 동기화가 이미 진행 중
var ErrSyncRunning = errors.New("sync already in progress")

// 지오코딩 요청 간 지연. 카카오 API rate limit 보호
const geocodeDelay = 100 * time.Millisecond

// SyncResult 동기화 실행 결과
type SyncResult struct {
	Count    int `json:"count"`
	Geocoded int `json:"geocoded"`
}

// datasetFetcher 공공데이터 조회 의존성. 테스트에서 대체 가능
type datasetFetcher interface {
	FetchAll(ctx context.Context) ([]models.ParkingLot, error)
}

// addressGeocoder 주소 지오코딩 의존성
type addressGeocoder interface {
	Geocode(ctx context.Context, address string) (*models.Location, error)
	IsConfigured() bool
}

// lotReplacer 데이터셋 교체 의존성
type lotReplacer interface {
	ReplaceAll(ctx context.Context, lots []models.ParkingLot) error
}

// SyncService 공공데이터 동기화 서비스
type SyncService struct {
	logger   *zap.Logger
	client   datasetFetcher
	geocoder addressGeocoder
	repo     lotReplacer
	machine  *state.Machine

	// 지오코딩 요청 간 지연. 테스트에서 단축
	geocodeDelay time.Duration
}

// NewSyncService 동기화 서비스 생성
func NewSyncService(
	logger *zap.Logger,
	client datasetFetcher,
	geo addressGeocoder,
	repo lotReplacer,
) *SyncService {
	s := &SyncService{
		logger:       logger,
		client:       client,
		geocoder:     geo,
		repo:         repo,
		geocodeDelay: geocodeDelay,
	}
	s.machine = state.NewMachine(func(from, to string) {
		logger.Info("Sync state changed",
			zap.String("from", from),
			zap.String("to", to))
	})
	return s
}

// Run 동기화 실행. 이미 진행 중이면 ErrSyncRunning 반환
func (s *SyncService) Run(ctx context.Context) (*SyncResult, error) {
	if err := s.machine.Trigger(state.EventStart); err != nil {
		return nil, ErrSyncRunning
	}

	result, err := s.run(ctx)
	if err != nil {
		s.machine.UpdateState(func(st *state.SyncState) {
			st.LastError = err.Error()
		})
		if triggerErr := s.machine.Trigger(state.EventFail); triggerErr != nil {
			s.logger.Error("Failed to reset sync state", zap.Error(triggerErr))
		}
		return nil, err
	}

	now := time.Now()
	s.machine.UpdateState(func(st *state.SyncState) {
		st.LastSyncAt = &now
		st.LastCount = result.Count
		st.LastError = ""
	})
	if err := s.machine.Trigger(state.EventDone); err != nil {
		s.logger.Error("Failed to reset sync state", zap.Error(err))
	}

	return result, nil
}

func (s *SyncService) run(ctx context.Context) (*SyncResult, error) {
	s.logger.Info("Starting parking lot sync")

	lots, err := s.client.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset: %w", err)
	}
	if len(lots) == 0 {
		return nil, apperr.Errorf(apperr.KindInvalid, "sync.Run", "no parking lots in dataset")
	}

	geocoded := s.backfillCoordinates(ctx, lots)

	if err := s.machine.Trigger(state.EventFetched); err != nil {
		return nil, fmt.Errorf("advance sync state: %w", err)
	}

	if err := s.repo.ReplaceAll(ctx, lots); err != nil {
		return nil, fmt.Errorf("store dataset: %w", err)
	}

	s.logger.Info("Parking lot sync finished",
		zap.Int("count", len(lots)),
		zap.Int("geocoded", geocoded))

	return &SyncResult{Count: len(lots), Geocoded: geocoded}, nil
}

// backfillCoordinates 좌표 없는 주차장의 주소를 지오코딩으로 보완
// 실패는 경고만 남기고 계속 진행한다
func (s *SyncService) backfillCoordinates(ctx context.Context, lots []models.ParkingLot) int {
	if !s.geocoder.IsConfigured() {
		return 0
	}

	geocoded := 0
	for i := range lots {
		lot := &lots[i]
		if lot.Latitude != nil && lot.Longitude != nil &&
			parking.ValidCoordinate(*lot.Latitude, *lot.Longitude) {
			continue
		}
		if lot.Address == nil || *lot.Address == "" {
			continue
		}

		loc, err := s.geocoder.Geocode(ctx, *lot.Address)
		if err != nil {
			s.logger.Warn("Geocode failed",
				zap.String("name", lot.Name),
				zap.Error(err))
			continue
		}

		lot.Latitude = &loc.Latitude
		lot.Longitude = &loc.Longitude
		geocoded++

		select {
		case <-ctx.Done():
			return geocoded
		case <-time.After(s.geocodeDelay):
		}
	}

	return geocoded
}

// Status 동기화 상태 조회
func (s *SyncService) Status() *state.SyncState {
	return s.machine.GetState()
}
