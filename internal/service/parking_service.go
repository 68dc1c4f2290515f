package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/langchou/parkgazer/internal/models"
	"github.com/langchou/parkgazer/internal/parking"
	"github.com/langchou/parkgazer/internal/repository"
)

// ListParams 주차장 목록 조회 조건
type ListParams struct {
	Search        string
	Sort          models.SortOption
	AvailableOnly bool
	Location      *models.Location
}

// ParkingService 주차장 조회 서비스
type ParkingService struct {
	logger *zap.Logger
	repo   *repository.ParkingLotRepository

	// 테스트에서 시각 주입용
	now func() time.Time
}

// NewParkingService 주차장 서비스 생성
func NewParkingService(logger *zap.Logger, repo *repository.ParkingLotRepository) *ParkingService {
	return &ParkingService{
		logger: logger,
		repo:   repo,
		now:    time.Now,
	}
}

// List 조건에 맞는 주차장 목록 조회
// 검색 → 이용 가능 필터 → 파생 필드 계산 → 정렬 순서로 처리한다
func (s *ParkingService) List(ctx context.Context, params ListParams) ([]models.ParkingLot, error) {
	lots, err := s.repo.Search(ctx, params.Search)
	if err != nil {
		return nil, fmt.Errorf("search parking lots: %w", err)
	}

	now := s.now()

	if params.AvailableOnly {
		filtered := lots[:0]
		for _, lot := range lots {
			if parking.AvailableAt(lot, now) {
				filtered = append(filtered, lot)
			}
		}
		lots = filtered
	}

	lots = parking.Enrich(lots, now, params.Location)
	lots = parking.Sort(lots, params.Sort, params.Location)

	return lots, nil
}

// Get 주차장 단건 조회. 파생 필드 포함
func (s *ParkingService) Get(ctx context.Context, id int64, loc *models.Location) (*models.ParkingLot, error) {
	lot, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	enriched := parking.EnrichOne(*lot, s.now(), loc)
	return &enriched, nil
}

// Count 저장된 주차장 수
func (s *ParkingService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
