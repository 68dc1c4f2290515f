package parking

import (
	"time"

	"github.com/langchou/parkgazer/internal/models"
)

// EnrichOne 단일 주차장 레코드에 파생 필드 계산
// (거리, 1시간 요금, 현재 주차 가능 여부). 순수 함수이며 같은 입력에
// 대해 항상 같은 결과를 낸다.
func EnrichOne(lot models.ParkingLot, now time.Time, userLoc *models.Location) models.ParkingLot {
	// 좌표 정규화: 하나라도 유효하지 않으면 둘 다 제거
	if lot.Latitude == nil || lot.Longitude == nil || !ValidCoordinate(*lot.Latitude, *lot.Longitude) {
		lot.Latitude = nil
		lot.Longitude = nil
	}

	// 거리는 사용자 위치와 유효한 좌표가 모두 있을 때만 계산
	lot.Distance = nil
	if userLoc != nil && lot.Latitude != nil && lot.Longitude != nil {
		d := Distance(userLoc.Latitude, userLoc.Longitude, *lot.Latitude, *lot.Longitude)
		lot.Distance = &d
	}

	lot.OneHourFee = OneHourFee(lot)
	lot.IsAvailable = AvailableAt(lot, now)

	return lot
}

// Enrich 주차장 목록 전체에 파생 필드 계산
// 입력 슬라이스는 변경하지 않고 새 슬라이스를 반환한다.
func Enrich(lots []models.ParkingLot, now time.Time, userLoc *models.Location) []models.ParkingLot {
	enriched := make([]models.ParkingLot, len(lots))
	for i, lot := range lots {
		enriched[i] = EnrichOne(lot, now, userLoc)
	}
	return enriched
}
