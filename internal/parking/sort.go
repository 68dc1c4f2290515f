package parking

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/langchou/parkgazer/internal/models"
)

// Sort 주차장 목록 정렬
// 입력 슬라이스는 변경하지 않고 정렬된 새 슬라이스를 반환한다.
// 안정 정렬이므로 동률인 레코드는 원래 순서를 유지한다.
func Sort(lots []models.ParkingLot, option models.SortOption, userLoc *models.Location) []models.ParkingLot {
	sorted := make([]models.ParkingLot, len(lots))
	copy(sorted, lots)

	switch option {
	case models.SortByDistance:
		// 사용자 위치가 없으면 입력 순서 그대로
		if userLoc == nil {
			return sorted
		}
		sort.SliceStable(sorted, func(i, j int) bool {
			a, b := sorted[i], sorted[j]
			// 좌표 없는 레코드는 항상 뒤로
			if !a.HasCoordinates() {
				return false
			}
			if !b.HasCoordinates() {
				return true
			}
			distA := Distance(userLoc.Latitude, userLoc.Longitude, *a.Latitude, *a.Longitude)
			distB := Distance(userLoc.Latitude, userLoc.Longitude, *b.Latitude, *b.Longitude)
			return distA < distB
		})

	case models.SortByFee:
		sort.SliceStable(sorted, func(i, j int) bool {
			return OneHourFee(sorted[i]) < OneHourFee(sorted[j])
		})

	case models.SortByAvailable:
		// 총 주차면 많은 순
		sort.SliceStable(sorted, func(i, j int) bool {
			return totalSpaces(sorted[i]) > totalSpaces(sorted[j])
		})

	default: // SortByName
		c := collate.New(language.Korean)
		sort.SliceStable(sorted, func(i, j int) bool {
			return c.CompareString(sorted[i].Name, sorted[j].Name) < 0
		})
	}

	return sorted
}

func totalSpaces(lot models.ParkingLot) int {
	if lot.TotalParkingSpaces == nil {
		return 0
	}
	return *lot.TotalParkingSpaces
}
