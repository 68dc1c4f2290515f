package parking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/langchou/parkgazer/internal/models"
)

func namedLotAt(name string, lat, lng float64) models.ParkingLot {
	return models.ParkingLot{
		Name:      name,
		Latitude:  floatPtr(lat),
		Longitude: floatPtr(lng),
	}
}

func names(lots []models.ParkingLot) []string {
	out := make([]string, len(lots))
	for i, lot := range lots {
		out[i] = lot.Name
	}
	return out
}

func TestSortByDistance(t *testing.T) {
	loc := models.DefaultLocation
	near := namedLotAt("가까움", 37.5670, 126.9785)
	far := namedLotAt("멀다", 37.7000, 127.2000)
	noCoords := models.ParkingLot{Name: "좌표없음"}

	sorted := Sort([]models.ParkingLot{far, noCoords, near}, models.SortByDistance, &loc)

	assert.Equal(t, []string{"가까움", "멀다", "좌표없음"}, names(sorted), "좌표 없는 레코드는 항상 마지막")
}

func TestSortByDistanceWithoutLocation(t *testing.T) {
	a := namedLotAt("첫째", 37.60, 127.00)
	b := namedLotAt("둘째", 37.50, 126.90)

	sorted := Sort([]models.ParkingLot{a, b}, models.SortByDistance, nil)

	assert.Equal(t, []string{"첫째", "둘째"}, names(sorted), "위치가 없으면 입력 순서 유지")
}

func TestSortByFee(t *testing.T) {
	cheap := models.ParkingLot{Name: "무료", PaidFreeTypeName: strPtr(models.PaidFreeLabelFree)}
	mid := paidLot(1000, 60, 0, 0)
	mid.Name = "중간"
	expensive := paidLot(5000, 60, 0, 0)
	expensive.Name = "비쌈"

	sorted := Sort([]models.ParkingLot{expensive, cheap, mid}, models.SortByFee, nil)

	assert.Equal(t, []string{"무료", "중간", "비쌈"}, names(sorted))
}

func TestSortByAvailable(t *testing.T) {
	big := models.ParkingLot{Name: "대형", TotalParkingSpaces: intPtr(500)}
	small := models.ParkingLot{Name: "소형", TotalParkingSpaces: intPtr(30)}
	unknown := models.ParkingLot{Name: "미상"}

	sorted := Sort([]models.ParkingLot{small, unknown, big}, models.SortByAvailable, nil)

	assert.Equal(t, []string{"대형", "소형", "미상"}, names(sorted), "주차면 많은 순")
}

func TestSortByNameKorean(t *testing.T) {
	sorted := Sort([]models.ParkingLot{
		{Name: "종로 주차장"},
		{Name: "강남 주차장"},
		{Name: "마포 주차장"},
	}, models.SortByName, nil)

	assert.Equal(t, []string{"강남 주차장", "마포 주차장", "종로 주차장"}, names(sorted))
}

func TestSortStableOnTies(t *testing.T) {
	first := paidLot(1000, 60, 0, 0)
	first.Name = "먼저"
	second := paidLot(1000, 60, 0, 0)
	second.Name = "나중"

	sorted := Sort([]models.ParkingLot{first, second}, models.SortByFee, nil)

	assert.Equal(t, []string{"먼저", "나중"}, names(sorted), "동률은 입력 순서 유지")
}

func TestSortDoesNotMutateInput(t *testing.T) {
	lots := []models.ParkingLot{{Name: "둘"}, {Name: "하나"}}

	sorted := Sort(lots, models.SortByName, nil)

	require.Equal(t, []string{"하나", "둘"}, names(sorted))
	assert.Equal(t, []string{"둘", "하나"}, names(lots), "원본 순서 유지")
}
