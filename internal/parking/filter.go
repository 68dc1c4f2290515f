package parking

import (
	"time"

	"github.com/langchou/parkgazer/internal/models"
)

// OperatingHoursClass 운영 시간 필터 값
type OperatingHoursClass string

const (
	HoursAll     OperatingHoursClass = "all"
	Hours24      OperatingHoursClass = "24h"
	HoursDaytime OperatingHoursClass = "daytime"
	HoursNight   OperatingHoursClass = "night"
)

// PaidFreeClass 유무료 필터 값
type PaidFreeClass string

const (
	PaidFreeAll PaidFreeClass = "all"
	PaidOnly    PaidFreeClass = "paid"
	FreeOnly    PaidFreeClass = "free"
)

// FilterOptions 주차장 목록 필터 설정
// 네 가지 조건은 AND로 결합된다.
type FilterOptions struct {
	OperatingHours OperatingHoursClass `json:"operatingHours"`
	MinCapacity    *int                `json:"minCapacity,omitempty"`
	PaidFree       PaidFreeClass       `json:"paidFreeType"`
	ParkingType    string              `json:"parkingType"` // "all" 또는 주차장 종류 라벨
}

// DefaultFilterOptions 필터 없음
func DefaultFilterOptions() FilterOptions {
	return FilterOptions{
		OperatingHours: HoursAll,
		PaidFree:       PaidFreeAll,
		ParkingType:    "all",
	}
}

// Filter 필터 설정에 맞는 주차장만 남긴다. 원본 순서는 유지된다.
func Filter(lots []models.ParkingLot, opts FilterOptions, now time.Time) []models.ParkingLot {
	filtered := make([]models.ParkingLot, 0, len(lots))
	for _, lot := range lots {
		if matchesOperatingHours(lot, opts.OperatingHours, now) &&
			matchesCapacity(lot, opts.MinCapacity) &&
			matchesPaidFree(lot, opts.PaidFree) &&
			matchesParkingType(lot, opts.ParkingType) {
			filtered = append(filtered, lot)
		}
	}
	return filtered
}

// matchesOperatingHours 운영 시간 필터
func matchesOperatingHours(lot models.ParkingLot, class OperatingHoursClass, now time.Time) bool {
	switch class {
	case Hours24:
		// 현재 적용 슬롯과 무관하게 평일 운영 시간으로 판단
		return IsOpen24Hours(lot)
	case HoursDaytime:
		hour := now.Hour()
		return AvailableAt(lot, now) && hour >= 6 && hour < 22
	case HoursNight:
		hour := now.Hour()
		return AvailableAt(lot, now) && (hour >= 22 || hour < 6)
	default:
		return true
	}
}

// matchesCapacity 주차 대수 필터
func matchesCapacity(lot models.ParkingLot, minCapacity *int) bool {
	if minCapacity == nil {
		return true
	}
	spaces := 0
	if lot.TotalParkingSpaces != nil {
		spaces = *lot.TotalParkingSpaces
	}
	return spaces >= *minCapacity
}

// matchesPaidFree 유무료 구분 필터
// 무료 판정은 유무료 코드/라벨 또는 계산된 1시간 요금이 0인 경우.
func matchesPaidFree(lot models.ParkingLot, class PaidFreeClass) bool {
	if class == PaidFreeAll {
		return true
	}

	isFree := IsFreeType(lot) || OneHourFee(lot) == 0

	if class == FreeOnly {
		return isFree
	}
	return !isFree
}

// matchesParkingType 주차장 종류 필터 (정확히 일치)
func matchesParkingType(lot models.ParkingLot, parkingType string) bool {
	if parkingType == "" || parkingType == "all" {
		return true
	}
	return lot.ParkingTypeName != nil && *lot.ParkingTypeName == parkingType
}
