package parking

import (
	"github.com/langchou/parkgazer/internal/models"
)

// IsFreeType 유무료 구분이 무료인지 확인
func IsFreeType(lot models.ParkingLot) bool {
	if lot.PaidFreeType != nil && *lot.PaidFreeType == models.PaidFreeLabelFree {
		return true
	}
	if lot.PaidFreeTypeName != nil && *lot.PaidFreeTypeName == models.PaidFreeLabelFree {
		return true
	}
	return false
}

// OneHourFee 주차장의 1시간 요금 계산 (원)
// 기본 요금 블록이 60분을 채우지 못하면 나머지를 추가 단위 요금으로
// 올림 계산한다. 요금 정보가 없으면 0 (무료로 간주).
func OneHourFee(lot models.ParkingLot) int {
	// 무료인 경우
	if IsFreeType(lot) {
		return 0
	}

	// 기본 요금 정보가 없는 경우
	if lot.BasicParkingFee == nil || *lot.BasicParkingFee == 0 ||
		lot.BasicParkingTime == nil || *lot.BasicParkingTime == 0 {
		return 0
	}

	basicFee := *lot.BasicParkingFee
	basicTime := *lot.BasicParkingTime // 분 단위

	// 기본 시간이 1시간 이상인 경우
	if basicTime >= 60 {
		return basicFee
	}

	remaining := 60 - basicTime
	if remaining <= 0 {
		return basicFee
	}

	// 추가 시간 단위가 없으면 기본 요금만 반환
	if lot.AdditionalUnitTime == nil || *lot.AdditionalUnitTime <= 0 {
		return basicFee
	}

	additionalTime := *lot.AdditionalUnitTime
	additionalFee := 0
	if lot.AdditionalUnitFee != nil {
		additionalFee = *lot.AdditionalUnitFee
	}

	// 부분 단위는 올림
	units := (remaining + additionalTime - 1) / additionalTime
	return basicFee + units*additionalFee
}
