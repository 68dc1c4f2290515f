package parking

import (
	"time"

	"github.com/langchou/parkgazer/internal/models"
)

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

func floatPtr(f float64) *float64 { return &f }

// 2025-03-12는 수요일이며 공휴일이 아니다
var wednesdayMorning = time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)

func paidLot(basicFee, basicTime, addFee, addTime int) models.ParkingLot {
	return models.ParkingLot{
		Name:               "테스트 주차장",
		PaidFreeTypeName:   strPtr(models.PaidFreeLabelPaid),
		BasicParkingFee:    intPtr(basicFee),
		BasicParkingTime:   intPtr(basicTime),
		AdditionalUnitFee:  intPtr(addFee),
		AdditionalUnitTime: intPtr(addTime),
	}
}

func weekdayLot(start, end string) models.ParkingLot {
	return models.ParkingLot{
		Name:             "테스트 주차장",
		WeekdayStartTime: strPtr(start),
		WeekdayEndTime:   strPtr(end),
	}
}
