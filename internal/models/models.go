package models

import (
	"time"
)

// Paid/free classification values as stored upstream
const (
	PaidFreeLabelFree = "무료"
	PaidFreeLabelPaid = "유료"
)

// Facility type labels as stored upstream
const (
	ParkingTypeOffStreet = "노외 주차장"
	ParkingTypeOnStreet  = "노상 주차장"
)

// Location 사용자 위치
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DefaultLocation 기본 위치 (서울시청)
var DefaultLocation = Location{
	Latitude:  37.5665,
	Longitude: 126.9780,
}

// SortOption 정렬 옵션
type SortOption string

const (
	SortByDistance  SortOption = "distance"
	SortByFee       SortOption = "fee"
	SortByAvailable SortOption = "available"
	SortByName      SortOption = "name"
)

// ParseSortOption maps a query value to a sort option, defaulting to name order.
func ParseSortOption(s string) SortOption {
	switch SortOption(s) {
	case SortByDistance, SortByFee, SortByAvailable, SortByName:
		return SortOption(s)
	default:
		return SortByName
	}
}

// ParkingLot 주차장 정보
// Stored columns carry snake_case JSON tags matching the upstream schema;
// derived fields (distance, oneHourFee, isAvailable) are recomputed on every
// enrichment pass and never persisted.
type ParkingLot struct {
	ID      int64   `json:"id" db:"id"`
	Name    string  `json:"name" db:"name"`
	Address *string `json:"address,omitempty" db:"address"`

	// 좌표 (둘 중 하나라도 유효하지 않으면 둘 다 제거됨)
	Latitude  *float64 `json:"latitude,omitempty" db:"latitude"`
	Longitude *float64 `json:"longitude,omitempty" db:"longitude"`

	TotalParkingSpaces *int    `json:"total_parking_spaces,omitempty" db:"total_parking_spaces"`
	ParkingTypeName    *string `json:"parking_type_name,omitempty" db:"parking_type_name"`
	Phone              *string `json:"phone,omitempty" db:"phone"`

	// 요금 정보
	PaidFreeType       *string `json:"paid_free_type,omitempty" db:"paid_free_type"`
	PaidFreeTypeName   *string `json:"paid_free_type_name,omitempty" db:"paid_free_type_name"`
	BasicParkingFee    *int    `json:"basic_parking_fee,omitempty" db:"basic_parking_fee"`
	BasicParkingTime   *int    `json:"basic_parking_time,omitempty" db:"basic_parking_time"`   // 분
	AdditionalUnitFee  *int    `json:"additional_unit_fee,omitempty" db:"additional_unit_fee"`
	AdditionalUnitTime *int    `json:"additional_unit_time,omitempty" db:"additional_unit_time"` // 분
	DailyMaxFee        *int    `json:"daily_max_fee,omitempty" db:"daily_max_fee"`
	MonthlyPassFee     *int    `json:"monthly_pass_fee,omitempty" db:"monthly_pass_fee"`

	// 운영 시간 (HHMM, 4자리)
	WeekdayStartTime *string `json:"weekday_start_time,omitempty" db:"weekday_start_time"`
	WeekdayEndTime   *string `json:"weekday_end_time,omitempty" db:"weekday_end_time"`
	WeekendStartTime *string `json:"weekend_start_time,omitempty" db:"weekend_start_time"`
	WeekendEndTime   *string `json:"weekend_end_time,omitempty" db:"weekend_end_time"`
	HolidayStartTime *string `json:"holiday_start_time,omitempty" db:"holiday_start_time"`
	HolidayEndTime   *string `json:"holiday_end_time,omitempty" db:"holiday_end_time"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// 파생 필드 (저장하지 않음)
	Distance    *float64 `json:"distance,omitempty"` // km
	OneHourFee  int      `json:"oneHourFee"`
	IsAvailable bool     `json:"isAvailable"`
}

// HasCoordinates reports whether both coordinates are present.
func (p *ParkingLot) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}
