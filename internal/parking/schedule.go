package parking

import (
	"strconv"
	"time"

	"github.com/langchou/parkgazer/internal/models"
)

// 24시간 운영을 나타내는 HHMM 값
const (
	openAllDayStart = "0000"
	openAllDayEnd   = "2359"
)

// AvailableAt 기준 시각에 주차장이 운영 시간 내인지 확인
// 운영 시간 정보가 없거나 형식이 잘못된 경우 가능한 것으로 간주 (fail-open).
func AvailableAt(lot models.ParkingLot, t time.Time) bool {
	start, end := scheduleFor(lot, t)

	// 운영 시간 정보가 없는 경우
	if start == nil || end == nil {
		return true
	}

	startHHMM, ok := parseHHMM(*start)
	if !ok {
		return true
	}
	endHHMM, ok := parseHHMM(*end)
	if !ok {
		return true
	}

	// 24시간 운영 (0000-2359)
	if startHHMM == 0 && endHHMM == 2359 {
		return true
	}

	current := t.Hour()*100 + t.Minute()

	if startHHMM <= endHHMM {
		// 같은 날 내 범위 (예: 0900-1800)
		return current >= startHHMM && current <= endHHMM
	}
	// 자정을 넘어가는 경우 (예: 2200-0600)
	return current >= startHHMM || current <= endHHMM
}

// IsOpen24Hours 평일 운영 시간이 0000-2359인지 확인
func IsOpen24Hours(lot models.ParkingLot) bool {
	return lot.WeekdayStartTime != nil && *lot.WeekdayStartTime == openAllDayStart &&
		lot.WeekdayEndTime != nil && *lot.WeekdayEndTime == openAllDayEnd
}

// scheduleFor 기준 날짜에 적용되는 운영 시간 슬롯 선택
// 공휴일(공휴일 시간이 설정된 경우) → 주말 → 평일 순으로 결정한다.
func scheduleFor(lot models.ParkingLot, t time.Time) (start, end *string) {
	if IsHoliday(t) && lot.HolidayStartTime != nil && lot.HolidayEndTime != nil {
		return lot.HolidayStartTime, lot.HolidayEndTime
	}

	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return lot.WeekendStartTime, lot.WeekendEndTime
	default:
		return lot.WeekdayStartTime, lot.WeekdayEndTime
	}
}

// parseHHMM 4자리 HHMM 문자열 파싱
// 정확히 4자리 숫자이고 [0,2359] 범위일 때만 유효하다.
func parseHHMM(s string) (int, bool) {
	if len(s) != 4 {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 || v > 2359 {
		return 0, false
	}
	return v, true
}
