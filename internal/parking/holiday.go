package parking

import (
	"time"
)

// 고정 공휴일 (양력)
// 설날·추석 등 음력 공휴일은 매년 날짜가 바뀌므로 다루지 않는다.
var fixedHolidays = [][2]int{
	{1, 1},   // 신정
	{3, 1},   // 삼일절
	{5, 5},   // 어린이날
	{6, 6},   // 현충일
	{8, 15},  // 광복절
	{10, 3},  // 개천절
	{10, 9},  // 한글날
	{12, 25}, // 크리스마스
}

// IsHoliday 공휴일 여부 확인 (양력 고정 공휴일만)
func IsHoliday(t time.Time) bool {
	month := int(t.Month())
	day := t.Day()
	for _, h := range fixedHolidays {
		if h[0] == month && h[1] == day {
			return true
		}
	}
	return false
}
