package parking

import (
	"math"
)

// 지구 반지름 (km)
const earthRadiusKm = 6371

// Distance 두 좌표 간의 거리를 계산 (Haversine 공식)
// 반환값 단위는 km. NaN 입력은 NaN으로 전파된다.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func toRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// ValidCoordinate 좌표 유효성 검사
// 위도 [-90,90], 경도 [-180,180] 범위 밖이거나 NaN이면 false.
func ValidCoordinate(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
