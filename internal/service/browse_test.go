package service

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/langchou/parkgazer/internal/favorites"
	"github.com/langchou/parkgazer/internal/models"
	"github.com/langchou/parkgazer/internal/parking"
)

// fakeLister 조회 호출을 기록하는 가짜 목록 공급자
type fakeLister struct {
	mu    sync.Mutex
	calls []ListParams
	lots  []models.ParkingLot
	// delay 호출별 지연 주입 (늦은 응답 폐기 테스트용)
	delay func(ListParams) time.Duration
	// byParams 조건에 따라 다른 결과 반환
	byParams func(ListParams) []models.ParkingLot
}

func (f *fakeLister) List(ctx context.Context, params ListParams) ([]models.ParkingLot, error) {
	if f.delay != nil {
		time.Sleep(f.delay(params))
	}
	f.mu.Lock()
	f.calls = append(f.calls, params)
	f.mu.Unlock()

	if f.byParams != nil {
		return f.byParams(params), nil
	}
	return f.lots, nil
}

func (f *fakeLister) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeLister) lastCall() ListParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

type staticLocation struct {
	loc *models.Location
	err error
}

func (p staticLocation) CurrentLocation(ctx context.Context) (*models.Location, error) {
	return p.loc, p.err
}

func manyLots(n int) []models.ParkingLot {
	lots := make([]models.ParkingLot, n)
	for i := range lots {
		lots[i] = models.ParkingLot{
			ID:          int64(i + 1),
			Name:        fmt.Sprintf("주차장 %02d", i+1),
			IsAvailable: true,
		}
	}
	return lots
}

func newTestSession(t *testing.T, lister *fakeLister) *BrowseSession {
	t.Helper()
	session := NewBrowseSession(zap.NewNop(), lister, nil, 30*time.Millisecond, 10)
	t.Cleanup(session.Close)
	return session
}

func TestSearchDebounceCollapsesKeystrokes(t *testing.T) {
	lister := &fakeLister{lots: manyLots(3)}
	session := newTestSession(t, lister)

	session.SetSearchTerm("강")
	session.SetSearchTerm("강남")
	session.SetSearchTerm("강남역")

	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, 1, lister.callCount(), "디바운스 내 연속 입력은 한 번만 조회")
	assert.Equal(t, "강남역", lister.lastCall().Search)
}

func TestStaleFetchDiscarded(t *testing.T) {
	slow := manyLots(5)
	fast := manyLots(2)

	lister := &fakeLister{
		byParams: func(p ListParams) []models.ParkingLot {
			if p.AvailableOnly {
				return fast
			}
			return slow
		},
		delay: func(p ListParams) time.Duration {
			if p.AvailableOnly {
				return 0
			}
			return 60 * time.Millisecond
		},
	}
	session := newTestSession(t, lister)

	// 느린 조회 시작 후 곧바로 조건 변경으로 새 조회 발급
	go session.Refresh()
	time.Sleep(10 * time.Millisecond)
	session.SetAvailableOnly(true)

	time.Sleep(120 * time.Millisecond)

	snapshot := session.Snapshot()
	assert.Equal(t, 2, snapshot.Total, "늦게 도착한 이전 세대 응답은 폐기")
}

func TestPagination(t *testing.T) {
	lister := &fakeLister{lots: manyLots(25)}
	session := newTestSession(t, lister)

	session.Refresh()

	snapshot := session.Snapshot()
	assert.Equal(t, 25, snapshot.Total)
	assert.Equal(t, 3, snapshot.TotalPages)
	assert.Equal(t, 1, snapshot.Page)
	require.Len(t, snapshot.Lots, 10)
	assert.Equal(t, int64(1), snapshot.Lots[0].ID)

	session.SetPage(3)
	snapshot = session.Snapshot()
	assert.Equal(t, 3, snapshot.Page)
	assert.Len(t, snapshot.Lots, 5, "마지막 페이지는 나머지만")

	session.SetPage(99)
	snapshot = session.Snapshot()
	assert.Equal(t, 3, snapshot.Page, "범위 밖 페이지는 마지막 페이지로")
}

func TestPageResetsOnInputChange(t *testing.T) {
	lister := &fakeLister{lots: manyLots(25)}
	session := newTestSession(t, lister)

	session.Refresh()
	session.SetPage(3)
	require.Equal(t, 3, session.Snapshot().Page)

	session.SetSearchTerm("새 검색")
	assert.Equal(t, 1, session.Snapshot().Page, "검색어 변경 시 즉시 1페이지로")

	session.SetPage(2)
	session.SetAvailableOnly(true)
	assert.Equal(t, 1, session.Snapshot().Page, "필터 변경 시에도 1페이지로")
}

func TestFiltersRecomputeWithoutRefetch(t *testing.T) {
	lots := manyLots(3)
	onStreet := models.ParkingTypeOnStreet
	lots[0].ParkingTypeName = &onStreet
	lister := &fakeLister{lots: lots}
	session := newTestSession(t, lister)

	session.Refresh()
	before := lister.callCount()

	opts := parking.DefaultFilterOptions()
	opts.ParkingType = models.ParkingTypeOnStreet
	session.SetFilters(opts)

	snapshot := session.Snapshot()
	assert.Equal(t, 1, snapshot.Total)
	assert.Equal(t, before, lister.callCount(), "상세 필터는 서버 재조회 없이 적용")
}

func TestFavoritesOnly(t *testing.T) {
	favStore, err := favorites.NewFileStore(filepath.Join(t.TempDir(), "fav.json"), zap.NewNop())
	require.NoError(t, err)
	defer favStore.Close()
	require.NoError(t, favStore.Add(2))

	lister := &fakeLister{lots: manyLots(3)}
	session := NewBrowseSession(zap.NewNop(), lister, favStore, 30*time.Millisecond, 10)
	defer session.Close()

	session.Refresh()
	session.SetFavoritesOnly(true)

	snapshot := session.Snapshot()
	require.Equal(t, 1, snapshot.Total)
	assert.Equal(t, int64(2), snapshot.Lots[0].ID)
}

func TestAvailableCount(t *testing.T) {
	lots := manyLots(4)
	lots[1].IsAvailable = false
	lots[3].IsAvailable = false
	lister := &fakeLister{lots: lots}
	session := newTestSession(t, lister)

	session.Refresh()

	assert.Equal(t, 2, session.Snapshot().AvailableCount)
}

func TestSubscribeReceivesSnapshots(t *testing.T) {
	lister := &fakeLister{lots: manyLots(2)}
	session := newTestSession(t, lister)
	ch := session.Subscribe()

	session.Refresh()

	select {
	case snapshot := <-ch:
		assert.Equal(t, 2, snapshot.Total)
	case <-time.After(time.Second):
		t.Fatal("expected a snapshot after refresh")
	}
}

func TestStartFallsBackToDefaultLocation(t *testing.T) {
	lister := &fakeLister{lots: manyLots(1)}
	session := newTestSession(t, lister)

	provider := staticLocation{err: context.DeadlineExceeded}
	session.Start(context.Background(), provider, 50*time.Millisecond)

	require.Equal(t, 1, lister.callCount())
	loc := lister.lastCall().Location
	require.NotNil(t, loc)
	assert.Equal(t, models.DefaultLocation, *loc)
}

func TestZeroKnobsUseDefaults(t *testing.T) {
	lister := &fakeLister{lots: manyLots(25)}
	session := NewBrowseSession(zap.NewNop(), lister, nil, 0, 0)
	defer session.Close()

	// timeout 0은 기본 대기 시간으로 대체된다
	session.Start(context.Background(), staticLocation{err: context.DeadlineExceeded}, 0)

	snapshot := session.Snapshot()
	assert.Equal(t, 3, snapshot.TotalPages, "기본 페이지 크기 10")
	assert.Len(t, snapshot.Lots, 10)
}

func TestStartUsesProvidedLocation(t *testing.T) {
	lister := &fakeLister{lots: manyLots(1)}
	session := newTestSession(t, lister)

	want := models.Location{Latitude: 35.1796, Longitude: 129.0756}
	session.Start(context.Background(), staticLocation{loc: &want}, 50*time.Millisecond)

	require.Equal(t, 1, lister.callCount())
	loc := lister.lastCall().Location
	require.NotNil(t, loc)
	assert.Equal(t, want, *loc)
}
