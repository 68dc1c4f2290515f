package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/langchou/parkgazer/internal/favorites"
	"github.com/langchou/parkgazer/internal/models"
	"github.com/langchou/parkgazer/internal/parking"
)

// parkingLister 목록 조회 의존성. 테스트에서 대체 가능
type parkingLister interface {
	List(ctx context.Context, params ListParams) ([]models.ParkingLot, error)
}

// LocationProvider 사용자 위치 공급자
type LocationProvider interface {
	CurrentLocation(ctx context.Context) (*models.Location, error)
}

// 목록 화면 기본값. 생성 인자가 0이면 적용된다
const (
	defaultSearchDebounce  = 500 * time.Millisecond
	defaultPageSize        = 10
	defaultLocationTimeout = 5 * time.Second
)

// Snapshot 구독자에게 전달되는 화면 상태
type Snapshot struct {
	Lots           []models.ParkingLot `json:"lots"`
	Total          int                 `json:"total"`
	Page           int                 `json:"page"`
	TotalPages     int                 `json:"totalPages"`
	AvailableCount int                 `json:"availableCount"`
	Err            error               `json:"-"`
}

// BrowseSession 목록 화면 상태 파이프라인
// 검색어 디바운스, 세대 번호로 늦게 도착한 응답 폐기, 페이지네이션을 담당한다
type BrowseSession struct {
	logger    *zap.Logger
	lister    parkingLister
	favorites favorites.Store
	debounce  time.Duration
	pageSize  int

	mu            sync.Mutex
	ctx           context.Context
	searchTerm    string
	sort          models.SortOption
	availableOnly bool
	filters       parking.FilterOptions
	favoritesOnly bool
	page          int
	location      *models.Location
	fetched       []models.ParkingLot
	lastErr       error
	seq           uint64
	debounceTimer *time.Timer
	subscribers   []chan Snapshot
	closed        bool
	now           func() time.Time
}

// NewBrowseSession 세션 생성
func NewBrowseSession(
	logger *zap.Logger,
	lister parkingLister,
	fav favorites.Store,
	debounce time.Duration,
	pageSize int,
) *BrowseSession {
	if debounce <= 0 {
		debounce = defaultSearchDebounce
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &BrowseSession{
		logger:    logger,
		lister:    lister,
		favorites: fav,
		debounce:  debounce,
		pageSize:  pageSize,
		ctx:       context.Background(),
		sort:      models.SortByName,
		filters:   parking.DefaultFilterOptions(),
		page:      1,
		now:       time.Now,
	}
}

// Start 위치를 확보하고 첫 조회를 수행
// 위치 확보가 timeout 안에 끝나지 않으면 기본 위치를 사용한다
func (s *BrowseSession) Start(ctx context.Context, provider LocationProvider, timeout time.Duration) {
	if timeout <= 0 {
		timeout = defaultLocationTimeout
	}
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	loc := models.DefaultLocation
	if provider != nil {
		locCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		if got, err := provider.CurrentLocation(locCtx); err == nil && got != nil {
			loc = *got
		} else if err != nil {
			s.logger.Warn("Falling back to default location", zap.Error(err))
		}
	}

	s.mu.Lock()
	s.location = &loc
	seq := s.nextFetchLocked()
	s.mu.Unlock()

	s.fetch(seq)
}

// SetSearchTerm 검색어 변경. 디바운스 후 재조회
func (s *BrowseSession) SetSearchTerm(term string) {
	s.mu.Lock()
	if s.closed || s.searchTerm == term {
		s.mu.Unlock()
		return
	}
	s.searchTerm = term
	s.page = 1

	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.debounceTimer = time.AfterFunc(s.debounce, func() {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		seq := s.nextFetchLocked()
		s.mu.Unlock()
		s.fetch(seq)
	})
	s.mu.Unlock()
}

// SetSortOption 정렬 변경. 즉시 재조회
func (s *BrowseSession) SetSortOption(option models.SortOption) {
	s.mu.Lock()
	if s.closed || s.sort == option {
		s.mu.Unlock()
		return
	}
	s.sort = option
	s.page = 1
	seq := s.nextFetchLocked()
	s.mu.Unlock()

	s.fetch(seq)
}

// SetAvailableOnly 이용 가능 필터 변경. 즉시 재조회
func (s *BrowseSession) SetAvailableOnly(enabled bool) {
	s.mu.Lock()
	if s.closed || s.availableOnly == enabled {
		s.mu.Unlock()
		return
	}
	s.availableOnly = enabled
	s.page = 1
	seq := s.nextFetchLocked()
	s.mu.Unlock()

	s.fetch(seq)
}

// SetFilters 상세 필터 변경. 서버 재조회 없이 로컬에서 다시 계산
func (s *BrowseSession) SetFilters(opts parking.FilterOptions) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.filters = opts
	s.page = 1
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snapshot)
}

// SetFavoritesOnly 즐겨찾기 필터 변경. 로컬에서 다시 계산
func (s *BrowseSession) SetFavoritesOnly(enabled bool) {
	s.mu.Lock()
	if s.closed || s.favoritesOnly == enabled {
		s.mu.Unlock()
		return
	}
	s.favoritesOnly = enabled
	s.page = 1
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snapshot)
}

// SetPage 페이지 이동
func (s *BrowseSession) SetPage(page int) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if page < 1 {
		page = 1
	}
	s.page = page
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snapshot)
}

// Refresh 즉시 재조회
func (s *BrowseSession) Refresh() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	seq := s.nextFetchLocked()
	s.mu.Unlock()

	s.fetch(seq)
}

// Snapshot 현재 화면 상태
func (s *BrowseSession) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe 화면 상태 변경 구독
func (s *BrowseSession) Subscribe() <-chan Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan Snapshot, 8)
	s.subscribers = append(s.subscribers, ch)
	return ch
}

// Close 세션 종료
func (s *BrowseSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	for _, ch := range s.subscribers {
		close(ch)
	}
	s.subscribers = nil
}

// nextFetchLocked 새 조회 세대 번호 발급. 호출자가 잠금을 잡고 있어야 한다
func (s *BrowseSession) nextFetchLocked() uint64 {
	s.seq++
	return s.seq
}

// fetch 서버 조회 후 결과 반영. 더 새로운 조회가 시작됐으면 결과를 버린다
func (s *BrowseSession) fetch(seq uint64) {
	s.mu.Lock()
	params := ListParams{
		Search:        s.searchTerm,
		Sort:          s.sort,
		AvailableOnly: s.availableOnly,
		Location:      s.location,
	}
	ctx := s.ctx
	s.mu.Unlock()

	lots, err := s.lister.List(ctx, params)

	s.mu.Lock()
	if s.closed || seq != s.seq {
		s.mu.Unlock()
		return
	}
	if err != nil {
		s.lastErr = err
		s.logger.Warn("Parking list fetch failed", zap.Error(err))
	} else {
		s.lastErr = nil
		s.fetched = lots
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snapshot)
}

// snapshotLocked 현재 상태로 화면 스냅샷 계산. 호출자가 잠금을 잡고 있어야 한다
func (s *BrowseSession) snapshotLocked() Snapshot {
	lots := s.fetched

	if s.favoritesOnly && s.favorites != nil {
		lots = s.favorites.FilterFavorites(lots)
	}
	lots = parking.Filter(lots, s.filters, s.now())

	available := 0
	for _, lot := range lots {
		if lot.IsAvailable {
			available++
		}
	}

	total := len(lots)
	totalPages := (total + s.pageSize - 1) / s.pageSize

	page := s.page
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}
	s.page = page

	start := (page - 1) * s.pageSize
	end := start + s.pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Snapshot{
		Lots:           lots[start:end],
		Total:          total,
		Page:           page,
		TotalPages:     totalPages,
		AvailableCount: available,
		Err:            s.lastErr,
	}
}

// publish 모든 구독자에게 스냅샷 전달. 가득 찬 채널은 건너뛴다
func (s *BrowseSession) publish(snapshot Snapshot) {
	s.mu.Lock()
	subs := make([]chan Snapshot, len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- snapshot:
		default:
		}
	}
}
