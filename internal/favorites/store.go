// Package favorites holds the user's bookmarked parking lot ids.
// The store is injected wherever favorites are consulted instead of
// living in a package-level singleton.
package favorites

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/langchou/parkgazer/internal/models"
)

// Store 즐겨찾기 저장소 인터페이스
// 모든 변경은 저장이 성공한 뒤 구독자에게 동기적으로 통지된다.
type Store interface {
	Contains(id int64) bool
	Add(id int64) error
	Remove(id int64) error
	// Toggle 토글 후의 포함 여부를 반환
	Toggle(id int64) (bool, error)
	All() []int64
	// FilterFavorites 즐겨찾기된 주차장만 남긴다 (원본 순서 유지)
	FilterFavorites(lots []models.ParkingLot) []models.ParkingLot
	Subscribe() <-chan []int64
	Close()
}

// FileStore 파일에 JSON 배열로 유지되는 즐겨찾기 저장소
type FileStore struct {
	path   string
	logger *zap.Logger

	mu          sync.RWMutex
	ids         []int64
	subscribers []chan []int64
	closed      bool
}

// NewFileStore 파일 기반 즐겨찾기 저장소 생성
// 파일이 없으면 빈 목록으로 시작한다.
func NewFileStore(path string, logger *zap.Logger) (*FileStore, error) {
	s := &FileStore{
		path:   path,
		logger: logger,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read favorites file: %w", err)
		}
		return s, nil
	}

	if err := json.Unmarshal(data, &s.ids); err != nil {
		// 손상된 파일은 빈 목록으로 대체
		logger.Warn("Favorites file is corrupt, starting empty", zap.String("path", path), zap.Error(err))
		s.ids = nil
	}

	return s, nil
}

// Contains 즐겨찾기 여부 확인
func (s *FileStore) Contains(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(id) >= 0
}

// Add 즐겨찾기 추가 (이미 있으면 아무것도 하지 않음)
func (s *FileStore) Add(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(id) >= 0 {
		return nil
	}
	s.ids = append(s.ids, id)
	if err := s.save(); err != nil {
		// 저장 실패 시 메모리 상태 되돌림
		s.ids = s.ids[:len(s.ids)-1]
		return err
	}
	s.notify()
	return nil
}

// Remove 즐겨찾기 제거
func (s *FileStore) Remove(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil
	}
	removed := s.ids[idx]
	s.ids = append(s.ids[:idx], s.ids[idx+1:]...)
	if err := s.save(); err != nil {
		s.ids = append(s.ids[:idx], append([]int64{removed}, s.ids[idx:]...)...)
		return err
	}
	s.notify()
	return nil
}

// Toggle 즐겨찾기 토글, 토글 후의 포함 여부 반환
func (s *FileStore) Toggle(id int64) (bool, error) {
	if s.Contains(id) {
		if err := s.Remove(id); err != nil {
			return true, err
		}
		return false, nil
	}
	if err := s.Add(id); err != nil {
		return false, err
	}
	return true, nil
}

// All 즐겨찾기 id 목록 (추가된 순서)
func (s *FileStore) All() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]int64, len(s.ids))
	copy(out, s.ids)
	return out
}

// FilterFavorites 즐겨찾기된 주차장만 남긴다
func (s *FileStore) FilterFavorites(lots []models.ParkingLot) []models.ParkingLot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filtered := make([]models.ParkingLot, 0, len(s.ids))
	for _, lot := range lots {
		if s.indexOf(lot.ID) >= 0 {
			filtered = append(filtered, lot)
		}
	}
	return filtered
}

// Subscribe 변경 통지 채널 구독
func (s *FileStore) Subscribe() <-chan []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan []int64, 10)
	s.subscribers = append(s.subscribers, ch)
	return ch
}

// Close 구독 채널 정리
func (s *FileStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	for _, ch := range s.subscribers {
		close(ch)
	}
	s.subscribers = nil
}

// indexOf caller must hold the lock.
func (s *FileStore) indexOf(id int64) int {
	for i, v := range s.ids {
		if v == id {
			return i
		}
	}
	return -1
}

// save caller must hold the lock. 임시 파일에 쓰고 교체한다.
func (s *FileStore) save() error {
	data, err := json.MarshalIndent(s.ids, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal favorites: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create favorites dir: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write favorites file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace favorites file: %w", err)
	}
	return nil
}

// notify caller must hold the lock. 구독자에게 현재 목록 전달.
func (s *FileStore) notify() {
	if s.closed {
		return
	}
	snapshot := make([]int64, len(s.ids))
	copy(snapshot, s.ids)
	for _, ch := range s.subscribers {
		select {
		case ch <- snapshot:
		default:
			// 느린 구독자는 건너뜀
		}
	}
}
