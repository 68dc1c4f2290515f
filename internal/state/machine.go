package state

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/looplab/fsm"
)

// 동기화 상태 상수
const (
	StateIdle     = "idle"
	StateFetching = "fetching"
	StateStoring  = "storing"
)

// 이벤트 상수
const (
	EventStart   = "start"
	EventFetched = "fetched"
	EventDone    = "done"
	EventFail    = "fail"
)

// SyncState 동기화 상태
type SyncState struct {
	CurrentState string     `json:"state"`
	Since        time.Time  `json:"since"`
	LastSyncAt   *time.Time `json:"last_sync_at"`
	LastCount    int        `json:"last_count"`
	LastError    string     `json:"last_error,omitempty"`
}

// Machine 동기화 상태 기계
type Machine struct {
	mu            sync.RWMutex
	fsm           *fsm.FSM
	state         *SyncState
	onStateChange func(from, to string)
}

// NewMachine 상태 기계 생성
func NewMachine(onStateChange func(from, to string)) *Machine {
	m := &Machine{
		onStateChange: onStateChange,
		state: &SyncState{
			CurrentState: StateIdle,
			Since:        time.Now(),
		},
	}

	m.fsm = fsm.NewFSM(
		StateIdle,
		fsm.Events{
			{Name: EventStart, Src: []string{StateIdle}, Dst: StateFetching},
			{Name: EventFetched, Src: []string{StateFetching}, Dst: StateStoring},
			{Name: EventDone, Src: []string{StateStoring}, Dst: StateIdle},
			{Name: EventFail, Src: []string{StateFetching, StateStoring}, Dst: StateIdle},
		},
		fsm.Callbacks{
			"after_event": func(ctx context.Context, e *fsm.Event) {
				if m.onStateChange != nil && e.Src != e.Dst {
					m.onStateChange(e.Src, e.Dst)
				}
			},
		},
	)

	return m
}

// CurrentState 현재 상태
func (m *Machine) CurrentState() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fsm.Current()
}

// GetState 전체 상태 조회
func (m *Machine) GetState() *SyncState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	// 복사본 반환
	stateCopy := *m.state
	stateCopy.CurrentState = m.fsm.Current()
	return &stateCopy
}

// UpdateState 상태 데이터 갱신
func (m *Machine) UpdateState(update func(s *SyncState)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	update(m.state)
}

// Trigger 이벤트 발생
func (m *Machine) Trigger(event string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fsm.Event(context.Background(), event); err != nil {
		return fmt.Errorf("trigger event %s: %w", event, err)
	}

	m.state.CurrentState = m.fsm.Current()
	m.state.Since = time.Now()
	return nil
}

// CanTransition 전환 가능 여부
func (m *Machine) CanTransition(event string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fsm.Can(event)
}
