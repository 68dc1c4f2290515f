// Package apperr carries structured error kinds from the layer where a
// failure originates, so callers dispatch on kind instead of matching
// message text.
package apperr

import (
	"errors"
	"fmt"
)

// Kind 에러 분류
type Kind int

const (
	KindUnknown Kind = iota
	KindNetwork       // 업스트림 연결/타임아웃 실패
	KindServer        // 저장소/내부 오류
	KindNotFound      // 대상 없음
	KindInvalid       // 잘못된 입력 또는 비어 있는 결과
)

// String human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindServer:
		return "server"
	case KindNotFound:
		return "not-found"
	case KindInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Error 분류된 에러
type Error struct {
	Kind Kind
	Op   string // 실패한 작업 (예: "opendata.fetch")
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E 분류된 에러 생성
func E(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf 포맷 문자열로 분류된 에러 생성
func Errorf(kind Kind, op, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf 에러 체인에서 분류를 찾는다. 분류가 없으면 KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
