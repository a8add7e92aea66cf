package models

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration — фатально: не удалось собрать конфиг ни из удалённого
	// стора, ни из окружения. С таким состоянием торговать нельзя.
	ErrConfiguration = errors.New("configuration unresolvable")

	// ErrRemoteStore — стор недоступен или ответил ошибкой, не фатально.
	ErrRemoteStore = errors.New("remote store unavailable")

	// ErrNotFound — документа нет в сторе.
	ErrNotFound = errors.New("document not found")
)

type FetchErrorKind int

const (
	// FetchTransient — сетевые сбои, 5xx, rate limit. Ретраится.
	FetchTransient FetchErrorKind = iota
	// FetchPermanent — биржа отклонила запрос. Ретраить бессмысленно.
	FetchPermanent
)

// FetchError — типизированная ошибка фетчера: после исчерпания ретраев
// вызывающий по Kind отличает сетевой сбой от отказа биржи.
type FetchError struct {
	Kind   FetchErrorKind
	Symbol string
	Op     string
	Err    error
}

func (e *FetchError) Error() string {
	kind := "transient"
	if e.Kind == FetchPermanent {
		kind = "permanent"
	}
	return fmt.Sprintf("%s %s %s: %v", kind, e.Op, e.Symbol, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Temporary() bool { return e.Kind == FetchTransient }

// AsFetchError — удобный шорткат над errors.As.
func AsFetchError(err error) (*FetchError, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
