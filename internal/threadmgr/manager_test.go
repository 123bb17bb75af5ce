package threadmgr

import (
	"testing"

	"github.com/google/uuid"
)

func TestNextRunnableLockedRoundRobin(t *testing.T) {
	a := &Thread{ID: uuid.New()}
	b := &Thread{ID: uuid.New()}
	c := &Thread{ID: uuid.New()}
	m := &Manager{threads: []*Thread{a, b, c}, current: a}

	if got := m.nextRunnableLocked(); got != b {
		t.Fatalf("expected b after a, got %+v", got)
	}

	m.current = c
	if got := m.nextRunnableLocked(); got != a {
		t.Fatalf("expected wraparound to a after c, got %+v", got)
	}
}

func TestNextRunnableLockedSkipsStopped(t *testing.T) {
	a := &Thread{ID: uuid.New()}
	b := &Thread{ID: uuid.New(), stopped: true}
	c := &Thread{ID: uuid.New()}
	m := &Manager{threads: []*Thread{a, b, c}, current: a}

	if got := m.nextRunnableLocked(); got != c {
		t.Fatalf("expected to skip stopped b and land on c, got %+v", got)
	}
}

func TestNextRunnableLockedAllStoppedReturnsNil(t *testing.T) {
	a := &Thread{ID: uuid.New(), stopped: true}
	b := &Thread{ID: uuid.New(), stopped: true}
	m := &Manager{threads: []*Thread{a, b}, current: a}

	if got := m.nextRunnableLocked(); got != nil {
		t.Fatalf("expected nil when every thread is stopped, got %+v", got)
	}
}

func TestLiveReportsAnyRunnable(t *testing.T) {
	m := &Manager{threads: []*Thread{
		{ID: uuid.New(), stopped: true},
		{ID: uuid.New(), stopped: false},
	}}
	if !m.Live() {
		t.Fatalf("expected Live() true with one runnable thread")
	}

	m2 := &Manager{threads: []*Thread{
		{ID: uuid.New(), stopped: true},
		{ID: uuid.New(), stopped: true},
	}}
	if m2.Live() {
		t.Fatalf("expected Live() false when every thread stopped")
	}
}

func TestStopCurrentMarksStoppedWithReason(t *testing.T) {
	a := &Thread{ID: uuid.New()}
	m := &Manager{current: a}
	m.StopCurrent(7)
	if !a.stopped || a.reason != 7 {
		t.Fatalf("got stopped=%v reason=%v", a.stopped, a.reason)
	}
}
