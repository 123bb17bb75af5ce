// Package threadmgr implements the optional cooperative Thread Manager
// spec.md §4.7/§9 describes: the orchestrator is single-threaded with
// respect to the CPU engine, so guest-level "threads" are modeled as
// saved (PC, SP, stack region, log sink) records the manager switches
// between at chosen yield points rather than real OS goroutines racing
// the engine. Grounded on the teacher's internal/stubs/pthread/thread.go
// (fake monotonic thread IDs, a no-op pthread_create/join/self/yield
// surface) but made real: where the teacher never actually spawned
// anything (every pthread_create just returned a fake id and kept
// running on the one guest thread), this manager really does save and
// restore per-thread state across a stop/resume cycle, using
// google/uuid for thread identity and golang.org/x/sync/errgroup to join
// every live thread's shutdown on Close.
package threadmgr

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/coreemu/coreemu/internal/emutype"
	"github.com/coreemu/coreemu/internal/log"
	"github.com/coreemu/coreemu/internal/orchestrator"
)

// Thread is one guest-level cooperative thread: its saved CPU cursor, its
// own stack region, its log sink, and its stop state.
//
// Only PC and SP are saved/restored across a switch (archprofile doesn't
// enumerate a per-architecture general-register list beyond those two);
// general-purpose registers are left exactly as the engine last wrote
// them, which is correct for the common case of threads that don't
// preempt each other mid-instruction-sequence (this manager only
// switches at hook-driven yield points, never inside one), but is a
// documented simplification versus a real OS context switch.
type Thread struct {
	ID      uuid.UUID
	Entry   uint64
	pc      uint64
	sp      uint64
	sink    *log.Logger
	stopped bool
	reason  emutype.StopReason
}

// Manager is the cooperative scheduler satisfying orchestrator.ThreadManager.
type Manager struct {
	mu       sync.Mutex
	e        *orchestrator.Emulator
	rootSink *log.Logger
	threads  []*Thread
	current  *Thread
	eg       *errgroup.Group
}

// New returns a Manager with one pre-existing "main" thread representing
// the guest's initial execution context, current from the start.
func New(e *orchestrator.Emulator, rootSink *log.Logger) *Manager {
	main := &Thread{ID: uuid.New(), sink: rootSink.WithCategory("thread")}
	eg := &errgroup.Group{}
	return &Manager{e: e, rootSink: rootSink, threads: []*Thread{main}, current: main, eg: eg}
}

// Spawn registers a new cooperative thread starting at entry, with its
// own stack region of stackSize bytes placed by the Memory Map Registry,
// and its own log sink derived from the root sink. It does not itself
// switch execution to the new thread; the next SwitchNext call may pick
// it up.
func (m *Manager) Spawn(entry uint64, stackSize uint64) (*Thread, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if stackSize == 0 {
		stackSize = 1 << 20
	}
	top := m.e.MemMap().NextFreeRegion(stackSize, 0)
	if err := m.e.MemMapRegion(top, stackSize, "rw-", fmt.Sprintf("[thread-stack-%d]", len(m.threads))); err != nil {
		return nil, err
	}

	t := &Thread{
		ID:    uuid.New(),
		Entry: entry,
		pc:    entry,
		sp:    top + stackSize - 0x100,
		sink:  m.rootSink.WithCategory("thread"),
	}
	m.threads = append(m.threads, t)
	return t, nil
}

// SwitchNext saves the currently-running thread's PC/SP off the engine,
// picks the next runnable thread round-robin, and restores its saved
// PC/SP onto the engine. Returns false (and does nothing) if no other
// runnable thread exists. Must be called from the engine-calling host
// thread, typically from inside a hook callback that decided to yield.
func (m *Manager) SwitchNext() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		m.current.pc = m.e.PC()
		m.current.sp = m.e.SP()
	}

	next := m.nextRunnableLocked()
	if next == nil {
		return false, nil
	}
	m.current = next

	if err := m.e.SetPC(next.pc); err != nil {
		return false, err
	}
	if err := m.e.SetSP(next.sp); err != nil {
		return false, err
	}
	return true, nil
}

func (m *Manager) nextRunnableLocked() *Thread {
	if len(m.threads) == 0 {
		return nil
	}
	start := 0
	for i, t := range m.threads {
		if t == m.current {
			start = i
			break
		}
	}
	for i := 1; i <= len(m.threads); i++ {
		cand := m.threads[(start+i)%len(m.threads)]
		if !cand.stopped {
			return cand
		}
	}
	return nil
}

// CurrentSink implements orchestrator.ThreadManager.
func (m *Manager) CurrentSink() *log.Logger {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	return m.current.sink
}

// StopCurrent implements orchestrator.ThreadManager.
func (m *Manager) StopCurrent(reason emutype.StopReason) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return
	}
	m.current.stopped = true
	m.current.reason = reason
}

// Go registers fn as the given thread's completion function, run on its
// own goroutine; Close waits for every registered thread and returns the
// first non-nil error any of them returned (errgroup.Group's standard
// first-error-wins semantics), used on shutdown to propagate whichever
// guest thread's internal_exception should surface from run().
func (m *Manager) Go(fn func() error) {
	m.eg.Go(fn)
}

// Close waits for every goroutine registered via Go to finish.
func (m *Manager) Close() error {
	return m.eg.Wait()
}

// Live reports whether at least one thread is still runnable.
func (m *Manager) Live() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.threads {
		if !t.stopped {
			return true
		}
	}
	return false
}
