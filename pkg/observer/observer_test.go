package observer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/colexec/colexec/pkg/types"
)

// ============================================================================
// Test Observer Implementation
// ============================================================================

// TestObserver records all events; it includes synchronization primitives
// for testing asynchronous behavior.
type TestObserver struct {
	events   []Event
	mu       sync.Mutex
	wg       sync.WaitGroup
	expected int
}

func NewTestObserver() *TestObserver {
	return &TestObserver{events: []Event{}}
}

func (o *TestObserver) OnEvent(ctx context.Context, event Event) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.events = append(o.events, event)

	if o.expected > 0 {
		o.wg.Done()
		o.expected--
	}
}

func (o *TestObserver) GetEvents() []Event {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events
}

func (o *TestObserver) GetEventCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.events)
}

func (o *TestObserver) GetEventsByType(eventType EventType) []Event {
	o.mu.Lock()
	defer o.mu.Unlock()

	filtered := []Event{}
	for _, e := range o.events {
		if e.Type == eventType {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

func (o *TestObserver) ExpectEvents(count int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.expected += count
	o.wg.Add(count)
}

func (o *TestObserver) Wait() {
	o.wg.Wait()
}

// ============================================================================
// NoOpObserver Tests
// ============================================================================

func TestNoOpObserver(t *testing.T) {
	observer := &NoOpObserver{}
	ctx := context.Background()

	event := Event{
		Type:      EventGraphStart,
		Status:    StatusStarted,
		Timestamp: time.Now(),
		RunID:     "test-run-123",
	}

	observer.OnEvent(ctx, event)
}

// ============================================================================
// ConsoleObserver Tests
// ============================================================================

func TestConsoleObserver(t *testing.T) {
	observer := NewConsoleObserver()
	if observer == nil {
		t.Fatal("NewConsoleObserver returned nil")
	}

	ctx := context.Background()
	event := Event{
		Type:      EventGraphStart,
		Status:    StatusStarted,
		Timestamp: time.Now(),
		RunID:     "test-run-123",
	}

	observer.OnEvent(ctx, event)
}

func TestConsoleObserverWithCustomLogger(t *testing.T) {
	logger := NewDefaultLogger()
	observer := NewConsoleObserverWithLogger(logger)
	if observer == nil {
		t.Fatal("NewConsoleObserverWithLogger returned nil")
	}

	ctx := context.Background()

	events := []Event{
		{Type: EventGraphStart, Status: StatusStarted, Timestamp: time.Now(), RunID: "test-run-123"},
		{Type: EventNodeStart, Status: StatusStarted, Timestamp: time.Now(), RunID: "test-run-123", NodeName: "normalize", IterKind: types.IterMap},
		{Type: EventNodeSuccess, Status: StatusSuccess, Timestamp: time.Now(), RunID: "test-run-123", NodeName: "normalize", ElapsedTime: 100 * time.Millisecond},
		{Type: EventEdgeSealed, Status: StatusCompleted, Timestamp: time.Now(), RunID: "test-run-123", EdgeID: 3},
		{Type: EventGraphEnd, Status: StatusSuccess, Timestamp: time.Now(), RunID: "test-run-123", ElapsedTime: 500 * time.Millisecond},
	}

	for _, event := range events {
		observer.OnEvent(ctx, event)
	}
}

// ============================================================================
// NoOpLogger / DefaultLogger Tests
// ============================================================================

func TestNoOpLogger(t *testing.T) {
	logger := &NoOpLogger{}
	fields := map[string]interface{}{"key": "value"}

	logger.Debug("debug message", fields)
	logger.Info("info message", fields)
	logger.Warn("warn message", fields)
	logger.Error("error message", fields)
}

func TestDefaultLogger(t *testing.T) {
	logger := NewDefaultLogger()
	if logger == nil {
		t.Fatal("NewDefaultLogger returned nil")
	}

	fields := map[string]interface{}{"run_id": "test-123", "node_name": "normalize"}

	logger.Debug("debug message", fields)
	logger.Info("info message", fields)
	logger.Warn("warn message", fields)
	logger.Error("error message", fields)
}

// ============================================================================
// Observer Manager Tests
// ============================================================================

func TestNewManager(t *testing.T) {
	mgr := NewManager()
	if mgr == nil {
		t.Fatal("NewManager returned nil")
	}
	if mgr.Count() != 0 {
		t.Errorf("expected 0 observers, got %d", mgr.Count())
	}
	if mgr.HasObservers() {
		t.Error("expected HasObservers to return false")
	}
}

func TestManagerRegister(t *testing.T) {
	mgr := NewManager()
	obs1 := NewTestObserver()
	obs2 := NewTestObserver()

	mgr.Register(obs1)
	if mgr.Count() != 1 {
		t.Errorf("expected 1 observer, got %d", mgr.Count())
	}

	mgr.Register(obs2)
	if mgr.Count() != 2 {
		t.Errorf("expected 2 observers, got %d", mgr.Count())
	}
	if !mgr.HasObservers() {
		t.Error("expected HasObservers to return true")
	}
}

func TestManagerRegisterNil(t *testing.T) {
	mgr := NewManager()
	mgr.Register(nil)
	if mgr.Count() != 0 {
		t.Errorf("expected 0 observers after registering nil, got %d", mgr.Count())
	}
}

func TestManagerNotify(t *testing.T) {
	mgr := NewManager()
	obs1 := NewTestObserver()
	obs2 := NewTestObserver()
	mgr.Register(obs1)
	mgr.Register(obs2)

	ctx := context.Background()
	event := Event{Type: EventGraphStart, Status: StatusStarted, Timestamp: time.Now(), RunID: "test-run-123"}

	obs1.ExpectEvents(1)
	obs2.ExpectEvents(1)

	mgr.Notify(ctx, event)

	obs1.Wait()
	obs2.Wait()

	if obs1.GetEventCount() != 1 {
		t.Errorf("observer 1 expected 1 event, got %d", obs1.GetEventCount())
	}
	if obs2.GetEventCount() != 1 {
		t.Errorf("observer 2 expected 1 event, got %d", obs2.GetEventCount())
	}

	events1 := obs1.GetEvents()
	if events1[0].Type != EventGraphStart {
		t.Errorf("expected event type %s, got %s", EventGraphStart, events1[0].Type)
	}
}

func TestManagerNotifyMultipleEvents(t *testing.T) {
	mgr := NewManager()
	obs := NewTestObserver()
	mgr.Register(obs)

	ctx := context.Background()

	events := []Event{
		{Type: EventGraphStart, Status: StatusStarted, Timestamp: time.Now(), RunID: "run-1"},
		{Type: EventNodeStart, Status: StatusStarted, Timestamp: time.Now(), RunID: "run-1", NodeName: "normalize"},
		{Type: EventNodeSuccess, Status: StatusSuccess, Timestamp: time.Now(), RunID: "run-1", NodeName: "normalize"},
		{Type: EventGraphEnd, Status: StatusSuccess, Timestamp: time.Now(), RunID: "run-1"},
	}

	obs.ExpectEvents(len(events))

	for _, event := range events {
		mgr.Notify(ctx, event)
	}

	obs.Wait()

	if obs.GetEventCount() != 4 {
		t.Errorf("expected 4 events, got %d", obs.GetEventCount())
	}

	graphStarts := obs.GetEventsByType(EventGraphStart)
	if len(graphStarts) != 1 {
		t.Errorf("expected 1 graph start event, got %d", len(graphStarts))
	}

	nodeSuccesses := obs.GetEventsByType(EventNodeSuccess)
	if len(nodeSuccesses) != 1 {
		t.Errorf("expected 1 node success event, got %d", len(nodeSuccesses))
	}
}

func TestNewManagerWithObservers(t *testing.T) {
	obs1 := NewTestObserver()
	obs2 := NewTestObserver()

	mgr := NewManagerWithObservers(obs1, obs2)
	if mgr.Count() != 2 {
		t.Errorf("expected 2 observers, got %d", mgr.Count())
	}

	ctx := context.Background()
	event := Event{Type: EventGraphStart, Status: StatusStarted, Timestamp: time.Now(), RunID: "test-run-123"}

	obs1.ExpectEvents(1)
	obs2.ExpectEvents(1)

	mgr.Notify(ctx, event)

	obs1.Wait()
	obs2.Wait()

	if obs1.GetEventCount() != 1 {
		t.Errorf("observer 1 expected 1 event, got %d", obs1.GetEventCount())
	}
	if obs2.GetEventCount() != 1 {
		t.Errorf("observer 2 expected 1 event, got %d", obs2.GetEventCount())
	}
}

// ============================================================================
// Event Tests
// ============================================================================

func TestEventStructure(t *testing.T) {
	now := time.Now()
	event := Event{
		Type:        EventNodeSuccess,
		Status:      StatusSuccess,
		Timestamp:   now,
		RunID:       "run-123",
		NodeName:    "normalize",
		IterKind:    types.IterMap,
		StartTime:   now.Add(-100 * time.Millisecond),
		ElapsedTime: 100 * time.Millisecond,
		Result:      42,
		Error:       nil,
		Metadata:    map[string]interface{}{"custom": "data"},
	}

	if event.Type != EventNodeSuccess {
		t.Errorf("expected type %s, got %s", EventNodeSuccess, event.Type)
	}
	if event.Status != StatusSuccess {
		t.Errorf("expected status %s, got %s", StatusSuccess, event.Status)
	}
	if event.RunID != "run-123" {
		t.Errorf("expected run ID 'run-123', got '%s'", event.RunID)
	}
	if event.NodeName != "normalize" {
		t.Errorf("expected node name 'normalize', got '%s'", event.NodeName)
	}
	if event.Result != 42 {
		t.Errorf("expected result 42, got %v", event.Result)
	}
	if event.Metadata["custom"] != "data" {
		t.Errorf("expected metadata custom='data', got %v", event.Metadata["custom"])
	}
}

// ============================================================================
// Asynchronous Execution Tests
// ============================================================================

func TestObserverAsynchronousExecution(t *testing.T) {
	mgr := NewManager()

	slowObserver := NewTestObserver()
	mgr.Register(slowObserver)

	ctx := context.Background()
	event := Event{Type: EventGraphStart, Status: StatusStarted, Timestamp: time.Now(), RunID: "test-run-123"}

	slowObserver.ExpectEvents(1)

	start := time.Now()
	mgr.Notify(ctx, event)
	elapsed := time.Since(start)

	if elapsed > 10*time.Millisecond {
		t.Errorf("Notify blocked for %v, expected to be asynchronous", elapsed)
	}

	slowObserver.Wait()

	if slowObserver.GetEventCount() != 1 {
		t.Errorf("expected 1 event, got %d", slowObserver.GetEventCount())
	}
}

func TestObserverPanicRecovery(t *testing.T) {
	mgr := NewManager()

	panicObserver := &PanicObserver{}
	normalObserver := NewTestObserver()

	mgr.Register(panicObserver)
	mgr.Register(normalObserver)

	ctx := context.Background()
	event := Event{Type: EventGraphStart, Status: StatusStarted, Timestamp: time.Now(), RunID: "test-run-123"}

	normalObserver.ExpectEvents(1)

	mgr.Notify(ctx, event)

	normalObserver.Wait()

	if normalObserver.GetEventCount() != 1 {
		t.Errorf("expected 1 event in normal observer, got %d", normalObserver.GetEventCount())
	}
}

// PanicObserver always panics when OnEvent is called.
type PanicObserver struct{}

func (o *PanicObserver) OnEvent(ctx context.Context, event Event) {
	panic("observer panic test")
}

func TestMultipleObserversParallelExecution(t *testing.T) {
	mgr := NewManager()

	observers := make([]*TestObserver, 10)
	for i := 0; i < 10; i++ {
		observers[i] = NewTestObserver()
		mgr.Register(observers[i])
	}

	ctx := context.Background()
	event := Event{Type: EventGraphStart, Status: StatusStarted, Timestamp: time.Now(), RunID: "test-run-123"}

	for _, obs := range observers {
		obs.ExpectEvents(1)
	}

	start := time.Now()
	mgr.Notify(ctx, event)
	elapsed := time.Since(start)

	if elapsed > 10*time.Millisecond {
		t.Errorf("Notify with 10 observers blocked for %v, expected to be asynchronous", elapsed)
	}

	for _, obs := range observers {
		obs.Wait()
	}

	for i, obs := range observers {
		if obs.GetEventCount() != 1 {
			t.Errorf("observer %d expected 1 event, got %d", i, obs.GetEventCount())
		}
	}
}
