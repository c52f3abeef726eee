package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"baristasim/internal/config"
)

// mockAgent simulates the external agent service. Each prompt-like send
// (the opening greeting or the continuation prompt) triggers the next
// scripted customer line: the instance starts speaking immediately,
// delivers the line after a short delay, then goes quiet. Relayed operator
// replies are recorded but never answered, matching a customer who only
// talks when asked.
type mockAgent struct {
	mu                 sync.Mutex
	wg                 sync.WaitGroup
	nextID             int
	active             map[string]bool
	subs               map[string]func(string)
	sends              map[string][]string
	speaking           map[string]int
	script             []string
	scriptIdx          int
	activateErr        error
	deactivated        []string
	deactivateAllCalls int
}

func newMockAgent(script ...string) *mockAgent {
	return &mockAgent{
		active:   make(map[string]bool),
		subs:     make(map[string]func(string)),
		sends:    make(map[string][]string),
		speaking: make(map[string]int),
		script:   script,
	}
}

func (m *mockAgent) Activate(_ context.Context, customer config.Customer) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.activateErr != nil {
		return "", m.activateErr
	}
	m.nextID++
	id := fmt.Sprintf("inst-%d-%s", m.nextID, customer.Name)
	m.active[id] = true
	return id, nil
}

func (m *mockAgent) Deactivate(_ context.Context, instanceID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.active, instanceID)
	m.deactivated = append(m.deactivated, instanceID)
	return nil
}

func (m *mockAgent) DeactivateAll(_ context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deactivateAllCalls++
	for id := range m.active {
		delete(m.active, id)
		m.deactivated = append(m.deactivated, id)
	}
}

func (m *mockAgent) IsSpeaking(instanceID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.speaking[instanceID] > 0
}

func (m *mockAgent) SendText(_ context.Context, instanceID, text string) error {
	m.mu.Lock()
	m.sends[instanceID] = append(m.sends[instanceID], text)
	isPrompt := strings.HasPrefix(text, "Hi ") || text == continuationPrompt
	var line string
	haveLine := false
	if isPrompt && m.scriptIdx < len(m.script) {
		line = m.script[m.scriptIdx]
		m.scriptIdx++
		haveLine = true
		m.speaking[instanceID]++
	}
	sub := m.subs[instanceID]
	m.mu.Unlock()

	if !haveLine {
		return nil
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		// Give the caller time to observe the speaking state before the
		// transcript lands.
		time.Sleep(40 * time.Millisecond)
		if sub != nil && line != "" {
			sub(line)
		}
		time.Sleep(20 * time.Millisecond)
		m.mu.Lock()
		m.speaking[instanceID]--
		m.mu.Unlock()
	}()
	return nil
}

func (m *mockAgent) Subscribe(instanceID string, fn func(string)) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs[instanceID] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, instanceID)
	}, nil
}

// waitIdle blocks until every in-flight speech goroutine has finished.
func (m *mockAgent) waitIdle() {
	m.wg.Wait()
}

func (m *mockAgent) allSends() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, sends := range m.sends {
		out = append(out, sends...)
	}
	return out
}

// mockChoices picks from a fixed sequence of selections and records every
// presentation. When the sequence runs out it keeps picking good.
type mockChoices struct {
	mu         sync.Mutex
	selections []bool
	idx        int
	prompts    []string
	goods      []string
	bads       []string
	err        error
	blockOnCtx bool
}

func (m *mockChoices) PresentChoice(ctx context.Context, prompt, goodText, badText string) (bool, error) {
	if m.blockOnCtx {
		<-ctx.Done()
		return false, ctx.Err()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	m.prompts = append(m.prompts, prompt)
	m.goods = append(m.goods, goodText)
	m.bads = append(m.bads, badText)
	pick := true
	if m.idx < len(m.selections) {
		pick = m.selections[m.idx]
	}
	m.idx++
	return pick, nil
}

func (m *mockChoices) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

type mockSatisfaction struct {
	mu      sync.Mutex
	applied []bool
	value   int
}

func (m *mockSatisfaction) ApplyChoice(wasGood bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.applied = append(m.applied, wasGood)
}

func (m *mockSatisfaction) Value() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value
}

type mockMetrics struct {
	mu          sync.Mutex
	starts      []string
	choiceCount int
	endCount    int
}

func (m *mockMetrics) StartInteraction(complaintType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.starts = append(m.starts, complaintType)
}

func (m *mockMetrics) RecordChoice() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.choiceCount++
}

func (m *mockMetrics) EndInteraction() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.endCount++
}

type mockFades struct {
	mu       sync.Mutex
	fadeIns  int
	fadeOuts int
}

func (m *mockFades) FadeIn(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fadeIns++
	return nil
}

func (m *mockFades) FadeOut(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fadeOuts++
	return nil
}

type mockOwner struct {
	mu       sync.Mutex
	served   []int
	complete int
}

func (m *mockOwner) CustomerServed(index int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.served = append(m.served, index)
}

func (m *mockOwner) AllCustomersComplete() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.complete++
}
