package agent

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"baristasim/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// opencensus (via google.golang.org/genai) starts a background
		// worker in init() that can never be stopped.
		goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"),
	)
}

var testCustomer = config.Customer{
	Name:      "Margaret",
	Persona:   "a regular who knows exactly what she ordered",
	Complaint: "my latte is cold",
}

func newTestController() *Controller {
	return NewController(NewScripted(), FastOptions())
}

func TestControllerDeliversScriptedReply(t *testing.T) {
	c := newTestController()
	ctx := context.Background()

	id, err := c.Activate(ctx, testCustomer)
	require.NoError(t, err)
	defer c.DeactivateAll(ctx)

	var (
		mu    sync.Mutex
		heard []string
	)
	unsub, err := c.Subscribe(id, func(text string) {
		mu.Lock()
		heard = append(heard, text)
		mu.Unlock()
	})
	require.NoError(t, err)
	defer unsub()

	require.NoError(t, c.SendText(ctx, id, "Hi Margaret, what can I do for you?"))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(heard) == 1
	}, 2*time.Second, 5*time.Millisecond)

	mu.Lock()
	line := heard[0]
	mu.Unlock()
	assert.Contains(t, line, "my latte is cold")

	// Speaking clears once delivery and the paced speech window finish.
	require.Eventually(t, func() bool {
		return !c.IsSpeaking(id)
	}, 2*time.Second, 5*time.Millisecond)

	history := c.History(id)
	require.Len(t, history, 2)
	assert.Equal(t, RoleBarista, history[0].Role)
	assert.Equal(t, RoleCustomer, history[1].Role)
}

func TestControllerSpeakingWindowCoversSend(t *testing.T) {
	c := newTestController()
	ctx := context.Background()

	id, err := c.Activate(ctx, testCustomer)
	require.NoError(t, err)
	defer c.DeactivateAll(ctx)

	require.NoError(t, c.SendText(ctx, id, "What seems to be the problem?"))
	// Speaking starts at send time, before the reply exists.
	assert.True(t, c.IsSpeaking(id))
}

func TestControllerUnsubscribeStopsDelivery(t *testing.T) {
	c := newTestController()
	ctx := context.Background()

	id, err := c.Activate(ctx, testCustomer)
	require.NoError(t, err)
	defer c.DeactivateAll(ctx)

	var (
		mu    sync.Mutex
		count int
	)
	unsub, err := c.Subscribe(id, func(string) {
		mu.Lock()
		count++
		mu.Unlock()
	})
	require.NoError(t, err)
	unsub()

	require.NoError(t, c.SendText(ctx, id, "Hello?"))
	require.Eventually(t, func() bool {
		return !c.IsSpeaking(id)
	}, 2*time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, count)
}

func TestControllerDeactivateIsIdempotent(t *testing.T) {
	c := newTestController()
	ctx := context.Background()

	id, err := c.Activate(ctx, testCustomer)
	require.NoError(t, err)

	require.NoError(t, c.Deactivate(ctx, id))
	require.NoError(t, c.Deactivate(ctx, id))
	require.NoError(t, c.Deactivate(ctx, "never-existed"))

	assert.False(t, c.IsSpeaking(id))
	require.Error(t, c.SendText(ctx, id, "anyone there?"))
}

func TestControllerDeactivateAllCutsOffSpeech(t *testing.T) {
	c := NewController(NewScripted(), Options{
		ReplyPause: 5 * time.Millisecond,
		WordPace:   50 * time.Millisecond,
		MaxSpeech:  10 * time.Second,
	})
	ctx := context.Background()

	a, err := c.Activate(ctx, testCustomer)
	require.NoError(t, err)
	b, err := c.Activate(ctx, config.Customer{Name: "Dev", Complaint: "the wifi is down"})
	require.NoError(t, err)

	require.NoError(t, c.SendText(ctx, a, "Hi!"))
	require.NoError(t, c.SendText(ctx, b, "Hi!"))

	// Returns only after in-flight speech goroutines are cancelled.
	c.DeactivateAll(ctx)
	assert.False(t, c.IsSpeaking(a))
	assert.False(t, c.IsSpeaking(b))
}

func TestScriptedConversationArc(t *testing.T) {
	s := NewScripted()
	ctx := context.Background()

	first, err := s.Reply(ctx, testCustomer, []Turn{{Role: RoleBarista, Text: "Hi!"}})
	require.NoError(t, err)
	assert.Contains(t, first, testCustomer.Complaint)

	second, err := s.Reply(ctx, testCustomer, []Turn{
		{Role: RoleBarista, Text: "Hi!"},
		{Role: RoleCustomer, Text: first},
		{Role: RoleBarista, Text: "Anything else?"},
	})
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	third, err := s.Reply(ctx, testCustomer, []Turn{
		{Role: RoleCustomer, Text: first},
		{Role: RoleCustomer, Text: second},
	})
	require.NoError(t, err)
	assert.Contains(t, strings.ToLower(third), "that's all")
}

func TestScriptedHandlesEmptyComplaint(t *testing.T) {
	s := NewScripted()
	line, err := s.Reply(context.Background(), config.Customer{Name: "Priya"}, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, line)
}

func TestNewClientProviderSelection(t *testing.T) {
	ctx := context.Background()

	client, err := NewClient(ctx, &config.Config{Provider: "scripted"})
	require.NoError(t, err)
	assert.Equal(t, "scripted", client.Name())

	client, err = NewClient(ctx, &config.Config{})
	require.NoError(t, err)
	assert.Equal(t, "scripted", client.Name())

	_, err = NewClient(ctx, &config.Config{Provider: "openai"})
	require.Error(t, err, "openai without an API key must fail")

	_, err = NewClient(ctx, &config.Config{Provider: "carrier-pigeon"})
	require.Error(t, err)
}

func TestOptionsForProvider(t *testing.T) {
	assert.Equal(t, FastOptions(), OptionsForProvider("scripted"))
	assert.Equal(t, FastOptions(), OptionsForProvider(""))
	assert.Equal(t, DefaultOptions(), OptionsForProvider("openai"))
	assert.Equal(t, DefaultOptions(), OptionsForProvider("gemini"))
}
