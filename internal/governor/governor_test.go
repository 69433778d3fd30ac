package governor

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/akolanti/PDFMentor/internal/domain/faults"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestGovernor(quota int, window time.Duration) (*Governor, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC)}
	return NewWithClock(quota, window, clock.Now), clock
}

func TestCheckAndAdmit_QuotaSequence(t *testing.T) {
	g, clock := newTestGovernor(3, 60*time.Second)

	wantRemaining := []int{2, 1, 0}
	for i, want := range wantRemaining {
		d := g.CheckAndAdmit("alice")
		if !d.Admitted {
			t.Fatalf("call %d: expected admission", i+1)
		}
		if d.Remaining != want {
			t.Errorf("call %d: remaining = %d, want %d", i+1, d.Remaining, want)
		}
	}

	denied := g.CheckAndAdmit("alice")
	if denied.Admitted {
		t.Fatal("fourth call within window must be denied")
	}
	if denied.Remaining != 0 {
		t.Errorf("denied remaining = %d, want 0", denied.Remaining)
	}

	// resetAt is the oldest retained entry plus the window.
	wantReset := clock.Now().Add(60 * time.Second)
	if !denied.ResetAt.Equal(wantReset) {
		t.Errorf("resetAt = %v, want %v", denied.ResetAt, wantReset)
	}

	// Past resetAt every entry expires and the full quota returns.
	clock.Advance(61 * time.Second)
	again := g.CheckAndAdmit("alice")
	if !again.Admitted {
		t.Fatal("expected admission after window elapsed")
	}
	if again.Remaining != 2 {
		t.Errorf("remaining after expiry = %d, want 2", again.Remaining)
	}
}

func TestCheckAndAdmit_PartialExpiryFreesOneSlot(t *testing.T) {
	g, clock := newTestGovernor(2, 60*time.Second)

	g.CheckAndAdmit("bob")
	clock.Advance(30 * time.Second)
	g.CheckAndAdmit("bob")

	// First entry falls out, second is still inside the window.
	clock.Advance(31 * time.Second)
	d := g.CheckAndAdmit("bob")
	if !d.Admitted || d.Remaining != 0 {
		t.Errorf("after partial expiry: admitted=%v remaining=%d, want true/0", d.Admitted, d.Remaining)
	}
}

func TestCheckAndAdmit_IdentifierIsolation(t *testing.T) {
	g, _ := newTestGovernor(2, time.Minute)

	g.CheckAndAdmit("alice")
	g.CheckAndAdmit("alice")

	d := g.CheckAndAdmit("bob")
	if !d.Admitted || d.Remaining != 1 {
		t.Errorf("bob affected by alice: admitted=%v remaining=%d", d.Admitted, d.Remaining)
	}
}

func TestPeek_DoesNotConsume(t *testing.T) {
	g, _ := newTestGovernor(2, time.Minute)

	g.CheckAndAdmit("alice")

	for i := 0; i < 5; i++ {
		p := g.Peek("alice")
		if p.Remaining != 1 {
			t.Fatalf("peek %d: remaining = %d, want 1", i, p.Remaining)
		}
	}

	d := g.CheckAndAdmit("alice")
	if !d.Admitted || d.Remaining != 0 {
		t.Errorf("peek consumed admission state: admitted=%v remaining=%d", d.Admitted, d.Remaining)
	}
}

func TestPeek_UnknownIdentifier(t *testing.T) {
	g, clock := newTestGovernor(40, time.Hour)

	p := g.Peek("never-seen")
	if p.Remaining != 40 {
		t.Errorf("remaining = %d, want full quota", p.Remaining)
	}
	if !p.ResetAt.Equal(clock.Now().Add(time.Hour)) {
		t.Errorf("resetAt = %v, want now+window", p.ResetAt)
	}
}

func TestCheckAndAdmit_ConcurrentLastSlot(t *testing.T) {
	g, _ := newTestGovernor(1, time.Minute)

	const attempts = 32
	var wg sync.WaitGroup
	admitted := make(chan bool, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			admitted <- g.CheckAndAdmit("carol").Admitted
		}()
	}
	wg.Wait()
	close(admitted)

	count := 0
	for ok := range admitted {
		if ok {
			count++
		}
	}
	if count != 1 {
		t.Errorf("%d goroutines admitted for a single slot", count)
	}
}

func TestAdmit_DenialIsTypedFault(t *testing.T) {
	g, _ := newTestGovernor(1, time.Minute)

	decision, err := g.Admit("client-a")
	if err != nil {
		t.Fatalf("first request should be admitted, got %v", err)
	}
	if decision.Remaining != 0 {
		t.Errorf("remaining after first admit = %d, want 0", decision.Remaining)
	}

	decision, err = g.Admit("client-a")
	if !errors.Is(err, faults.ErrRateLimited) {
		t.Errorf("denial should wrap ErrRateLimited, got %v", err)
	}
	if decision.Admitted {
		t.Error("denied decision reports Admitted")
	}
	if decision.ResetAt.IsZero() {
		t.Error("denied decision is missing the reset time")
	}
}
