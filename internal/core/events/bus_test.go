package events_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/frahmantamala/expense-ledger/internal/core/events"
)

func TestEvents(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Events Suite")
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

var _ = Describe("EventBus", func() {
	var (
		bus *events.EventBus
		ctx context.Context
	)

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		bus = events.NewEventBus(logger)
		ctx = context.Background()
	})

	It("delivers synchronously to every handler in order", func() {
		var got []string
		bus.Subscribe(events.EventTypeExpenseSettled, func(_ context.Context, e events.Event) error {
			got = append(got, "first:"+e.EventType())
			return nil
		})
		bus.Subscribe(events.EventTypeExpenseSettled, func(_ context.Context, e events.Event) error {
			got = append(got, "second:"+e.EventType())
			return nil
		})

		ev := events.NewExpenseSettledEvent(1, 2, nil, decimal.NewFromInt(50))
		Expect(bus.PublishSync(ctx, ev)).To(Succeed())
		Expect(got).To(Equal([]string{"first:expense.settled", "second:expense.settled"}))
	})

	It("stops at the first failing handler when publishing synchronously", func() {
		calls := 0
		bus.Subscribe(events.EventTypeAdvanceSettled, func(context.Context, events.Event) error {
			calls++
			return errors.New("boom")
		})
		bus.Subscribe(events.EventTypeAdvanceSettled, func(context.Context, events.Event) error {
			calls++
			return nil
		})

		err := bus.PublishSync(ctx, events.NewAdvanceSettledEvent(1, 2, decimal.NewFromInt(10)))
		Expect(err).To(MatchError(ContainSubstring("advance.settled")))
		Expect(calls).To(Equal(1))
	})

	It("delivers asynchronously on Publish", func() {
		received := make(chan events.Event, 1)
		bus.Subscribe(events.EventTypeExpenseSubmitted, func(_ context.Context, e events.Event) error {
			received <- e
			return nil
		})

		Expect(bus.Publish(ctx, events.NewExpenseSubmittedEvent(7, 3))).To(Succeed())
		var e events.Event
		Eventually(received, time.Second).Should(Receive(&e))
		submitted, ok := e.(*events.ExpenseSubmittedEvent)
		Expect(ok).To(BeTrue())
		Expect(submitted.ExpenseID).To(Equal(int64(7)))
	})

	It("keeps async handlers running after the publisher's context is cancelled", func() {
		release := make(chan struct{})
		seen := make(chan error, 1)
		bus.Subscribe(events.EventTypeAdvanceSettled, func(hctx context.Context, _ events.Event) error {
			<-release
			seen <- hctx.Err()
			return nil
		})

		reqCtx, cancel := context.WithCancel(ctx)
		Expect(bus.Publish(reqCtx, events.NewAdvanceSettledEvent(1, 2, decimal.NewFromInt(100)))).To(Succeed())
		cancel()
		close(release)

		Eventually(seen, time.Second).Should(Receive(BeNil()))
	})

	It("survives a panicking handler", func() {
		bus.Subscribe(events.EventTypeExpenseSubmitted, func(context.Context, events.Event) error {
			panic("handler bug")
		})

		err := bus.PublishSync(ctx, events.NewExpenseSubmittedEvent(1, 1))
		Expect(err).To(MatchError(ContainSubstring("handler panic")))

		Expect(bus.Publish(ctx, events.NewExpenseSubmittedEvent(2, 1))).To(Succeed())
		Expect(bus.Drain(ctx)).To(Succeed())
	})

	Describe("Drain", func() {
		It("waits for in-flight handlers", func() {
			var mu sync.Mutex
			done := 0
			bus.Subscribe(events.EventTypeExpenseSubmitted, func(context.Context, events.Event) error {
				time.Sleep(20 * time.Millisecond)
				mu.Lock()
				done++
				mu.Unlock()
				return nil
			})

			for i := int64(1); i <= 3; i++ {
				Expect(bus.Publish(ctx, events.NewExpenseSubmittedEvent(i, 1))).To(Succeed())
			}
			Expect(bus.Drain(ctx)).To(Succeed())

			mu.Lock()
			defer mu.Unlock()
			Expect(done).To(Equal(3))
		})

		It("gives up when its context ends first", func() {
			release := make(chan struct{})
			defer close(release)
			bus.Subscribe(events.EventTypeExpenseSubmitted, func(context.Context, events.Event) error {
				<-release
				return nil
			})
			Expect(bus.Publish(ctx, events.NewExpenseSubmittedEvent(1, 1))).To(Succeed())

			short, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
			defer cancel()
			Expect(bus.Drain(short)).To(MatchError(context.DeadlineExceeded))
		})
	})

	It("ignores events nobody subscribed to", func() {
		Expect(bus.Publish(ctx, events.NewUserUpdatedEvent(1))).To(Succeed())
		Expect(bus.PublishSync(ctx, events.NewUserUpdatedEvent(1))).To(Succeed())
	})

	It("carries a fixed two-decimal amount in the payload", func() {
		ev := events.NewAdvanceSettledEvent(4, 9, decimal.RequireFromString("12.5"))
		payload, ok := ev.Payload().(map[string]interface{})
		Expect(ok).To(BeTrue())
		Expect(payload).To(HaveKeyWithValue("amount", "12.50"))
		Expect(payload).To(HaveKeyWithValue("staff_id", int64(9)))
		Expect(ev.EventID()).NotTo(BeEmpty())
	})

	Describe("audit log", func() {
		It("writes one line per ledger event", func() {
			out := &syncBuffer{}
			events.RegisterAuditLog(bus, slog.New(slog.NewTextHandler(out, nil)))

			advanceID := int64(5)
			Expect(bus.PublishSync(ctx, events.NewExpenseSettledEvent(11, 2, &advanceID, decimal.NewFromInt(80)))).To(Succeed())
			Expect(bus.PublishSync(ctx, events.NewUserDeactivatedEvent(2))).To(Succeed())

			Expect(out.String()).To(ContainSubstring("event_type=expense.settled"))
			Expect(out.String()).To(ContainSubstring("event_type=user.deactivated"))
			Expect(out.String()).To(ContainSubstring("component=audit"))
		})
	})
})
