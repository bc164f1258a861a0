package auth

import (
	"sync"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/frahmantamala/expense-ledger/internal"
)

var _ = ginkgo.Describe("SessionManager", func() {
	var (
		manager *SessionManager
		now     time.Time
		staff   = internal.User{ID: 7, Email: "staff2@company.com", Role: internal.RoleStaff, StaffCode: "STF002"}
	)

	ginkgo.BeforeEach(func() {
		now = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
		manager = NewSessionManager(time.Hour, quietLogger())
		manager.now = func() time.Time { return now }
	})

	ginkgo.It("notifies listeners on sign-in and sign-out", func() {
		var got []SessionEventType
		unsubscribe := manager.Subscribe(func(ev SessionEvent) { got = append(got, ev.Type) })

		s := manager.Start(staff)
		manager.End(s.ID)
		manager.End(s.ID)

		gomega.Expect(got).To(gomega.Equal([]SessionEventType{SessionSignedIn, SessionSignedOut}))

		unsubscribe()
		manager.Start(staff)
		gomega.Expect(got).To(gomega.HaveLen(2))
	})

	ginkgo.It("stamps the session id onto the cached user", func() {
		s := manager.Start(staff)
		gomega.Expect(manager.CurrentUser(s.ID).SessionID).To(gomega.Equal(s.ID))
	})

	ginkgo.It("hides and sweeps expired sessions", func() {
		s := manager.Start(staff)
		now = now.Add(time.Hour)

		gomega.Expect(manager.CurrentUser(s.ID)).To(gomega.BeNil())
		gomega.Expect(manager.SweepExpired()).To(gomega.Equal(1))
		gomega.Expect(manager.SweepExpired()).To(gomega.Equal(0))
	})

	ginkgo.It("refreshes every session of a user", func() {
		a := manager.Start(staff)
		b := manager.Start(staff)
		other := manager.Start(internal.User{ID: 8, Role: internal.RoleAdmin})

		updated := staff
		updated.FullName = "New Name"
		gomega.Expect(manager.RefreshUser(updated)).To(gomega.Equal(2))

		gomega.Expect(manager.CurrentUser(a.ID).FullName).To(gomega.Equal("New Name"))
		gomega.Expect(manager.CurrentUser(b.ID).SessionID).To(gomega.Equal(b.ID))
		gomega.Expect(manager.CurrentUser(other.ID).FullName).To(gomega.BeEmpty())
	})

	ginkgo.It("is safe for concurrent use", func() {
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				s := manager.Start(staff)
				_ = manager.CurrentUser(s.ID)
				manager.End(s.ID)
			}()
		}
		wg.Wait()
		gomega.Expect(manager.EndForUser(staff.ID)).To(gomega.Equal(0))
	})

	ginkgo.It("serves the cached user while profile refreshes run", func() {
		s := manager.Start(staff)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				updated := staff
				updated.FullName = "Name"
				manager.RefreshUser(updated)
			}
		}()
		misses := 0
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				if u := manager.CurrentUser(s.ID); u == nil || u.SessionID != s.ID {
					misses++
				}
			}
		}()
		wg.Wait()

		gomega.Expect(misses).To(gomega.BeZero())

		gomega.Expect(manager.CurrentUser(s.ID).FullName).To(gomega.Equal("Name"))
	})
})
