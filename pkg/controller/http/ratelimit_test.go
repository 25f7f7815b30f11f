package http_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	server "github.com/legisdesk/casetriage/pkg/controller/http"
)

func TestDailyLimiter(t *testing.T) {
	t.Run("allows up to limit, then denies", func(t *testing.T) {
		l := server.NewDailyLimiter(5, true)

		for i := 0; i < 5; i++ {
			gt.Bool(t, l.Allow("10.0.0.1")).True()
		}
		gt.Bool(t, l.Allow("10.0.0.1")).False()
		gt.Bool(t, l.Allow("10.0.0.1")).False()
	})

	t.Run("addresses are counted independently", func(t *testing.T) {
		l := server.NewDailyLimiter(1, true)

		gt.Bool(t, l.Allow("10.0.0.1")).True()
		gt.Bool(t, l.Allow("10.0.0.1")).False()
		gt.Bool(t, l.Allow("10.0.0.2")).True()
	})

	t.Run("bucket resets on a new day", func(t *testing.T) {
		l := server.NewDailyLimiter(1, true)

		now := time.Date(2025, 6, 1, 23, 50, 0, 0, time.UTC)
		l.SetNowFunc(func() time.Time { return now })

		gt.Bool(t, l.Allow("10.0.0.1")).True()
		gt.Bool(t, l.Allow("10.0.0.1")).False()

		now = now.Add(time.Hour) // past midnight
		gt.Bool(t, l.Allow("10.0.0.1")).True()
	})

	t.Run("denied requests are not counted", func(t *testing.T) {
		l := server.NewDailyLimiter(2, true)

		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		l.SetNowFunc(func() time.Time { return now })

		gt.Bool(t, l.Allow("10.0.0.1")).True()
		gt.Bool(t, l.Allow("10.0.0.1")).True()
		gt.Bool(t, l.Allow("10.0.0.1")).False()

		// Next day the full quota is available again
		now = now.Add(24 * time.Hour)
		gt.Bool(t, l.Allow("10.0.0.1")).True()
		gt.Bool(t, l.Allow("10.0.0.1")).True()
	})

	t.Run("disabled limiter allows everything", func(t *testing.T) {
		l := server.NewDailyLimiter(1, false)

		for i := 0; i < 100; i++ {
			gt.Bool(t, l.Allow("10.0.0.1")).True()
		}
	})
}
