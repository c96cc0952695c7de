package hours

import (
	"context"
	"fmt"
	"log"
	"time"

	rcron "github.com/robfig/cron/v3"
)

// Notifier announces the start and end of the business-hours window so an
// operator leaving the console open notices the shift change.
type Notifier struct {
	window Window
	cron   *rcron.Cron
}

func NewNotifier(window Window) *Notifier {
	return &Notifier{window: window}
}

func (n *Notifier) Start(ctx context.Context) error {
	n.cron = rcron.New()

	if _, err := n.cron.AddFunc(cronExpr(n.window.start), func() {
		log.Printf("[cron] business hours opened (%s-%s)", n.window.Start(), n.window.End())
	}); err != nil {
		return fmt.Errorf("register open announcement: %w", err)
	}
	if _, err := n.cron.AddFunc(cronExpr(n.window.end), func() {
		log.Printf("[cron] business hours closed (%s-%s)", n.window.Start(), n.window.End())
	}); err != nil {
		return fmt.Errorf("register close announcement: %w", err)
	}

	n.cron.Start()

	go func() {
		<-ctx.Done()
		n.Stop()
	}()
	return nil
}

func (n *Notifier) Stop() {
	if n.cron != nil {
		n.cron.Stop()
	}
}

func cronExpr(offset time.Duration) string {
	return fmt.Sprintf("%d %d * * *", int(offset.Minutes())%60, int(offset.Hours()))
}
