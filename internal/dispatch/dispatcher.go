package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/sellerdesk/pddcs/internal/bus"
	"github.com/sellerdesk/pddcs/internal/hours"
	"github.com/sellerdesk/pddcs/internal/message"
)

// ErrOperatorExit signals a deliberate shutdown requested through the
// reply prompt. Callers treat it as clean cancellation, not a failure.
var ErrOperatorExit = errors.New("operator exit")

const exitCommand = "/exit"

// Replier obtains a reply for one event. Implementations may prompt a
// console, ask a model, or be a test double; the dispatch loop does not
// care which.
type Replier interface {
	// Reply returns the reply text for a reply-eligible event. Empty
	// text means the operator skipped it.
	Reply(ctx context.Context, msg *message.UserMessage) (string, error)
	// Ack lets the operator acknowledge an event that cannot be replied to.
	Ack(ctx context.Context, msg *message.UserMessage) error
}

// Sender submits a reply to the platform.
type Sender interface {
	SendText(ctx context.Context, recipientUID, content string) error
}

// Dispatcher is the single consumer of the event queue. Processing is
// strictly sequential: no second event is touched while a reply prompt or
// send for the current one is outstanding.
type Dispatcher struct {
	queue   *bus.Queue
	sender  Sender
	replier Replier
	window  *hours.Window
	out     io.Writer
}

func NewDispatcher(queue *bus.Queue, sender Sender, replier Replier, out io.Writer) *Dispatcher {
	return &Dispatcher{
		queue:   queue,
		sender:  sender,
		replier: replier,
		out:     out,
	}
}

// SetBusinessHours enables the outside-hours notice before sends.
func (d *Dispatcher) SetBusinessHours(window hours.Window) {
	d.window = &window
}

// Run drains the queue until the producer closes it, ctx is cancelled, or
// the operator exits. Send and classification failures never end the loop.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		msg, err := d.queue.Pop(ctx)
		if err != nil {
			if errors.Is(err, bus.ErrClosed) || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if err := d.handle(ctx, msg); err != nil {
			return err
		}
	}
}

func (d *Dispatcher) handle(ctx context.Context, msg *message.UserMessage) error {
	if msg.Type.Informational() {
		fmt.Fprintf(d.out, "[system] %s\n", msg.Text)
		return nil
	}

	name := msg.Nickname
	if name == "" {
		name = msg.UserUID
	}
	fmt.Fprintln(d.out, "----------------------------------------")
	fmt.Fprintf(d.out, "time:    %s\n", formatTimestamp(msg.Timestamp))
	fmt.Fprintf(d.out, "user:    %s\n", name)
	fmt.Fprintf(d.out, "type:    %s\n", msg.Type)
	fmt.Fprintf(d.out, "content: %s\n", msg.Text)

	if !msg.Type.ReplyEligible() {
		return d.replier.Ack(ctx, msg)
	}

	reply, err := d.replier.Reply(ctx, msg)
	if err != nil {
		return err
	}

	reply = strings.TrimSpace(reply)
	if strings.EqualFold(reply, exitCommand) {
		return ErrOperatorExit
	}
	if reply == "" {
		fmt.Fprintln(d.out, "skipped")
		return nil
	}

	if d.window != nil && !d.window.Within(time.Now()) {
		log.Printf("[dispatch] replying outside business hours (%s-%s)", d.window.Start(), d.window.End())
	}

	if err := d.sender.SendText(ctx, msg.UserUID, reply); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprintf(d.out, "send failed: %v\n", err)
		return nil
	}
	fmt.Fprintln(d.out, "message sent")
	return nil
}

func formatTimestamp(ms int64) string {
	if ms == 0 {
		return time.Now().Format("2006-01-02 15:04:05")
	}
	return time.UnixMilli(ms).Local().Format("2006-01-02 15:04:05")
}
