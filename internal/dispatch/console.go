package dispatch

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/sellerdesk/pddcs/internal/message"
)

// ConsoleReplier prompts the operator on a line-oriented input, the way
// the console UI works. An EOF on input counts as a skip.
type ConsoleReplier struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewConsoleReplier(in io.Reader, out io.Writer) *ConsoleReplier {
	return &ConsoleReplier{
		in:  bufio.NewScanner(in),
		out: out,
	}
}

func (c *ConsoleReplier) Reply(ctx context.Context, msg *message.UserMessage) (string, error) {
	fmt.Fprintln(c.out, "enter a reply (empty to skip, /exit to quit):")
	return c.readLine(ctx)
}

func (c *ConsoleReplier) Ack(ctx context.Context, msg *message.UserMessage) error {
	fmt.Fprintln(c.out, "this message type cannot be replied to, press enter to continue...")
	_, err := c.readLine(ctx)
	return err
}

func (c *ConsoleReplier) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", fmt.Errorf("read operator input: %w", err)
		}
		return "", nil
	}
	return c.in.Text(), nil
}
