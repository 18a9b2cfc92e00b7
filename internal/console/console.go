package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"interview-runtime/internal/interviewer"
)

const fence = "```"

// Console runs one interview over a line-oriented terminal.
type Console struct {
	service *interviewer.Service
	in      io.Reader
	out     io.Writer
	userID  string
	log     *zap.Logger
}

func New(service *interviewer.Service, in io.Reader, out io.Writer, log *zap.Logger) *Console {
	if log == nil {
		log = zap.NewNop()
	}
	return &Console{
		service: service,
		in:      in,
		out:     out,
		userID:  "console",
		log:     log,
	}
}

// Run opens sessionID and reads commands until /stop, end of input or ctx
// is done. A line of ``` starts a multi-line answer that ends with the next
// ``` line.
func (c *Console) Run(ctx context.Context, sessionID string) error {
	scanner := bufio.NewScanner(c.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var sess *interviewer.Session
	defer func() {
		if sess != nil {
			sess.Close()
		}
	}()

	open := func(id string) {
		if sess != nil {
			sess.Close()
		}
		c.log.Debug("Opening session", zap.String("session_id", id))
		var reply string
		sess, reply = c.service.Open(ctx, id, c.userID)
		c.print(reply)
	}

	if sessionID != "" {
		open(sessionID)
	} else {
		c.print("Use /start <session id> to load an interview. /help lists the commands.")
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(c.out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if line == fence {
			block, ok := c.readBlock(scanner)
			if !ok {
				break
			}
			line = block
		}

		command, arg, _ := strings.Cut(line, " ")
		switch strings.ToLower(command) {
		case "/stop", "/quit", "/exit":
			c.print("👋 Bye.")
			return nil
		case "/start":
			arg = strings.TrimSpace(arg)
			if arg == "" {
				arg = sessionID
			}
			if arg == "" {
				c.print("Usage: /start <session id>")
				continue
			}
			open(arg)
			continue
		case "/help":
			c.print(interviewer.HelpText())
			continue
		}

		if sess == nil {
			c.print("No interview loaded. Use /start <session id> to begin.")
			continue
		}
		c.print(sess.Execute(ctx, line))
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

func (c *Console) readBlock(scanner *bufio.Scanner) (string, bool) {
	var lines []string
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == fence {
			return strings.Join(lines, "\n"), true
		}
		lines = append(lines, scanner.Text())
	}
	return "", false
}

func (c *Console) print(text string) {
	fmt.Fprintf(c.out, "%s\n\n", text)
}
