package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kazz187/fieldguild/backend/internal/client"
	"github.com/kazz187/fieldguild/backend/internal/llm"
	"github.com/kazz187/fieldguild/pkg/color"
)

const assistantName = "Agnes"

func runChat(ctx context.Context, c *client.Client, message string, reset bool) error {
	if reset {
		if err := c.ResetChat(ctx); err != nil {
			return err
		}
	}
	if message != "" {
		return sendChat(ctx, c, os.Stdout, message)
	}
	return repl(ctx, c, os.Stdin, os.Stdout)
}

func sendChat(ctx context.Context, c *client.Client, out io.Writer, message string) error {
	reply, err := c.Chat(ctx, message)
	if err != nil {
		return err
	}
	color.Fprintln(out, assistantName, reply.Message.Content)
	return nil
}

// repl reads one message per line until EOF, "exit" or "quit". Failed
// turns are reported and the loop goes on.
func repl(ctx context.Context, c *client.Client, in io.Reader, out io.Writer) error {
	history, err := c.ChatHistory(ctx)
	if err != nil {
		return err
	}
	for _, m := range history {
		name := "you"
		if m.Role == llm.RoleAssistant {
			name = assistantName
		}
		color.Fprintln(out, name, m.Content)
	}
	fmt.Fprintln(out, color.Faint(`Type a message, or "exit" to leave.`))

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, color.Prefix("you")+" ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "exit", "quit":
			return nil
		}
		if err := sendChat(ctx, c, out, line); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintln(out, color.Failure("error:"), err)
		}
	}
}
