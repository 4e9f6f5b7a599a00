package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"
)

const prompt = "> "

type chatCmd struct{}

func (*chatCmd) Name() string     { return "chat" }
func (*chatCmd) Synopsis() string { return "Chat with the assistant about financial analysis." }
func (*chatCmd) Usage() string {
	return `chat [prompt...]:
  Start a conversation with the assistant. The history is kept for the whole
  session. Type 'bye' or press Ctrl+D to exit.
`
}

func (*chatCmd) SetFlags(_ *flag.FlagSet) {}

func (c *chatCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	var prompts []string
	if f.NArg() > 0 {
		prompts = append(prompts, strings.Join(f.Args(), " "))
	}
	if err := runChat(ctx, a, prompts...); err != nil {
		fmt.Fprintln(os.Stderr, "Chat failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// runChat is the chat REPL. Queued prompts are sent first, then lines are read
// from the input until 'bye' or EOF. A session that cannot start disables chat
// without failing the command.
func runChat(ctx context.Context, a *app, prompts ...string) error {
	sess, err := a.bridge.NewSession()
	if err != nil {
		log.Warn().Err(err).Msg("Chat session could not be started")
		fmt.Fprintln(a.errOut, "Chat is not available:", assistantMessage(err))
		return nil
	}

	fmt.Fprintln(a.out, "Ask about ratios, financial concepts or your figures. Type 'bye' to exit.")
	r := bufio.NewReader(a.in)
	for {
		fmt.Fprint(a.out, prompt)
		var input string
		if len(prompts) > 0 {
			input, prompts = prompts[0], prompts[1:]
			fmt.Fprintln(a.out, input)
		} else {
			input, err = r.ReadString('\n')
			if err != nil && (err != io.EOF || strings.TrimSpace(input) == "") {
				if err == io.EOF {
					fmt.Fprintln(a.out)
					return nil
				}
				return err
			}
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if input == "bye" {
			return nil
		}

		reply, err := sess.SendTurn(ctx, input)
		if err != nil {
			fmt.Fprintln(a.errOut, assistantMessage(err))
			continue
		}
		a.printMarkdown(reply)
	}
}
