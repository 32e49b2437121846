package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yulrizka/numbergame"
	"github.com/yulrizka/numbergame/client"
)

const quitWord = "/quit"

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play against a running server from the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		url, _ := cmd.Flags().GetString("url")
		p := player{
			c:   client.New(url, nil),
			in:  bufio.NewScanner(cmd.InOrStdin()),
			out: cmd.OutOrStdout(),
		}
		return p.run(cmd.Context())
	},
}

func init() {
	playCmd.Flags().String("url", "http://localhost:8080", "server base url")
}

type player struct {
	c   *client.Client
	in  *bufio.Scanner
	out io.Writer
}

func (p player) printHeader() {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, "================")
	fmt.Fprintln(p.out, "Number Game")
	fmt.Fprintln(p.out, "================")
	fmt.Fprintf(p.out, "type %s to stop\n\n", quitWord)
}

// run asks questions until the input ends or the player quits. A wrong
// answer keeps the same question.
func (p player) run(ctx context.Context) error {
	p.printHeader()

	for {
		q, err := p.c.Question(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(p.out, q.Text)

	ANSWER:
		for {
			fmt.Fprint(p.out, "> ")
			if !p.in.Scan() {
				return p.in.Err()
			}
			text := strings.TrimSpace(p.in.Text())
			if text == quitWord {
				return nil
			}
			if text == "" {
				continue
			}

			res, err := p.c.Validate(ctx, numbergame.Answer{ID: q.ID, Text: q.Text, Sum: text})
			if err != nil {
				return err
			}
			fmt.Fprintln(p.out, res.Message)
			fmt.Fprintln(p.out)
			if res.Correct() || res.Message == numbergame.Tampered.Message() {
				break ANSWER
			}
		}
	}
}
