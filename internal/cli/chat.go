package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/raychel/internal/model"
)

// exitWords end a chat session
var exitWords = map[string]bool{"exit": true, "quit": true, "bye": true}

const historyCommand = "/history"

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive question-answering session",
	Long: `Chat reads questions from standard input and answers each one.

Type /history to see this session's questions and answers, and exit, quit or
bye to leave. The history is only shown to you; it never influences answers.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if !a.generator.Available(checkCtx) {
		fmt.Fprintf(os.Stderr, "Warning: knowledge model %q is not reachable; general questions will be answered with \"I don't know.\"\n", a.generator.Name())
	}
	cancel()

	session := newChatSession(a.resolver, cmd.InOrStdin(), cmd.OutOrStdout())
	return session.Run(ctx)
}

// resolver answers one question
type resolver interface {
	Resolve(ctx context.Context, question string) model.Resolution
}

// chatTurn is one exchange of a session, kept for /history only
type chatTurn struct {
	At  time.Time
	Res model.Resolution
}

// chatSession runs the read-answer loop
type chatSession struct {
	resolver resolver
	in       *bufio.Scanner
	out      io.Writer
	now      func() time.Time
	history  []chatTurn
}

func newChatSession(r resolver, in io.Reader, out io.Writer) *chatSession {
	return &chatSession{
		resolver: r,
		in:       bufio.NewScanner(in),
		out:      out,
		now:      time.Now,
	}
}

// Run answers questions until an exit word, end of input or ctx cancellation
func (s *chatSession) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "Raychel is ready. Ask a question, /history to review, or exit to leave.")

	for {
		fmt.Fprint(s.out, "You: ")
		if !s.in.Scan() {
			fmt.Fprintln(s.out)
			return s.in.Err()
		}
		if err := ctx.Err(); err != nil {
			return nil
		}

		line := strings.TrimSpace(s.in.Text())
		switch {
		case line == "":
			continue
		case exitWords[strings.ToLower(line)]:
			fmt.Fprintln(s.out, "Goodbye!")
			return nil
		case strings.EqualFold(line, historyCommand):
			s.printHistory()
			continue
		}

		res := s.resolver.Resolve(ctx, line)
		turn := chatTurn{At: s.now(), Res: res}
		s.history = append(s.history, turn)
		fmt.Fprintln(s.out, formatReply(turn))
	}
}

func (s *chatSession) printHistory() {
	if len(s.history) == 0 {
		fmt.Fprintln(s.out, "No questions yet.")
		return
	}
	for _, turn := range s.history {
		fmt.Fprintf(s.out, "[%s] You: %s\n", turn.At.Format("15:04"), turn.Res.Question)
		fmt.Fprintln(s.out, formatReply(turn))
	}
}

// formatReply renders "[HH:MM] Agent (<Category>, <Tool>, took 1.23s): <answer>"
func formatReply(turn chatTurn) string {
	return fmt.Sprintf("[%s] Agent (%s, %s, took %.2fs): %s",
		turn.At.Format("15:04"),
		turn.Res.Category,
		turn.Res.Tool,
		turn.Res.Elapsed.Seconds(),
		turn.Res.Answer,
	)
}
