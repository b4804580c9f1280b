package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var askJSON bool

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask <question...>",
	Short: "Answer a single question",
	Long: `Ask resolves one question and prints the answer.

Example:
  raychel ask "will it rain today in Paris?"
  raychel ask who won the ipl in 2016
  raychel ask --json "what is the capital of France?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().BoolVar(&askJSON, "json", false, "print the full resolution as JSON")
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return fmt.Errorf("question is empty")
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	res := a.resolver.Resolve(cmd.Context(), question)

	if askJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Category: %s\n", res.Category)
		fmt.Fprintf(os.Stderr, "Tool:     %s (rule %s)\n", res.Tool, res.Rule)
		fmt.Fprintf(os.Stderr, "Took:     %.2fs\n", res.Elapsed.Seconds())
		fmt.Fprintln(os.Stderr)
	}

	fmt.Fprintln(cmd.OutOrStdout(), res.Answer)
	return nil
}
