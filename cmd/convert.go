// =============================================================================
// Portfolio Import - Convert Command
// =============================================================================
//
// COMMAND USAGE:
//   patimport convert [numbers...] [flags]
//
// Without arguments the numbers are read from standard input, one per line.
//
// FLAGS:
//   --kind     : depot | publication | delivrance (default depot)
//   --explain  : Print raw value, canonical value, outcome and rule
//
// =============================================================================

package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/clemsmoz/startingbloch-sub005/internal/patnum"
)

var (
	convertKind    string
	convertExplain bool
)

// convertCmd represents the 'convert' command.
var convertCmd = &cobra.Command{
	Use:   "convert [numbers...]",
	Short: "Canonicalize patent numbers",
	Long: `Canonicalize filing, publication or grant numbers the same way the import
does, one number per line of output.

With --explain each line holds the raw value, the canonical value, the
outcome (rule, generic-fallback or cleanup) and the rule that matched,
separated by tabs.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := patnum.ParseKind(convertKind)
		if err != nil {
			return err
		}

		if len(args) > 0 {
			return convertNumbers(cmd.OutOrStdout(), kind, args)
		}

		var numbers []string
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				numbers = append(numbers, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return eris.Wrap(err, "failed to read numbers")
		}
		return convertNumbers(cmd.OutOrStdout(), kind, numbers)
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVar(&convertKind, "kind", "depot", "Number kind: depot, publication or delivrance")
	convertCmd.Flags().BoolVar(&convertExplain, "explain", false, "Show outcome and matching rule")
}

func convertNumbers(w io.Writer, kind patnum.Kind, numbers []string) error {
	for _, raw := range numbers {
		result := patnum.Canonicalize(raw, kind)
		logger.Sugar().Debugf("%s %q -> %q (%s %s)", kind, raw, result.Value, result.Outcome, result.Rule)

		if !convertExplain {
			fmt.Fprintln(w, result.Value)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", raw, result.Value, result.Outcome, result.Rule)
	}
	return nil
}
