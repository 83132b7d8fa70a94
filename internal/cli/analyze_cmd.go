package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/meetmeter/internal/analysis"
	"github.com/alexanderramin/meetmeter/internal/cli/formatter"
)

func newAnalyzeCmd(app *App) *cobra.Command {
	var period string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Analyze a pasted schedule or .ics file without the HTTP server",
		Long: "Reads calendar text (or iCalendar data) from the given file, or from stdin\n" +
			"when the file is \"-\" or omitted, and prints the model's verdict.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			client, err := app.newLLMClient()
			if err != nil {
				return err
			}
			analyzer, err := app.newAnalyzer(client, nil, nil)
			if err != nil {
				return err
			}
			res, err := analyzer.AnalyzeManual(cmd.Context(), analysis.ManualRequest{
				CalendarData: data,
				TimePeriod:   period,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON || !app.IsInteractive() {
				return formatter.WriteJSON(out, res)
			}
			return formatter.WriteResult(out, analyzer.Theme().Banner, res)
		},
	}

	addPeriodFlag(cmd.Flags(), &period)
	addJSONFlag(cmd.Flags(), &asJSON)
	return cmd
}

func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading calendar file: %w", err)
	}
	return string(b), nil
}
