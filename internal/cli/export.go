package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"vsubgo/pkg/schedule"
)

var exportCmd = &cobra.Command{
	Use:   "export [project]",
	Short: "Export the canonical timeline document or subtitle files",
	Long: `Export a stored project as the canonical JSON timeline document for
the video compositor, or as sentence-level subtitles.

Unlike the server endpoint, the export here is tolerant: sentences
without timing data are skipped with a warning on stderr and the
finished ones are still written.

Formats: json, srt, vtt, csv.

Examples:
  vsubctl export
  vsubctl export "Volcanoes" -f srt -o volcanoes.srt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("format", "f", "json", "Output format (json, srt, vtt, csv)")
	exportCmd.Flags().StringP("output", "o", "", "Output file path (defaults to stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	format, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	p, err := loadStoredProject(cmd.Context(), st, name)
	if err != nil {
		return err
	}

	doc, err := schedule.Export(p)
	if err != nil {
		// Partial export; the per-sentence reasons are in err.
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	var out io.Writer = os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch format {
	case "json":
		if err := doc.Encode(out); err != nil {
			return fmt.Errorf("encode document: %w", err)
		}
	default:
		writer, err := schedule.NewWriter(schedule.Format(format))
		if err != nil {
			return err
		}
		if err := writer.Write(out, doc); err != nil {
			return fmt.Errorf("write %s: %w", format, err)
		}
	}

	if outputPath != "" {
		fmt.Printf("Exported %q to %s\n", p.Title, outputPath)
	}
	return nil
}
