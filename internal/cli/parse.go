package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"vsubgo/pkg/model"
	"vsubgo/pkg/script"
)

var parseCmd = &cobra.Command{
	Use:   "parse [script_file]",
	Short: "Parse a narration script into a stored project",
	Long: `Parse a plain text narration script into sentences and word tokens
and save the resulting project to the database.

The title defaults to the file name without extension.

Examples:
  vsubctl parse script.txt
  vsubctl parse script.txt --title "Volcanoes"`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringP("title", "t", "", "Project title (defaults to the file name)")
}

func runParse(cmd *cobra.Command, args []string) error {
	scriptPath := args[0]

	data, err := os.ReadFile(scriptPath)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	title, _ := cmd.Flags().GetString("title")
	if title == "" {
		base := filepath.Base(scriptPath)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	voice := model.VoiceSettings{Voice: cfg.DefaultVoice()}
	p := script.NewProject(title, string(data), voice)
	if len(p.Sentences) == 0 {
		return fmt.Errorf("%s contains no sentences", scriptPath)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.SaveProject(cmd.Context(), p); err != nil {
		return fmt.Errorf("save project: %w", err)
	}

	words := 0
	for _, s := range p.Sentences {
		words += len(s.Words)
	}
	fmt.Printf("Parsed %q: %d sentences, %d word tokens\n", p.Title, len(p.Sentences), words)
	return nil
}
