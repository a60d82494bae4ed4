package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"vsubgo/pkg/scriptgen"
)

var generateCmd = &cobra.Command{
	Use:   "generate [topic]",
	Short: "Draft a narration script with the configured LLM",
	Long: `Draft a narration script about a topic using the configured LLM
provider and print it to stdout, ready for 'vsubctl parse'.

The API key comes from the config file or the GEMINI_API_KEY
environment variable.

Examples:
  vsubctl generate "the 1883 eruption of Krakatoa"
  vsubctl generate "deep sea vents" -n 12
  vsubctl generate --list-models`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().IntP("sentences", "n", 0, "Number of sentences to ask for (0 for the default)")
	generateCmd.Flags().Bool("list-models", false, "List the provider's available models and exit")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	listModels, _ := cmd.Flags().GetBool("list-models")

	gen, err := scriptgen.New(cfg.LLM)
	if err != nil {
		return err
	}

	if listModels {
		models, err := gen.Models(cmd.Context())
		if err != nil {
			return fmt.Errorf("list models: %w", err)
		}
		for _, m := range models {
			fmt.Println(m)
		}
		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("a topic is required (or --list-models)")
	}
	sentences, _ := cmd.Flags().GetInt("sentences")

	text, err := gen.Generate(cmd.Context(), args[0], sentences)
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}
