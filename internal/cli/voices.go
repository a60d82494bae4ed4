package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List the voices of the configured TTS engine",
	Long: `List the voices available from the configured text-to-speech engine.

The edge-tts engine fetches the list over the network; windows-sapi
enumerates the locally installed voices.

Examples:
  vsubctl voices
  vsubctl voices --language en-US`,
	RunE: runVoices,
}

func init() {
	rootCmd.AddCommand(voicesCmd)

	voicesCmd.Flags().StringP("language", "l", "", "Only voices for this language tag prefix")
}

func runVoices(cmd *cobra.Command, args []string) error {
	language, _ := cmd.Flags().GetString("language")

	provider, _ := ttsProviders()

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	voices, err := provider.Voices(ctx)
	if err != nil {
		return fmt.Errorf("list voices: %w", err)
	}

	fmt.Printf("%-42s %-8s %-7s %s\n", "ID", "LANG", "NEURAL", "NAME")
	for _, v := range voices {
		if language != "" && !strings.HasPrefix(strings.ToLower(v.Language), strings.ToLower(language)) {
			continue
		}
		neural := "no"
		if v.IsNeural {
			neural = "yes"
		}
		fmt.Printf("%-42s %-8s %-7s %s\n", v.ID, v.Language, neural, v.Name)
	}
	return nil
}
