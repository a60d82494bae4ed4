package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"vsubgo/pkg/project"
	"vsubgo/pkg/synth"
	"vsubgo/pkg/tts"
	"vsubgo/pkg/tts/edgetts"
	"vsubgo/pkg/tts/sapi"
)

var synthesizeCmd = &cobra.Command{
	Use:   "synthesize [project]",
	Short: "Run text-to-speech over a stored project",
	Long: `Synthesize narration audio for a stored project and write the
measured word timings back into it.

Without an argument the most recently saved project is used.

Examples:
  vsubctl synthesize
  vsubctl synthesize "Volcanoes"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSynthesize,
}

func init() {
	rootCmd.AddCommand(synthesizeCmd)
}

// ttsProviders picks the primary engine from config, mirroring the
// server's selection.
func ttsProviders() (primary, fallback tts.Provider) {
	switch cfg.TTS.Engine {
	case "windows-sapi":
		return sapi.NewProvider(), nil
	default:
		if cfg.TTS.Fallback {
			fallback = sapi.NewProvider()
		}
		return edgetts.NewProvider(), fallback
	}
}

func runSynthesize(cmd *cobra.Command, args []string) error {
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	ctx := cmd.Context()

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	p, err := loadStoredProject(ctx, st, name)
	if err != nil {
		return err
	}
	pm := project.NewManager(st)
	pm.SetProject(p)

	primary, fallback := ttsProviders()
	mgr, err := synth.NewManager(cfg, primary, fallback)
	if err != nil {
		return fmt.Errorf("initialize synthesis: %w", err)
	}

	done := make(chan synth.Result, 1)
	if err := mgr.Synthesize(ctx, pm.Snapshot(), func(res synth.Result) { done <- res }); err != nil {
		return err
	}
	fmt.Printf("Synthesizing %q (%d sentences)\n", p.Title, len(p.Sentences))

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	var res synth.Result
wait:
	for {
		select {
		case res = <-done:
			break wait
		case <-ticker.C:
			stat := mgr.Status()
			fmt.Printf("\r  %d/%d sentences", stat.Completed, stat.Total)
		case <-ctx.Done():
			mgr.Cancel()
			res = <-done
			break wait
		}
	}
	fmt.Println()

	if res.Err != nil {
		return fmt.Errorf("synthesis failed: %w", res.Err)
	}

	if err := pm.ApplyTiming(res); err != nil {
		return err
	}
	if err := pm.Save(ctx, ""); err != nil {
		return fmt.Errorf("save timed project: %w", err)
	}

	fmt.Printf("Narration written to %s\n", res.AudioFile)
	if verbose {
		for engine, s := range mgr.Stats() {
			fmt.Printf("  %s: %d rendered, %d cached, %d failed\n", engine, s.Rendered, s.CacheHits, s.Failures)
		}
	}
	return nil
}
