package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"vsubgo/pkg/timeline"
)

var timelineCmd = &cobra.Command{
	Use:   "timeline [sentence_index] [project]",
	Short: "Print the lane timeline of one sentence",
	Long: `Print the computed speech, image and audio blocks of a sentence as
a table of absolute millisecond spans.

Examples:
  vsubctl timeline 0
  vsubctl timeline 3 "Volcanoes"`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runTimeline,
}

func init() {
	rootCmd.AddCommand(timelineCmd)
}

func runTimeline(cmd *cobra.Command, args []string) error {
	idx, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid sentence index %q", args[0])
	}
	name := ""
	if len(args) > 1 {
		name = args[1]
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	p, err := loadStoredProject(cmd.Context(), st, name)
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(p.Sentences) {
		return fmt.Errorf("sentence %d out of range (project has %d)", idx, len(p.Sentences))
	}

	blocks, err := timeline.Build(p.Sentences[idx])
	if err != nil {
		return err
	}

	fmt.Printf("%q\n", p.Sentences[idx].Text)
	fmt.Printf("%-7s %9s %9s  %s\n", "LANE", "START", "END", "LABEL")
	for _, b := range blocks {
		fmt.Printf("%-7s %8dms %8dms  %s\n", b.Lane, b.StartMS, b.EndMS, b.Label)
	}
	return nil
}
