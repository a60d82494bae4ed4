package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the stored voice templates",
	RunE:  runTemplates,
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}

func runTemplates(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	templates, err := st.ListTemplates(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("%-16s %-8s %s\n", "NAME", "PITCH", "RATE")
	for _, t := range templates {
		fmt.Printf("%-16s %-8s %s\n", t.Name, t.Pitch, t.Rate)
	}
	return nil
}
