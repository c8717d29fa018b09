package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/directord/a2dd/internal/stats"
)

var (
	statsOutput   string
	statsTask     string
	statsTemplate string
)

var statsCmd = &cobra.Command{
	Use:   "stats PATH...",
	Short: "Count module usage across playbooks and roles",
	Long: `Count module usage across files and directories.

Directories are searched recursively for YAML files; directories listed in
stats.skip_dirs are skipped. Tasks are collected from task lists, blocks,
plays and Heat template role_data sections.

By default the report lists every module with the number of tasks using it,
most used first. With --task, it lists the option names used with that
module instead. Files that cannot be read are reported on stderr and skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		renderer, err := stats.NewRenderer(statsTemplate)
		if err != nil {
			return err
		}

		c := stats.New(cfg)
		for _, path := range args {
			if err := c.AddPath(path); err != nil {
				return err
			}
		}

		report := c.Report(statsTask)
		for _, e := range report.Errors {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error in file: %s\n", e.Error())
		}

		var buf bytes.Buffer
		if err := renderer.Write(&buf, report); err != nil {
			return err
		}
		if statsOutput == "" || statsOutput == "-" {
			if _, err := io.Copy(cmd.OutOrStdout(), &buf); err != nil {
				return err
			}
		} else if err := os.WriteFile(statsOutput, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", statsOutput, err)
		}

		return renderer.WriteSummary(cmd.ErrOrStderr(), report)
	},
}

func init() {
	statsCmd.Flags().StringVarP(&statsOutput, "output", "o", "-", "output file (- for stdout)")
	statsCmd.Flags().StringVarP(&statsTask, "task", "t", "", "list the options used with this module")
	statsCmd.Flags().StringVar(&statsTemplate, "template", "", "text/template file for the report")
	rootCmd.AddCommand(statsCmd)
}
