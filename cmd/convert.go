package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/directord/a2dd/internal/config"
	"github.com/directord/a2dd/internal/convert"
	"github.com/directord/a2dd/internal/modules"
	"github.com/directord/a2dd/internal/output"
)

var (
	convertFile   string
	convertRole   string
	convertOutput string
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a playbook, task file or role",
	Long: `Convert a playbook, task file or role into DirectorD jobs.

With --file, the document kind is detected from its content: a list of plays
becomes a list of orchestrations, a task list becomes a flat job list, and a
mapping of variables becomes ARG jobs. With --role, the role's variable files
and task files are flattened into one job list.

The result is written to stdout unless --output is given. Nothing is written
when the conversion fails. Tasks using a module without a translation become
ECHO jobs.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		var buf bytes.Buffer
		if err := runConvert(cfg, &buf); err != nil {
			return err
		}

		if convertOutput == "" {
			_, err := io.Copy(cmd.OutOrStdout(), &buf)
			return err
		}
		if err := os.WriteFile(convertOutput, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", convertOutput, err)
		}
		return nil
	},
}

func init() {
	convertCmd.Flags().StringVarP(&convertFile, "file", "f", "", "playbook, task file or vars file to convert")
	convertCmd.Flags().StringVarP(&convertRole, "role", "r", "", "role directory to convert")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "write the result to this file instead of stdout")
	convertCmd.MarkFlagsMutuallyExclusive("file", "role")
	convertCmd.MarkFlagsOneRequired("file", "role")
	convertCmd.Long += "\n\nTranslated modules: " + strings.Join(modules.Supported(), ", ")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cfg *config.Config, w io.Writer) error {
	c := convert.New(cfg)

	if convertRole != "" {
		jobs, err := c.Role(convertRole)
		if err != nil {
			return err
		}
		return output.WriteJobs(w, jobs)
	}

	res, err := c.File(convertFile)
	if err != nil {
		return err
	}
	if res.IsPlaybook() {
		return output.WritePlays(w, res.Plays)
	}
	return output.WriteJobs(w, res.Jobs)
}
