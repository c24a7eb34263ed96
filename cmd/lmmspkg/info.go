// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lmmspkg/lmms-pkg/pkg/packager"
)

func newInfoCommand(app *App) *cobra.Command {
	format := formatText

	infoCmd := &cobra.Command{
		Use:   "info <package.mmpk>",
		Short: "Describe the projects and files in a package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.progress().Debug("Reading package", "path", args[0])
			report, err := packager.Info(args[0])
			if err != nil {
				return app.fail(err)
			}

			w := cmd.OutOrStdout()
			if format != formatText {
				if encErr := encode(w, format, report); encErr != nil {
					return app.fail(encErr)
				}
				return nil
			}
			printInfoReport(w, report)
			return nil
		},
	}

	infoCmd.Flags().Var(&format, "format", "output format: text, json or toml")

	return infoCmd
}

func printInfoReport(w io.Writer, report *packager.InfoReport) {
	fmt.Fprintln(w, TitleStyle.Render(report.Path))
	for _, p := range report.Projects {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s %s\n", KeyStyle.Render("project:"), p.Name)
		printField(w, "creator", p.Metadata.Creator+" "+p.Metadata.CreatorVersion)
		printField(w, "format version", p.Metadata.FormatVersion)
		printField(w, "type", p.Metadata.Type)
		printField(w, "tempo", p.Metadata.Tempo)
		printField(w, "time signature", p.Metadata.TimeSignature)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, KeyStyle.Render("files:"))
	if len(report.Entries) == 0 {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(none)"))
	}
	for _, e := range report.Entries {
		if e.IsDir {
			fmt.Fprintf(w, "  %s\n", entryNameStyle.Render(e.Name))
			continue
		}
		fmt.Fprintf(w, "  %s %s\n", entryNameStyle.Render(e.Name), SubtitleStyle.Render(humanSize(e.Size)))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d entries, %d resource files\n", report.Total, report.Resources)
}

func printField(w io.Writer, label, value string) {
	if strings.TrimSpace(value) == "" {
		value = SubtitleStyle.Render("(unknown)")
	}
	fmt.Fprintf(w, "  %-15s %s\n", label+":", value)
}

func humanSize(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
