// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"

	"gotox/internal/host"

	"github.com/spf13/cobra"
)

var (
	listFile string

	listCmd = &cobra.Command{
		Use:   "list",
		Short: "List the configured test environments",
		RunE:  runList,
	}
)

func init() {
	listCmd.Flags().StringVarP(&listFile, "file", "c", "gotox.toml", "targets file")
}

func runList(cmd *cobra.Command, args []string) error {
	file, err := host.LoadFile(listFile)
	if err != nil {
		return reportError(err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, TitleStyle.Render("environments")+SubtitleStyle.Render(" ("+file.Path()+")"))
	for _, name := range file.Tox.EnvList {
		env := file.Envs[name]
		base := env.BasePython
		if base == "" {
			base = "default"
		}
		fmt.Fprintf(out, "  %s  %s\n",
			CmdStyle.Render(name),
			SubtitleStyle.Render(fmt.Sprintf("python=%s deps=%d commands=%d",
				base, len(env.Deps), len(env.Commands))))
	}
	return nil
}
