package cli

import (
	"github.com/spf13/cobra"
)

func (a *App) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Show version information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoStack: "true"},
		Run: func(cmd *cobra.Command, args []string) {
			a.io.Printf("BookVault Client\n")
			a.io.Printf("Version:    %s\n", a.build.Version)
			a.io.Printf("Build Date: %s\n", a.build.BuildDate)
			a.io.Printf("Git Commit: %s\n", a.build.GitCommit)
		},
	}
}
