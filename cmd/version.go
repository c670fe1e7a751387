package cmd

import (
	"fmt"
	"io"
	"runtime"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/penwyp/claudestat/config"
)

// Build information set by the linker
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

type VersionInfo struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time"`
	GitCommit string `json:"git_commit"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	Compiler  string `json:"compiler"`
}

func currentVersion() VersionInfo {
	return VersionInfo{
		Version:   config.Version,
		BuildTime: BuildTime,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		Compiler:  runtime.Compiler,
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version information including build details. Use -o json or -o short to change the format.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("output")
			info := currentVersion()
			w := cmd.OutOrStdout()

			switch format {
			case "json":
				return outputVersionJSON(w, info)
			case "short":
				_, err := fmt.Fprintln(w, info.Version)
				return err
			default:
				return outputVersionDefault(w, info)
			}
		},
	}
}

func outputVersionDefault(w io.Writer, info VersionInfo) error {
	fmt.Fprintf(w, "claudestat - Claude Code usage report\n")
	fmt.Fprintf(w, "Version:     %s\n", info.Version)
	if info.GitCommit != "unknown" {
		fmt.Fprintf(w, "Git Commit:  %s\n", info.GitCommit)
	}
	if info.BuildTime != "unknown" {
		fmt.Fprintf(w, "Build Time:  %s\n", info.BuildTime)
	}
	fmt.Fprintf(w, "Go Version:  %s\n", info.GoVersion)
	fmt.Fprintf(w, "OS/Arch:     %s/%s\n", info.OS, info.Arch)
	_, err := fmt.Fprintf(w, "Compiler:    %s\n", info.Compiler)
	return err
}

func outputVersionJSON(w io.Writer, info VersionInfo) error {
	data, err := sonic.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = w.Write([]byte("\n"))
	return err
}
