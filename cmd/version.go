package cmd

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/killallgit/transcribe-relay/api/types"
	"github.com/spf13/cobra"
)

// Set with -ldflags "-X github.com/killallgit/transcribe-relay/cmd.Version=..."
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print relay build information",
	Long: `Print the build of this transcribe-relay binary.

The same version, commit and build time are served by GET /version,
so the output can be compared with a running relay. Use --json to get
that response body without starting the server.`,
	Args: cobra.NoArgs,
	RunE: runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolP("short", "s", false, "print just the version number")
	versionCmd.Flags().Bool("json", false, "print the build info as JSON")
}

func runVersion(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	info := buildInfo()

	if short, _ := cmd.Flags().GetBool("short"); short {
		fmt.Fprintf(out, "v%s\n", info.Version)
		return nil
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	fmt.Fprintf(out, "transcribe-relay v%s\n", info.Version)
	fmt.Fprintf(out, "  commit:   %s\n", info.GitCommit)
	fmt.Fprintf(out, "  built:    %s\n", info.BuildTime)
	fmt.Fprintf(out, "  runtime:  %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return nil
}

// buildInfo is shared with the /version endpoint
func buildInfo() types.BuildInfo {
	return types.BuildInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
	}
}
