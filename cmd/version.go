package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/tass-io/predictor/pkg/env"
)

type VersionInfo struct {
	Service   string
	Version   string
	GoVersion string
	Compiler  string
	Platform  string
}

func (info *VersionInfo) String() string {
	return fmt.Sprintf("{%s version: %s, Go version: %s, Compiler: %s, Platform: %s}",
		info.Service, info.Version, info.GoVersion, info.Compiler, info.Platform)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the predictor version.",
	Run: func(cmd *cobra.Command, args []string) {
		info := &VersionInfo{
			Service:   env.ServiceName,
			Version:   env.Version,
			GoVersion: runtime.Version(),
			Compiler:  runtime.Compiler,
			Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		}
		fmt.Fprintln(cmd.OutOrStdout(), info.String())
	},
}
