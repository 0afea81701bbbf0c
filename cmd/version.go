package cmd

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the Quizy version and build details",
	Run: func(cmd *cobra.Command, args []string) {
		short, _ := cmd.Flags().GetBool("short")
		info, _ := debug.ReadBuildInfo()
		printVersion(cmd.OutOrStdout(), version, info, short)
	},
}

// printVersion writes the release version. Unless short is set it adds the
// Go runtime and, when the binary was built from a checkout, the commit.
func printVersion(w io.Writer, v string, info *debug.BuildInfo, short bool) {
	if v == "(devel)" && info != nil && info.Main.Version != "" {
		v = info.Main.Version
	}
	if short {
		fmt.Fprintln(w, v)
		return
	}

	fmt.Fprintf(w, "quizy %s\n", v)
	fmt.Fprintf(w, "  go:     %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	if info == nil {
		return
	}

	var rev, modified string
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			modified = s.Value
		}
	}
	if rev == "" {
		return
	}
	if len(rev) > 12 {
		rev = rev[:12]
	}
	if modified == "true" {
		rev += " (dirty)"
	}
	fmt.Fprintf(w, "  commit: %s\n", rev)
}

func init() {
	versionCmd.Flags().Bool("short", false, "Print only the version number")
}
