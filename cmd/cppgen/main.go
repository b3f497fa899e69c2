// cppgen generates C++ artifacts from serialized descriptor sets without
// running inside protoc. Defaults come from cppgen.yaml when present; flags
// and CPPGEN_* environment variables override it.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cppgen/internal/logging"
)

var log = logging.NewLogger("cppgen")

const version = "0.3.0"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cppgen",
		Short: "C++ code-generation front end for protobuf descriptor sets",
		Long: `cppgen plans and writes the C++ artifacts of protobuf schema units.

It consumes a serialized FileDescriptorSet (protoc --descriptor_set_out)
and writes headers and sources under an output root, honoring the same
generator parameters protoc would forward to the cppgen plugin.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetDebug(viper.GetBool("debug"))
		},
	}

	flags := root.PersistentFlags()
	flags.BoolP("debug", "D", false, "enable debug logging")
	viper.BindPFlags(flags)

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newOptionsCmd())
	return root
}

func main() {
	viper.SetEnvPrefix("cppgen")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "cppgen:", err)
		os.Exit(1)
	}
}
