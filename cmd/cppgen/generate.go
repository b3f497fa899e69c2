package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"

	"cppgen/internal/cppemit"
	"cppgen/internal/generate"
	"cppgen/internal/manifest"
	"cppgen/internal/options"
	"cppgen/internal/sink"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate C++ artifacts from a serialized descriptor set",
		Long: `Generate headers and sources for the schema units of a descriptor set.

The descriptor set is the output of protoc --descriptor_set_out. Every unit
in the set is generated unless --file narrows the selection. Generator
parameters follow the option grammar protoc forwards to the plugin; run
'cppgen options' for the recognized keys.`,
		Args: cobra.NoArgs,
		RunE: runGenerate,
	}

	flags := cmd.Flags()
	flags.StringP("descriptor-set", "d", "", "serialized FileDescriptorSet (protoc --descriptor_set_out)")
	flags.StringP("out", "o", "", "output root for generated artifacts")
	flags.StringArrayP("param", "p", nil, "generator parameter (key or key=value); repeatable")
	flags.StringArray("file", nil, "generate only the named schema units; repeatable")
	flags.Bool("dry-run", false, "print the artifact names without writing them")
	flags.Bool("internal-runtime", false, "target the internal runtime instead of the opensource one")
	viper.BindPFlags(flags)
	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	m, err := manifest.Load(manifest.DefaultName)
	if err != nil {
		return err
	}

	descPath := viper.GetString("descriptor-set")
	outRoot := viper.GetString("out")
	parameter := strings.Join(viper.GetStringSlice("param"), ",")
	files := viper.GetStringSlice("file")
	dryRun := viper.GetBool("dry-run")

	if m != nil {
		if descPath == "" {
			descPath = m.DescriptorSet
		}
		if outRoot == "" {
			outRoot = m.Out
		}
		if parameter == "" {
			parameter = m.Parameter
		}
		if len(files) == 0 {
			files = m.Files
		}
	}
	if descPath == "" {
		return fmt.Errorf("no descriptor set: pass --descriptor-set or add one to %s", manifest.DefaultName)
	}
	if outRoot == "" && !dryRun {
		return fmt.Errorf("no output root: pass --out or add one to %s", manifest.DefaultName)
	}

	data, err := os.ReadFile(descPath)
	if err != nil {
		return fmt.Errorf("read descriptor set: %w", err)
	}
	var set descriptorpb.FileDescriptorSet
	if err := proto.Unmarshal(data, &set); err != nil {
		return fmt.Errorf("parse descriptor set %s: %w", descPath, err)
	}

	byName := make(map[string]*descriptorpb.FileDescriptorProto, len(set.GetFile()))
	for _, fd := range set.GetFile() {
		byName[fd.GetName()] = fd
	}

	units := files
	if len(units) == 0 {
		units = make([]string, 0, len(set.GetFile()))
		for _, fd := range set.GetFile() {
			units = append(units, fd.GetName())
		}
	}

	gen := &generate.Generator{
		OpensourceRuntime: !viper.GetBool("internal-runtime"),
		NewEmitter: func(unit generate.Unit, cfg options.Config) (generate.Emitter, error) {
			fd, ok := byName[unit.Name]
			if !ok {
				return nil, fmt.Errorf("no descriptor for %s", unit.Name)
			}
			return cppemit.New(fd, cfg), nil
		},
	}

	var out generate.Sink
	mem := sink.NewMemory()
	if dryRun {
		out = mem
	} else {
		out = &sink.Dir{Root: outRoot}
	}

	for _, name := range units {
		fd, ok := byName[name]
		if !ok {
			return fmt.Errorf("unit %s not in descriptor set %s", name, descPath)
		}
		unit := generate.Unit{Name: name, DeclaredOptimize: cppemit.DeclaredOptimize(fd)}
		if err := gen.Generate(unit, parameter, out); err != nil {
			return err
		}
		log.WithField("unit", name).Debug("unit generated")
	}

	if dryRun {
		for _, name := range mem.Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	}
	log.WithFields(logrus.Fields{"units": len(units), "out": outRoot}).Info("generation complete")
	return nil
}
