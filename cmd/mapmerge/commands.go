package main

import (
	"github.com/spf13/cobra"

	"mapmerge/internal/diagnostic"
	"mapmerge/internal/format"
	"mapmerge/internal/pipeline"
)

// classpathFlags registers the hierarchy inputs shared by the completing
// commands.
func classpathFlags(cmd *cobra.Command, cp *pipeline.Classpath) {
	cmd.Flags().StringArrayVar(&cp.Program, "program", nil, "class dump pattern of the classes being mapped (repeatable)")
	cmd.Flags().StringArrayVar(&cp.Libraries, "library", nil, "class dump pattern of library classes (repeatable)")
}

func required(cmd *cobra.Command, names ...string) {
	for _, n := range names {
		_ = cmd.MarkFlagRequired(n)
	}
}

func (a *app) finish(cmd *cobra.Command, r *diagnostic.Report, err error) error {
	if err != nil {
		return err
	}

	printReport(cmd.OutOrStdout(), r)

	return nil
}

func (a *app) generateMappingsCmd() *cobra.Command {
	var in pipeline.GenerateMappingsInput

	cmd := &cobra.Command{
		Use:   "generate-mappings",
		Short: "Merge vanilla mappings with parameter names and complete them",
		Long: `Reads the Proguard vanilla mappings and a Tiny file of parameter names,
keeps parameter names only for methods the vanilla mappings know, completes
the result against the program classes and writes obf -> deobf Tiny.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.runner().GenerateMappings(cmd.Context(), in)
			return a.finish(cmd, r, err)
		},
	}

	cmd.Flags().StringVar(&in.VanillaMappings, "vanilla", "", "Proguard vanilla mappings")
	cmd.Flags().StringVar(&in.ParamMappings, "params", "", "Tiny parameter mappings (obf -> params)")
	cmd.Flags().StringVarP(&in.Output, "output", "o", "", "output Tiny file")
	classpathFlags(cmd, &in.Classpath)
	required(cmd, "vanilla", "params", "output", "program")

	return cmd
}

func (a *app) generateSpigotMappingsCmd() *cobra.Command {
	var in pipeline.GenerateSpigotMappingsInput

	cmd := &cobra.Command{
		Use:   "generate-spigot-mappings",
		Short: "Build spigot -> deobf mappings from the Spigot CSRG files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.runner().GenerateSpigotMappings(cmd.Context(), in)
			return a.finish(cmd, r, err)
		},
	}

	f := cmd.Flags()
	f.StringVar(&in.ClassMappings, "classes", "", "Spigot class CSRG")
	f.StringVar(&in.MemberMappings, "members", "", "Spigot member CSRG")
	f.StringVar(&in.LoggerFields, "loggers", "", "logger field table")
	f.StringVar(&in.PackageMappings, "package-mappings", "", "Spigot package CSRG")
	f.StringVar(&in.SyntheticMethods, "synths", "", "synthetic method table")
	f.StringVar(&in.SourceMappings, "source", "", "obf -> deobf Tiny mappings")
	f.StringVar(&in.ParamIndexes, "param-indexes", "", "parameter index table")
	f.StringVarP(&in.Output, "output", "o", "", "spigot -> deobf Tiny output")
	f.StringVar(&in.NotchToSpigot, "notch-to-spigot", "", "obf -> spigot Tiny output")
	f.StringVar(&in.SpigotFields, "spigot-fields", "", "spigot field CSRG output")
	required(cmd, "classes", "members", "source", "output")

	return cmd
}

func (a *app) cleanupCmd(use, short string, source bool) *cobra.Command {
	var in pipeline.CleanupInput

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			runner := a.runner()

			run := runner.CleanupMappings
			if source {
				run = runner.CleanupSourceMappings
			}

			r, err := run(cmd.Context(), in)

			return a.finish(cmd, r, err)
		},
	}

	cmd.Flags().StringVar(&in.Mappings, "mappings", "", "spigot -> deobf Tiny mappings")
	cmd.Flags().StringVarP(&in.Output, "output", "o", "", "output Tiny file")
	cmd.Flags().StringVar(&in.CaseOnlyNameChanges, "case-only", "", "JSON output of case-only class renames")
	classpathFlags(cmd, &in.Classpath)
	required(cmd, "mappings", "output", "program")

	return cmd
}

func (a *app) generateReobfMappingsCmd() *cobra.Command {
	var in pipeline.GenerateReobfMappingsInput

	cmd := &cobra.Command{
		Use:   "generate-reobf-mappings",
		Short: "Build deobf -> spigot mappings for reobfuscating compiled classes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.runner().GenerateReobfMappings(cmd.Context(), in)
			return a.finish(cmd, r, err)
		},
	}

	f := cmd.Flags()
	f.StringVar(&in.Mappings, "mappings", "", "spigot -> deobf Tiny mappings")
	f.StringVar(&in.NotchToSpigot, "notch-to-spigot", "", "obf -> spigot Tiny mappings")
	f.StringVar(&in.SourceMappings, "source", "", "obf -> deobf Tiny mappings")
	f.StringVar(&in.RecompiledClasses, "recompiled", "", "list of recompiled outermost classes")
	f.StringVarP(&in.Output, "output", "o", "", "output Tiny file")
	classpathFlags(cmd, &in.Classpath)
	required(cmd, "mappings", "notch-to-spigot", "source", "output", "program")

	return cmd
}

func (a *app) convertCmd(use, short string, reverse bool) *cobra.Command {
	in := pipeline.ConvertInput{Reverse: reverse}

	var inFmt, outFmt string

	cmd := &cobra.Command{
		Use:   use + " <input> <output>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Input, in.Output = args[0], args[1]

			var err error

			if inFmt != "" {
				if in.InputFormat, err = format.ParseKind(inFmt); err != nil {
					return err
				}
			}

			if outFmt != "" {
				if in.OutputFormat, err = format.ParseKind(outFmt); err != nil {
					return err
				}
			}

			r, err := a.runner().Convert(cmd.Context(), in)

			return a.finish(cmd, r, err)
		},
	}

	cmd.Flags().StringVar(&in.From, "from", "", "from-namespace of the input")
	cmd.Flags().StringVar(&in.To, "to", "", "to-namespace of the input")
	cmd.Flags().StringVar(&inFmt, "input-format", "", "input format (default from extension)")
	cmd.Flags().StringVar(&outFmt, "output-format", "", "output format (default from extension)")
	required(cmd, "from", "to")

	return cmd
}
