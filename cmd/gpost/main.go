package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/iley/gpost/internal/configurator"
	"github.com/iley/gpost/internal/job"
	"github.com/iley/gpost/internal/postproc"
)

var (
	v = viper.New()

	configFile    string
	outputFile    string
	postProcessor string
	toolsFile     string
	dumpOps       bool
)

var rootCmd = &cobra.Command{
	Use:   "gpost",
	Short: "G-code post-processor",
	Long:  "Turns CAM operation lists into G-code for a selected machine controller dialect.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return configurator.ProcessConfigFile(v, configFile)
	},
	SilenceErrors: true,
}

var renderCmd = &cobra.Command{
	Use:   "render <job.yaml>...",
	Short: "Render jobs to G-code",
	Long: "Render one or more job files. Each job is written next to its source with an .nc\n" +
		"extension unless -o is given; \"-o -\" writes to standard output.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 1 && outputFile != "" && outputFile != "-" {
			return fmt.Errorf("output file (-o) can only be used with a single job")
		}
		cmd.SilenceUsage = true

		opts := configurator.JobOptions(v)
		if toolsFile != "" {
			tools, err := job.LoadTools(toolsFile)
			if err != nil {
				return err
			}
			opts.Tools = tools
		}

		jobs := make([]postproc.Job, 0, len(args))
		for _, path := range args {
			j, err := job.Load(path, opts)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("postprocessor") {
				j.PostProcessor = postProcessor
			}
			jobs = append(jobs, j)
		}

		if dumpOps {
			for _, j := range jobs {
				fmt.Printf("%s:\n", j.Name)
				j.Program.Print(os.Stdout)
			}
			return nil
		}

		var failed bool
		for i, res := range postproc.RenderAll(postproc.DefaultRegistry(), jobs) {
			if res.Err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", args[i], res.Err)
				failed = true
				continue
			}
			if err := writeOutput(outputPath(args[i], outputFile), res.Output); err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", args[i], err)
				failed = true
			}
		}
		if failed {
			return fmt.Errorf("some jobs failed")
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List post-processor dialects",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range postproc.DefaultRegistry().Names() {
			fmt.Println(name)
		}
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		configurator.DiagnosticAllCfgPrint(v, os.Stdout)
	},
}

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Machining calculators",
}

var vshapeCmd = &cobra.Command{
	Use:   "vshape",
	Short: "Effective diameter of a V-shape tool at a given cut depth",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tool := configurator.VShape(v)
		dia, err := tool.Diameter()
		if err != nil {
			return err
		}
		fmt.Printf("Tool diameter: %.4f\n", dia)
		return nil
	},
}

var platingCmd = &cobra.Command{
	Use:   "plating",
	Short: "Current and time for electroplating a board",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := configurator.Plating(v)
		current, err := p.Current()
		if err != nil {
			return err
		}
		minutes, err := p.Time()
		if err != nil {
			return err
		}
		fmt.Printf("Current: %.4f A\n", current)
		fmt.Printf("Time: %.1f min\n", minutes)
		return nil
	},
}

func init() {
	configurator.SetDefaults(v)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "configuration file (default ./gpost.toml)")

	renderCmd.Flags().StringVarP(&outputFile, "o", "o", "", "output file name")
	renderCmd.Flags().StringVarP(&postProcessor, "postprocessor", "p", "", "dialect, overrides the job file")
	renderCmd.Flags().StringVar(&toolsFile, "tools", "", "JSON5 tool table merged into every job")
	renderCmd.Flags().BoolVar(&dumpOps, "ops", false, "print the parsed operations instead of rendering")
	renderCmd.Flags().Int("decimals", 4, "coordinate decimals")
	renderCmd.Flags().Int("fr-decimals", 2, "feedrate decimals")
	mustBind(configurator.CfgCoordDecimals, renderCmd.Flags().Lookup("decimals"))
	mustBind(configurator.CfgFeedDecimals, renderCmd.Flags().Lookup("fr-decimals"))

	vshapeCmd.Flags().Float64("tipdia", 0.2, "tip diameter")
	vshapeCmd.Flags().Float64("tipangle", 30, "tip angle in degrees")
	vshapeCmd.Flags().Float64("cutz", -0.05, "cut depth")
	mustBind(configurator.CfgVShapeTipDia, vshapeCmd.Flags().Lookup("tipdia"))
	mustBind(configurator.CfgVShapeTipAngle, vshapeCmd.Flags().Lookup("tipangle"))
	mustBind(configurator.CfgVShapeCutZ, vshapeCmd.Flags().Lookup("cutz"))

	platingCmd.Flags().Float64("length", 10, "board length in cm")
	platingCmd.Flags().Float64("width", 10, "board width in cm")
	platingCmd.Flags().Float64("density", 13, "current density in ASF")
	platingCmd.Flags().Float64("growth", 10, "copper growth in microns")
	mustBind(configurator.CfgPlatingLength, platingCmd.Flags().Lookup("length"))
	mustBind(configurator.CfgPlatingWidth, platingCmd.Flags().Lookup("width"))
	mustBind(configurator.CfgPlatingDensity, platingCmd.Flags().Lookup("density"))
	mustBind(configurator.CfgPlatingGrowth, platingCmd.Flags().Lookup("growth"))

	calcCmd.AddCommand(vshapeCmd, platingCmd)
	rootCmd.AddCommand(renderCmd, listCmd, configCmd, calcCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// outputPath is where the G-code for jobFile goes.
func outputPath(jobFile, flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return strings.TrimSuffix(jobFile, filepath.Ext(jobFile)) + ".nc"
}

func mustBind(key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}
