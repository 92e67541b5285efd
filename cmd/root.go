package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/cube2222/ndarray/nd"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ndarray <type> [literal]",
	Args:  cobra.RangeArgs(1, 2),
	Short: "Assign a literal to a typed array and print it back.",
	Long: `Allocates an empty array of the given type, assigns the literal to it and
prints the result. The literal is read from standard input if omitted.`,
	Example: `ndarray '{x: int32; y: string; z: bool}' '[3, "test", false]'
ndarray '2, Var, {count: int32; size: string(1, "A")}' '{"count": 1, "size": "Z"}' --field count
echo '[[0, 0], [3, 5]]' | ndarray '2, {x: int32; y: int32}' --output table`,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch profileMode {
		case "":
		case "cpu":
			defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
		case "mem":
			defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet).Stop()
		default:
			return fmt.Errorf("unknown profile mode '%s', expected cpu or mem", profileMode)
		}

		env, err := loadEnvironment()
		if err != nil {
			return err
		}
		defer env.Close()

		t, err := env.parseType(args[0])
		if err != nil {
			return err
		}
		if debugDump {
			spew.Fdump(cmd.ErrOrStderr(), t)
		}

		var data []byte
		if len(args) == 2 {
			data = []byte(args[1])
		} else {
			data, err = io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("couldn't read literal from standard input: %w", err)
			}
		}
		inputFormat, err := env.flagOrConfig(cmd, "input", "input")
		if err != nil {
			return err
		}
		v, err := parseLiteral(inputFormat, data)
		if err != nil {
			return err
		}

		arr := nd.Empty(t)
		start := time.Now()
		if err := arr.Assign(v); err != nil {
			return fmt.Errorf("couldn't assign literal: %w", err)
		}
		log.Printf("assigned %s into storage %s in %s", t, arr.StorageID(), time.Since(start))

		views := []*nd.Array{arr}
		if len(fieldPaths) > 0 {
			views = views[:0]
			for _, path := range fieldPaths {
				view, err := arr.FieldPath(path)
				if err != nil {
					return fmt.Errorf("couldn't select field '%s': %w", path, err)
				}
				views = append(views, view)
			}
		}

		outputFormat, err := env.flagOrConfig(cmd, "output", "format")
		if err != nil {
			return err
		}
		return env.printArrays(outputFormat, cmd.OutOrStdout(), views)
	},
}

func Execute(ctx context.Context) {
	cobra.CheckErr(rootCmd.ExecuteContext(ctx))
}

var fieldPaths []string
var debugDump bool
var profileMode string

func init() {
	rootCmd.Flags().String("input", "json", "Literal input format: json or yaml.")
	rootCmd.Flags().String("output", "literal", "Output format: literal, json or table.")
	rootCmd.Flags().StringArrayVar(&fieldPaths, "field", nil, "Print only the given dot separated field path. Can be repeated.")
	rootCmd.Flags().BoolVar(&debugDump, "debug", false, "Dump the parsed type to standard error.")
	rootCmd.Flags().StringVar(&profileMode, "profile", "", "Write a cpu or mem profile to the current directory.")
}
