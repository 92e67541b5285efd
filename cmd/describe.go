package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"

	"github.com/cube2222/ndarray/graph"
	"github.com/cube2222/ndarray/outputs/formats"
)

var describeCmd = &cobra.Command{
	Use:   "describe <type>",
	Args:  cobra.ExactArgs(1),
	Short: "Describe the memory layout of a type.",
	Example: `ndarray describe '2, Var, {count: int32; size: string(1, "A")}'
ndarray describe '{x: 2, int16; y: {a: string; b: float64}}' --tree
ndarray describe '3, {x: int32; y: int32}' --graph | dot -Tsvg > layout.svg`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnvironment()
		if err != nil {
			return err
		}
		defer env.Close()

		t, err := env.parseType(args[0])
		if err != nil {
			return err
		}

		switch {
		case describeOpen:
			g, err := graph.Show(t.Visualize())
			if err != nil {
				return fmt.Errorf("couldn't build graph: %w", err)
			}
			file, err := os.CreateTemp(os.TempDir(), "ndarray-describe-*.png")
			if err != nil {
				return fmt.Errorf("couldn't create temporary file: %w", err)
			}
			dot := exec.Command("dot", "-Tpng")
			dot.Stdin = strings.NewReader(g.String())
			dot.Stdout = file
			dot.Stderr = cmd.ErrOrStderr()
			if err := dot.Run(); err != nil {
				return fmt.Errorf("couldn't render graph: %w", err)
			}
			if err := file.Close(); err != nil {
				return fmt.Errorf("couldn't close temporary file: %w", err)
			}
			if err := open.Start(file.Name()); err != nil {
				return fmt.Errorf("couldn't open graph: %w", err)
			}
			return nil

		case describeGraph:
			g, err := graph.Show(t.Visualize())
			if err != nil {
				return fmt.Errorf("couldn't build graph: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), g.String())
			return err

		case describeTree:
			return formats.WriteTree(cmd.OutOrStdout(), t)
		}

		formats.WriteLayout(cmd.OutOrStdout(), t)
		return nil
	},
}

var describeTree bool
var describeGraph bool
var describeOpen bool

func init() {
	describeCmd.Flags().BoolVar(&describeTree, "tree", false, "Print the type as an indented tree.")
	describeCmd.Flags().BoolVar(&describeGraph, "graph", false, "Print the type as a Graphviz dot graph.")
	describeCmd.Flags().BoolVar(&describeOpen, "open", false, "Render the graph with dot and open it.")
	rootCmd.AddCommand(describeCmd)
}
