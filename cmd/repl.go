package cmd

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/c-bata/go-prompt"
	"github.com/spf13/cobra"

	"github.com/cube2222/ndarray/dtype"
	"github.com/cube2222/ndarray/nd"
)

var replCmd = &cobra.Command{
	Use:   "repl <type>",
	Args:  cobra.ExactArgs(1),
	Short: "Interactively assign literals to an array of the given type.",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnvironment()
		if err != nil {
			return err
		}
		defer env.Close()

		inputFormat, err := env.flagOrConfig(cmd, "input", "input")
		if err != nil {
			return err
		}
		outputFormat, err := env.flagOrConfig(cmd, "output", "format")
		if err != nil {
			return err
		}

		s := &session{
			env:          env,
			out:          cmd.OutOrStdout(),
			inputFormat:  inputFormat,
			outputFormat: outputFormat,
		}
		if err := s.setType(args[0]); err != nil {
			return err
		}

		fmt.Fprintln(s.out, replHelp)
		prompt.New(
			func(line string) {
				if err := s.execute(line); err != nil {
					fmt.Fprintf(s.out, "error: %s\n", err)
				}
			},
			s.complete,
			prompt.OptionPrefix("ndarray> "),
			prompt.OptionTitle("ndarray"),
			prompt.OptionSetExitCheckerOnInput(func(in string, breakline bool) bool {
				return breakline && strings.TrimSpace(in) == "exit"
			}),
		).Run()
		return nil
	},
}

const replHelp = `<literal>      assign the literal to the array
show           print the array
field <path>   print the field at the dot separated path
type <type>    start over with an empty array of the given type
describe       print the layout of the current type
exit`

var replCommands = []prompt.Suggest{
	{Text: "show", Description: "print the array"},
	{Text: "field", Description: "print a field of the array"},
	{Text: "type", Description: "start over with a new type"},
	{Text: "describe", Description: "print the layout of the current type"},
	{Text: "exit", Description: "leave the repl"},
}

type session struct {
	env          *environment
	out          io.Writer
	inputFormat  string
	outputFormat string

	array      *nd.Array
	fieldPaths []prompt.Suggest
}

func (s *session) setType(text string) error {
	t, err := s.env.parseType(text)
	if err != nil {
		return err
	}
	s.array = nd.Empty(t)
	s.fieldPaths = nil
	for _, path := range structFieldPaths("", t) {
		s.fieldPaths = append(s.fieldPaths, prompt.Suggest{Text: path})
	}
	log.Printf("repl: new array of type %s, storage %s", t, s.array.StorageID())
	return nil
}

func (s *session) execute(line string) error {
	line = strings.TrimSpace(line)
	command, arg := line, ""
	if i := strings.IndexByte(line, ' '); i != -1 {
		command, arg = line[:i], strings.TrimSpace(line[i+1:])
	}

	switch command {
	case "", "exit":
		return nil
	case "show":
		return s.env.printArrays(s.outputFormat, s.out, []*nd.Array{s.array})
	case "field":
		if arg == "" {
			return fmt.Errorf("usage: field <path>")
		}
		view, err := s.array.FieldPath(arg)
		if err != nil {
			return err
		}
		return s.env.printArrays(s.outputFormat, s.out, []*nd.Array{view})
	case "type":
		if arg == "" {
			return fmt.Errorf("usage: type <type>")
		}
		return s.setType(arg)
	case "describe":
		fmt.Fprintln(s.out, s.array.DType())
		return nil
	}

	v, err := parseLiteral(s.inputFormat, []byte(line))
	if err != nil {
		return err
	}
	if err := s.array.Assign(v); err != nil {
		return fmt.Errorf("couldn't assign literal: %w", err)
	}
	return nil
}

func (s *session) complete(d prompt.Document) []prompt.Suggest {
	before := d.TextBeforeCursor()
	if strings.HasPrefix(before, "field ") {
		return prompt.FilterHasPrefix(s.fieldPaths, strings.TrimPrefix(before, "field "), false)
	}
	if strings.Contains(before, " ") {
		return nil
	}
	return prompt.FilterHasPrefix(replCommands, before, true)
}

// structFieldPaths lists the dot separated paths of all the struct fields under t's
// dimensions, recursively.
func structFieldPaths(prefix string, t dtype.Type) []string {
	t = t.Inner()
	if t.TypeID != dtype.TypeIDStruct {
		return nil
	}
	var out []string
	for _, field := range t.Struct.Fields {
		path := prefix + field.Name
		out = append(out, path)
		out = append(out, structFieldPaths(path+".", field.Type)...)
	}
	return out
}

func init() {
	replCmd.Flags().String("input", "json", "Literal input format: json or yaml.")
	replCmd.Flags().String("output", "literal", "Output format: literal, json or table.")
	rootCmd.AddCommand(replCmd)
}
