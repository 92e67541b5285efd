package cmd

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/cube2222/ndarray/config"
	"github.com/cube2222/ndarray/dtype"
	"github.com/cube2222/ndarray/literal"
	"github.com/cube2222/ndarray/nd"
	"github.com/cube2222/ndarray/outputs/formats"
)

const typeCacheSize = 1024

// environment is what every command needs: the config and a type parser
// aware of the configured aliases.
type environment struct {
	cfg   *config.Config
	types *dtype.ParseCache
}

func loadEnvironment() (*environment, error) {
	cfg, err := config.Read()
	if err != nil {
		return nil, fmt.Errorf("couldn't read config: %w", err)
	}
	aliases, err := cfg.TypeAliases()
	if err != nil {
		return nil, fmt.Errorf("couldn't load type aliases: %w", err)
	}
	types, err := dtype.NewParseCache(typeCacheSize, dtype.WithAliases(aliases))
	if err != nil {
		return nil, fmt.Errorf("couldn't create type cache: %w", err)
	}
	return &environment{
		cfg:   cfg,
		types: types,
	}, nil
}

func (env *environment) Close() {
	env.types.Close()
}

func (env *environment) parseType(text string) (dtype.Type, error) {
	t, err := env.types.Parse(text)
	if err != nil {
		return dtype.Type{}, fmt.Errorf("couldn't parse type: %w", err)
	}
	return t, nil
}

func parseLiteral(format string, data []byte) (literal.Value, error) {
	var v literal.Value
	var err error
	switch format {
	case "json":
		v, err = literal.ParseJSON(data)
	case "yaml":
		v, err = literal.ParseYAML(data)
	default:
		return nil, fmt.Errorf("unknown input format '%s', expected json or yaml", format)
	}
	if err != nil {
		return nil, fmt.Errorf("couldn't parse literal: %w", err)
	}
	return v, nil
}

// flagOrConfig returns the flag's value if it was set explicitly, otherwise
// the value under the given output config key, otherwise the flag's default.
func (env *environment) flagOrConfig(cmd *cobra.Command, flag, key string) (string, error) {
	value, err := cmd.Flags().GetString(flag)
	if err != nil {
		return "", err
	}
	if cmd.Flags().Changed(flag) {
		return value, nil
	}
	out, err := config.GetString(env.cfg.Output, key, config.WithDefault(value))
	if err != nil {
		return "", fmt.Errorf("invalid output config '%s': %w", key, err)
	}
	return out, nil
}

func (env *environment) newFormatter(name string, w io.Writer) (formats.Formatter, error) {
	f, err := formats.New(name, w)
	if err != nil {
		return nil, err
	}
	if table, ok := f.(*formats.TableFormatter); ok {
		colWidth, err := config.GetInt(env.cfg.Output, "table.colWidth", config.WithDefault(24))
		if err != nil {
			return nil, fmt.Errorf("invalid output config 'table.colWidth': %w", err)
		}
		rowLine, err := config.GetBool(env.cfg.Output, "table.rowLine", config.WithDefault(false))
		if err != nil {
			return nil, fmt.Errorf("invalid output config 'table.rowLine': %w", err)
		}
		table.SetColWidth(colWidth)
		table.SetRowLine(rowLine)
	}
	return f, nil
}

// printArrays reads each array back and prints it with a fresh formatter.
func (env *environment) printArrays(format string, w io.Writer, arrays []*nd.Array) error {
	for _, arr := range arrays {
		start := time.Now()
		v, err := arr.ToLiteral()
		if err != nil {
			return fmt.Errorf("couldn't read array: %w", err)
		}
		log.Printf("read back %s from storage %s in %s", arr.DType(), arr.StorageID(), time.Since(start))

		f, err := env.newFormatter(format, w)
		if err != nil {
			return err
		}
		f.SetSchema(arr.DType())
		if err := f.Write(v); err != nil {
			return fmt.Errorf("couldn't write output: %w", err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("couldn't close output: %w", err)
		}
	}
	return nil
}
