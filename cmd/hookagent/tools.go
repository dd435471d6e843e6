/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"chainguard.dev/hookagent/agents/toolcall"
	"chainguard.dev/hookagent/config"
)

func newToolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Inspect and invoke the agent's tools",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List registered tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := loadRegistry(cmd)
			if err != nil {
				return err
			}
			return writeToolTable(cmd.OutOrStdout(), reg.Definitions())
		},
	}

	var (
		rawArgs []string
		output  string
	)
	runCmd := &cobra.Command{
		Use:   "run <tool>",
		Short: "Invoke one tool and print its response",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			toolArgs, err := parseToolArgs(rawArgs)
			if err != nil {
				return err
			}
			reg, err := loadRegistry(cmd)
			if err != nil {
				return err
			}
			if _, ok := reg.Lookup(args[0]); !ok {
				return fmt.Errorf("unknown tool %q", args[0])
			}
			resp := reg.Invoke(cmd.Context(), args[0], toolArgs)
			if err := writeResponse(cmd.OutOrStdout(), output, resp); err != nil {
				return err
			}
			if msg, ok := resp["error"]; ok {
				return fmt.Errorf("%s: %v", args[0], msg)
			}
			return nil
		},
	}
	runCmd.Flags().StringArrayVar(&rawArgs, "arg", nil, "Tool argument as key=value (repeatable)")
	runCmd.Flags().StringVarP(&output, "output", "o", "json", "Output format: json or yaml")

	cmd.AddCommand(listCmd, runCmd)
	return cmd
}

func loadRegistry(cmd *cobra.Command) (*toolcall.Registry, error) {
	ctx := cmd.Context()
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	c, err := newComponents(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return c.registry(), nil
}

// parseToolArgs turns key=value pairs into tool arguments. Values stay
// strings; tools convert them to the declared parameter type.
func parseToolArgs(raw []string) (map[string]any, error) {
	args := make(map[string]any, len(raw))
	for _, kv := range raw {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid --arg %q, expected key=value", kv)
		}
		args[strings.TrimSpace(k)] = v
	}
	return args, nil
}

func writeResponse(w io.Writer, format string, resp map[string]any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(resp); err != nil {
			return err
		}
		return enc.Close()
	default:
		return errors.New("output must be json or yaml")
	}
}

func writeToolTable(w io.Writer, defs []toolcall.Definition) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
				Formatting: tw.CellFormatting{AutoFormat: tw.Off},
			},
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
			MaxWidth: 120,
		}),
		tablewriter.WithHeader([]string{"Tool", "Parameters", "Description"}),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{Left: tw.On, Top: tw.Off, Right: tw.On, Bottom: tw.Off},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
	for _, d := range defs {
		params := make([]string, 0, len(d.Parameters))
		for _, p := range d.Parameters {
			name := p.Name
			if p.Required {
				name += "*"
			}
			params = append(params, name)
		}
		if err := table.Append([]string{d.Name, strings.Join(params, ", "), d.Description}); err != nil {
			return err
		}
	}
	return table.Render()
}
