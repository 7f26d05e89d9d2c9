package main

import (
	"fmt"
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/vango-dev/hive/pkg/store"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// moduleInfo describes one module for inspect output.
type moduleInfo struct {
	Path    string   `json:"path"`
	State   []string `json:"state"`
	Getters []string `json:"getters"`
	Setters []string `json:"setters"`
	Actions []string `json:"actions"`
}

func newInspectCommand(root *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the module tree",
		Long:  `Build the store described by hive.yaml and print every module with its state keys and handlers.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "json" {
				return fmt.Errorf("invalid format %q: must be text or json", format)
			}
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}

			s := store.New(cfg.StoreConfig())
			modules := collectModules(s)
			if format == "json" {
				return writeInspectJSON(cmd.OutOrStdout(), cfg.Name, modules)
			}
			writeInspectText(cmd.OutOrStdout(), cfg.Name, modules)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text|json)")

	return cmd
}

// collectModules walks the tree depth first, children in name order.
func collectModules(s *store.Store) []moduleInfo {
	out := []moduleInfo{{
		Path:    s.Path(),
		State:   s.State().Keys(),
		Getters: s.Getters(),
		Setters: s.Setters(),
		Actions: s.Actions(),
	}}
	for _, name := range s.Modules() {
		child, _ := s.Child(name)
		out = append(out, collectModules(child)...)
	}
	return out
}

func writeInspectText(w io.Writer, name string, modules []moduleInfo) {
	fmt.Fprintln(w, name)
	for _, m := range modules {
		path := m.Path
		if path == "" {
			path = "(root)"
		}
		fmt.Fprintf(w, "\n%s\n", path)
		fmt.Fprintf(w, "  state:   %s\n", list(m.State))
		fmt.Fprintf(w, "  getters: %s\n", list(m.Getters))
		fmt.Fprintf(w, "  setters: %s\n", list(m.Setters))
		fmt.Fprintf(w, "  actions: %s\n", list(m.Actions))
	}
}

func writeInspectJSON(w io.Writer, name string, modules []moduleInfo) error {
	data, err := jsonAPI.MarshalIndent(map[string]any{
		"name":    name,
		"modules": modules,
	}, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

func list(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
