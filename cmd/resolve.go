package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"feature-manifest/core/feature"
	"feature-manifest/core/manifest"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	resolveSet     []string
	resolveJSON    bool
	resolveArchive bool
)

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve [feature...]",
	Short: "Resolve the manifest for an evaluation context",
	Long: `Resolves every feature of the definition for the context given with --set
and prints the result. Naming features limits the output to them.`,
	Example: `  feature-manifest resolve --set env=prod --set region=eu
  feature-manifest resolve checkout --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		evalCtx, err := parseAssignments(resolveSet)
		if err != nil {
			return err
		}

		rt, err := newRuntime()
		if err != nil {
			return err
		}

		svc, err := rt.service(cmd.Context(), resolveArchive)
		if err != nil {
			return err
		}

		m, key, err := svc.Manifest(cmd.Context(), evalCtx)
		if err != nil {
			return err
		}

		ids := m.Features()
		if len(args) > 0 {
			ids = make([]feature.ID, 0, len(args))
			for _, arg := range args {
				id := feature.ID(arg)
				if _, err := m.Descriptor(id); err != nil {
					return err
				}
				ids = append(ids, id)
			}
		}

		if resolveArchive {
			if _, err := svc.Archive(cmd.Context(), evalCtx); err != nil {
				return fmt.Errorf("failed to archive manifest: %w", err)
			}
			rt.logger.Info("Manifest archived", zap.String("key", key))
		}

		if resolveJSON {
			return writeManifestJSON(cmd.OutOrStdout(), m, ids)
		}
		writeManifestTable(cmd.OutOrStdout(), m, ids, key)
		return nil
	},
}

func writeManifestJSON(w io.Writer, m *manifest.Manifest, ids []feature.ID) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if len(ids) == m.Len() {
		return enc.Encode(m)
	}
	subset := make(map[feature.ID]manifest.Descriptor, len(ids))
	for _, id := range ids {
		d, _ := m.Descriptor(id)
		subset[id] = d
	}
	return enc.Encode(subset)
}

func writeManifestTable(w io.Writer, m *manifest.Manifest, ids []feature.ID, key string) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Feature", "Available", "Depends On", "Settings"})

	available := 0
	for _, id := range ids {
		d, _ := m.Descriptor(id)

		status := text.FgRed.Sprint("no")
		if d.IsAvailable() {
			status = text.FgGreen.Sprint("yes")
			available++
		}

		deps := make([]string, 0, len(d.Dependencies()))
		for _, dep := range d.Dependencies() {
			deps = append(deps, string(dep))
		}

		s := d.Settings()
		pairs := make([]string, 0, len(s))
		for _, k := range s.Keys() {
			pairs = append(pairs, k+"="+s.Get(k).String())
		}

		t.AppendRow(table.Row{id, status, strings.Join(deps, ", "), strings.Join(pairs, "\n")})
	}

	t.AppendFooter(table.Row{"", fmt.Sprintf("%d/%d", available, len(ids)), "", "key " + shortKey(key)})
	t.Render()
}

func shortKey(key string) string {
	if len(key) > 12 {
		return key[:12]
	}
	return key
}

func init() {
	RootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringArrayVar(&resolveSet, "set", nil, "Context setting as key=value (repeatable)")
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "Print the manifest as JSON")
	resolveCmd.Flags().BoolVar(&resolveArchive, "archive", false, "Store the manifest in the storage bucket")
}

