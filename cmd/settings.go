package cmd

import (
	"fmt"

	"feature-manifest/core/feature"
	"feature-manifest/core/settings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// settingsCmd represents the settings command
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage feature settings stored in the database",
	Long: `Settings stored in the feature_settings table override the defaults of the
definition when settings.use_database is enabled.`,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <feature> <key> <value>",
	Short: "Set a feature setting",
	Long:  `Values are typed: true/false become booleans, numbers become numbers, null becomes null and anything else is a string.`,
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, store, err := openSettings()
		if err != nil {
			return err
		}

		value := settings.Parse(args[2])
		if err := store.Put(cmd.Context(), feature.ID(args[0]), args[1], value); err != nil {
			return err
		}
		rt.logger.Info("Setting stored",
			zap.String("feature", args[0]),
			zap.String("key", args[1]),
			zap.Stringer("kind", value.Kind()),
			zap.Stringer("value", value))
		return nil
	},
}

var settingsListCmd = &cobra.Command{
	Use:   "list [feature]",
	Short: "List stored settings",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := openSettings()
		if err != nil {
			return err
		}

		var id feature.ID
		if len(args) == 1 {
			id = feature.ID(args[0])
		}
		rows, err := store.List(cmd.Context(), id)
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.SetStyle(table.StyleRounded)
		t.AppendHeader(table.Row{"Feature", "Key", "Value", "Updated"})
		for _, row := range rows {
			t.AppendRow(table.Row{row.Feature, row.Key, row.Value, row.UpdatedAt.Format("2006-01-02 15:04:05")})
		}
		t.AppendFooter(table.Row{"", "", fmt.Sprintf("%d settings", len(rows)), ""})
		t.Render()
		return nil
	},
}

var settingsDeleteCmd = &cobra.Command{
	Use:   "delete <feature> <key>",
	Short: "Delete a stored setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, store, err := openSettings()
		if err != nil {
			return err
		}

		removed, err := store.Delete(cmd.Context(), feature.ID(args[0]), args[1])
		if err != nil {
			return err
		}
		if !removed {
			return fmt.Errorf("setting %s.%s not found", args[0], args[1])
		}
		rt.logger.Info("Setting deleted", zap.String("feature", args[0]), zap.String("key", args[1]))
		return nil
	},
}

func openSettings() (*runtime, *settings.DBStore, error) {
	rt, err := newRuntime()
	if err != nil {
		return nil, nil, err
	}
	store, err := rt.settingsStore()
	if err != nil {
		return nil, nil, fmt.Errorf("database connection required: %w", err)
	}
	return rt, store, nil
}

func init() {
	RootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsSetCmd, settingsListCmd, settingsDeleteCmd)
}
