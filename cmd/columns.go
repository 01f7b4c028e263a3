package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/xhad/columnar/internal/models"
	"github.com/xhad/columnar/internal/types"
	"github.com/xhad/columnar/pkg/store"
)

func newColumnsCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "columns",
		Short: "Manage the extraction columns",
	}

	withStore := func(cmd *cobra.Command, fn func(types.ColumnStore) error) error {
		cfg, err := loadConfig(*configPath, false)
		if err != nil {
			return err
		}
		columns, err := openColumns(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer columns.Close()
		return fn(columns)
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List columns in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(s types.ColumnStore) error {
				cols, err := s.Columns(cmd.Context())
				if err != nil {
					return err
				}
				if len(cols) == 0 {
					color.Yellow("No columns configured")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderColumns(cols))
				return nil
			})
		},
	}

	var name, rule string
	add := &cobra.Command{
		Use:   "add",
		Short: "Append a column",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return errors.New("--name is required")
			}
			return withStore(cmd, func(s types.ColumnStore) error {
				col, err := s.AddColumn(cmd.Context(), name, rule)
				if err != nil {
					return err
				}
				color.Green("✓ Added column %s (%s)", col.Name, col.ID)
				return nil
			})
		},
	}
	add.Flags().StringVar(&name, "name", "", "Column name")
	add.Flags().StringVar(&rule, "rule", "", "Extraction rule")

	var newName, newRule string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a column's name or rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(s types.ColumnStore) error {
				current, err := findColumn(cmd, s, args[0])
				if err != nil {
					return err
				}
				if cmd.Flags().Changed("name") {
					current.Name = newName
				}
				if cmd.Flags().Changed("rule") {
					current.ExtractionRule = newRule
				}
				if err := s.UpdateColumn(cmd.Context(), current); err != nil {
					return err
				}
				color.Green("✓ Updated column %s", current.ID)
				return nil
			})
		},
	}
	update.Flags().StringVar(&newName, "name", "", "New column name")
	update.Flags().StringVar(&newRule, "rule", "", "New extraction rule")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(s types.ColumnStore) error {
				if err := s.DeleteColumn(cmd.Context(), args[0]); err != nil {
					return err
				}
				color.Green("✓ Deleted column %s", args[0])
				return nil
			})
		},
	}

	cmd.AddCommand(list, add, update, del)
	return cmd
}

func findColumn(cmd *cobra.Command, s types.ColumnProvider, id string) (models.Column, error) {
	cols, err := s.Columns(cmd.Context())
	if err != nil {
		return models.Column{}, err
	}
	for _, c := range cols {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Column{}, fmt.Errorf("column %s: %w", id, store.ErrColumnNotFound)
}
