package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/grid/internal/editor"
)

func (a *app) newRowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "row",
		Short: "Manage rows",
	}
	cmd.AddCommand(a.newRowCreateCmd())
	cmd.AddCommand(a.newRowListCmd())
	cmd.AddCommand(a.newRowShowCmd())
	cmd.AddCommand(a.newRowDeleteCmd())
	return cmd
}

func (a *app) newRowCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Create an empty row",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEditor(func(ed *editor.Editor) error {
				row, err := ed.CreateRow()
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), row)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created row: %s\n", row.RowID)
				return nil
			})
		},
	}
}

func (a *app) newRowListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List rows",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEditor(func(ed *editor.Editor) error {
				rows, err := ed.Rows()
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), rows)
				}
				if len(rows) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No rows found.")
					return nil
				}
				lines := make([][]string, 0, len(rows))
				for _, r := range rows {
					lines = append(lines, []string{
						r.RowID,
						strconv.Itoa(len(r.Cells)),
						r.UpdatedAt.Format("2006-01-02 15:04"),
					})
				}
				printTable(cmd.OutOrStdout(), []string{"ID", "CELLS", "UPDATED"}, lines)
				fmt.Fprintf(cmd.OutOrStdout(), "Total: %d row(s)\n", len(rows))
				return nil
			})
		},
	}
}

func (a *app) newRowShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show the decoded cells of a row",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEditor(func(ed *editor.Editor) error {
				decoded, err := ed.DecodeRow(args[0])
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), decoded)
				}
				fields, err := ed.Fields()
				if err != nil {
					return err
				}
				lines := make([][]string, 0, len(fields))
				for _, f := range fields {
					d, ok := decoded[f.FieldID]
					if !ok {
						continue
					}
					lines = append(lines, []string{f.Name, f.FieldType.String(), d.Content})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Row: %s\n", args[0])
				printTable(cmd.OutOrStdout(), []string{"FIELD", "TYPE", "VALUE"}, lines)
				return nil
			})
		},
	}
}

func (a *app) newRowDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a row and its cells",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEditor(func(ed *editor.Editor) error {
				if err := ed.DeleteRow(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted row: %s\n", args[0])
				return nil
			})
		},
	}
}
