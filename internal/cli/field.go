package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/grid/internal/editor"
	"github.com/mesh-intelligence/grid/pkg/types"
)

func (a *app) newFieldCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "field",
		Short: "Manage fields (columns)",
	}
	cmd.AddCommand(a.newFieldCreateCmd())
	cmd.AddCommand(a.newFieldListCmd())
	cmd.AddCommand(a.newFieldDeleteCmd())
	cmd.AddCommand(a.newFieldSwitchCmd())
	cmd.AddCommand(a.newFieldOptionCmd())
	return cmd
}

func (a *app) newFieldCreateCmd() *cobra.Command {
	var options string
	cmd := &cobra.Command{
		Use:   "create <name> <type>",
		Short: "Create a field",
		Long: `Create a field of the given type. Types: RichText, Number, DateTime,
SingleSelect, MultiSelect, Checkbox.

Example:
  grid field create Price Number --options '{"format":"USD","scale":2}'
  grid field create Status SingleSelect`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ft, err := types.ParseFieldType(args[1])
			if err != nil {
				return err
			}
			return a.withEditor(func(ed *editor.Editor) error {
				field, err := ed.CreateField(args[0], ft, options)
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), field)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created field: %s\n", field.FieldID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&options, "options", "", "type options as JSON (default: the type's defaults)")
	return cmd
}

func (a *app) newFieldListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List fields",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEditor(func(ed *editor.Editor) error {
				fields, err := ed.Fields()
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), fields)
				}
				if len(fields) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No fields found.")
					return nil
				}
				rows := make([][]string, 0, len(fields))
				for _, f := range fields {
					rows = append(rows, []string{f.FieldID, f.Name, f.FieldType.String(), f.CreatedAt.Format("2006-01-02")})
				}
				printTable(cmd.OutOrStdout(), []string{"ID", "NAME", "TYPE", "CREATED"}, rows)
				fmt.Fprintf(cmd.OutOrStdout(), "Total: %d field(s)\n", len(fields))
				return nil
			})
		},
	}
}

func (a *app) newFieldDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a field and its cells",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEditor(func(ed *editor.Editor) error {
				if err := ed.DeleteField(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted field: %s\n", args[0])
				return nil
			})
		},
	}
}

func (a *app) newFieldSwitchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "switch <id> <type>",
		Short: "Change the type of a field",
		Long: `Change the type of a field. Stored cells are kept and read under the
new type; options for the new type start from its defaults.`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ft, err := types.ParseFieldType(args[1])
			if err != nil {
				return err
			}
			return a.withEditor(func(ed *editor.Editor) error {
				field, err := ed.SwitchFieldType(args[0], ft)
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), field)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Field %s is now %s\n", field.FieldID, field.FieldType)
				return nil
			})
		},
	}
}

func (a *app) newFieldOptionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "option",
		Short: "Manage select options",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "add <field-id> <name>",
		Short: "Add an option to a select field",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEditor(func(ed *editor.Editor) error {
				opt, err := ed.AddSelectOption(args[0], args[1])
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), opt)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created option: %s\n", opt.ID)
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <field-id> <option-id>",
		Short: "Remove an option from a select field",
		Long: `Remove an option from a select field. Cells that selected it keep the
id but no longer show it.`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEditor(func(ed *editor.Editor) error {
				if err := ed.DeleteSelectOption(args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted option: %s\n", args[1])
				return nil
			})
		},
	})
	return cmd
}
