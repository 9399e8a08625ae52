package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/grid/internal/editor"
)

func (a *app) newCellCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cell",
		Short: "Read and write cells",
	}
	cmd.AddCommand(a.newCellSetCmd())
	cmd.AddCommand(a.newCellGetCmd())
	return cmd
}

func (a *app) newCellSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <row-id> <field-id> <changeset>",
		Short: "Apply a change to a cell",
		Long: `Apply a change to a cell. The changeset is interpreted by the field type:
text for RichText, a number for Number, a unix timestamp or
{"date":"...","time":"..."} for DateTime, option ids or
{"insert_option_id":"...","delete_option_id":"..."} for selects and
true/false for Checkbox.`,
		Args: exactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEditor(func(ed *editor.Editor) error {
				payload, err := ed.UpdateCell(args[0], args[1], args[2])
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), map[string]string{"data": payload})
				}
				fmt.Fprintln(cmd.OutOrStdout(), payload)
				return nil
			})
		},
	}
}

// cellOutput is the JSON form of cell get.
type cellOutput struct {
	Raw        string `json:"raw"`
	Content    string `json:"content"`
	Configured bool   `json:"configured"`
}

func (a *app) newCellGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <row-id> <field-id>",
		Short: "Print the rendered value of a cell",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEditor(func(ed *editor.Editor) error {
				decoded, ok, err := ed.DecodeCell(args[0], args[1])
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), cellOutput{
						Raw:        decoded.Raw,
						Content:    decoded.Content,
						Configured: ok,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), decoded.Content)
				return nil
			})
		},
	}
}
