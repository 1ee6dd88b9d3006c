package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/plotfield/plotfield/pkg/preset"
)

// presetsCommand creates the presets command, which lists every known preset
// in a table: the embedded built-ins plus anything from the user's
// ~/.config/plotfield/presets.toml.
func (c *CLI) presetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := preset.List()
			if err != nil {
				return err
			}
			fmt.Println(renderPresetTable(list))
			printNewline()
			printNextStep("Use one", fmt.Sprintf("%s flow --preset classic-flow", appName))
			return nil
		},
	}
}

// renderPresetTable renders the preset list as a bordered table.
func renderPresetTable(list []preset.Preset) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, 0, len(list))
	for _, p := range list {
		rows = append(rows, []string{p.Name, p.Piece, p.Summary})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Preset", "Piece", "Summary").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			switch col {
			case 0:
				return StyleHighlight
			case 1:
				return StyleSuccess
			default:
				return StyleDim
			}
		}).
		Render()
}
