package main

import (
	"fmt"

	"evaluation/internal/client"
	"evaluation/internal/editor"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// collectionFlags selects the list endpoint and its ordering.
type collectionFlags struct {
	resource   string
	sortColumn int
	desc       bool
}

func (f *collectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.resource, "resource", "reviewer-list", "Collection to show: reviewer-list, reviewer or evaluation")
	cmd.Flags().IntVar(&f.sortColumn, "sort-column", 0, "Sort column: 0 id, 1 name, 2 skill, 3 experience, 4 hire")
	cmd.Flags().BoolVar(&f.desc, "desc", false, "Sort descending")
}

// viewModel builds the starting view. The sort is only sent when asked for.
func (f *collectionFlags) viewModel(cmd *cobra.Command) (editor.ViewModel, error) {
	res, err := client.ParseResource(f.resource)
	if err != nil {
		return editor.ViewModel{}, err
	}
	var sort *client.Sort
	if cmd.Flags().Changed("sort-column") || f.desc {
		sort = &client.Sort{Column: f.sortColumn, Asc: !f.desc}
	}
	return editor.NewViewModel(res, sort), nil
}

func newEvaluateCmd() *cobra.Command {
	var flags collectionFlags
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Open the interactive record editor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			vm, err := flags.viewModel(cmd)
			if err != nil {
				return err
			}
			c, err := newClient()
			if err != nil {
				return err
			}
			p := tea.NewProgram(editor.NewModel(c, vm, cfg.RequestTimeout), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("editor: %w", err)
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
