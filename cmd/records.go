package main

import (
	"fmt"

	"evaluation/internal/client"
	"evaluation/internal/editor"
	"evaluation/internal/model"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var flags collectionFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print a reviewer collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			vm, err := flags.viewModel(cmd)
			if err != nil {
				return err
			}
			ed, err := newEditor()
			if err != nil {
				return err
			}
			vm = ed.Load(cmd.Context(), vm)
			return printView(cmd, vm)
		},
	}
	flags.register(cmd)
	return cmd
}

func newAddCmd() *cobra.Command {
	var form editor.Form
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add one reviewer's evaluation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := newEditor()
			if err != nil {
				return err
			}
			vm := editor.NewViewModel(client.ReviewerList, nil)
			vm.Form = form
			vm = ed.Add(cmd.Context(), vm)
			return printView(cmd, vm)
		},
	}
	cmd.Flags().StringVar(&form.Reviewer, "name", "", "Reviewer name")
	cmd.Flags().IntVar(&form.Skill, "skill", 0, "Skill score")
	cmd.Flags().IntVar(&form.Experience, "experience", 0, "Experience score")
	cmd.Flags().StringVar(&form.Hire, "hire", "yes", `Hire decision; only "no" rejects`)
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newUpdateCmd() *cobra.Command {
	var skill, experience int
	var hire string
	cmd := &cobra.Command{
		Use:   "update NAME",
		Short: "Change an existing evaluation; omitted flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			var sp, ep, hp *int
			if cmd.Flags().Changed("skill") {
				sp = &skill
			}
			if cmd.Flags().Changed("experience") {
				ep = &experience
			}
			if cmd.Flags().Changed("hire") {
				h := editor.HireFromInput(hire)
				hp = &h
			}
			if err := c.Update(cmd.Context(), args[0], sp, ep, hp); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().IntVar(&skill, "skill", 0, "Skill score")
	cmd.Flags().IntVar(&experience, "experience", 0, "Experience score")
	cmd.Flags().StringVar(&hire, "hire", "", `Hire decision; only "no" rejects`)
	return cmd
}

func newAverageCmd() *cobra.Command {
	var flags collectionFlags
	cmd := &cobra.Command{
		Use:   "average",
		Short: "Print the collection with the panel average",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			vm, err := flags.viewModel(cmd)
			if err != nil {
				return err
			}
			ed, err := newEditor()
			if err != nil {
				return err
			}
			vm = ed.Load(cmd.Context(), vm)
			if vm.Err == nil {
				vm = ed.Averages(cmd.Context(), vm)
			}
			return printView(cmd, vm)
		},
	}
	flags.register(cmd)
	return cmd
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Print one reviewer's evaluation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			rec, err := c.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			vm := editor.NewViewModel(client.ReviewerList, nil)
			vm = editor.Loaded(vm, []model.Record{rec}, nil)
			return printView(cmd, vm)
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Remove one reviewer's evaluation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			if err := c.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE...",
		Short: "Upload CSV files of name,skill_score,experience_score,hire rows",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			files, err := c.Import(cmd.Context(), args...)
			if err != nil {
				return err
			}
			for _, f := range files {
				fmt.Fprintf(cmd.OutOrStdout(), "importing %s\n", f)
			}
			return nil
		},
	}
}

func newEditor() (*editor.Editor, error) {
	c, err := newClient()
	if err != nil {
		return nil, err
	}
	return editor.New(c, logger), nil
}

// printView writes the rendered table and hands back the view's error so the
// command exits non-zero.
func printView(cmd *cobra.Command, vm editor.ViewModel) error {
	fmt.Fprint(cmd.OutOrStdout(), editor.Render(vm))
	return vm.Err
}
