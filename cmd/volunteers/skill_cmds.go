package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-volunteers/skills"
)

func skillsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skills",
		Short: "Manage the skill catalog and skill assignments",
	}
	cmd.AddCommand(
		skillAddCmd(app),
		skillListCmd(app),
		skillSearchCmd(app),
		skillCategoriesCmd(app),
		skillDeactivateCmd(app),
		skillAssignCmd(app),
		skillOfCmd(app),
		skillHoldersCmd(app),
	)
	return cmd
}

func skillAddCmd(app *App) *cobra.Command {
	var in skills.SkillInput
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a skill to the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Name = args[0]
			skill, err := app.container.Skills().CreateSkill(app.ctx, in)
			if err != nil {
				return err
			}
			return printJSON(cmd, skill)
		},
	}
	cmd.Flags().StringVar(&in.Category, "category", "", "Skill category")
	cmd.Flags().StringVar(&in.Description, "description", "", "Skill description")
	return cmd
}

func skillListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active skills",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := app.container.Skills().ListSkills(app.ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd, list)
		},
	}
}

func skillSearchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "search <term>",
		Short: "Find active skills whose name contains term",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := app.container.Skills().SearchSkills(app.ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, list)
		},
	}
}

func skillCategoriesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the categories of active skills",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := app.container.Skills().Categories(app.ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd, list)
		},
	}
}

func skillDeactivateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <name>",
		Short: "Retire a skill from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			skill, err := app.container.Skills().DeactivateSkill(app.ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, skill)
		},
	}
}

func skillAssignCmd(app *App) *cobra.Command {
	var (
		proficiency string
		years       int
		certified   bool
	)
	cmd := &cobra.Command{
		Use:   "assign <volunteer-id> <skill>",
		Short: "Assign a skill to a volunteer or change the assignment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			level, err := skills.ParseProficiency(proficiency)
			if err != nil {
				return err
			}
			in := skills.AssignmentInput{
				VolunteerID: id,
				Skill:       args[1],
				Proficiency: level,
				Certified:   certified,
			}
			if cmd.Flags().Changed("years") {
				in.ExperienceYears = &years
			}
			assignment, err := app.container.Skills().AssignSkill(app.ctx, in)
			if err != nil {
				return err
			}
			return printJSON(cmd, assignment)
		},
	}
	cmd.Flags().StringVar(&proficiency, "proficiency", "beginner", "beginner, novice, intermediate, advanced, expert or 1-5")
	cmd.Flags().IntVar(&years, "years", 0, "Years of experience")
	cmd.Flags().BoolVar(&certified, "certified", false, "Volunteer holds a certification")
	return cmd
}

func skillOfCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "of <volunteer-id>",
		Short: "List the skills assigned to a volunteer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			list, err := app.container.Skills().VolunteerSkills(app.ctx, id)
			if err != nil {
				return err
			}
			return printJSON(cmd, list)
		},
	}
}

func skillHoldersCmd(app *App) *cobra.Command {
	var minLevel string
	cmd := &cobra.Command{
		Use:   "holders <skill>",
		Short: "List active volunteers holding a skill at a minimum proficiency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := skills.ParseProficiency(minLevel)
			if err != nil {
				return err
			}
			ids, err := app.container.Skills().VolunteersWithSkill(app.ctx, args[0], level)
			if err != nil {
				return err
			}
			return printJSON(cmd, ids)
		},
	}
	cmd.Flags().StringVar(&minLevel, "min", "beginner", "Minimum proficiency")
	return cmd
}
