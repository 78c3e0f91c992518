package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-volunteers/document"
	"github.com/goliatone/go-volunteers/volunteer"
)

func migrateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database tables and indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.container.Migrate(app.ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}
}

// volunteerFlags are the profile flags shared by create and update.
type volunteerFlags struct {
	name         string
	email        string
	phone        string
	location     string
	lat          float64
	lon          float64
	skills       []string
	interests    []string
	availability string
}

func (f *volunteerFlags) register(cmd *cobra.Command, withEmail bool) {
	cmd.Flags().StringVar(&f.name, "name", "", "Full name")
	if withEmail {
		cmd.Flags().StringVar(&f.email, "email", "", "Email address")
	}
	cmd.Flags().StringVar(&f.phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&f.location, "location", "", "Free-form location")
	cmd.Flags().Float64Var(&f.lat, "lat", 0, "Latitude in degrees")
	cmd.Flags().Float64Var(&f.lon, "lon", 0, "Longitude in degrees")
	cmd.Flags().StringSliceVar(&f.skills, "skills", nil, "Comma separated skills")
	cmd.Flags().StringSliceVar(&f.interests, "interests", nil, "Comma separated interests")
	cmd.Flags().StringVar(&f.availability, "availability", "", `Availability document, e.g. {"weekly":{"days":["monday"],"start":"09:00","end":"17:00"}}`)
}

func parseAvailability(raw string) (*document.Availability, error) {
	a := document.DecodeAvailability(&raw)
	if a == nil {
		return nil, fmt.Errorf("invalid availability document %q", raw)
	}
	return a, nil
}

func coordinatesChanged(cmd *cobra.Command) (bool, error) {
	lat, lon := cmd.Flags().Changed("lat"), cmd.Flags().Changed("lon")
	if lat != lon {
		return false, errors.New("--lat and --lon must be given together")
	}
	return lat, nil
}

func createCmd(app *App) *cobra.Command {
	var f volunteerFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a new volunteer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := volunteer.Candidate{
				Name:        f.name,
				Email:       f.email,
				PhoneNumber: f.phone,
				Location:    f.location,
				Skills:      f.skills,
				Interests:   f.interests,
			}
			hasCoords, err := coordinatesChanged(cmd)
			if err != nil {
				return err
			}
			if hasCoords {
				c.Coordinates = &volunteer.Coordinates{Latitude: f.lat, Longitude: f.lon}
			}
			if f.availability != "" {
				if c.Availability, err = parseAvailability(f.availability); err != nil {
					return err
				}
			}

			view, err := app.container.Volunteers().Create(app.ctx, c)
			if err != nil {
				return err
			}
			return printJSON(cmd, view)
		},
	}
	f.register(cmd, true)
	return cmd
}

func getCmd(app *App) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "get [id]",
		Short: "Show a volunteer by id or email",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager := app.container.Volunteers()
			switch {
			case len(args) == 1 && email != "":
				return errors.New("pass either an id or --email")
			case len(args) == 1:
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				view, err := manager.GetByID(app.ctx, id)
				if err != nil {
					return err
				}
				return printJSON(cmd, view)
			case email != "":
				view, err := manager.GetByEmail(app.ctx, email)
				if err != nil {
					return err
				}
				return printJSON(cmd, view)
			default:
				return errors.New("an id or --email is required")
			}
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Exact email address")
	return cmd
}

func listCmd(app *App) *cobra.Command {
	var (
		status   string
		page     int
		pageSize int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List volunteers page by page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, ok := volunteer.ParseActiveFilter(status)
			if !ok {
				return fmt.Errorf("unknown status %q", status)
			}
			result, err := app.container.Volunteers().List(app.ctx, filter, page, pageSize)
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}
	cmd.Flags().StringVar(&status, "status", "active", "active, inactive or all")
	cmd.Flags().IntVar(&page, "page", 0, "Zero based page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "Entries per page")
	return cmd
}

func searchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "search <term>",
		Short: "Find volunteers whose name contains term",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			views, err := app.container.Volunteers().SearchByName(app.ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, views)
		},
	}
}

func nearbyCmd(app *App) *cobra.Command {
	var lat, lon, radius float64
	cmd := &cobra.Command{
		Use:   "nearby",
		Short: "List active volunteers within a radius, closest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("lat") || !cmd.Flags().Changed("lon") {
				return errors.New("--lat and --lon are required")
			}
			if !cmd.Flags().Changed("radius") {
				radius = app.cfg.Search.DefaultRadiusKm
			}
			results, err := app.container.Volunteers().FindNearby(app.ctx, lat, lon, radius)
			if err != nil {
				return err
			}
			return printJSON(cmd, results)
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "Origin latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Origin longitude")
	cmd.Flags().Float64Var(&radius, "radius", 0, "Radius in kilometres (defaults to the configured radius)")
	return cmd
}

func availableCmd(app *App) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "available",
		Short: "List active volunteers available at a given instant",
		Long:  "Weekly windows are evaluated in the offset of --at, which defaults to the current time.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			when := time.Now()
			if at != "" {
				t, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("invalid --at %q: want RFC 3339, e.g. 2024-06-03T10:00:00Z", at)
				}
				when = t
			}
			views, err := app.container.Volunteers().FindAvailable(app.ctx, when)
			if err != nil {
				return err
			}
			return printJSON(cmd, views)
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "Instant to check, RFC 3339")
	return cmd
}

func updateCmd(app *App) *cobra.Command {
	var (
		f      volunteerFlags
		active bool
		resets []string
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the given fields of a volunteer",
		Long:  "Only the flags passed are changed. --clear resets phone, location, coordinates, skills, interests or availability.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			patch, err := buildPatch(cmd, f, resets)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("active") {
				patch.IsActive = volunteer.Set(active)
			}

			view, err := app.container.Volunteers().Update(app.ctx, id, patch)
			if err != nil {
				return err
			}
			return printJSON(cmd, view)
		},
	}
	f.register(cmd, false)
	cmd.Flags().BoolVar(&active, "active", true, "Activate or deactivate the volunteer")
	cmd.Flags().StringSliceVar(&resets, "clear", nil, "Fields to reset")
	return cmd
}

func buildPatch(cmd *cobra.Command, f volunteerFlags, resets []string) (volunteer.Patch, error) {
	var patch volunteer.Patch
	changed := cmd.Flags().Changed

	if changed("name") {
		patch.Name = volunteer.Set(f.name)
	}
	if changed("phone") {
		patch.PhoneNumber = volunteer.Set(f.phone)
	}
	if changed("location") {
		patch.Location = volunteer.Set(f.location)
	}
	hasCoords, err := coordinatesChanged(cmd)
	if err != nil {
		return patch, err
	}
	if hasCoords {
		patch.Coordinates = volunteer.Set(volunteer.Coordinates{Latitude: f.lat, Longitude: f.lon})
	}
	if changed("skills") {
		patch.Skills = volunteer.Set(f.skills)
	}
	if changed("interests") {
		patch.Interests = volunteer.Set(f.interests)
	}
	if changed("availability") {
		a, err := parseAvailability(f.availability)
		if err != nil {
			return patch, err
		}
		patch.Availability = volunteer.Set(a)
	}

	for _, field := range resets {
		switch strings.ToLower(strings.TrimSpace(field)) {
		case "phone", "phone_number":
			patch.PhoneNumber = volunteer.Clear[string]()
		case "location":
			patch.Location = volunteer.Clear[string]()
		case "coordinates":
			patch.Coordinates = volunteer.Clear[volunteer.Coordinates]()
		case "skills":
			patch.Skills = volunteer.Clear[[]string]()
		case "interests":
			patch.Interests = volunteer.Clear[[]string]()
		case "availability":
			patch.Availability = volunteer.Clear[*document.Availability]()
		default:
			return patch, fmt.Errorf("cannot clear %q", field)
		}
	}
	return patch, nil
}

func deleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Permanently remove a volunteer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := app.container.Volunteers().Delete(app.ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "volunteer %d deleted\n", id)
			return nil
		},
	}
}

func countCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Count active volunteers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := app.container.Volunteers().CountActive(app.ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]int{"active": n})
		},
	}
}

func drivesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drives",
		Short: "Record and list drive participation",
	}

	var completed bool
	record := &cobra.Command{
		Use:   "record <volunteer-id> <drive-id>",
		Short: "Record that a volunteer applied to or completed a drive",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			status := volunteer.DriveApplied
			if completed {
				status = volunteer.DriveCompleted
			}
			view, err := app.container.Volunteers().RecordDrive(app.ctx, id, args[1], status)
			if err != nil {
				return err
			}
			return printJSON(cmd, view)
		},
	}
	record.Flags().BoolVar(&completed, "completed", false, "Mark the drive as completed")

	var listCompleted bool
	list := &cobra.Command{
		Use:   "list <volunteer-id>",
		Short: "List the drives a volunteer is scheduled for or completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			manager := app.container.Volunteers()
			var drives []string
			if listCompleted {
				drives, err = manager.GetDrivesCompleted(app.ctx, id)
			} else {
				drives, err = manager.GetDrivesScheduled(app.ctx, id)
			}
			if err != nil {
				return err
			}
			return printJSON(cmd, drives)
		},
	}
	list.Flags().BoolVar(&listCompleted, "completed", false, "List completed drives instead of scheduled ones")

	cmd.AddCommand(record, list)
	return cmd
}
