package commands

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/msctl-dev/msctl/internal/client"
	"github.com/msctl-dev/msctl/internal/models"
)

// resourceDef describes how a collection is exposed on the command line
type resourceDef[T any, In any, Up any] struct {
	use      string
	aliases  []string
	noun     string
	plural   string
	resource func(*client.Client) *client.Resource[T, In, Up]
	columns  []string
	row      func(T) []string
}

// NewStudentsCmd creates the students command
func NewStudentsCmd(env *Env) *cobra.Command {
	return newResourceCmd(env, resourceDef[models.Student, models.StudentInput, models.StudentUpdate]{
		use:      "students",
		aliases:  []string{"student"},
		noun:     "student",
		plural:   "students",
		resource: (*client.Client).Students,
		columns:  []string{"ID", "NAME", "EMAIL", "PHONE", "BIRTH DATE"},
		row: func(s models.Student) []string {
			return []string{strconv.Itoa(s.ID), s.FirstName + " " + s.LastName, s.Email, s.Phone, s.BirthDate}
		},
	})
}

// NewTeachersCmd creates the teachers command
func NewTeachersCmd(env *Env) *cobra.Command {
	return newResourceCmd(env, resourceDef[models.Teacher, models.TeacherInput, models.TeacherUpdate]{
		use:      "teachers",
		aliases:  []string{"teacher"},
		noun:     "teacher",
		plural:   "teachers",
		resource: (*client.Client).Teachers,
		columns:  []string{"ID", "NAME", "EMAIL", "PHONE", "SPECIALIZATION"},
		row: func(t models.Teacher) []string {
			return []string{strconv.Itoa(t.ID), t.FirstName + " " + t.LastName, t.Email, t.Phone, t.Specialization}
		},
	})
}

// NewInstrumentsCmd creates the instruments command
func NewInstrumentsCmd(env *Env) *cobra.Command {
	return newResourceCmd(env, resourceDef[models.Instrument, models.InstrumentInput, models.InstrumentUpdate]{
		use:      "instruments",
		aliases:  []string{"instrument"},
		noun:     "instrument",
		plural:   "instruments",
		resource: (*client.Client).Instruments,
		columns:  []string{"ID", "NAME", "TYPE", "BRAND", "CONDITION"},
		row: func(i models.Instrument) []string {
			return []string{strconv.Itoa(i.ID), i.Name, i.Type, i.Brand, i.Condition}
		},
	})
}

// NewScheduleCmd creates the schedule command
func NewScheduleCmd(env *Env) *cobra.Command {
	return newResourceCmd(env, resourceDef[models.ScheduleEntry, models.ScheduleInput, models.ScheduleUpdate]{
		use:      "schedule",
		noun:     "schedule entry",
		plural:   "schedule entries",
		resource: (*client.Client).Schedule,
		columns:  []string{"ID", "DAY", "TIME", "ROOM", "STUDENT", "TEACHER"},
		row: func(e models.ScheduleEntry) []string {
			student := e.StudentName
			if student == "" {
				student = "#" + strconv.Itoa(e.StudentID)
			}
			teacher := e.TeacherName
			if teacher == "" {
				teacher = "#" + strconv.Itoa(e.TeacherID)
			}
			return []string{strconv.Itoa(e.ID), e.DayOfWeek, e.StartTime + "-" + e.EndTime, e.Room, student, teacher}
		},
	})
}

func newResourceCmd[T any, In any, Up any](env *Env, def resourceDef[T, In, Up]) *cobra.Command {
	cmd := &cobra.Command{
		Use:     def.use,
		Aliases: def.aliases,
		Short:   fmt.Sprintf("Manage %s", def.plural),
	}

	cmd.AddCommand(
		newResourceListCmd(env, def),
		newResourceGetCmd(env, def),
		newResourceCreateCmd(env, def),
		newResourceUpdateCmd(env, def),
		newResourceDeleteCmd(env, def),
	)

	return cmd
}

func resourceFor[T any, In any, Up any](env *Env, def resourceDef[T, In, Up]) (*client.Resource[T, In, Up], error) {
	apiClient, err := env.Client()
	if err != nil {
		return nil, err
	}
	return def.resource(apiClient), nil
}

func parseIDArg(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id '%s', must be a positive integer", arg)
	}
	return id, nil
}

func newResourceListCmd[T any, In any, Up any](env *Env, def resourceDef[T, In, Up]) *cobra.Command {
	var params client.ListParams

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   fmt.Sprintf("List %s", def.plural),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resource, err := resourceFor(env, def)
			if err != nil {
				return err
			}

			page, err := resource.List(cmd.Context(), params)
			if err != nil {
				return unauthorizedHint(err)
			}

			if len(page.Items) == 0 {
				fmt.Fprintf(env.Out, "No %s found.\n", def.plural)
				return nil
			}

			w := tabwriter.NewWriter(env.Out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, strings.Join(def.columns, "\t"))
			underline := make([]string, len(def.columns))
			for i, col := range def.columns {
				underline[i] = strings.Repeat("─", len([]rune(col)))
			}
			fmt.Fprintln(w, strings.Join(underline, "\t"))
			for _, item := range page.Items {
				fmt.Fprintln(w, strings.Join(def.row(item), "\t"))
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(env.Out, "\nPage %d of %d (%d total)\n", page.Page, page.Pages, page.Total)
			return nil
		},
	}

	cmd.Flags().IntVar(&params.Page, "page", 0, "Page number (server default if not specified)")
	cmd.Flags().IntVar(&params.PerPage, "per-page", 0, "Items per page, up to 100")
	cmd.Flags().StringVar(&params.Search, "search", "", "Filter by text")

	return cmd
}

func newResourceGetCmd[T any, In any, Up any](env *Env, def resourceDef[T, In, Up]) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: fmt.Sprintf("Show a %s", def.noun),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}

			resource, err := resourceFor(env, def)
			if err != nil {
				return err
			}

			item, err := resource.Get(cmd.Context(), id)
			if err != nil {
				return unauthorizedHint(err)
			}
			return printJSON(env, item)
		},
	}
}

func decodeInput[In any](data string) (In, error) {
	var in In
	if data == "" {
		return in, fmt.Errorf("--data is required")
	}

	decoder := json.NewDecoder(strings.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&in); err != nil {
		return in, fmt.Errorf("invalid --data: %w", err)
	}
	return in, nil
}

func newResourceCreateCmd[T any, In any, Up any](env *Env, def resourceDef[T, In, Up]) *cobra.Command {
	var data string

	cmd := &cobra.Command{
		Use:   "create",
		Short: fmt.Sprintf("Create a %s from JSON", def.noun),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := decodeInput[In](data)
			if err != nil {
				return err
			}

			resource, err := resourceFor(env, def)
			if err != nil {
				return err
			}

			item, err := resource.Create(cmd.Context(), in)
			if err != nil {
				return unauthorizedHint(err)
			}
			return printJSON(env, item)
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "JSON object with the fields to set")

	return cmd
}

func newResourceUpdateCmd[T any, In any, Up any](env *Env, def resourceDef[T, In, Up]) *cobra.Command {
	var data string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: fmt.Sprintf("Update fields of a %s from JSON", def.noun),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}

			up, err := decodeInput[Up](data)
			if err != nil {
				return err
			}

			resource, err := resourceFor(env, def)
			if err != nil {
				return err
			}

			item, err := resource.Update(cmd.Context(), id, up)
			if err != nil {
				return unauthorizedHint(err)
			}
			return printJSON(env, item)
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "JSON object with the fields to change")

	return cmd
}

func newResourceDeleteCmd[T any, In any, Up any](env *Env, def resourceDef[T, In, Up]) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: fmt.Sprintf("Delete a %s", def.noun),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}

			if !yes {
				ok, err := env.confirm(fmt.Sprintf("Delete %s %d", def.noun, id))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(env.Out, "Aborted.")
					return nil
				}
			}

			resource, err := resourceFor(env, def)
			if err != nil {
				return err
			}

			if err := resource.Delete(cmd.Context(), id); err != nil {
				return unauthorizedHint(err)
			}

			fmt.Fprintf(env.Out, "✓ Deleted %s %d\n", def.noun, id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
