package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/shlex"
	"github.com/spf13/cobra"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/internal/app/adapter"
	"github.com/fastygo/taskboard/internal/app/view"
)

const prompt = "taskboard> "

// Shell reads commands from in until EOF or exit. Command errors are
// printed and the loop continues.
func (a *App) Shell(ctx context.Context, in io.Reader, interactive bool) error {
	scanner := bufio.NewScanner(in)
	for {
		if interactive {
			fmt.Fprint(a.out, prompt)
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		args, err := shlex.Split(line)
		if err != nil {
			fmt.Fprintf(a.out, "error: %v\n", err)
			continue
		}
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" || args[0] == "quit" {
			return nil
		}
		if err := a.Run(ctx, args); err != nil {
			fmt.Fprintf(a.out, "error: %v\n", err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	if interactive {
		fmt.Fprintln(a.out)
	}
	return scanner.Err()
}

// Run executes one shell line. The command tree is rebuilt per call so
// flag values never leak between lines.
func (a *App) Run(ctx context.Context, args []string) error {
	root := a.commands()
	root.SetArgs(args)
	root.SetOut(a.out)
	root.SetErr(a.out)
	return root.ExecuteContext(ctx)
}

func (a *App) render() renderer {
	return renderer{out: a.out, format: a.format}
}

func (a *App) commands() *cobra.Command {
	root := &cobra.Command{
		Use:           "",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(
		&cobra.Command{
			Use:   "register <email> <password>",
			Short: "Create an account",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.store.SignUp(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				a.nav.Navigate(view.PathLogin)
				fmt.Fprintln(a.out, "Account created, sign in with: login <email> <password>")
				return nil
			},
		},
		&cobra.Command{
			Use:   "login <email> <password>",
			Short: "Sign in and open the dashboard",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.store.SignIn(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				a.forget()
				if err := a.render().session(a.store.State()); err != nil {
					return err
				}
				return a.showTab(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "logout",
			Short: "Sign out",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				err := a.store.SignOut(cmd.Context())
				a.forget()
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, "Signed out")
				return nil
			},
		},
		&cobra.Command{
			Use:   "whoami",
			Short: "Show the session",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.render().session(a.store.State())
			},
		},
		&cobra.Command{
			Use:   "go <path>",
			Short: "Navigate to /, /login, /register or /dashboard",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				screen := a.nav.Navigate(args[0])
				fmt.Fprintf(a.out, "%s (%s)\n", screen, a.nav.Path())
				if screen == view.ScreenDashboard {
					return a.showTab(cmd.Context())
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "tab <tasks|categories>",
			Short: "Switch the dashboard panel",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.switchTab(cmd.Context(), view.Tab(args[0])); err != nil {
					return err
				}
				return a.showTab(cmd.Context())
			},
		},
		&cobra.Command{
			Use:     "categories",
			Aliases: []string{"cats"},
			Short:   "List categories",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := a.categoryView(cmd.Context())
				if err != nil {
					return err
				}
				return a.render().categories(v)
			},
		},
		&cobra.Command{
			Use:   "board",
			Short: "Show tasks grouped by category",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				b, err := a.taskBoard(cmd.Context())
				if err != nil {
					return err
				}
				return a.render().board(b)
			},
		},
		a.categoryCmd(),
		a.taskCmd(),
	)
	return root
}

// forget drops mounted view state so the next dashboard command reloads.
func (a *App) forget() {
	a.categoriesFor = ""
	a.boardFor = ""
}

func (a *App) showTab(ctx context.Context) error {
	if a.nav.Tab() == view.TabCategories {
		v, err := a.categoryView(ctx)
		if err != nil {
			return err
		}
		return a.render().categories(v)
	}
	b, err := a.taskBoard(ctx)
	if err != nil {
		return err
	}
	return a.render().board(b)
}

func (a *App) categoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"cat"},
		Short:   "Manage categories",
	}

	// withRow resolves an id prefix against the loaded rows.
	withRow := func(run func(ctx context.Context, v *view.CategoryView, id string, rest []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			v, err := a.categoryView(cmd.Context())
			if err != nil {
				return err
			}
			rows := v.Rows()
			ids := make([]string, 0, len(rows))
			for _, row := range rows {
				ids = append(ids, row.Category.ID)
			}
			id, err := matchID(args[0], ids)
			if err != nil {
				return err
			}
			if err := run(cmd.Context(), v, id, args[1:]); err != nil {
				return err
			}
			a.boardFor = ""
			return a.render().categories(v)
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <name>",
			Short: "Create a category",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := a.categoryView(cmd.Context())
				if err != nil {
					return err
				}
				v.SetNewName(strings.Join(args, " "))
				if err := v.Add(cmd.Context()); err != nil {
					return err
				}
				a.boardFor = ""
				return a.render().categories(v)
			},
		},
		&cobra.Command{
			Use:   "edit <id>",
			Short: "Start editing a category",
			Args:  cobra.ExactArgs(1),
			RunE: withRow(func(_ context.Context, v *view.CategoryView, id string, _ []string) error {
				return v.BeginEdit(id)
			}),
		},
		&cobra.Command{
			Use:   "draft <id> <name>",
			Short: "Change the name being edited",
			Args:  cobra.MinimumNArgs(2),
			RunE: withRow(func(_ context.Context, v *view.CategoryView, id string, rest []string) error {
				return v.SetDraft(id, strings.Join(rest, " "))
			}),
		},
		&cobra.Command{
			Use:   "save <id>",
			Short: "Save the edited name",
			Args:  cobra.ExactArgs(1),
			RunE: withRow(func(ctx context.Context, v *view.CategoryView, id string, _ []string) error {
				return v.Save(ctx, id)
			}),
		},
		&cobra.Command{
			Use:   "cancel <id>",
			Short: "Discard the edit",
			Args:  cobra.ExactArgs(1),
			RunE: withRow(func(_ context.Context, v *view.CategoryView, id string, _ []string) error {
				return v.CancelEdit(id)
			}),
		},
		&cobra.Command{
			Use:     "rm <id>",
			Aliases: []string{"delete"},
			Short:   "Delete a category",
			Args:    cobra.ExactArgs(1),
			RunE: withRow(func(ctx context.Context, v *view.CategoryView, id string, _ []string) error {
				return v.Delete(ctx, id)
			}),
		},
	)
	return cmd
}

type taskFlags struct {
	title    string
	desc     string
	due      string
	category string
	done     bool
}

func (f *taskFlags) bind(cmd *cobra.Command, withTitle bool) {
	if withTitle {
		cmd.Flags().StringVar(&f.title, "title", "", "Task title")
	}
	cmd.Flags().StringVar(&f.desc, "desc", "", "Description")
	cmd.Flags().StringVar(&f.due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.category, "category", "", "Category id or prefix, empty for none")
	cmd.Flags().BoolVar(&f.done, "done", false, "Mark completed")
}

// apply overlays the flags that were set on fields.
func (f *taskFlags) apply(cmd *cobra.Command, b *view.TaskBoard, fields adapter.TaskFields) (adapter.TaskFields, error) {
	flags := cmd.Flags()
	if flags.Changed("title") {
		fields.Title = f.title
	}
	if flags.Changed("desc") {
		fields.Description = f.desc
	}
	if flags.Changed("due") {
		due, err := domain.ParseDate(f.due)
		if err != nil {
			return fields, &adapter.ValidationError{Field: "due_date", Message: "use YYYY-MM-DD"}
		}
		fields.DueDate = due
	}
	if flags.Changed("category") {
		if strings.TrimSpace(f.category) == "" {
			fields.CategoryID = nil
		} else {
			categories := b.Categories()
			ids := make([]string, 0, len(categories))
			for _, c := range categories {
				ids = append(ids, c.ID)
			}
			id, err := matchID(f.category, ids)
			if err != nil {
				return fields, err
			}
			fields.CategoryID = &id
		}
	}
	if flags.Changed("done") {
		fields.Completed = f.done
	}
	return fields, nil
}

func (a *App) taskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}

	withCard := func(run func(ctx context.Context, cmd *cobra.Command, b *view.TaskBoard, id string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			b, err := a.taskBoard(cmd.Context())
			if err != nil {
				return err
			}
			tasks := b.Tasks()
			ids := make([]string, 0, len(tasks))
			for _, t := range tasks {
				ids = append(ids, t.ID)
			}
			id, err := matchID(args[0], ids)
			if err != nil {
				return err
			}
			if err := run(cmd.Context(), cmd, b, id); err != nil {
				return err
			}
			return a.render().board(b)
		}
	}

	addFlags := &taskFlags{}
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.taskBoard(cmd.Context())
			if err != nil {
				return err
			}
			form, err := addFlags.apply(cmd, b, b.Form())
			if err != nil {
				return err
			}
			form.Title = strings.Join(args, " ")
			b.SetForm(form)
			if err := b.Add(cmd.Context()); err != nil {
				return err
			}
			return a.render().board(b)
		},
	}
	addFlags.bind(add, false)

	setFlags := &taskFlags{}
	set := &cobra.Command{
		Use:   "set <id>",
		Short: "Change fields of the task being edited",
		Args:  cobra.ExactArgs(1),
		RunE: withCard(func(_ context.Context, cmd *cobra.Command, b *view.TaskBoard, id string) error {
			draft, err := b.Draft(id)
			if err != nil {
				return err
			}
			draft, err = setFlags.apply(cmd, b, draft)
			if err != nil {
				return err
			}
			return b.SetDraft(id, draft)
		}),
	}
	setFlags.bind(set, true)

	cmd.AddCommand(
		add,
		&cobra.Command{
			Use:   "edit <id>",
			Short: "Start editing a task",
			Args:  cobra.ExactArgs(1),
			RunE: withCard(func(_ context.Context, _ *cobra.Command, b *view.TaskBoard, id string) error {
				if err := b.BeginEdit(id); err != nil {
					return err
				}
				draft, err := b.Draft(id)
				if err != nil {
					return err
				}
				category := noCategory
				if draft.CategoryID != nil {
					category = *draft.CategoryID
				}
				fmt.Fprintf(a.out, "Editing %q due %s category %s\n", draft.Title, draft.DueDate, category)
				return nil
			}),
		},
		set,
		&cobra.Command{
			Use:   "save <id>",
			Short: "Save the edited task",
			Args:  cobra.ExactArgs(1),
			RunE: withCard(func(ctx context.Context, _ *cobra.Command, b *view.TaskBoard, id string) error {
				return b.Save(ctx, id)
			}),
		},
		&cobra.Command{
			Use:   "cancel <id>",
			Short: "Discard the edit",
			Args:  cobra.ExactArgs(1),
			RunE: withCard(func(_ context.Context, _ *cobra.Command, b *view.TaskBoard, id string) error {
				return b.CancelEdit(id)
			}),
		},
		&cobra.Command{
			Use:   "toggle <id>",
			Short: "Flip the completed flag",
			Args:  cobra.ExactArgs(1),
			RunE: withCard(func(ctx context.Context, _ *cobra.Command, b *view.TaskBoard, id string) error {
				if _, err := b.Draft(id); err == nil {
					return errEditing
				}
				if err := b.BeginEdit(id); err != nil {
					return err
				}
				draft, err := b.Draft(id)
				if err != nil {
					return err
				}
				draft.Completed = !draft.Completed
				if err := b.SetDraft(id, draft); err != nil {
					return err
				}
				if err := b.Save(ctx, id); err != nil {
					_ = b.CancelEdit(id)
					return err
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:     "rm <id>",
			Aliases: []string{"delete"},
			Short:   "Delete a task",
			Args:    cobra.ExactArgs(1),
			RunE: withCard(func(ctx context.Context, _ *cobra.Command, b *view.TaskBoard, id string) error {
				return b.Delete(ctx, id)
			}),
		},
	)
	return cmd
}

var errEditing = errors.New("task is being edited, save or cancel it first")

// noCategory is printed for drafts without a category.
const noCategory = "none"

// matchID resolves an exact id or a unique id prefix.
func matchID(prefix string, ids []string) (string, error) {
	var found []string
	for _, id := range ids {
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			found = append(found, id)
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("no row matches %q", prefix)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("%q matches %d rows", prefix, len(found))
	}
}
