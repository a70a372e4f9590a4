package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/eyajribi/Gestion-projets-Scolaires-sub002/internal/api"
	"github.com/eyajribi/Gestion-projets-Scolaires-sub002/internal/auth"
	"github.com/eyajribi/Gestion-projets-Scolaires-sub002/internal/cache"
	"github.com/eyajribi/Gestion-projets-Scolaires-sub002/internal/config"
	"github.com/eyajribi/Gestion-projets-Scolaires-sub002/internal/database"
	"github.com/eyajribi/Gestion-projets-Scolaires-sub002/internal/export"
	"github.com/eyajribi/Gestion-projets-Scolaires-sub002/internal/models"
	"github.com/eyajribi/Gestion-projets-Scolaires-sub002/internal/prefs"
	"github.com/eyajribi/Gestion-projets-Scolaires-sub002/internal/repository"
	"github.com/eyajribi/Gestion-projets-Scolaires-sub002/internal/session"
	"github.com/eyajribi/Gestion-projets-Scolaires-sub002/internal/util"
)

// app owns every component explicitly: no ambient singletons, the
// wiring happens once here and is passed down by constructor.
type app struct {
	cfg      *config.Config
	manager  *auth.Manager
	gateway  *session.Gateway
	projects *repository.Projects
	tasks    *repository.Tasks
	groups   *repository.Groups
	exporter *export.Exporter
}

func newApp(cfg *config.Config) (*app, error) {
	for _, dir := range []string{filepath.Dir(cfg.Database.Path), filepath.Dir(cfg.Prefs.Path), cfg.Export.Dir} {
		if err := ensureDir(dir); err != nil {
			return nil, fmt.Errorf("create dir %s: %w", dir, err)
		}
	}

	db, err := database.Init(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	store, err := prefs.Open(cfg.Prefs.Path)
	if err != nil {
		return nil, fmt.Errorf("open prefs: %w", err)
	}
	manager, err := auth.NewManager(store, cfg.Prefs.Secret)
	if err != nil {
		return nil, fmt.Errorf("init auth manager: %w", err)
	}

	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout(), manager)
	students := cache.NewStudents(db)

	return &app{
		cfg:      cfg,
		manager:  manager,
		gateway:  session.NewGateway(client, manager, students),
		projects: repository.NewProjects(client, cache.NewProjects(db)),
		tasks:    repository.NewTasks(client, cache.NewTasks(db)),
		groups:   repository.NewGroups(client, cache.NewGroups(db)),
		exporter: export.NewExporter(cfg.Export.Dir),
	}, nil
}

func main() {
	log.SetFlags(0)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load(os.Getenv("SCOLAB_CONFIG"))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	a, err := newApp(cfg)
	if err != nil {
		log.Fatalf("init: %v", err)
	}

	ctx := context.Background()
	cmd, args := os.Args[1], os.Args[2:]

	switch cmd {
	case "login":
		err = a.cmdLogin(ctx, args)
	case "register":
		err = a.cmdRegister(ctx, args)
	case "logout":
		err = a.gateway.Logout()
	case "whoami":
		err = a.cmdWhoami()
	case "sync":
		err = a.cmdSync(ctx)
	case "projects":
		err = a.cmdProjects()
	case "tasks":
		err = a.cmdTasks(args)
	case "task-status":
		err = a.cmdTaskStatus(ctx, args)
	case "export":
		err = a.cmdExport(args)
	case "forgot-password":
		err = a.cmdForgotPassword(ctx, args)
	case "reset-password":
		err = a.cmdResetPassword(ctx, args)
	case "verify-email":
		err = a.cmdVerifyEmail(ctx, args)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatalf("%s: %v", cmd, err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: scolab <command> [flags]

commands:
  login            log in and persist the session
  register         create an account
  logout           drop the local session
  whoami           show the cached current user
  sync             refresh projects, tasks and group from the backend
  projects         list cached projects
  tasks            list cached tasks
  task-status      update a task's status
  export           export cached tasks to csv or xlsx
  forgot-password  request a password reset mail
  reset-password   reset the password with a mailed token
  verify-email     confirm an email address with a mailed token`)
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args)

	if err := util.ValidateEmail(*email); err != nil {
		return err
	}
	student, err := a.gateway.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	if student != nil {
		log.Printf("logged in as %s %s <%s>", student.FirstName, student.LastName, student.Email)
	} else {
		log.Printf("logged in (profile not available yet)")
	}
	return nil
}

func (a *app) cmdRegister(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	lastName := fs.String("nom", "", "last name")
	firstName := fs.String("prenom", "", "first name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	phone := fs.String("numtel", "", "phone number")
	institution := fs.String("fac", "", "institution name")
	level := fs.String("niveau", "", "academic level")
	track := fs.String("filiere", "", "study track")
	fs.Parse(args)

	if err := util.ValidateEmail(*email); err != nil {
		return err
	}
	if err := util.ValidatePassword(*password); err != nil {
		return err
	}

	student, err := a.gateway.Register(ctx, api.RegisterRequest{
		LastName:    *lastName,
		FirstName:   *firstName,
		Email:       *email,
		Password:    *password,
		Phone:       *phone,
		Institution: *institution,
		Level:       *level,
		Track:       *track,
	})
	if err != nil {
		return err
	}
	if a.gateway.State() == session.StateLoggedIn && student != nil {
		log.Printf("registered and logged in as %s", student.Email)
	} else {
		log.Printf("registered %s, check your mailbox to verify the address", *email)
	}
	return nil
}

func (a *app) cmdWhoami() error {
	student := a.gateway.CurrentUser()
	if student == nil {
		log.Printf("not logged in")
		return nil
	}
	log.Printf("%s %s <%s>", student.FirstName, student.LastName, student.Email)
	log.Printf("  id: %s  group: %s  level: %s  track: %s",
		student.ID, student.GroupID, student.Level, student.Track)
	log.Printf("  session: %s", a.gateway.State())
	if token, ok := a.manager.Token(); ok {
		if exp, known := util.TokenExpiry(token); known {
			if util.TokenExpired(token) {
				log.Printf("  token expired %s, log in again", exp.Format(time.RFC3339))
			} else {
				log.Printf("  token valid until %s", exp.Format(time.RFC3339))
			}
		}
	}
	return nil
}

func (a *app) cmdSync(ctx context.Context) error {
	student := a.gateway.CurrentUser()
	if student == nil {
		return fmt.Errorf("not logged in")
	}

	projects, err := a.projects.Refresh(ctx, student.Email)
	if err != nil {
		return fmt.Errorf("refresh projects: %w", err)
	}
	tasks, err := a.tasks.Refresh(ctx, student.Email)
	if err != nil {
		return fmt.Errorf("refresh tasks: %w", err)
	}
	group, err := a.groups.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("refresh group: %w", err)
	}

	log.Printf("synced %d projects, %d tasks", len(projects), len(tasks))
	if group != nil {
		log.Printf("group: %s", group.Name)
	}
	return nil
}

func (a *app) cmdProjects() error {
	student := a.gateway.CurrentUser()
	if student == nil {
		return fmt.Errorf("not logged in")
	}
	projects, err := a.projects.ByOwner(student.Email)
	if err != nil {
		return err
	}
	for _, p := range projects {
		log.Printf("%s  [%s]  %s (%s .. %s)", p.ID, p.Status, p.Title, p.StartDate, p.EndDate)
	}
	log.Printf("%d projects cached", len(projects))
	return nil
}

func (a *app) cmdTasks(args []string) error {
	fs := flag.NewFlagSet("tasks", flag.ExitOnError)
	projectID := fs.String("project", "", "filter by project id")
	due := fs.String("due", "", "filter by due date (YYYY-MM-DD)")
	fs.Parse(args)

	student := a.gateway.CurrentUser()
	if student == nil {
		return fmt.Errorf("not logged in")
	}

	var (
		tasks []models.Task
		err   error
	)
	if *projectID != "" {
		tasks, err = a.tasks.ByProject(*projectID)
	} else {
		tasks, err = a.tasks.ByOwner(student.Email)
	}
	if err != nil {
		return err
	}
	if *due != "" {
		if err := util.ValidateDate(*due); err != nil {
			return err
		}
		filtered := tasks[:0]
		for _, t := range tasks {
			if t.DueDate == *due {
				filtered = append(filtered, t)
			}
		}
		tasks = filtered
	}
	for _, t := range tasks {
		log.Printf("%s  [%s]  %s (due %s)", t.ID, t.Status, t.Title, t.DueDate)
	}
	log.Printf("%d tasks cached", len(tasks))
	return nil
}

func (a *app) cmdTaskStatus(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("task-status", flag.ExitOnError)
	id := fs.String("id", "", "task id")
	status := fs.String("status", models.StatusDone, "new status")
	fs.Parse(args)

	if *id == "" {
		return fmt.Errorf("missing -id")
	}
	task, err := a.tasks.UpdateStatus(ctx, *id, *status)
	if err != nil {
		return err
	}
	log.Printf("task %s is now %s", task.ID, task.Status)
	return nil
}

func (a *app) cmdExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	format := fs.String("format", "csv", "csv or xlsx")
	fs.Parse(args)

	student := a.gateway.CurrentUser()
	if student == nil {
		return fmt.Errorf("not logged in")
	}
	projects, err := a.projects.ByOwner(student.Email)
	if err != nil {
		return err
	}
	tasks, err := a.tasks.ByOwner(student.Email)
	if err != nil {
		return err
	}

	var path string
	switch *format {
	case "csv":
		path, err = a.exporter.CSV(projects, tasks)
	case "xlsx":
		path, err = a.exporter.XLSX(projects, tasks)
	default:
		return fmt.Errorf("unknown format %q", *format)
	}
	if err != nil {
		return err
	}
	log.Printf("wrote %s", path)
	return nil
}

func (a *app) cmdForgotPassword(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("forgot-password", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	fs.Parse(args)

	if err := util.ValidateEmail(*email); err != nil {
		return err
	}
	if err := a.gateway.ForgotPassword(ctx, *email); err != nil {
		return err
	}
	log.Printf("reset mail requested for %s", *email)
	return nil
}

func (a *app) cmdResetPassword(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset-password", flag.ExitOnError)
	token := fs.String("token", "", "reset token from the mail")
	password := fs.String("password", "", "new password")
	fs.Parse(args)

	if err := util.ValidatePassword(*password); err != nil {
		return err
	}
	if err := a.gateway.ResetPassword(ctx, *token, *password); err != nil {
		return err
	}
	log.Printf("password reset, please log in again")
	return nil
}

func (a *app) cmdVerifyEmail(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("verify-email", flag.ExitOnError)
	token := fs.String("token", "", "verification token from the mail")
	fs.Parse(args)

	if err := a.gateway.VerifyEmail(ctx, *token); err != nil {
		return err
	}
	log.Printf("email verified")
	return nil
}

func ensureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
