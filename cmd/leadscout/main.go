package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	leadscout "github.com/leadscout/leadscout-go"
	"github.com/leadscout/leadscout-go/export"
	"github.com/leadscout/leadscout-go/internal/tokenfile"
	"github.com/leadscout/leadscout-go/obs"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	shutdownObs, err := obs.Init(ctx, obs.OptionsFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "observability init warning: %v\n", err)
	}
	defer func() {
		if shutdownObs != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownObs(shutdownCtx); err != nil {
				fmt.Fprintf(os.Stderr, "observability shutdown error: %v\n", err)
			}
		}
	}()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		usage()
		return errors.New("missing command")
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store, err := tokenfile.Default()
	if err != nil {
		return fmt.Errorf("resolve token store: %w", err)
	}

	client := newClient(cfg, store)

	switch args[0] {
	case "login":
		return cmdLogin(ctx, client, args[1:])
	case "register":
		return cmdRegister(ctx, client, args[1:])
	case "me":
		return cmdMe(ctx, client, args[1:])
	case "logout":
		if err := client.Auth().Logout(); err != nil {
			return err
		}
		fmt.Println("logged out")
		return nil
	case "search":
		return cmdSearch(ctx, client, cfg, args[1:])
	case "history":
		return cmdHistory(ctx, client, args[1:])
	case "leads":
		return cmdLeads(ctx, client, args[1:])
	case "activity":
		return cmdActivity(ctx, client, args[1:])
	case "reminder":
		return cmdReminder(ctx, client, args[1:])
	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func newClient(cfg Config, store *tokenfile.Store) *leadscout.Client {
	opts := []leadscout.Option{
		leadscout.WithSession(store),
		leadscout.WithOnSessionExpired(func() {
			fmt.Fprintln(os.Stderr, "session expired; run `leadscout login` again")
		}),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, leadscout.WithBaseURL(cfg.BaseURL))
	}
	if cfg.RateLimitRPS > 0 {
		opts = append(opts, leadscout.WithRateLimit(cfg.RateLimitRPS, 1))
	}
	if os.Getenv("LEADSCOUT_DEBUG") == "1" {
		opts = append(opts, leadscout.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	}
	return leadscout.New(opts...)
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: leadscout <command> [flags]

commands:
  login -u <username> -p <password>
  register -email <email> -u <username> -p <password> [-name <full name>]
  me
  logout
  search -country <c> -city <c> -type <t> [-state <s>] [-category <c>] [-max <n>] [-o <file.csv>]
  history [list|show <id>|delete <id>|clear]
  leads [list|get <id>|create|update <id>|delete <id>|stats]
  activity [add <lead-id>|list <lead-id>]
  reminder [add <lead-id>|upcoming]`)
}

func cmdLogin(ctx context.Context, client *leadscout.Client, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	username := fs.String("u", "", "username")
	password := fs.String("p", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" || *password == "" {
		return errors.New("login requires -u and -p")
	}
	if _, err := client.Auth().Login(ctx, *username, *password); err != nil {
		return err
	}
	fmt.Println("logged in")
	return nil
}

func cmdRegister(ctx context.Context, client *leadscout.Client, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	email := fs.String("email", "", "email address")
	username := fs.String("u", "", "username")
	password := fs.String("p", "", "password")
	fullName := fs.String("name", "", "full name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *username == "" || *password == "" {
		return errors.New("register requires -email, -u and -p")
	}
	env, err := client.Auth().Register(ctx, leadscout.RegisterRequest{
		Email:    *email,
		Username: *username,
		Password: *password,
		FullName: *fullName,
	})
	if err != nil {
		return err
	}
	fmt.Printf("registered %s\n", env.Data.Username)
	return nil
}

func cmdMe(ctx context.Context, client *leadscout.Client, args []string) error {
	env, err := client.Auth().Me(ctx)
	if err != nil {
		return err
	}
	if tokens, ok := client.Session().Tokens(); ok && leadscout.ExpiresSoon(tokens.AccessToken, 2*time.Minute) {
		fmt.Fprintln(os.Stderr, "note: access token expires soon")
	}
	return printJSON(env.Data)
}

func cmdSearch(ctx context.Context, client *leadscout.Client, cfg Config, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	country := fs.String("country", "", "country")
	state := fs.String("state", "", "state or province")
	city := fs.String("city", "", "city")
	placeType := fs.String("type", "", "place type, e.g. gym")
	category := fs.String("category", "", "facility category")
	maxResults := fs.Int("max", 20, "maximum results")
	out := fs.String("o", "", "write results to a CSV file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *country == "" || *city == "" || *placeType == "" {
		return errors.New("search requires -country, -city and -type")
	}
	if cfg.APIKey == "" {
		return errors.New("no places API key configured (set api_key in config.yaml or LEADSCOUT_GOOGLE_API_KEY)")
	}

	env, err := client.Facilities().Search(ctx, leadscout.FacilitySearchRequest{
		APIKey:           cfg.APIKey,
		Country:          *country,
		State:            *state,
		City:             *city,
		PlaceType:        *placeType,
		FacilityCategory: *category,
		MaxResults:       *maxResults,
	})
	if err != nil {
		return err
	}
	result := env.Data
	if !result.Success && result.ErrorMessage != "" {
		return fmt.Errorf("search failed: %s", result.ErrorMessage)
	}
	fmt.Printf("found %d facilities\n", result.TotalFound)

	if *out == "" {
		*out = export.Filename(*placeType, *country, *city)
	}
	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := export.Facilities(f, result.Facilities, cfg.SelectedFields); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", *out)
	return nil
}

func cmdHistory(ctx context.Context, client *leadscout.Client, args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub = args[0]
		args = args[1:]
	}
	facilities := client.Facilities()
	switch sub {
	case "list":
		fs := flag.NewFlagSet("history list", flag.ContinueOnError)
		skip := fs.Int("skip", 0, "records to skip")
		limit := fs.Int("limit", 20, "records to return")
		if err := fs.Parse(args); err != nil {
			return err
		}
		env, err := facilities.History(ctx, *skip, *limit)
		if err != nil {
			return err
		}
		for _, rec := range env.Data {
			fmt.Printf("%d\t%s\t%s, %s\t%d results\t%s\n",
				rec.ID, rec.PlaceType, rec.City, rec.Country, rec.ResultsCount, rec.CreatedAt.Format(time.RFC3339))
		}
		return nil
	case "show":
		id, err := argID(args, "history show")
		if err != nil {
			return err
		}
		env, err := facilities.HistoryFacilities(ctx, id)
		if err != nil {
			return err
		}
		return printJSON(env.Data)
	case "delete":
		id, err := argID(args, "history delete")
		if err != nil {
			return err
		}
		if _, err := facilities.DeleteHistory(ctx, id); err != nil {
			return err
		}
		fmt.Println("deleted")
		return nil
	case "clear":
		if _, err := facilities.DeleteAllHistory(ctx); err != nil {
			return err
		}
		fmt.Println("history cleared")
		return nil
	default:
		return fmt.Errorf("unknown history subcommand %q", sub)
	}
}

func cmdLeads(ctx context.Context, client *leadscout.Client, args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub = args[0]
		args = args[1:]
	}
	leads := client.Leads()
	switch sub {
	case "list":
		env, err := leads.GetAll(ctx, nil)
		if err != nil {
			return err
		}
		for _, lead := range env.Data {
			fmt.Printf("%d\t%-10s\t%s\tscore=%d\n", lead.ID, lead.Status, lead.Name, lead.Score)
		}
		return nil
	case "get":
		id, err := argID(args, "leads get")
		if err != nil {
			return err
		}
		env, err := leads.GetByID(ctx, strconv.Itoa(id))
		if err != nil {
			return err
		}
		return printJSON(env.Data)
	case "create":
		fs := flag.NewFlagSet("leads create", flag.ContinueOnError)
		name := fs.String("name", "", "lead name")
		phone := fs.String("phone", "", "phone")
		email := fs.String("email", "", "email")
		website := fs.String("website", "", "website")
		notes := fs.String("notes", "", "notes")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if *name == "" {
			return errors.New("leads create requires -name")
		}
		env, err := leads.Create(ctx, leadscout.LeadCreate{
			Name:    *name,
			Phone:   *phone,
			Email:   *email,
			Website: *website,
			Notes:   *notes,
		})
		if err != nil {
			return err
		}
		fmt.Printf("created lead %d\n", env.Data.ID)
		return nil
	case "update":
		id, err := argID(args, "leads update")
		if err != nil {
			return err
		}
		fs := flag.NewFlagSet("leads update", flag.ContinueOnError)
		status := fs.String("status", "", "pipeline status")
		notes := fs.String("notes", "", "notes")
		value := fs.Float64("value", -1, "estimated value")
		probability := fs.Int("probability", -1, "win probability (0-100)")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		update := leadscout.LeadUpdate{}
		if *status != "" {
			update.Status = status
		}
		if *notes != "" {
			update.Notes = notes
		}
		if *value >= 0 {
			update.EstimatedValue = value
		}
		if *probability >= 0 {
			update.Probability = probability
		}
		if _, err := leads.Update(ctx, strconv.Itoa(id), update); err != nil {
			return err
		}
		fmt.Println("updated")
		return nil
	case "delete":
		id, err := argID(args, "leads delete")
		if err != nil {
			return err
		}
		if _, err := leads.Delete(ctx, strconv.Itoa(id)); err != nil {
			return err
		}
		fmt.Println("deleted")
		return nil
	case "stats":
		env, err := leads.Stats(ctx)
		if err != nil {
			return err
		}
		return printJSON(env.Data)
	default:
		return fmt.Errorf("unknown leads subcommand %q", sub)
	}
}

func cmdActivity(ctx context.Context, client *leadscout.Client, args []string) error {
	if len(args) < 2 {
		return errors.New("activity requires a subcommand and a lead id")
	}
	sub := args[0]
	id, err := argID(args[1:], "activity")
	if err != nil {
		return err
	}
	leads := client.Leads()
	switch sub {
	case "add":
		fs := flag.NewFlagSet("activity add", flag.ContinueOnError)
		activityType := fs.String("type", "note", "call, email, meeting or note")
		title := fs.String("title", "", "title")
		description := fs.String("desc", "", "description")
		duration := fs.Int("duration", 0, "duration in minutes")
		if err := fs.Parse(args[2:]); err != nil {
			return err
		}
		if *title == "" {
			return errors.New("activity add requires -title")
		}
		create := leadscout.ActivityCreate{
			ActivityType: *activityType,
			Title:        *title,
			Description:  *description,
		}
		if *duration > 0 {
			create.DurationMinutes = duration
		}
		if _, err := leads.AddActivity(ctx, id, create); err != nil {
			return err
		}
		fmt.Println("activity logged")
		return nil
	case "list":
		env, err := leads.Activities(ctx, id)
		if err != nil {
			return err
		}
		return printJSON(env.Data)
	default:
		return fmt.Errorf("unknown activity subcommand %q", sub)
	}
}

func cmdReminder(ctx context.Context, client *leadscout.Client, args []string) error {
	if len(args) == 0 {
		return errors.New("reminder requires a subcommand")
	}
	leads := client.Leads()
	switch args[0] {
	case "add":
		id, err := argID(args[1:], "reminder add")
		if err != nil {
			return err
		}
		fs := flag.NewFlagSet("reminder add", flag.ContinueOnError)
		date := fs.String("date", "", "reminder date (RFC 3339)")
		reminderType := fs.String("type", "task", "call, email, meeting or task")
		title := fs.String("title", "", "title")
		description := fs.String("desc", "", "description")
		if err := fs.Parse(args[2:]); err != nil {
			return err
		}
		if *date == "" || *title == "" {
			return errors.New("reminder add requires -date and -title")
		}
		when, err := time.Parse(time.RFC3339, *date)
		if err != nil {
			return fmt.Errorf("parse -date: %w", err)
		}
		if _, err := leads.AddReminder(ctx, id, leadscout.ReminderCreate{
			ReminderDate: when,
			ReminderType: *reminderType,
			Title:        *title,
			Description:  *description,
		}); err != nil {
			return err
		}
		fmt.Println("reminder scheduled")
		return nil
	case "upcoming":
		fs := flag.NewFlagSet("reminder upcoming", flag.ContinueOnError)
		days := fs.Int("days", 7, "days ahead")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		env, err := leads.UpcomingReminders(ctx, *days)
		if err != nil {
			return err
		}
		return printJSON(env.Data)
	default:
		return fmt.Errorf("unknown reminder subcommand %q", args[0])
	}
}

func argID(args []string, command string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%s requires an id", command)
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%s: invalid id %q", command, args[0])
	}
	return id, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
