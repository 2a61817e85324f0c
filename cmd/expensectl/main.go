// expensectl is a terminal client for the expense tracker API. It logs
// in, manages expenses, and renders category charts, mirroring the web
// client's flows over the same REST surface.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"

	"github.com/yogasw/expense-tracker-api/internal/charts"
	"github.com/yogasw/expense-tracker-api/internal/tracker"
	"github.com/yogasw/expense-tracker-api/pkg/apiclient"
)

func usage() {
	fmt.Fprintln(os.Stderr, `usage: expensectl <command> [flags]

commands:
  login    -email -password            print a bearer token
  list     [-filter all|month|week|category] [-month YYYY-MM] [-category NAME]
  add      -title -amount -category [-date] [-desc]
  edit     -id -title -amount -category [-date] [-desc]
  rm       -id
  stats    [-period all|month|week] [-month YYYY-MM] [-category NAME]
  chart    -out FILE.png [-kind bar|donut] [same filter flags as list]

environment:
  EXPENSE_API_URL    base URL (default http://localhost:8080)
  EXPENSE_API_TOKEN  bearer token for authenticated commands`)
	os.Exit(2)
}

func main() {
	_ = godotenv.Load()
	if len(os.Args) < 2 {
		usage()
	}

	base := os.Getenv("EXPENSE_API_URL")
	if base == "" {
		base = "http://localhost:8080"
	}
	client := apiclient.New(base)
	client.Token = os.Getenv("EXPENSE_API_TOKEN")

	ctx := context.Background()
	var err error
	switch os.Args[1] {
	case "login":
		err = runLogin(ctx, client, os.Args[2:])
	case "list":
		err = runList(ctx, client, os.Args[2:])
	case "add":
		err = runAdd(ctx, client, os.Args[2:])
	case "edit":
		err = runEdit(ctx, client, os.Args[2:])
	case "rm":
		err = runRemove(ctx, client, os.Args[2:])
	case "stats":
		err = runStats(ctx, client, os.Args[2:])
	case "chart":
		err = runChart(ctx, client, os.Args[2:])
	default:
		usage()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "expensectl: %v\n", err)
		os.Exit(1)
	}
}

func runLogin(ctx context.Context, client *apiclient.Client, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	_ = fs.Parse(args)

	s, err := client.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("logged in as %s <%s>\nexport EXPENSE_API_TOKEN=%s\n", s.Name, s.Email, s.Token)
	return nil
}

type filterFlags struct {
	mode     *string
	month    *string
	category *string
}

func addFilterFlags(fs *flag.FlagSet) filterFlags {
	return filterFlags{
		mode:     fs.String("filter", "all", "all, month, week, or category"),
		month:    fs.String("month", "", "month as YYYY-MM (with -filter month)"),
		category: fs.String("category", "", "category name (with -filter category)"),
	}
}

// loadTracker fetches all expenses once and applies the local filter,
// like the web container does on mount.
func loadTracker(ctx context.Context, client *apiclient.Client, f filterFlags) (*tracker.Controller, error) {
	ctl := tracker.NewController(client)
	if err := ctl.Load(ctx); err != nil {
		return nil, err
	}
	switch tracker.FilterMode(*f.mode) {
	case tracker.FilterMonth:
		ctl.T.UseMonth(*f.month)
	case tracker.FilterWeek:
		ctl.T.UseWeek()
	case tracker.FilterCategory:
		ctl.T.UseCategory(*f.category)
	default:
		ctl.T.UseAll()
	}
	return ctl, nil
}

func runList(ctx context.Context, client *apiclient.Client, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	f := addFilterFlags(fs)
	_ = fs.Parse(args)

	ctl, err := loadTracker(ctx, client, f)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tTITLE\tCATEGORY\tAMOUNT")
	for _, e := range ctl.T.Filtered() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\n", e.ID, e.Date.Format("2006-01-02"), e.Title, e.Category, e.Amount)
	}
	_ = w.Flush()
	fmt.Printf("filtered total: %.2f  all-time total: %.2f\n", ctl.T.Total(), ctl.T.TotalAllTime())
	return nil
}

func draftFlags(fs *flag.FlagSet) (title *string, amount *float64, category, date, desc *string) {
	title = fs.String("title", "", "expense title")
	amount = fs.Float64("amount", 0, "amount, must be > 0")
	category = fs.String("category", "", "category name")
	date = fs.String("date", "", "date as RFC3339 or YYYY-MM-DD (default today)")
	desc = fs.String("desc", "", "optional description")
	return
}

func runAdd(ctx context.Context, client *apiclient.Client, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	title, amount, category, date, desc := draftFlags(fs)
	_ = fs.Parse(args)

	ctl := tracker.NewController(client)
	e, err := ctl.Add(ctx, apiclient.ExpenseDraft{
		Title: *title, Amount: *amount, Category: *category, Date: *date, Description: *desc,
	})
	if err != nil {
		return err
	}
	fmt.Printf("created %s: %s %.2f (%s)\n", e.ID, e.Title, e.Amount, e.Category)
	return nil
}

func runEdit(ctx context.Context, client *apiclient.Client, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	id := fs.String("id", "", "expense id")
	title, amount, category, date, desc := draftFlags(fs)
	_ = fs.Parse(args)

	ctl := tracker.NewController(client)
	e, err := ctl.Edit(ctx, *id, apiclient.ExpenseDraft{
		Title: *title, Amount: *amount, Category: *category, Date: *date, Description: *desc,
	})
	if err != nil {
		return err
	}
	fmt.Printf("updated %s: %s %.2f (%s)\n", e.ID, e.Title, e.Amount, e.Category)
	return nil
}

func runRemove(ctx context.Context, client *apiclient.Client, args []string) error {
	fs := flag.NewFlagSet("rm", flag.ExitOnError)
	id := fs.String("id", "", "expense id")
	_ = fs.Parse(args)

	ctl := tracker.NewController(client)
	if err := ctl.Remove(ctx, *id); err != nil {
		return err
	}
	fmt.Printf("deleted %s\n", *id)
	return nil
}

func runStats(ctx context.Context, client *apiclient.Client, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	periodName := fs.String("period", "all", "all, month, or week")
	month := fs.String("month", "", "month as YYYY-MM (with -period month)")
	category := fs.String("category", "", "exact category match")
	_ = fs.Parse(args)

	sum, err := client.Stats(ctx, apiclient.StatsFilter{
		Period: *periodName, Month: *month, Category: *category,
	})
	if err != nil {
		return err
	}
	fmt.Printf("total: %.2f  count: %d  avg: %.2f\ncategories: %v\n",
		sum.TotalAmount, sum.TotalCount, sum.AvgAmount, sum.Categories)
	return nil
}

func runChart(ctx context.Context, client *apiclient.Client, args []string) error {
	fs := flag.NewFlagSet("chart", flag.ExitOnError)
	out := fs.String("out", "expenses.png", "output PNG path")
	kind := fs.String("kind", "bar", "bar or donut")
	f := addFilterFlags(fs)
	_ = fs.Parse(args)

	ctl, err := loadTracker(ctx, client, f)
	if err != nil {
		return err
	}

	var png []byte
	switch *kind {
	case "donut":
		png, err = charts.RenderCategoryDonut(ctl.T.Filtered())
	default:
		png, err = charts.RenderCategoryBar(ctl.T.Filtered())
	}
	if err != nil {
		return err
	}
	if png == nil {
		fmt.Println("no expenses to chart")
		return nil
	}
	if err := os.WriteFile(*out, png, 0o644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", *out)
	return nil
}
