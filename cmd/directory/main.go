// Package main is the operator console of the user directory. It talks to
// the users backend over REST and prints the filtered, sorted and
// paginated user list.
//
// Usage:
//
//	directory [-config file] [-base-url url] <command> [flags]
//
// Commands: list, create, update, delete.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/rai/userdirectory/internal/platform/config"
	"github.com/rai/userdirectory/internal/platform/eventbus"
	"github.com/rai/userdirectory/modules/audit"
	"github.com/rai/userdirectory/modules/directory"
	"github.com/rai/userdirectory/modules/directory/application/queries"
	"github.com/rai/userdirectory/modules/directory/infrastructure/rest"
	"github.com/rai/userdirectory/modules/directory/view"
	"github.com/rai/userdirectory/modules/shared/types"
)

var errUsage = errors.New("usage: directory [-config file] [-base-url url] <list|create|update|delete> [flags]")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("directory", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a YAML config file")
	baseURL := fs.String("base-url", "", "users backend URL (overrides config)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errUsage
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *baseURL != "" {
		cfg.Directory.BaseURL = *baseURL
	}

	logger := cfg.NewLogger(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eventBus := eventbus.New(logger)
	if _, err := audit.New(audit.Config{EventSubscriber: eventBus, Logger: logger}); err != nil {
		return fmt.Errorf("initializing audit: %w", err)
	}

	client, err := rest.NewClient(rest.Config{
		BaseURL: cfg.Directory.BaseURL,
		Timeout: cfg.Directory.Timeout,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	dir, err := directory.New(directory.Config{
		Gateway:        client,
		EventPublisher: eventBus,
		Logger:         logger,
		PageSize:       cfg.Directory.PageSize,
	})
	if err != nil {
		return err
	}

	cmd, cmdArgs := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "list":
		return runList(ctx, dir, cmdArgs, out)
	case "create":
		return runCreate(ctx, dir, cmdArgs, out)
	case "update":
		return runUpdate(ctx, dir, cmdArgs, out)
	case "delete":
		return runDelete(ctx, dir, cmdArgs, out)
	default:
		return fmt.Errorf("unknown command %q\n%w", cmd, errUsage)
	}
}

func runList(ctx context.Context, dir directory.Module, args []string, out io.Writer) error {
	state := dir.NewState()

	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	search := fs.String("search", "", "match name, email, company or phone digits")
	company := fs.String("company", "", "exact company name")
	letter := fs.String("letter", "", "first letter of the name")
	sortMode := fs.String("sort", "none", "none, asc or desc")
	page := fs.Int("page", 1, "page number, starting at 1")
	size := fs.Int("size", state.PageSize(), "users per page")
	if err := fs.Parse(args); err != nil {
		return err
	}

	mode, err := view.ParseSortMode(*sortMode)
	if err != nil {
		return err
	}
	state.SetCriteria(view.Criteria{Search: *search, Company: *company, Letter: *letter})
	state.SetSort(mode)
	if err := state.SetPageSize(*size); err != nil {
		return err
	}
	if err := state.SetPage(*page); err != nil {
		return err
	}

	list, err := dir.List(ctx, state)
	if err != nil {
		return err
	}
	printList(out, list)
	return nil
}

func printList(out io.Writer, list *queries.UserListDTO) {
	if list.FetchError != "" {
		fmt.Fprintf(out, "fetch failed: %s\n", list.FetchError)
		return
	}
	if len(list.Page.Items) == 0 {
		fmt.Fprintln(out, "No users found.")
	} else {
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tEMAIL\tPHONE\tCOMPANY")
		for _, u := range list.Page.Items {
			company, _ := u.CompanyName()
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Phone, company)
		}
		w.Flush()
	}

	fmt.Fprintf(out, "\nPage %d of %d (%d of %d users)\n",
		list.Page.Page, list.Page.PageCount, list.FilteredCount(), list.SnapshotCount)

	companies := make([]string, 0, len(list.Companies))
	for _, c := range list.Companies {
		companies = append(companies, c.String())
	}
	fmt.Fprintf(out, "Companies: %s\n", strings.Join(companies, ", "))
	fmt.Fprintf(out, "Letters: %s\n", strings.Join(list.Letters, " "))
}

// userFlags registers the editable fields of a user on fs.
type userFlags struct {
	name, email, phone, company *string
	noCompany                   *bool
}

func newUserFlags(fs *flag.FlagSet) *userFlags {
	return &userFlags{
		name:      fs.String("name", "", "full name"),
		email:     fs.String("email", "", "email address"),
		phone:     fs.String("phone", "", "phone number"),
		company:   fs.String("company", "", "company name"),
		noCompany: fs.Bool("no-company", false, "clear the company"),
	}
}

// apply overwrites the fields of u that were set on the command line.
func (f *userFlags) apply(fs *flag.FlagSet, u types.UserRecord) types.UserRecord {
	var set []string
	fs.Visit(func(fl *flag.Flag) { set = append(set, fl.Name) })

	if slices.Contains(set, "name") {
		u.Name = *f.name
	}
	if slices.Contains(set, "email") {
		u.Email = *f.email
	}
	if slices.Contains(set, "phone") {
		u.Phone = *f.phone
	}
	if slices.Contains(set, "company") {
		u.Company = types.NewCompany(*f.company)
	}
	if *f.noCompany {
		u.Company = nil
	}
	return u
}

func runCreate(ctx context.Context, dir directory.Module, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fields := newUserFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	created, err := dir.CreateUser(ctx, fields.apply(fs, types.UserRecord{}))
	if err != nil {
		return describe(err)
	}
	fmt.Fprintf(out, "Created user %s\n", created.ID)
	return nil
}

func runUpdate(ctx context.Context, dir directory.Module, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	rawID := fs.String("id", "", "id of the user to update")
	fields := newUserFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := types.ParseUserID(*rawID)
	if err != nil {
		return fmt.Errorf("-id: %w", err)
	}

	snap, err := dir.Refresh(ctx)
	if err != nil {
		return err
	}
	current, ok := snap.Find(id)
	if !ok {
		return fmt.Errorf("user %s not found", id)
	}

	if err := dir.UpdateUser(ctx, fields.apply(fs, current)); err != nil {
		return describe(err)
	}
	fmt.Fprintf(out, "Updated user %s\n", id)
	return nil
}

func runDelete(ctx context.Context, dir directory.Module, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	rawID := fs.String("id", "", "id of the user to delete")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := types.ParseUserID(*rawID)
	if err != nil {
		return fmt.Errorf("-id: %w", err)
	}

	if err := dir.DeleteUser(ctx, id); err != nil {
		return describe(err)
	}
	fmt.Fprintf(out, "Deleted user %s\n", id)
	return nil
}

// describe spells out field errors one per line.
func describe(err error) error {
	var verr *types.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	keys := make([]string, 0, len(verr.Fields))
	for k := range verr.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var b strings.Builder
	b.WriteString("invalid user")
	for _, k := range keys {
		fmt.Fprintf(&b, "\n  %s: %s", k, verr.Fields[k])
	}
	return errors.New(b.String())
}
