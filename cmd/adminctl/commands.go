package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/spf13/viper"

	"github.com/yungbote/idearoom-admin/internal/console"
	"github.com/yungbote/idearoom-admin/internal/realtime"
)

type env struct {
	client *console.Client
	out    io.Writer
}

type resourceCmd func(ctx context.Context, e *env, cmd string, args []string) error

func resources() map[string]resourceCmd {
	return map[string]resourceCmd{
		"blogs":           bind(console.BlogColumns()),
		"courses":         bind(console.CourseColumns()),
		"offered-courses": bind(console.OfferedCourseColumns()),
		"lecturers":       bind(console.LecturerColumns()),
		"users-form":      bind(console.UserFormColumns()),
	}
}

func login(ctx context.Context, client *console.Client, v *viper.Viper, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", v.GetString("email"), "admin email")
	password := fs.String("password", "", "admin password")
	remember := fs.Bool("remember", false, "remember the email on the server")
	if err := fs.Parse(args); err != nil {
		return err
	}
	res, err := client.Login(ctx, *email, *password, *remember)
	if err != nil {
		return err
	}
	v.Set("email", res.Email)
	path, err := saveToken(v, res.Token)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	fmt.Printf("Signed in as %s until %s (saved to %s)\n", res.Email, res.ExpiresAt.Local().Format(time.RFC1123), path)
	return nil
}

func bind[T any](cols console.Columns[T]) resourceCmd {
	return func(ctx context.Context, e *env, cmd string, args []string) error {
		switch cmd {
		case "delete":
			return deleteRecord(ctx, e, cols, args)
		case "watch":
			return watch(ctx, e, cols, args)
		default:
			return list(ctx, e, cols, args)
		}
	}
}

type viewFlags struct {
	search string
	sort   string
	desc   bool
}

func parseView(name string, args []string) (viewFlags, error) {
	var vf viewFlags
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&vf.search, "search", "", "filter rows by text")
	fs.StringVar(&vf.sort, "sort", "", "sort by field")
	fs.BoolVar(&vf.desc, "desc", false, "sort descending")
	return vf, fs.Parse(args)
}

// applyView sets search and sort on table. SortBy toggles direction on a
// repeated field, so a descending sort takes two calls.
func applyView[T any](table *console.Table[T], vf viewFlags) error {
	table.Search(vf.search)
	if vf.sort == "" {
		return nil
	}
	if err := table.SortBy(vf.sort); err != nil {
		return err
	}
	if _, desc := table.Sort(); desc != vf.desc {
		return table.SortBy(vf.sort)
	}
	return nil
}

func list[T any](ctx context.Context, e *env, cols console.Columns[T], args []string) error {
	vf, err := parseView("list", args)
	if err != nil {
		return err
	}
	records, err := console.Fetch(ctx, e.client, cols)
	if err != nil {
		return err
	}
	table := console.NewTable(cols)
	table.Load(records)
	if err := applyView(table, vf); err != nil {
		return err
	}
	return render(e.out, table)
}

func deleteRecord[T any](ctx context.Context, e *env, cols console.Columns[T], args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("delete %s: want exactly one id", cols.Resource)
	}
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil || id == 0 {
		return fmt.Errorf("delete %s: invalid id %q", cols.Resource, args[0])
	}
	if err := e.client.Delete(ctx, cols.Resource, uint(id)); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "%s successfully deleted\n", cols.Kind)
	return nil
}

// watch redraws the table after every merged change until interrupted.
func watch[T any](ctx context.Context, e *env, cols console.Columns[T], args []string) error {
	vf, err := parseView("watch", args)
	if err != nil {
		return err
	}
	table := console.NewTable(cols)
	if err := applyView(table, vf); err != nil {
		return err
	}
	var mu sync.Mutex
	notifier := console.NewNotifier(console.DefaultNoticeTTL)
	notifier.OnShow(func(n console.Notice) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(e.out, "[%s] %s\n", n.Level, n.Message)
	})
	feed := console.NewFeed(table, notifier)
	feed.OnApplied(func(ch realtime.Change) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(e.out, "\n%s %s #%d at %s\n", ch.Type, ch.Table, ch.ID, ch.At.Local().Format(time.TimeOnly))
		_ = render(e.out, table)
	})

	go func() {
		// First draw once the initial load lands.
		tick := time.NewTicker(100 * time.Millisecond)
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tick.C:
				if !table.Loading() {
					mu.Lock()
					_ = render(e.out, table)
					mu.Unlock()
					return
				}
			}
		}
	}()
	return console.Sync(ctx, e.client, feed)
}

func render[T any](w io.Writer, table *console.Table[T]) error {
	if table.Empty() {
		_, err := fmt.Fprintln(w, "No records.")
		return err
	}
	cols := table.Columns()
	fields := make([]string, 0, len(cols.Fields))
	for name := range cols.Fields {
		fields = append(fields, name)
	}
	sort.Strings(fields)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	header := append([]string{console.FieldID}, fields...)
	header = append(header, console.FieldCreatedAt)
	fmt.Fprintln(tw, strings.ToUpper(strings.Join(header, "\t")))
	rows := table.Rows()
	for _, rec := range rows {
		cells := []string{strconv.FormatUint(uint64(cols.ID(rec)), 10)}
		for _, name := range fields {
			cells = append(cells, cell(cols.Fields[name](rec)))
		}
		cells = append(cells, cols.CreatedAt(rec).Local().Format("2006-01-02 15:04"))
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d of %d %s\n", len(rows), table.Len(), cols.Resource)
	return err
}

func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case time.Time:
		if x.IsZero() {
			return "-"
		}
		return x.Local().Format("2006-01-02")
	case string:
		x = strings.Join(strings.Fields(x), " ")
		if r := []rune(x); len(r) > 40 {
			return string(r[:39]) + "…"
		}
		if x == "" {
			return "-"
		}
		return x
	default:
		return fmt.Sprint(x)
	}
}
