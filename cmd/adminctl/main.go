// Command adminctl drives the admin API from a terminal: it signs in, lists
// and deletes records, and follows a table's change stream.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yungbote/idearoom-admin/internal/console"
	"github.com/yungbote/idearoom-admin/internal/platform/logger"
)

const usage = `usage: adminctl [-url URL] [-timeout D] <command> [args]

commands:
  login  -email E -password P [-remember]
  list   <resource> [-search TERM] [-sort FIELD] [-desc]
  delete <resource> <id>
  watch  <resource> [-search TERM] [-sort FIELD] [-desc]

resources: blogs, courses, offered-courses, lecturers, users-form
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		var apiErr *console.APIError
		if errors.As(err, &apiErr) {
			fmt.Fprintf(os.Stderr, "adminctl: %s (status %d)\n", apiErr.Message, apiErr.StatusCode)
		} else {
			fmt.Fprintf(os.Stderr, "adminctl: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("adminctl", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	fs.String("url", "", "admin API base URL")
	fs.Duration("timeout", 0, "request timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	v, err := loadConfig(fs)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return errors.New("missing command")
	}

	log, err := logger.New(v.GetString("log_mode"))
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	client := console.NewClient(log, v.GetString("url"), v.GetDuration("timeout"))
	client.SetToken(v.GetString("token"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, cmdArgs := rest[0], rest[1:]
	if cmd == "login" {
		return login(ctx, client, v, cmdArgs)
	}
	if cmd != "list" && cmd != "delete" && cmd != "watch" {
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
	if len(cmdArgs) == 0 {
		return fmt.Errorf("%s: missing resource", cmd)
	}
	res, ok := resources()[cmdArgs[0]]
	if !ok {
		return fmt.Errorf("unknown resource %q", cmdArgs[0])
	}
	if client.Token() == "" {
		return errors.New("not signed in; run adminctl login first")
	}
	return res(ctx, &env{client: client, out: os.Stdout}, cmd, cmdArgs[1:])
}
