// Command contactctl submits the portfolio contact form from a terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/doreen/portfolio/internal/contact/form"
	"github.com/doreen/portfolio/pkg/logging"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("contactctl", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		api      string
		fields   form.Fields
		timeout  time.Duration
		logLevel string
		verbose  bool
	)
	fs.StringVar(&api, "api", envOr("PORTFOLIO_API_URL", "http://localhost:8080"), "API base URL")
	fs.StringVar(&fields.Name, "name", "", "Your name")
	fs.StringVar(&fields.Email, "email", "", "Your email address")
	fs.StringVar(&fields.Subject, "subject", "", "What's this about?")
	fs.StringVar(&fields.Message, "message", "", "Message text; use - to read it from stdin")
	fs.DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")
	fs.StringVar(&logLevel, "log-level", "error", "Log level")
	fs.BoolVar(&verbose, "v", false, "Print each state transition")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if fields.Message == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			fmt.Fprintf(stderr, "read message: %v\n", err)
			return 2
		}
		fields.Message = strings.TrimRight(string(b), "\n")
	}

	opts := []form.Option{
		form.WithHTTPClient(&http.Client{Timeout: timeout}),
		form.WithLogger(logging.NewWithWriter(stderr, logLevel)),
	}
	if verbose {
		opts = append(opts, form.WithObserver(func(s form.Snapshot) {
			fmt.Fprintf(stderr, "state=%s disabled=%t\n", s.State, s.Disabled)
		}))
	}

	c := form.New(strings.TrimRight(api, "/")+"/api/contact", opts...)
	if err := c.SetFields(fields); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	outcome, err := c.Submit(ctx)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if outcome.Kind != form.OutcomeSuccess {
		fmt.Fprintf(stderr, "error: %s\n", outcome.Message)
		return 1
	}
	fmt.Fprintln(stdout, outcome.Message)
	return 0
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
