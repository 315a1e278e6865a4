// Command register submits one registration from the command line through
// the same form handler the browser page uses.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"

	"go.uber.org/zap"

	"mangiato/internal/config"
	"mangiato/internal/logger"
	"mangiato/internal/register"
)

// stdoutDisplay prints the response once it is shown
type stdoutDisplay struct {
	text string
}

func (d *stdoutDisplay) SetText(text string) { d.text = text }
func (d *stdoutDisplay) Show()               { fmt.Println(d.text) }

// cliEvent has no native navigation to suppress
type cliEvent struct{}

func (cliEvent) PreventDefault() {}

func main() {
	cfg := config.LoadClient()

	fields := register.FieldMap{}
	flag.StringVar(&cfg.Endpoint, "endpoint", cfg.Endpoint, "registration URL")
	flag.BoolVar(&cfg.ShowErrors, "show-errors", cfg.ShowErrors, "print failures instead of staying silent")
	mode := flag.String("mode", string(cfg.ResponseMode), "response mode: json or text")
	first := flag.String("first-name", "", "first name")
	last := flag.String("last-name", "", "last name")
	username := flag.String("username", "", "username (email)")
	password := flag.String("password", "", "password")
	verbose := flag.Bool("v", false, "development logging")
	flag.Parse()

	m, err := register.ParseResponseMode(*mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfg.ResponseMode = m

	if err := checkEndpoint(cfg.Endpoint); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	fields[register.FieldFirstName] = *first
	fields[register.FieldLastName] = *last
	fields[register.FieldUsername] = *username
	fields[register.FieldPassword] = *password

	zl := zap.NewNop()
	if *verbose {
		if zl, err = logger.New(true); err != nil {
			log.Fatalf("Failed to build logger: %v", err)
		}
		defer zl.Sync()
	}

	client := register.NewClient(cfg, register.NewFastHTTPTransport(nil), zl)
	handler := register.NewFormSubmitHandler(cfg, fields, client, &stdoutDisplay{}, zl)

	handler.HandleSubmit(cliEvent{})
	handler.Wait()

	if handler.Failures() > 0 {
		os.Exit(1)
	}
}

// checkEndpoint requires an absolute URL; outside a page there is no
// document to resolve a relative path against.
func checkEndpoint(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return errors.New("endpoint must be an absolute URL such as http://localhost:8080/v1/users/, got " + endpoint)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported endpoint scheme %q", u.Scheme)
	}
	return nil
}
