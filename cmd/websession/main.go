// Command websession is a terminal host for a client-held session: it keeps
// the credential pair in a profile, gates routes, and issues authenticated
// API calls against the configured origin.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
)

const usage = `usage: websession [-config file] <command> [args]

commands:
  status                       show the session state
  login <access> [refresh]     store a credential pair obtained elsewhere
  gate <path>                  evaluate page entry for path
  call <method> <path> [json]  issue an authenticated API request
  logout                       end the session
`

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "websession:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("websession", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() { fmt.Fprint(stderr, usage) }

	configPath := flags.String("config", "websession.yaml", "path to the configuration file")
	location := flags.String("location", "/", "the page the host is currently showing")

	if err := flags.Parse(args); err != nil {
		return err
	}

	if flags.NArg() == 0 {
		flags.Usage()
		return errors.New("missing command")
	}

	host, err := newHost(*configPath, *location, stdout, stderr)
	if err != nil {
		return err
	}
	defer host.Close()

	command, rest := flags.Arg(0), flags.Args()[1:]
	switch command {
	case "status":
		return host.status()
	case "login":
		return host.login(rest)
	case "gate":
		return host.gate(rest)
	case "call":
		return host.call(rest)
	case "logout":
		return host.logout()
	default:
		flags.Usage()
		return fmt.Errorf("unknown command %q", command)
	}
}
