// veneer-cli is the editor's command-line front end. It parses the fixed flag
// schema, validates goto targets, and forwards open requests to the daemon.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/veneer-editor/veneer/internal/api"
	"github.com/veneer-editor/veneer/internal/cli"
)

// Version is set at build time with -ldflags.
var Version = "dev"

const (
	defaultDaemonURL = "http://127.0.0.1:7420"
	pollInterval     = 500 * time.Millisecond
)

func main() {
	os.Exit(run(os.Args))
}

func run(argv []string) int {
	args, err := cli.ParseMain(argv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run with --help for usage.")
		return 1
	}

	switch {
	case args.Help:
		fmt.Print(cli.HelpText("veneer-cli", cli.TerminalWidth()))
		return 0
	case args.Version:
		fmt.Printf("veneer-cli %s\n", Version)
		return 0
	case args.InstallExtension != "" || args.UninstallExtension != "":
		fmt.Fprintln(os.Stderr, "Extension management is not available in this build.")
		return 1
	case len(args.Positionals) == 0:
		fmt.Print(cli.HelpText("veneer-cli", cli.TerminalWidth()))
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := forwardOpen(ctx, args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func forwardOpen(ctx context.Context, args *cli.Args) error {
	request := api.OpenRequest{
		Targets:     targets(args),
		Diff:        args.Diff,
		Wait:        args.Wait,
		NewWindow:   args.NewWindow,
		ReuseWindow: args.ReuseWindow,
	}

	created, err := postOpen(ctx, request)
	if err != nil {
		return err
	}

	if !args.Wait {
		return nil
	}
	return waitForClose(ctx, created.ID)
}

func targets(args *cli.Args) []api.OpenTarget {
	if args.Goto {
		locations := args.Locations()
		out := make([]api.OpenTarget, 0, len(locations))
		for _, loc := range locations {
			out = append(out, api.OpenTarget{Path: loc.Path, Line: loc.Line, Column: loc.Column})
		}
		return out
	}

	out := make([]api.OpenTarget, 0, len(args.Positionals))
	for _, path := range args.Positionals {
		out = append(out, api.OpenTarget{Path: path})
	}
	return out
}

func daemonURL() string {
	if url := os.Getenv("VENEER_URL"); url != "" {
		return url
	}
	return defaultDaemonURL
}

func newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, daemonURL()+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := os.Getenv("VENEER_API_TOKEN"); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func postOpen(ctx context.Context, request api.OpenRequest) (*api.OpenRequest, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return nil, err
	}

	req, err := newRequest(ctx, http.MethodPost, "/api/open", payload)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot reach the editor daemon at %s: %w", daemonURL(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("daemon rejected the open request (%s)", resp.Status)
	}

	var created api.OpenRequest
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, err
	}
	return &created, nil
}

// waitForClose polls until the frontend marks the request done.
func waitForClose(ctx context.Context, id string) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			req, err := newRequest(ctx, http.MethodGet, "/api/open/"+id, nil)
			if err != nil {
				return err
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}

			var current api.OpenRequest
			decodeErr := json.NewDecoder(resp.Body).Decode(&current)
			resp.Body.Close()
			if decodeErr != nil {
				return decodeErr
			}
			if current.Done {
				return nil
			}
		}
	}
}
