package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/Amund211/gamelens/internal/adapters/gameprovider"
	"github.com/Amund211/gamelens/internal/app"
	"github.com/Amund211/gamelens/internal/domain"
	"github.com/Amund211/gamelens/internal/logging"
	"github.com/Amund211/gamelens/internal/ports"
	"golang.org/x/sync/errgroup"
)

type payloadFiles struct {
	pc             string
	consoleNetwork string
	secondConsole  string
	retro          string
}

func readArray(path string) ([]json.RawMessage, error) {
	if path == "" {
		return []json.RawMessage{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var array []json.RawMessage
	err = json.Unmarshal(data, &array)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s as a JSON array: %w", path, err)
	}
	return array, nil
}

// loadPayload reads the four provider files concurrently. Missing paths give empty arrays.
func loadPayload(ctx context.Context, files payloadFiles) (gameprovider.Payload, error) {
	var payload gameprovider.Payload

	g, _ := errgroup.WithContext(ctx)
	targets := []struct {
		path string
		dst  *[]json.RawMessage
	}{
		{files.pc, &payload.PC},
		{files.consoleNetwork, &payload.ConsoleNetwork},
		{files.secondConsole, &payload.SecondConsole},
		{files.retro, &payload.Retro},
	}
	for _, target := range targets {
		g.Go(func() error {
			array, err := readArray(target.path)
			if err != nil {
				return err
			}
			*target.dst = array
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return gameprovider.Payload{}, err
	}
	return payload, nil
}

func run(ctx context.Context, args []string, now time.Time, out io.Writer) error {
	flags := flag.NewFlagSet("aggregate", flag.ContinueOnError)
	var files payloadFiles
	flags.StringVar(&files.pc, "pc", "", "path to a JSON array of pc games")
	flags.StringVar(&files.consoleNetwork, "console-network", "", "path to a JSON array of console network titles")
	flags.StringVar(&files.secondConsole, "second-console", "", "path to a JSON array of second console titles")
	flags.StringVar(&files.retro, "retro", "", "path to a JSON array of retro games")
	activityGameID := flags.String("activity", "", "print the activity histogram of this game id instead of the library")
	activityProvider := flags.String("activity-provider", "", "provider of the -activity game id (pc, console_network, second_console or retro)")
	windowDays := flags.Int("window", app.DefaultActivityWindowDays, "activity window in days")
	if err := flags.Parse(args); err != nil {
		return err
	}

	payload, err := loadPayload(ctx, files)
	if err != nil {
		return err
	}

	var marshalled []byte
	if *activityGameID != "" {
		provider := domain.Provider(*activityProvider)
		if provider != "" && !provider.Valid() {
			return fmt.Errorf("unknown provider '%s'", provider)
		}
		snapshot := domain.LibrarySnapshot{
			Games: slices.Concat(gameprovider.NormalizePayload(ctx, payload)...),
		}
		game, ok := snapshot.FindGame(provider, *activityGameID)
		if !ok {
			return fmt.Errorf("%w: '%s'", domain.ErrGameNotFound, *activityGameID)
		}
		marshalled, err = ports.ActivityToResponseData(app.Bucketize(app.UnlockInstants(game), *windowDays, now))
	} else {
		marshalled, err = ports.LibraryToResponseData(app.ComputeLibrary(ctx, now, payload))
	}
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	_, err = fmt.Fprintln(out, string(marshalled))
	return err
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx := logging.AddToContext(context.Background(), logger)

	err := run(ctx, os.Args[1:], time.Now(), os.Stdout)
	if err != nil {
		logger.Error("Aggregation failed", "error", err.Error())
		os.Exit(1)
	}
}
