// Command prebuild prints the settings snapshot an offline build sees: every
// declared key with the value Get returns in the build phase.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"fairgate/internal/settings"
)

type entry struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "prebuild:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	store, err := settings.NewStore(settings.PhaseBuild, nil)
	if err != nil {
		return err
	}

	name, err := settings.Get(ctx, store, settings.FairName)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "building static pages for %q\n", name)

	out := make([]entry, 0, len(settings.Entries()))
	for _, e := range settings.Entries() {
		out = append(out, entry{Key: e.Key(), Value: settings.Fallback(e)})
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
