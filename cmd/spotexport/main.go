// Command spotexport dumps one map's spots and strokes to a JSON snapshot.
package main

import (
	"flag"
	"fmt"
	"os"

	"nadebook/internal/config"
	"nadebook/internal/logging"
	"nadebook/internal/store"
)

func main() {
	mapKey := flag.String("map", "", "Map key to export (e.g. de_mirage)")
	out := flag.String("out", "", "Output JSON path (default <map>.json)")
	configDir := flag.String("config", ".", "Directory containing "+config.ConfigName)
	flag.Parse()

	if *mapKey == "" {
		fmt.Println("Usage: spotexport -map <key> [-out <path>] [-config <dir>]")
		os.Exit(1)
	}
	if *out == "" {
		*out = *mapKey + ".json"
	}

	if err := config.Load(*configDir); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logging.Setup(config.GetString("logLevel"))

	storeCfg := config.GetStoreConfig()
	st, err := store.Open(storeCfg.Type, storeCfg.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open store: %v\n", err)
		os.Exit(1)
	}
	if err := st.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init store: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	if err := store.ExportSnapshot(st, *mapKey, *out); err != nil {
		fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
		os.Exit(1)
	}

	spots, err := st.ListSpots(*mapKey)
	if err == nil {
		fmt.Printf("Exported %d spots from %s to %s\n", len(spots), *mapKey, *out)
	} else {
		fmt.Printf("Exported %s to %s\n", *mapKey, *out)
	}
}
