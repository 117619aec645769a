// Command cofdmtv-erasure reconstructs a payload from a directory of
// received erasure-coded chunk files, independent of the OFDM receiver —
// useful for exercising pkg/erasure against captured chunks directly.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"cofdmtv/internal/config"
	"cofdmtv/internal/diag"
	"cofdmtv/pkg/erasure"
)

func main() {
	configPath := flag.String("config", "config.yml", "path to receiver config")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		return
	}
	diag.Verbose = cfg.Diag.Verbose

	entries, err := os.ReadDir(cfg.Receiver.ChunkDir)
	if err != nil {
		fmt.Printf("Error reading %s: %v\n", cfg.Receiver.ChunkDir, err)
		return
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	store := erasure.NewStore()
	slot := 0
	for _, entry := range entries {
		if entry.IsDir() || slot >= erasure.Slots {
			continue
		}
		data, err := os.ReadFile(filepath.Join(cfg.Receiver.ChunkDir, entry.Name()))
		if err != nil {
			fmt.Printf("Error reading %s: %v\n", entry.Name(), err)
			continue
		}
		if store.Chunk(data, slot, uint16(slot)) {
			diag.Printf("Erasure", "loaded chunk %d from %s", slot, entry.Name())
			slot++
		}
	}

	if !store.Ready(erasure.Slots) {
		fmt.Printf("only %d/%d chunks available, cannot recover\n", slot, erasure.Slots)
		return
	}

	size := erasure.Slots * erasure.ChunkBytes
	out, crc32, ok := store.Recover(size, erasure.Slots)
	if !ok {
		fmt.Println("recovery failed")
		return
	}
	diag.Printf("Erasure", "recovered %d bytes, crc32=%#x", len(out), crc32)

	if cfg.Receiver.OutputFile != "" {
		if err := os.WriteFile(cfg.Receiver.OutputFile, out, 0o644); err != nil {
			fmt.Printf("Error writing %s: %v\n", cfg.Receiver.OutputFile, err)
		}
	}
}
