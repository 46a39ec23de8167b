package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/annel0/world-graph/internal/config"
	"github.com/annel0/world-graph/internal/gen"
	"github.com/annel0/world-graph/internal/logging"
	"github.com/annel0/world-graph/internal/storage"
	"github.com/annel0/world-graph/internal/terrain"
	"github.com/annel0/world-graph/internal/world"
)

// worldgen-cli генерирует мир без запуска сервера: для инспекции
// параметров генерации и подготовки снимков.
func main() {
	seed := flag.Int64("seed", 42, "сид генерации")
	width := flag.Int("width", 1000, "ширина области сэмплирования")
	height := flag.Int("height", 1000, "высота области сэмплирования")
	radius := flag.Float64("radius", 20, "минимальная дистанция между чанками")
	cycles := flag.Int("cycles", 500, "количество циклов поверх MST")
	span := flag.Int("span", 16, "сторона террейн-окна чанка")
	dataPath := flag.String("data", "", "сохранить снимок в BadgerDB по этому пути")
	jsonOut := flag.String("json", "", "выгрузить снимок в JSON файл")
	flag.Parse()

	if err := logging.InitDefaultLogger("worldgen"); err != nil {
		fmt.Fprintf(os.Stderr, "logging init: %v\n", err)
		os.Exit(1)
	}
	defer logging.CloseDefaultLogger()
	defer logging.GetLoggerManager().CloseAll()

	cfg := config.Default()
	cfg.World.Seed = *seed
	cfg.World.Width = *width
	cfg.World.Height = *height
	cfg.World.Radius = *radius
	cfg.World.Cycles = *cycles
	cfg.World.ChunkSpan = *span

	generator := gen.NewWorldGenerator(cfg.World, terrain.ParamsFromConfig(cfg.Terrain))
	graph, err := generator.Generate()
	if err != nil {
		logging.Error("❌ generate: %v", err)
		os.Exit(1)
	}

	printStats(graph, *seed)

	snap := graph.Snapshot(*seed)
	if *dataPath != "" {
		if err := saveToBadger(snap, *dataPath); err != nil {
			logging.Error("❌ save to badger: %v", err)
			os.Exit(1)
		}
		logging.Info("💾 Snapshot saved to %s", *dataPath)
	}
	if *jsonOut != "" {
		if err := saveToJSON(snap, *jsonOut); err != nil {
			logging.Error("❌ save json: %v", err)
			os.Exit(1)
		}
		logging.Info("💾 JSON dump written to %s", *jsonOut)
	}
}

func printStats(graph *world.WorldGraph, seed int64) {
	fmt.Printf("seed:      %d\n", seed)
	fmt.Printf("chunks:    %d\n", graph.ChunkCount())
	fmt.Printf("passages:  %d\n", graph.PassageCount())
	fmt.Printf("connected: %v\n", graph.IsConnected())

	// Распределение степеней вершин
	degrees := make(map[int]int)
	maxDegree := 0
	for _, id := range graph.ChunkIDs() {
		d := len(graph.Neighbours(id))
		degrees[d]++
		if d > maxDegree {
			maxDegree = d
		}
	}
	fmt.Println("degree distribution:")
	for d := 0; d <= maxDegree; d++ {
		if count, ok := degrees[d]; ok {
			fmt.Printf("  %2d: %d\n", d, count)
		}
	}
}

func saveToBadger(snap *world.GraphSnapshot, path string) error {
	store, err := storage.NewWorldStorage(path)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.SaveSnapshot(snap)
}

func saveToJSON(snap *world.GraphSnapshot, path string) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
