package main

import (
	"log"

	"ecomsim/config"
	"ecomsim/internal/sim"
	"ecomsim/internal/store"
	"ecomsim/internal/util"

	"go.uber.org/zap"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting data generator")

	simulator, err := sim.New(cfg)
	if err != nil {
		log.Fatalf("Failed to build simulator: %v", err)
	}

	dataset := simulator.Run()

	st, err := store.NewStore(cfg.OutputDir)
	if err != nil {
		log.Fatalf("Failed to prepare output dir: %v", err)
	}

	manifest, err := st.WriteDataset(dataset,
		cfg.Simulation.Seed, cfg.Simulation.StartDate, cfg.Simulation.EndDate)
	if err != nil {
		log.Fatalf("Failed to write dataset: %v", err)
	}

	logger.Info("Dataset written",
		zap.String("run_id", manifest.RunID),
		zap.String("dir", st.Dir()),
		zap.Int("orders", len(dataset.Orders)),
		zap.Int("behaviors", len(dataset.Behaviors)),
		zap.Int("customers", len(dataset.Customers)),
		zap.Int("items", len(dataset.Items)),
		zap.Int("messages", len(dataset.Messages)),
		zap.Int("coupons", len(dataset.Coupons)))
}
