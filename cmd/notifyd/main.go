package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/eyajribi/Gestion-projets-Scolaires-sub002/internal/config"
	"github.com/eyajribi/Gestion-projets-Scolaires-sub002/internal/database"
	"github.com/eyajribi/Gestion-projets-Scolaires-sub002/internal/notify"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := database.Init(config.DatabaseConfig{Path: cfg.Notify.DBPath})
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	if err := database.AutoMigrateNotify(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	r := notify.SetupRouter(cfg.Notify, db)

	addr := fmt.Sprintf("%s:%d", cfg.Notify.Address, cfg.Notify.Port)
	log.Printf("push relay listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("run server: %v", err)
	}
}
