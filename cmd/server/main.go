package main

import (
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/haythammda/Gift-Storm/internal/config"
	"github.com/haythammda/Gift-Storm/internal/serverapp"
)

func main() {
	cfgPath := flag.String("config", "giftstorm.yml", "path to the YAML config")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg.ApplyEnv()

	handler, err := serverapp.NewHandler(serverapp.Options{
		Config:        cfg,
		StaticDir:     "static",
		UseDiskStatic: serverapp.UseDiskStaticByEnv(),
		Logger:        log.Default(),
	})
	if err != nil {
		log.Fatalf("build server: %v", err)
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Printf("listening on %s (data dir %s, balance %s)", cfg.Server.Addr, cfg.Server.DataDir, cfg.Balance.Preset)
	log.Fatal(srv.ListenAndServe())
}
