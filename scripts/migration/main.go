package main

import (
	"context"
	"flag"
	"os"

	"ecobarter-backend/config"
	"ecobarter-backend/dao"
	"ecobarter-backend/db"

	"github.com/zeromicro/go-zero/core/logx"
)

// Creates the schema on the configured database and optionally loads the
// demo catalog.
func main() {
	configPath := flag.String("config", os.Getenv("ECOBARTER_CONFIG"), "path to config.toml")
	seed := flag.Bool("seed", false, "insert demo items when the items table is empty")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logx.Must(err)
	}
	logx.MustSetup(cfg.LogConf())

	ctx := context.Background()
	conn, err := db.Open(ctx, cfg.Database.Driver, cfg.DataSourceName())
	if err != nil {
		logx.Must(err)
	}
	defer conn.Close()

	logx.Infof("migrating %s database", conn.Driver)
	if err := db.Migrate(ctx, conn); err != nil {
		logx.Must(err)
	}

	if *seed {
		n, err := db.Seed(ctx, conn, dao.NewItemRepository(conn))
		if err != nil {
			logx.Must(err)
		}
		logx.Infof("seeded %d demo items", n)
	}

	logx.Info("migration done")
}
