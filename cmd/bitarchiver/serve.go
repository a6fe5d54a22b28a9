package main

import (
	"github.com/adilg123/bitarchiver/internal/api"
	"github.com/adilg123/bitarchiver/internal/config"
	"github.com/urfave/cli/v2"
)

func runServer(context *cli.Context, cfg *config.Config) error {
	router := api.NewRouter(cfg)
	addr := ":" + context.String("port")
	log.Infof("listening on %s (%s)", addr, cfg.Environment)
	return router.Run(addr)
}
