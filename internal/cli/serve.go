package cli

import (
	"github.com/kansen-app/kansen/internal/pipeline"
	"github.com/kansen-app/kansen/internal/server"
	"github.com/kansen-app/kansen/internal/storage"
)

func (a *app) newServer(svc *pipeline.Service, store *storage.Store) *server.Server {
	return server.New(server.Config{
		Addr:            a.cfg.Server.Addr,
		CORSOrigins:     a.cfg.Server.CORSOrigins,
		RequestTimeout:  a.cfg.Server.RequestTimeout,
		ShutdownTimeout: a.cfg.Server.ShutdownTimeout,
		Syncer:          svc,
		Store:           store,
		Logger:          a.log,
	})
}
