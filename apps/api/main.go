package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	echoapi "github.com/alphauniversity/portal/apps/api/echo"
	"github.com/alphauniversity/portal/core"
	"github.com/alphauniversity/portal/core/content"
	"github.com/alphauniversity/portal/core/user"
	emailsvc "github.com/alphauniversity/portal/services/email"
	logsvc "github.com/alphauniversity/portal/services/logger"
	"github.com/alphauniversity/portal/storage/database"
	"github.com/alphauniversity/portal/storage/database/sqlxrepos"
)

func main() {
	conf := core.Conf
	user.SetSecretKey(conf.SecretKey)

	// set up logging
	var logger core.Logger
	stdLogger := logsvc.NewStdLogger("API : ")
	if conf.RollbarToken != "" {
		logger = logsvc.NewRollbarLogger(stdLogger.Std(), conf)
	} else {
		logger = stdLogger
	}

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(database.EnsureSchema(db))
	usrRepo := sqlxrepos.NewUserRepository(db)

	// set up services
	var mailSvc core.EmailService
	switch {
	case conf.SendgridAPIKey != "":
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	case conf.Mail.Server != "":
		mailSvc = emailsvc.NewSMTPService(conf, logger)
	default:
		mailSvc = emailsvc.NewConsoleService(conf)
	}
	usrSvc := user.NewService(usrRepo, mailSvc, conf)

	catalog, err := core.LoadCatalog(conf.CatalogPath)
	errAndDie(err)

	// start API server
	app := echoapi.NewServer(
		&echoapi.Options{
			Addr:         conf.Addr,
			Conf:         conf,
			Logger:       logger,
			UserSvc:      usrSvc,
			ContentStore: content.NewFSStore(conf.UploadRoot),
			Catalog:      catalog,
		},
	)
	go app.Start()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.Stop(ctx); err != nil {
		logger.Error("server shutdown", err)
	}
}

func errAndDie(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
