package main

import (
	"log"
	"os"

	"github.com/alphauniversity/portal/core"
	"github.com/alphauniversity/portal/core/user"
	emailsvc "github.com/alphauniversity/portal/services/email"
	"github.com/alphauniversity/portal/storage/database"
	"github.com/alphauniversity/portal/storage/database/sqlxrepos"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.Conf
	user.SetSecretKey(conf.SecretKey)

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(db.Ping())
	errAndDie(database.EnsureSchema(db))

	usrRepo := sqlxrepos.NewUserRepository(db)
	usrSvc := user.NewService(usrRepo, emailsvc.NewConsoleService(conf), conf)

	// start CLI
	cli := commandLine{
		usrRepo: usrRepo,
		usrSvc:  usrSvc,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
