package main

import (
	"context"

	"github.com/alphauniversity/portal/core"
	"github.com/alphauniversity/portal/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(uname, email, pwd string) error {
	ctx := context.Background()
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.usrRepo.GetUserByUsernameOrEmail(ctx, uname)
	if err != nil {
		if err != user.ErrNotFound {
			return err
		}
		_, err = cli.usrSvc.Create(ctx, user.NewUser{
			Username: uname,
			Email:    email,
			Password: pwd,
		})
		return err
	}
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	return cli.usrRepo.SetUserPassword(ctx, usr.ID, usr.PasswordHash)
}
