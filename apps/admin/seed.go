package main

import (
	"context"
	"fmt"

	"github.com/alphauniversity/portal/core/user"
)

// seed creates the default development accounts; existing accounts are left
// untouched.
func (cli *commandLine) seed() error {
	ctx := context.Background()

	accounts := []user.NewUser{
		{Username: "test", Email: "test@example.com", Password: "test123"},
		{Username: "student1", Email: "student1@example.com", Password: "studentpass"},
		{Username: "teacher1", Email: "teacher1@example.com", Password: "teacherpass"},
		{Username: "admin1", Email: "admin1@example.com", Password: "adminpass"},
	}

	for _, nu := range accounts {
		if _, err := cli.usrRepo.GetUserByUsername(ctx, nu.Username); err == nil {
			fmt.Printf("%s already exists\n", nu.Username)
			continue
		} else if err != user.ErrNotFound {
			return err
		}
		if _, err := cli.usrSvc.Create(ctx, nu); err != nil {
			return err
		}
		fmt.Printf("%s created successfully\n", nu.Username)
	}
	return nil
}
