package main

import (
	"flag"
	"fmt"

	"hillview-school/app/config"
	"hillview-school/app/database"
	"hillview-school/app/models"
)

func main() {
	firstName := flag.String("first-name", "", "Admin first name")
	lastName := flag.String("last-name", "", "Admin last name")
	email := flag.String("email", "", "Admin email")
	password := flag.String("password", "", "Admin password")
	role := flag.String("role", models.RoleHeadteacher, "Role to assign (headteacher or admin)")
	flag.Parse()

	if *email == "" || *password == "" || *firstName == "" || *lastName == "" {
		fmt.Println("Usage: add_admin -first-name NAME -last-name NAME -email EMAIL -password PASSWORD [-role headteacher|admin]")
		return
	}
	if *role != models.RoleHeadteacher && *role != models.RoleAdmin {
		fmt.Println("Role must be headteacher or admin")
		return
	}

	config.InitDB()
	db := config.GetDB()
	if db == nil {
		fmt.Println("Failed to connect to database")
		return
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		fmt.Printf("Error running migrations: %v\n", err)
		return
	}

	user := &models.User{
		FirstName: *firstName,
		LastName:  *lastName,
		Email:     *email,
		Password:  *password,
	}

	if err := database.CreateTeacher(db, user, *role); err != nil {
		fmt.Printf("Error creating user: %v\n", err)
		return
	}

	fmt.Printf("User created successfully: %s %s (%s) as %s\n", user.FirstName, user.LastName, user.Email, *role)
}
