package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"school-admin/app/config"
	"school-admin/app/database"
	"school-admin/app/models"
	"school-admin/app/routes/auth"
)

func main() {
	email := flag.String("email", "", "admin email address")
	password := flag.String("password", "", "admin password")
	firstName := flag.String("first-name", "Admin", "first name")
	lastName := flag.String("last-name", "User", "last name")
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: addadmin -email <email> -password <password> [-first-name X] [-last-name Y]")
		os.Exit(1)
	}

	config.Load()
	db := config.GetDB()
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	hashed, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	user := &models.User{
		Email:     *email,
		Password:  hashed,
		FirstName: *firstName,
		LastName:  *lastName,
		Role:      models.RoleAdmin,
		IsActive:  true,
	}
	if err := database.CreateUser(db, user); err != nil {
		log.Fatal("Failed to create admin user: ", err)
	}

	fmt.Printf("Admin user created: %s %s (%s)\n", user.FirstName, user.LastName, user.Email)
}
