package main

import (
	"flag"
	"fmt"

	"sunrise-school/app/config"
	"sunrise-school/app/database"
	"sunrise-school/app/models"
)

func main() {
	email := flag.String("email", "", "admin email")
	password := flag.String("password", "", "admin password")
	firstName := flag.String("first-name", "Admin", "first name")
	lastName := flag.String("last-name", "User", "last name")
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Println("Usage: addadmin -email <email> -password <password> [-first-name X] [-last-name Y]")
		return
	}

	// Initialize database connection
	config.InitDB()
	db := config.GetDB()
	defer db.Close()

	user := &models.User{
		Email:     *email,
		Password:  *password,
		FirstName: *firstName,
		LastName:  *lastName,
		Role:      "admin",
	}

	if err := database.CreateUser(db, user); err != nil {
		fmt.Printf("Error creating user: %v\n", err)
		return
	}

	fmt.Printf("User created successfully: %s %s (%s)\n", user.FirstName, user.LastName, user.Email)
}
