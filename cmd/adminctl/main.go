package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/relieflink/relief-api-go/pkg/auth"
	"github.com/relieflink/relief-api-go/pkg/database"
	"github.com/relieflink/relief-api-go/pkg/models"
)

// adminctl creates an admin account or resets its password.
func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	if len(os.Args) < 3 {
		fmt.Println("Usage: adminctl <username> <password>")
		os.Exit(1)
	}

	username := os.Args[1]
	password := os.Args[2]

	hash, err := auth.HashPassword(password)
	if err != nil {
		fmt.Printf("Error: could not hash password: %v\n", err)
		os.Exit(1)
	}

	db := database.InitDB()

	var user models.AdminUser
	err = db.Where("username = ?", username).First(&user).Error
	if err == nil {
		user.PasswordHash = hash
		if err := db.Save(&user).Error; err != nil {
			fmt.Printf("Error: could not update admin %s: %v\n", username, err)
			os.Exit(1)
		}
		fmt.Printf("Password updated for admin %s\n", username)
		return
	}

	user = models.AdminUser{Username: username, PasswordHash: hash}
	if err := db.Create(&user).Error; err != nil {
		fmt.Printf("Error: could not create admin %s: %v\n", username, err)
		os.Exit(1)
	}
	fmt.Printf("Admin %s created\n", username)
}
