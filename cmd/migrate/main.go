package main

import (
	"log"

	"hillview-school/app/config"
	"hillview-school/app/database"
)

func main() {
	log.Println("Running migrations...")

	config.InitDB()
	db := config.GetDB()
	if db == nil {
		log.Fatal("Failed to get database instance")
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Migration failed: ", err)
	}

	log.Println("Migrations completed successfully")
}
