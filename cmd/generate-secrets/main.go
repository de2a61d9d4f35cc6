package main

import (
	"fmt"
	"log"

	"github.com/coopbus/ticketing-backend/internal/utils"
)

func main() {
	fmt.Println("===========================================")
	fmt.Println("JWT Secret Generator for CoopBus Ticketing")
	fmt.Println("===========================================")
	fmt.Println()

	secret, err := utils.GenerateSecret(48)
	if err != nil {
		log.Fatalf("Failed to generate secret: %v", err)
	}

	fmt.Println("Add this to your .env file or deployment secrets:")
	fmt.Println()
	fmt.Printf("JWT_SECRET=%s\n", secret)
	fmt.Println()
	fmt.Println("Keep the secret safe and never commit it to version control!")
	fmt.Println("===========================================")
}
