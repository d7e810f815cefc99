// Command hash_password produces a bcrypt hash for the HR operator credential.
//
// Usage:
//
//	go run cmd/tools/hash_password/main.go <password>
//
// The output is suitable for the HR_PASSWORD_HASH environment variable.
// Honors BCRYPT_COST and PASSWORD_PEPPER the same way the server does.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/jonathan/hiring-pipeline/internal/config"
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "Usage: hash_password <password>")
		os.Exit(1)
	}

	cfg, err := config.NewPasswordConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}

	hash, err := cfg.HashPassword(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to hash password: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(hash)
}
