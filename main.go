package main

import (
	"github.com/joho/godotenv"

	"github.com/thanhhoan-v2/Personal-Porfolio/cmd"
)

func main() {
	// A missing .env is fine; config falls back to defaults and FOLIO_* vars.
	_ = godotenv.Load()
	cmd.Execute()
}
