package main

import (
	"fmt"
	"log"
	"os"

	"github.com/baines-ai/voice-service/internal/persona"
)

// Renders the system instruction for a persona, exactly as the model
// will receive it. Useful when editing the persona document.
//
//	go run ./cmd/render-prompt vet_care_assistant
func main() {
	personaFile := "data/personas.json"
	if path := os.Getenv("PERSONA_FILE"); path != "" {
		personaFile = path
	}

	if len(os.Args) < 2 {
		store := persona.NewStore(personaFile)
		personas, err := store.List()
		if err != nil {
			log.Fatalf("Failed to load personas: %v", err)
		}
		fmt.Println("usage: render-prompt <persona_id>")
		fmt.Println("available personas:")
		for _, p := range personas {
			fmt.Printf("  %s (%s)\n", p.ID, p.Name())
		}
		os.Exit(1)
	}

	store := persona.NewStore(personaFile)
	doc, err := store.Load()
	if err != nil {
		log.Fatalf("Failed to load personas: %v", err)
	}

	prompt, err := persona.BuildSystemInstruction(doc, os.Args[1])
	if err != nil {
		log.Fatalf("Failed to render prompt: %v", err)
	}

	fmt.Println(prompt)
}
