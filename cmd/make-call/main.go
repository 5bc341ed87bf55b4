package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/baines-ai/voice-service/pkg/validation"
)

// Places a test call through a running voice service instance.
//
//	go run ./cmd/make-call +14155551234 [persona_id]
func main() {
	baseURL := "http://localhost:8520"
	if url := os.Getenv("API_URL"); url != "" {
		baseURL = url
	}

	if len(os.Args) < 2 {
		log.Fatalf("usage: make-call <phone_number> [persona_id]")
	}
	targetNumber := validation.NormalizePhone(os.Args[1])
	if err := validation.ValidatePhone(targetNumber); err != nil {
		log.Fatalf("Invalid number %q: %v", targetNumber, err)
	}

	personaID := "vet_care_assistant"
	if len(os.Args) > 2 {
		personaID = os.Args[2]
	}

	fmt.Println("========================================")
	fmt.Printf("Calling %s as %s\n", targetNumber, personaID)
	fmt.Println("========================================")
	fmt.Println()

	payload, err := json.Marshal(map[string]string{
		"persona_id":   personaID,
		"phone_number": targetNumber,
	})
	if err != nil {
		log.Fatalf("Failed to marshal request: %v", err)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Post(baseURL+"/call", "application/json", bytes.NewBuffer(payload))
	if err != nil {
		log.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("Failed to read response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Fatalf("Call failed (%d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		CallSid  string `json:"call_sid"`
		Status   string `json:"status"`
		ToNumber string `json:"to_number"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		log.Fatalf("Failed to parse response: %v", err)
	}

	fmt.Printf("Call SID: %s\n", result.CallSid)
	fmt.Printf("Status:   %s\n", result.Status)
	fmt.Printf("To:       %s\n", result.ToNumber)
	fmt.Println()
	fmt.Println("The phone should ring shortly.")
}
