// Command setup-cookies is a one-time helper that captures an X session for
// the scraper. Automated password login is blocked often enough that the
// reliable path is copying the two session cookies (auth_token and ct0) from
// a logged-in browser; this command verifies them against the API, writes
// cookies.json, and prints the X_COOKIES line for .env or a CI secret.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/rathinamurthy/ai-daily-brief/internal/logging"
	"github.com/rathinamurthy/ai-daily-brief/internal/scraper"
)

const cookiesFile = "cookies.json"

func main() {
	_ = godotenv.Load()
	log := logging.New()

	fmt.Println("=== X Session Cookie Setup ===")
	fmt.Println()
	fmt.Println("In a browser where you are logged in to x.com, open the developer")
	fmt.Println("tools, find the cookies for x.com, and copy these two values:")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	authToken, err := readSecret("auth_token: ")
	if err != nil {
		log.WithError(err).Fatal("Failed to read auth_token")
	}
	ct0, err := readLine(reader, "ct0: ")
	if err != nil {
		log.WithError(err).Fatal("Failed to read ct0")
	}

	if authToken == "" || ct0 == "" {
		log.Fatal("Both auth_token and ct0 are required")
	}

	cookies := map[string]string{
		"auth_token": authToken,
		"ct0":        ct0,
	}

	fmt.Println("\nVerifying session...")
	client := scraper.NewXClientWithCookies(cookies, log)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	handle, err := client.VerifyCredentials(ctx)
	if err != nil {
		log.WithError(err).Fatal("Session verification failed; check the cookie values")
	}
	fmt.Printf("Logged in as @%s\n", handle)

	data, err := json.MarshalIndent(cookies, "", "  ")
	if err != nil {
		log.WithError(err).Fatal("Failed to encode cookies")
	}
	if err := os.WriteFile(cookiesFile, data, 0o600); err != nil {
		log.WithError(err).Fatalf("Failed to write %s", cookiesFile)
	}
	fmt.Printf("\nCookies saved to %s\n", cookiesFile)

	line, err := json.Marshal(cookies)
	if err != nil {
		log.WithError(err).Fatal("Failed to encode cookies")
	}
	fmt.Println("\n--- Copy the line below into your .env file ---")
	fmt.Println()
	fmt.Printf("X_COOKIES=%s\n", line)
	fmt.Println()
	fmt.Println("--- Or add it as a CI secret named X_COOKIES ---")
}

func readLine(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func readSecret(prompt string) (string, error) {
	fmt.Print(prompt)
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(secret)), nil
}
