//go:build ignore
// +build ignore

// Manual concurrency stress test for the borrow endpoint.
//
// Usage:
//
//	go run ./scripts/borrowstress.go <book_id> <token1> [token2 ...]
//
// Or with environment variables:
//
//	BOOK_ID=<uuid>  TOKENS=<jwt1>,<jwt2>,...  go run ./scripts/borrowstress.go
//
// What it does:
//  1. Fires one goroutine per access token, all attempting to borrow the
//     same book simultaneously.
//  2. Tallies created borrowings vs. "no available copies" rejections.
//  3. With inventory == 1 before the run, exactly one request must
//     succeed and the rest must be rejected with 400.
//
// Prerequisites:
//   - Server must be running and reachable (SERVER_ADDR, default :8080).
//   - A book with known inventory and one valid access token per caller.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"
)

const defaultServerAddr = "http://localhost:8080"

type borrowResult struct {
	Token      string
	StatusCode int
	Rejected   bool
	Err        error
}

func main() {
	serverAddr := os.Getenv("SERVER_ADDR")
	if serverAddr == "" {
		serverAddr = defaultServerAddr
	}

	bookID := os.Getenv("BOOK_ID")
	var tokens []string
	if env := os.Getenv("TOKENS"); env != "" {
		tokens = strings.Split(env, ",")
	}

	args := os.Args[1:]
	if len(args) >= 1 {
		bookID = args[0]
	}
	if len(args) >= 2 {
		tokens = args[1:]
	}

	if bookID == "" || len(tokens) == 0 {
		log.Fatal("Usage: BOOK_ID=<uuid> TOKENS=<jwt1,jwt2,...> go run ./scripts/borrowstress.go\n" +
			"  or: go run ./scripts/borrowstress.go <book_id> <token1> [token2 ...]")
	}

	fmt.Printf("=== Borrow Concurrency Test ===\n")
	fmt.Printf("Server  : %s\n", serverAddr)
	fmt.Printf("Book    : %s\n", bookID)
	fmt.Printf("Callers : %d\n\n", len(tokens))

	results := make([]borrowResult, len(tokens))
	var wg sync.WaitGroup

	// Barrier so all requests leave at the same instant.
	start := make(chan struct{})

	for i, token := range tokens {
		wg.Add(1)
		go func(idx int, tok string) {
			defer wg.Done()
			<-start
			results[idx] = attemptBorrow(serverAddr, bookID, strings.TrimSpace(tok))
		}(i, token)
	}

	fmt.Println("Firing all requests simultaneously...")
	close(start)

	wg.Wait()
	fmt.Println("All requests completed.")

	var borrowed, rejected, failures int
	for i, r := range results {
		switch {
		case r.Err != nil:
			failures++
			fmt.Printf("  [ERR ] caller=%d err=%v\n", i, r.Err)
		case r.StatusCode == http.StatusCreated:
			borrowed++
			fmt.Printf("  [BRRW] caller=%d status=%d\n", i, r.StatusCode)
		case r.Rejected:
			rejected++
			fmt.Printf("  [RJCT] caller=%d status=%d\n", i, r.StatusCode)
		default:
			failures++
			fmt.Printf("  [FAIL] caller=%d status=%d unexpected response\n", i, r.StatusCode)
		}
	}

	fmt.Printf("\n--- Summary ---\n")
	fmt.Printf("Borrowed : %d\n", borrowed)
	fmt.Printf("Rejected : %d\n", rejected)
	fmt.Printf("Failures : %d\n", failures)
	fmt.Printf("Total    : %d\n\n", len(tokens))

	fmt.Println("--- Invariant Check ---")
	fmt.Println("The guarded inventory decrement (inventory = inventory - 1 WHERE inventory > 0)")
	fmt.Println("caps successful borrows at the book's inventory before the run.")
	fmt.Printf("Borrowings created: %d — must be <= the inventory you started with.\n", borrowed)

	if failures > 0 {
		fmt.Printf("\n[WARNING] %d request(s) failed — check server logs for details.\n", failures)
		os.Exit(1)
	}
}

// attemptBorrow sends POST /borrowings for one caller and reports how
// the request was resolved.
func attemptBorrow(serverAddr, bookID, token string) borrowResult {
	url := serverAddr + "/borrowings"
	expected := time.Now().UTC().AddDate(0, 0, 14).Format("2006-01-02")
	body := fmt.Sprintf(`{"book":%q,"expected_return_date":%q}`, bookID, expected)

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBufferString(body))
	if err != nil {
		return borrowResult{Token: token, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return borrowResult{Token: token, Err: err}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	var parsed map[string]interface{}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return borrowResult{Token: token, StatusCode: resp.StatusCode, Err: fmt.Errorf("bad JSON: %s", raw)}
	}

	msg, _ := parsed["error"].(string)
	return borrowResult{
		Token:      token,
		StatusCode: resp.StatusCode,
		Rejected:   resp.StatusCode == http.StatusBadRequest && strings.Contains(msg, "no available copies"),
	}
}
