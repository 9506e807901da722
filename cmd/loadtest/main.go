// Story race smoke test: confirms one payment against a dev server, then
// fires concurrent /submit-story requests for that order and checks that the
// at-most-once guarantee held. Requires the server's Razorpay key secret so
// the confirmation payload can be signed locally.
package main

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// Result records one HTTP outcome for aggregation.
type Result struct {
	Status int
	Body   string
	Err    error
}

func main() {
	baseURL := flag.String("base", "http://localhost:8080", "server base url")
	secret := flag.String("secret", "", "razorpay key secret of the target server (dev only)")
	orderID := flag.String("order", "", "gateway order id; generated when empty")
	nStories := flag.Int("stories", 50, "concurrent story submissions")
	concurrency := flag.Int("c", 50, "max concurrency")
	flag.Parse()

	if *secret == "" {
		panic("missing -secret")
	}
	if *orderID == "" {
		*orderID = fmt.Sprintf("order_smoke_%d", time.Now().UnixNano())
	}

	client := &http.Client{Timeout: 5 * time.Second}

	if err := confirmPayment(client, *baseURL, *secret, *orderID); err != nil {
		panic(fmt.Sprintf("confirm failed: %v", err))
	}
	fmt.Println("confirmed order", *orderID)

	fmt.Printf("start story race: order=%s stories=%d concurrency=%d\n", *orderID, *nStories, *concurrency)
	results := runStories(client, *baseURL, *orderID, *nStories, *concurrency)
	printSummary("story_race", results)

	id, submitted, err := fetchStoryState(client, *baseURL, *orderID)
	if err != nil {
		fmt.Println("state check err:", err)
		return
	}
	fmt.Println("order:", id, "story_submitted:", submitted)
}

func confirmPayment(client *http.Client, baseURL, secret, orderID string) error {
	paymentID := fmt.Sprintf("pay_smoke_%d", time.Now().UnixNano())
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	sig := hex.EncodeToString(mac.Sum(nil))

	body := map[string]any{
		"paymentId":         paymentID,
		"orderId":           orderID,
		"razorpaySignature": sig,
		"amount":            1499,
		"paymentType":       "PREPAID",
		"edition":           "smoke-edition",
		"shipping": map[string]any{
			"name":    "Load Test",
			"phone":   "+910000000000",
			"email":   "loadtest@example.com",
			"address": "1 Test Lane",
		},
	}
	return doPOST(client, baseURL+"/confirm-payment", body)
}

func runStories(client *http.Client, baseURL, orderID string, total, concurrency int) []Result {
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	results := make([]Result, total)

	for i := 0; i < total; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			body := map[string]any{
				"orderId": orderID,
				"story":   fmt.Sprintf("story variant %d", idx),
			}
			results[idx] = postOnce(client, baseURL+"/submit-story", body)
		}(i)
	}

	wg.Wait()
	return results
}

func postOnce(client *http.Client, url string, body any) Result {
	b, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return Result{Err: err}
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	return Result{Status: resp.StatusCode, Body: string(respBody)}
}

// printSummary aggregates the status code distribution.
func printSummary(name string, results []Result) {
	count := map[int]int{}
	errCount := 0
	for _, r := range results {
		if r.Err != nil {
			errCount++
			continue
		}
		count[r.Status]++
	}
	fmt.Printf("[%s] http status summary:\n", name)
	for _, code := range []int{200, 400, 404, 429, 500} {
		if count[code] > 0 {
			fmt.Printf("  %d -> %d\n", code, count[code])
		}
	}
	if errCount > 0 {
		fmt.Printf("  errors -> %d\n", errCount)
	}
}

func doPOST(client *http.Client, url string, body any) error {
	res := postOnce(client, url, body)
	if res.Err != nil {
		return res.Err
	}
	if res.Status >= 300 {
		return fmt.Errorf("status=%d body=%s", res.Status, res.Body)
	}
	return nil
}

func fetchStoryState(client *http.Client, baseURL, orderID string) (string, bool, error) {
	resp, err := client.Get(baseURL + "/order/" + orderID)
	if err != nil {
		return "", false, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return "", false, fmt.Errorf("status=%d body=%s", resp.StatusCode, string(b))
	}

	var out struct {
		RazorpayOrderID string `json:"razorpay_order_id"`
		StorySubmitted  bool   `json:"story_submitted"`
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return "", false, err
	}
	return out.RazorpayOrderID, out.StorySubmitted, nil
}
