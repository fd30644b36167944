package main

import (
	"context"
	"ecosync-hub/internal/pkg/api"
	"ecosync-hub/internal/pkg/helper"
	"ecosync-hub/internal/pkg/logger"
	"ecosync-hub/internal/pkg/receipt"
	"ecosync-hub/internal/service/checkout"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

// checkout runs one checkout against a storefront API: it reads the checkout
// context, waits out the simulated payment, places the order and prints the
// page the customer would land on.
func main() {
	_ = godotenv.Load()
	logger.Setup()
	defer logger.Sync()

	var (
		baseURL       = flag.String("api", helper.GetEnv("ORDERS_API_BASE_URL", "http://localhost:8080/api/v1"), "storefront API base URL")
		token         = flag.String("token", helper.GetEnv("CHECKOUT_TOKEN"), "bearer token of the customer")
		contextFile   = flag.String("context", "-", "checkout context JSON file, - for stdin")
		paymentDelay  = flag.Duration("payment-delay", helper.GetEnvAsMillis("CHECKOUT_PAYMENT_DELAY_MS", checkout.DefaultPaymentDelay), "simulated payment processing time")
		redirectDelay = flag.Duration("redirect-delay", helper.GetEnvAsMillis("CHECKOUT_REDIRECT_DELAY_MS", checkout.DefaultRedirectDelay), "delay before following the receipt redirect")
		timeout       = flag.Duration("timeout", 30*time.Second, "order request timeout")
	)
	flag.Parse()

	cc, err := readContext(*contextFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "checkout:", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := api.New(api.Config{
		BaseURL: *baseURL,
		Token:   *token,
		Timeout: *timeout,
	})

	navigate := checkout.NavigatorFunc(func(path string) {
		fmt.Println("->", path)
	})

	flow, err := checkout.New(cc, checkout.NewAPIOrderCreator(client), navigate,
		checkout.WithPaymentDelay(*paymentDelay),
		checkout.WithRedirectDelay(*redirectDelay),
		checkout.WithCancelOnClose(true),
		checkout.WithStateListener(func(s checkout.Snapshot) {
			logger.Info.Printf("checkout state=%s attempt=%d", s.State, s.Attempt)
		}),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, "checkout:", err)
		os.Exit(1)
	}
	defer flow.Close()

	fmt.Printf("Paying %s...\n", receipt.FormatAmount(cc.Total))

	res, err := flow.SubmitPayment(ctx)
	if err != nil {
		var subErr *checkout.OrderSubmissionError
		if errors.As(err, &subErr) {
			fmt.Fprintln(os.Stderr, subErr.Message)
		} else {
			fmt.Fprintln(os.Stderr, "checkout:", err)
		}
		os.Exit(1)
	}

	fmt.Printf("Payment successful, order #%d placed\n", res.OrderID())

	select {
	case <-flow.Navigated():
	case <-ctx.Done():
	}
}

func readContext(path string) (checkout.Context, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return checkout.Context{}, err
		}
		defer f.Close()
		r = f
	}

	var cc checkout.Context
	if err := json.NewDecoder(r).Decode(&cc); err != nil {
		return checkout.Context{}, fmt.Errorf("invalid checkout context: %w", err)
	}
	return cc, nil
}
