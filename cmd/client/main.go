package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/lromero/customerbook/internal/adapters/config"
	"github.com/lromero/customerbook/internal/client/api"
	"github.com/lromero/customerbook/internal/client/form"
	"github.com/lromero/customerbook/internal/client/resource"
)

const customerListKey = "/api/customers"

func main() {
	firstName := flag.String("first-name", "", "first name of the customer to add")
	lastName := flag.String("last-name", "", "last name of the customer to add")
	email := flag.String("email", "", "email of the customer to add")
	businessName := flag.String("business-name", "", "optional business name of the customer to add")
	flag.Parse()

	cfg := config.NewConfig()

	ctx := context.Background()
	client := api.New(cfg.Client.BaseURL, &http.Client{Timeout: cfg.Client.Timeout})

	store := resource.NewStore(func(ctx context.Context, key string) ([]api.Customer, error) {
		return client.List(ctx)
	})

	unsubscribe := store.Subscribe(customerListKey, func(snap resource.Snapshot[[]api.Customer]) {
		switch snap.Status {
		case resource.StatusLoading:
			fmt.Println("Loading customers...")
		case resource.StatusFailed:
			fmt.Printf("Failed to load customers: %v\n", snap.Err)
		case resource.StatusReady:
			fmt.Printf("%d customer(s):\n", len(snap.Data))
			for _, customer := range snap.Data {
				line := customer.FullName()
				if customer.BusinessName != "" {
					line += " (" + customer.BusinessName + ")"
				}
				fmt.Printf("  %s <%s>\n", line, customer.Email)
			}
		}
	})
	defer unsubscribe()

	if _, err := store.Load(ctx, customerListKey); err != nil {
		os.Exit(1)
	}

	if *firstName == "" && *lastName == "" && *email == "" {
		return
	}

	flow := form.NewFlow(client, func(ctx context.Context) error {
		_, err := store.Revalidate(ctx, customerListKey)
		return err
	}, func() {
		fmt.Println("Customer added.")
	})

	flow.Set(form.FieldFirstName, *firstName)
	flow.Set(form.FieldLastName, *lastName)
	flow.Set(form.FieldEmail, *email)
	flow.Set(form.FieldBusinessName, *businessName)

	if err := flow.Submit(ctx); err != nil {
		fmt.Printf("Failed to add customer: %v\n", err)
		os.Exit(1)
	}
}
