package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dodopayments/dodopayments-go"
	"github.com/dodopayments/dodopayments-go/option"

	"aura/internal/config"
)

// BillingService creates hosted checkout sessions for paid plans
type BillingService struct {
	client  *dodopayments.Client
	plans   *config.PlanCatalog
	users   *UserService
	baseURL string
}

// NewBillingService creates a billing service. With no API key the service
// stays up but every checkout attempt fails with a clear error.
func NewBillingService(apiKey, environment string, plans *config.PlanCatalog, users *UserService) *BillingService {
	var client *dodopayments.Client
	if apiKey != "" {
		var envOpt option.RequestOption
		if environment == "test" {
			envOpt = option.WithEnvironmentTestMode()
		} else {
			envOpt = option.WithEnvironmentLiveMode()
		}

		client = dodopayments.NewClient(
			option.WithBearerToken(apiKey),
			envOpt,
		)
		log.Println("✅ DodoPayments client initialized")
	} else {
		log.Println("⚠️  DodoPayments API key not provided, billing disabled")
	}

	baseURL := os.Getenv("APP_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}

	return &BillingService{
		client:  client,
		plans:   plans,
		users:   users,
		baseURL: baseURL,
	}
}

// CheckoutResponse carries the hosted checkout redirect
type CheckoutResponse struct {
	CheckoutURL string `json:"checkout_url"`
	SessionID   string `json:"session_id"`
}

// CreateCheckoutSession creates a checkout session for a paid plan
func (s *BillingService) CreateCheckoutSession(ctx context.Context, userID, planID string) (*CheckoutResponse, error) {
	plan := s.plans.ByID(planID)
	if plan == nil {
		return nil, fmt.Errorf("invalid plan ID: %s", planID)
	}
	if plan.PriceMonthly == 0 {
		return nil, fmt.Errorf("cannot create checkout for free plan")
	}
	if plan.DodoProductID == "" {
		return nil, fmt.Errorf("plan %s has no product configured", planID)
	}
	if s.client == nil {
		return nil, fmt.Errorf("billing is not configured")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	customerID := user.DodoCustomerID
	if customerID == "" {
		// DodoPayments requires a customer name; fall back to the mailbox part
		customerName := user.DisplayName
		if customerName == "" {
			customerName = user.Email
			if atIndex := strings.Index(user.Email, "@"); atIndex > 0 {
				customerName = user.Email[:atIndex]
			}
		}

		customer, err := s.client.Customers.New(ctx, dodopayments.CustomerNewParams{
			Email: dodopayments.F(user.Email),
			Name:  dodopayments.F(customerName),
			Metadata: dodopayments.F(map[string]string{
				"user_id": userID,
			}),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create customer: %w", err)
		}

		customerID = customer.CustomerID
		if err := s.users.SetDodoCustomerID(ctx, userID, customerID); err != nil {
			return nil, fmt.Errorf("failed to update customer ID: %w", err)
		}
	}

	session, err := s.client.CheckoutSessions.New(ctx, dodopayments.CheckoutSessionNewParams{
		CheckoutSessionRequest: dodopayments.CheckoutSessionRequestParam{
			ProductCart: dodopayments.F([]dodopayments.CheckoutSessionRequestProductCartParam{{
				ProductID: dodopayments.F(plan.DodoProductID),
				Quantity:  dodopayments.F(int64(1)),
			}}),
			ReturnURL: dodopayments.F(fmt.Sprintf("%s/settings?tab=billing&checkout=success", s.baseURL)),
			Customer: dodopayments.F[dodopayments.CustomerRequestUnionParam](dodopayments.AttachExistingCustomerParam{
				CustomerID: dodopayments.F(customerID),
			}),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	log.Printf("💳 [BILLING] Checkout session created for user %s, plan %s", userID, planID)
	return &CheckoutResponse{
		CheckoutURL: session.CheckoutURL,
		SessionID:   session.SessionID,
	}, nil
}

// Plans returns the current plan catalog
func (s *BillingService) Plans() []config.Plan {
	return s.plans.All()
}
