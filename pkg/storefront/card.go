package storefront

import (
	"context"
	"strconv"
	"strings"
	"time"

	"storefront-backend/internal/domain"
	"storefront-backend/pkg/logger"
	"storefront-backend/pkg/utils"
)

// Test numbers the simulated gateway declines.
const (
	DeclineGenericCard      = "4000000000000002"
	DeclineInsufficientCard = "4000000000009995"
)

const DefaultCardDelay = 1500 * time.Millisecond

type CardDetails struct {
	Number   string
	Holder   string
	ExpMonth int
	ExpYear  int
	CVC      string
}

// ChargeResult is the gateway's answer. A decline is a result, not an error.
type ChargeResult struct {
	Approved      bool
	TransactionID string
	PaymentDate   time.Time
	DeclineReason string
}

// CardProcessor simulates a card gateway locally after a fixed delay.
type CardProcessor struct {
	Delay time.Duration
	now   func() time.Time
}

func NewCardProcessor(delay time.Duration) *CardProcessor {
	return &CardProcessor{Delay: delay, now: time.Now}
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, s)
}

// luhnValid runs the mod 10 checksum over a string of digits.
func luhnValid(number string) bool {
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		d := int(number[i] - '0')
		if d < 0 || d > 9 {
			return false
		}
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

func (p *CardProcessor) validate(card CardDetails) (string, error) {
	const op = "validate card"

	number := digitsOnly(card.Number)
	if len(number) < 12 || len(number) > 19 || !luhnValid(number) {
		return "", domain.ValidationError(op, "card number is invalid")
	}
	if strings.TrimSpace(card.Holder) == "" {
		return "", domain.ValidationError(op, "card holder name is required")
	}
	if card.ExpMonth < 1 || card.ExpMonth > 12 {
		return "", domain.ValidationError(op, "expiry month must be between 1 and 12")
	}
	year := card.ExpYear
	if year < 100 {
		year += 2000
	}
	now := p.now()
	// a card is valid through the last day of its expiry month
	expiry := time.Date(year, time.Month(card.ExpMonth)+1, 1, 0, 0, 0, 0, now.Location())
	if !now.Before(expiry) {
		return "", domain.ValidationError(op, "card has expired")
	}
	if len(card.CVC) < 3 || len(card.CVC) > 4 {
		return "", domain.ValidationError(op, "security code must have 3 or 4 digits")
	}
	if _, err := strconv.Atoi(card.CVC); err != nil {
		return "", domain.ValidationError(op, "security code must have 3 or 4 digits")
	}
	return number, nil
}

// Charge validates the card, waits out the simulated processing delay and approves
// or declines. Malformed cards fail with a validation error before any delay.
func (p *CardProcessor) Charge(ctx context.Context, card CardDetails, amount float64) (ChargeResult, error) {
	number, err := p.validate(card)
	if err != nil {
		return ChargeResult{}, err
	}
	if amount <= 0 {
		return ChargeResult{}, domain.ValidationError("charge card", "amount must be positive")
	}

	if p.Delay > 0 {
		timer := time.NewTimer(p.Delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ChargeResult{}, domain.UpstreamError("charge card", ctx.Err())
		}
	}

	log := logger.WithContext(ctx)
	last4 := number[len(number)-4:]
	switch number {
	case DeclineGenericCard:
		log.Info().Str("card_last4", last4).Msg("Card declined")
		return ChargeResult{DeclineReason: "Your card was declined."}, nil
	case DeclineInsufficientCard:
		log.Info().Str("card_last4", last4).Msg("Card declined")
		return ChargeResult{DeclineReason: "Your card has insufficient funds."}, nil
	}

	result := ChargeResult{
		Approved:      true,
		TransactionID: "txn_" + utils.GenerateUUID(),
		PaymentDate:   p.now(),
	}
	log.Info().Str("card_last4", last4).Str("transaction_id", result.TransactionID).Float64("amount", amount).Msg("Card charged")
	return result, nil
}
