package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/safar-ai/safar/internal/domain"
)

const bookingAgentName = "booking_agent"

// handleBooking produces a mock booking confirmation for the most recent
// search result set, gated by the booking policy. No real reservation or
// payment ever happens.
func (s *Service) handleBooking(ctx context.Context, sessionID, message string, full *domain.Context) (string, error) {
	var (
		serviceType domain.ServiceType
		amount      float64
	)
	if n := len(full.SearchResults); n > 0 {
		latest := full.SearchResults[n-1]
		serviceType = latest.ServiceType
		amount = firstResultAmount(latest.Results)
	}

	decision, err := s.policyEngine.Evaluate(ctx, map[string]any{
		"service_type": string(serviceType),
		"entities":     full.Entities,
		"amount":       amount,
		"confirmed":    isConfirmationIntent(message),
	})
	if err != nil {
		return "", fmt.Errorf("booking policy evaluation failed: %w", err)
	}

	switch domain.BookingDecision(decision) {
	case domain.BookingBlocked:
		s.logger.Info("booking blocked by policy", "session_id", sessionID)
		return "I can't complete a booking yet: I'm missing the destination for your trip. Please share where you want to go and I'll search again.", nil
	case domain.BookingRequireConfirmation:
		s.logger.Info("booking needs confirmation", "session_id", sessionID, "amount", amount)
		return fmt.Sprintf("This option costs %.0f, which is above the auto-confirmation limit. Reply \"confirm booking\" and I'll lock it in (this is a mock booking, no payment happens).", amount), nil
	}

	reference := strings.ToUpper(uuid.New().String()[:8])
	s.memory.StoreAgentOutput(ctx, sessionID, bookingAgentName, "task_mock_booking", map[string]any{
		"booking_reference": reference,
		"service_type":      string(serviceType),
		"amount":            amount,
		"status":            "confirmed",
		"mock":              true,
	}, domain.OutputTypeJSON)

	return fmt.Sprintf("Your mock booking is confirmed! Reference: %s. No payment was taken; this assistant only simulates bookings.", reference), nil
}

// isConfirmationIntent reports whether the message is the explicit
// confirmation turn the require_confirmation reply asks for.
func isConfirmationIntent(message string) bool {
	return strings.Contains(strings.ToLower(message), "confirm")
}

// firstResultAmount pulls a numeric price out of the first result, if one
// is recognizable. Prices arrive as free-form strings ("₹3,500.50"), so
// currency symbols and thousands separators are stripped while the decimal
// point is kept.
func firstResultAmount(results []any) float64 {
	if len(results) == 0 {
		return 0
	}
	first, ok := results[0].(map[string]any)
	if !ok {
		return 0
	}
	switch v := first["price"].(type) {
	case float64:
		return v
	case string:
		var number strings.Builder
		sawDot := false
		for _, r := range v {
			switch {
			case r >= '0' && r <= '9':
				number.WriteRune(r)
			case r == '.' && !sawDot && number.Len() > 0:
				sawDot = true
				number.WriteRune(r)
			}
		}
		amount, err := strconv.ParseFloat(number.String(), 64)
		if err != nil {
			return 0
		}
		return amount
	}
	return 0
}
