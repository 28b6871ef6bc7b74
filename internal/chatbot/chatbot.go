// Package chatbot answers questions about the product from a fixed knowledge
// blob. A generative backend can be plugged in; without one the assistant
// reports a typed unavailable state and falls back to keyword matching.
package chatbot

import (
	"context"
	"errors"
	"strings"
)

// ErrUnavailable means no generative backend is configured. Callers fall
// back to the keyword matcher instead of failing the request.
var ErrUnavailable = errors.New("chat backend unavailable")

// Generator is the optional generative backend. Constructed once at startup
// and injected; never rebuilt per request.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Assistant struct {
	gen Generator
}

func New(gen Generator) *Assistant { return &Assistant{gen: gen} }

// Available reports whether a generative backend is wired in.
func (a *Assistant) Available() bool { return a.gen != nil }

// Ready returns ErrUnavailable when no backend is configured. The keyword
// fallback still answers; this only drives the status surface.
func (a *Assistant) Ready() error {
	if a.gen == nil {
		return ErrUnavailable
	}
	return nil
}

// Answer responds to a product question. With a backend it prompts over the
// knowledge blob; otherwise it keyword-matches against the same blob.
func (a *Assistant) Answer(ctx context.Context, question string) (string, error) {
	q := strings.TrimSpace(question)
	if q == "" {
		return "", errors.New("message is required")
	}
	if a.gen != nil {
		prompt := "You are a chatbot for a specific software project.\n\n" +
			"Project details:\n" + knowledge + "\n\n" +
			"Rules:\n- Answer only from project details\n" +
			"- If unrelated question, say it is outside project scope\n\n" +
			"User question: " + q
		out, err := a.gen.Generate(ctx, prompt)
		if err == nil {
			return out, nil
		}
		// fall through to keywords on backend failure
	}
	return a.keywordAnswer(q), nil
}

var keywordAnswers = []struct {
	keys   []string
	answer string
}{
	{[]string{"payment", "pay", "upi", "card", "wallet"},
		"DineAt supports cash on delivery, credit/debit cards, UPI (with QR codes) and digital wallets. UPI payments show a scannable QR on the payment page."},
	{[]string{"menu", "dish", "food", "vegetarian", "vegan"},
		"The menu is organized by category: appetizers, main courses, desserts, beverages and specials, with vegetarian and vegan flags on every item."},
	{[]string{"cart", "checkout", "order"},
		"Add items to your cart from the menu, adjust quantities, then check out with a table, payment method and any special instructions. You can track the order status afterwards."},
	{[]string{"table", "reservation", "seat"},
		"Tables can be selected before checkout; each table has a number and a seating capacity, and only available tables are offered."},
	{[]string{"kitchen", "status", "track", "preparing", "ready"},
		"Kitchen staff move orders through CONFIRMED, PREPARING, READY, SERVED and COMPLETED; customers see the current status on the order page."},
	{[]string{"admin", "dashboard", "role", "staff"},
		"DineAt has three roles: administrators, kitchen staff and customers. Staff roles get access to the order management endpoints."},
}

func (a *Assistant) keywordAnswer(q string) string {
	lower := strings.ToLower(q)
	for _, ka := range keywordAnswers {
		for _, k := range ka.keys {
			if strings.Contains(lower, k) {
				return ka.answer
			}
		}
	}
	return "This question is outside the project scope."
}
