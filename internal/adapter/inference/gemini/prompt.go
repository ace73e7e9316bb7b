package gemini

import (
	"fmt"
	"strings"
)

const promptBase = "You extract financial transactions from bank statements, exports and receipts.\n\n" +
	"Task:\n" +
	"- Find every transaction in the %s below.\n" +
	"- Output a JSON array of objects and nothing else.\n" +
	"- If there are no transactions, output [].\n\n" +
	"Each object has these fields:\n" +
	"- \"amount\": positive number, without currency symbols\n" +
	"- \"type\": \"expense\" or \"income\"\n" +
	"- \"note\": short description of the merchant or purpose\n" +
	"- \"category\": a category name such as Food, Transport, Shopping, Bills, Salary\n" +
	"- \"date\": ISO date \"YYYY-MM-DD\", or null if unknown\n\n" +
	"Amounts are in %s unless the document says otherwise.\n"

func textPrompt(text, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, promptBase, "text", currencyOrDefault(currency))
	b.WriteString("\nText:\n")
	b.WriteString(text)
	return b.String()
}

func imagePrompt(currency string) string {
	return fmt.Sprintf(promptBase, "attached receipt image", currencyOrDefault(currency))
}

func currencyOrDefault(currency string) string {
	if strings.TrimSpace(currency) == "" {
		return "the local currency"
	}
	return currency
}
