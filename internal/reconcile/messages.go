package reconcile

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer formats volumes with digit grouping for operator-facing messages.
var printer = message.NewPrinter(language.English)

// newError builds a ValidationError with its toast message attached. The
// messages are part of the validator contract: the UI layer surfaces them
// verbatim.
func newError(kind ErrorKind, field string) ValidationError {
	return ValidationError{Kind: kind, Field: field, Message: messageFor(kind)}
}

func messageFor(kind ErrorKind) string {
	switch kind {
	case KindMissingStation:
		return "Select a station before saving"
	case KindMissingProduct:
		return "Select a fuel product before saving"
	case KindMissingOrInvalidDate:
		return "Enter a valid stock date (YYYY-MM-DD)"
	case KindMissingStockValue:
		return "Opening and closing stock readings are required"
	case KindNegativeStockValue:
		return "Stock values cannot be negative"
	case KindNegativeFlowValue:
		return "Received and sold volumes cannot be negative"
	default:
		return "Stock record could not be validated"
	}
}

// varianceWarning builds the non-blocking large-variance prompt, quoting the
// figures so the operator can confirm or re-dip the tank.
func varianceWarning(expected, closing float64, th Thresholds) ValidationError {
	return ValidationError{
		Kind:  KindLargeVarianceWarning,
		Field: "closing_stock",
		Message: printer.Sprintf(
			"Closing stock %.0f L differs from the expected %.0f L by more than %.0f%% - confirm the dip reading before saving",
			closing, expected, th.TolerancePct*100,
		),
	}
}
