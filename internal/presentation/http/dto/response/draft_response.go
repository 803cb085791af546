package response

import (
	"github.com/sangkips/invex-billing/internal/domain/billing"
	"github.com/sangkips/invex-billing/pkg/money"
)

// DraftResponse is the draft view sent to the billing screen
type DraftResponse struct {
	*billing.Draft
	AmountInWords string `json:"amount_in_words"`
	TaxRate       string `json:"tax_rate"`
}

// NewDraftResponse adds the display-only fields to a draft snapshot
func NewDraftResponse(draft *billing.Draft) DraftResponse {
	words, err := money.AmountInWords(draft.Totals.Total)
	if err != nil {
		words = money.Format(draft.Totals.Total)
	}
	return DraftResponse{
		Draft:         draft,
		AmountInWords: words,
		TaxRate:       billing.TaxRate().String(),
	}
}
