package models

// OtherSource es la categoría cajón para cualquier LeadSource fuera del
// vocabulario permitido.
const OtherSource = "Other"

var allowedSources = map[string]struct{}{
	"Indeed":                 {},
	"Google Leads - Website": {},
	"Website":                {},
	"Customer Referral":      {},
	"Self Generated":         {},
}

// SourceOrder is the fixed display order for lead-source breakdowns.
var SourceOrder = []string{
	"Google Leads - Website",
	"Website",
	"Customer Referral",
	"Self Generated",
	"Indeed",
	OtherSource,
}

// NormalizeSource keeps values inside the allowed vocabulary and
// collapses everything else (including empty) to OtherSource. Total
// and idempotent.
func NormalizeSource(raw string) string {
	if _, ok := allowedSources[raw]; ok {
		return raw
	}
	return OtherSource
}
