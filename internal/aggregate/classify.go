package aggregate

import "strings"

const (
	Yes = "YES"
	No  = "NO"
)

// PLKeywords mark an account as a profit-and-loss account.
var PLKeywords = []string{
	"SALES",
	"PURCHASE",
	"EXPENSE",
	"INCOME",
	"REVENUE",
	"SALARY",
	"WAGES",
	"COMMISSION",
	"DISCOUNT",
	"FREIGHT",
}

// BothKeywords mark an account that shows on both the P&L and the balance sheet.
var BothKeywords = []string{
	"BANK",
	"CASH",
	"CAPITAL",
	"RESERVES",
	"LOAN",
	"DRAWINGS",
}

// Classification of an account name.
type Classification struct {
	PL   string `json:"plYesNo"`
	Both string `json:"bothYesNo"`
}

// Classify matches name against both keyword lists, case-insensitively.
// Every balance sheet view must classify through this function.
func Classify(name string) Classification {
	upper := strings.ToUpper(name)
	return Classification{
		PL:   match(upper, PLKeywords),
		Both: match(upper, BothKeywords),
	}
}

func match(upper string, keywords []string) string {
	for _, kw := range keywords {
		if strings.Contains(upper, kw) {
			return Yes
		}
	}
	return No
}
