package shield

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/flipforge/dealshield/internal/model"
)

const notANumber = "—"

var printer = message.NewPrinter(language.AmericanEnglish)

// Money renders whole US dollars with thousands separators, e.g. "$120,000"
// or "-$5,000".
func Money(n float64) string {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return notANumber
	}
	rounded := math.Round(n)
	sign := ""
	if rounded < 0 {
		sign = "-"
		rounded = -rounded
	}
	return sign + "$" + printer.Sprintf("%d", int64(rounded))
}

// Percent renders a decimal ratio as a percentage with one decimal, e.g.
// 0.123 as "12.3%".
func Percent(ratio float64) string {
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return notANumber
	}
	return fmt.Sprintf("%.1f%%", ratio*100)
}

// Confidence clamps the confidence score into 0..100.
func Confidence(score float64) int {
	if math.IsNaN(score) {
		return 0
	}
	return int(math.Max(0, math.Min(100, math.Round(score))))
}

// OfferText is the copyable max safe offer: a bare rounded integer.
func OfferText(r *model.AnalyzeResult) string {
	return strconv.FormatInt(int64(math.Round(r.MaxSafeOffer)), 10)
}

// Summary is the one-line deal summary.
func Summary(r *model.AnalyzeResult) string {
	return strings.Join([]string{
		string(r.Headline()),
		"Offer " + Money(r.MaxSafeOffer),
		"Net " + Money(r.Profit()),
		"Profit " + Percent(r.ProfitPct),
		"ROI " + Percent(r.AnnualizedROI),
		fmt.Sprintf("Flags %d", len(r.TypedFlags)),
		"Strategy " + string(r.BestStrategy),
		fmt.Sprintf("Conf %d/100", Confidence(r.ConfidenceScore)),
	}, " | ")
}

