package statement

import (
	"strings"

	"github.com/fernwell/ledgerchat/internal/model"
)

// CategoryRule maps a keyword set to one category. Rules are evaluated
// in slice order and the first keyword hit wins, so precedence is
// explicit here rather than implicit in code.
type CategoryRule struct {
	Category string
	Keywords []string
}

// DefaultRules is the ordered merchant keyword table. More specific
// rules sit above broader ones: "uber eats" must match dining before
// "uber" matches transport.
var DefaultRules = []CategoryRule{
	{Category: "dining", Keywords: []string{"uber eats", "doordash", "deliveroo", "restaurant", "cafe", "coffee", "pizza", "mcdonald", "starbucks", "burger", "kfc", "subway", "diner", "bar "}},
	{Category: "groceries", Keywords: []string{"grocery", "supermarket", "whole foods", "trader joe", "aldi", "lidl", "kroger", "safeway", "walmart", "costco", "tesco", "market"}},
	{Category: "transport", Keywords: []string{"uber", "lyft", "taxi", "metro", "transit", "parking", "gas station", "shell", "chevron", "fuel", "toll"}},
	{Category: "subscriptions", Keywords: []string{"netflix", "spotify", "hulu", "disney+", "youtube premium", "icloud", "subscription", "patreon", "prime"}},
	{Category: "utilities", Keywords: []string{"electric", "water", "gas bill", "internet", "comcast", "verizon", "t-mobile", "at&t", "utility", "broadband"}},
	{Category: "housing", Keywords: []string{"rent", "mortgage", "landlord", "hoa", "property"}},
	{Category: "health", Keywords: []string{"pharmacy", "cvs", "walgreens", "clinic", "hospital", "dental", "doctor", "gym", "fitness"}},
	{Category: "entertainment", Keywords: []string{"cinema", "theater", "theatre", "concert", "steam", "playstation", "xbox", "nintendo", "ticketmaster"}},
	{Category: "travel", Keywords: []string{"airline", "airways", "hotel", "airbnb", "booking.com", "expedia", "hostel", "flight"}},
	{Category: "education", Keywords: []string{"tuition", "udemy", "coursera", "university", "college", "school", "textbook"}},
	{Category: "shopping", Keywords: []string{"amazon", "ebay", "etsy", "target", "best buy", "ikea", "zara", "h&m", "nike", "store"}},
}

// Categorizer resolves merchant names to categories via the ordered
// rule table.
type Categorizer struct {
	rules []CategoryRule
}

// NewCategorizer builds a categorizer; nil rules means DefaultRules.
func NewCategorizer(rules []CategoryRule) *Categorizer {
	if rules == nil {
		rules = DefaultRules
	}
	return &Categorizer{rules: rules}
}

// Categorize returns the first rule whose keyword appears in the
// merchant/name field, or the fallback category. Unmatched merchants
// never fail the row.
func (c *Categorizer) Categorize(name string) string {
	needle := strings.ToLower(name)
	for _, rule := range c.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(needle, kw) {
				return rule.Category
			}
		}
	}
	return model.CategoryOther
}
