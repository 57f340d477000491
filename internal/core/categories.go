package core

// CategoryInfo is the display metadata for a category id.
type CategoryInfo struct {
	ID     string
	Name   string
	NameHi string
	Icon   string
	Color  string
}

// PaymentMethodInfo is the display metadata for a payment method id.
type PaymentMethodInfo struct {
	ID     string
	Name   string
	NameHi string
}

// CategoryResolver maps a category id to its display metadata. Unknown ids
// resolve to the "other" category.
type CategoryResolver interface {
	Resolve(id string) CategoryInfo
}

// PaymentMethodResolver maps a payment method id to its display metadata.
// Unknown ids resolve to the first registered method.
type PaymentMethodResolver interface {
	ResolvePaymentMethod(id string) PaymentMethodInfo
}

// OtherCategory is the fallback for unknown category ids.
const OtherCategory = "other"

var expenseCategories = []CategoryInfo{
	{ID: "groceries", Name: "Groceries", NameHi: "किराना सामान", Icon: "shopping-bag", Color: "text-green-500"},
	{ID: "food", Name: "Food & Dining", NameHi: "खाना और भोजन", Icon: "utensils", Color: "text-orange-500"},
	{ID: "housing", Name: "Rent & Housing", NameHi: "किराया और आवास", Icon: "home", Color: "text-blue-500"},
	{ID: "transport", Name: "Transport", NameHi: "परिवहन", Icon: "bus", Color: "text-purple-500"},
	{ID: "auto", Name: "Auto Rickshaw", NameHi: "ऑटो रिक्शा", Icon: "truck", Color: "text-yellow-500"},
	{ID: "work", Name: "Work Expenses", NameHi: "काम का खर्च", Icon: "briefcase", Color: "text-gray-500"},
	{ID: "health", Name: "Healthcare", NameHi: "स्वास्थ्य देखभाल", Icon: "heart", Color: "text-red-500"},
	{ID: "mobile", Name: "Mobile Recharge", NameHi: "मोबाइल रिचार्ज", Icon: "smartphone", Color: "text-indigo-500"},
	{ID: "education", Name: "Education", NameHi: "शिक्षा", Icon: "book-open", Color: "text-teal-500"},
	{ID: "gifts", Name: "Gifts & Donations", NameHi: "उपहार और दान", Icon: "gift", Color: "text-pink-500"},
	{ID: "entertainment", Name: "Entertainment", NameHi: "मनोरंजन", Icon: "film", Color: "text-violet-500"},
	{ID: "utilities", Name: "Electricity Bill", NameHi: "बिजली का बिल", Icon: "zap", Color: "text-yellow-500"},
	{ID: "water", Name: "Water Bill", NameHi: "पानी का बिल", Icon: "droplet", Color: "text-blue-400"},
	{ID: "internet", Name: "Internet & WiFi", NameHi: "इंटरनेट और वाईफाई", Icon: "wifi", Color: "text-cyan-500"},
	{ID: "dth", Name: "DTH Recharge", NameHi: "डीटीएच रिचार्ज", Icon: "tv", Color: "text-amber-500"},
	{ID: "emi", Name: "EMI Payments", NameHi: "ईएमआई भुगतान", Icon: "credit-card", Color: "text-slate-500"},
	{ID: "investment", Name: "Investments", NameHi: "निवेश", Icon: "dollar-sign", Color: "text-emerald-500"},
	{ID: "banking", Name: "Banking Charges", NameHi: "बैंकिंग शुल्क", Icon: "landmark", Color: "text-stone-500"},
	{ID: "insurance", Name: "Insurance", NameHi: "बीमा", Icon: "umbrella", Color: "text-sky-500"},
	{ID: "personal", Name: "Personal Care", NameHi: "व्यक्तिगत देखभाल", Icon: "scissors", Color: "text-rose-500"},
	{ID: "shopping", Name: "Shopping", NameHi: "खरीदारी", Icon: "shopping-bag", Color: "text-fuchsia-500"},
	{ID: "subscription", Name: "Subscriptions", NameHi: "सदस्यता", Icon: "headphones", Color: "text-lime-500"},
	{ID: OtherCategory, Name: "Other", NameHi: "अन्य", Icon: "coffee", Color: "text-gray-500"},
}

var paymentMethods = []PaymentMethodInfo{
	{ID: "cash", Name: "Cash", NameHi: "नकद"},
	{ID: "upi", Name: "UPI", NameHi: "यूपीआई"},
	{ID: "debit", Name: "Debit Card", NameHi: "डेबिट कार्ड"},
	{ID: "credit", Name: "Credit Card", NameHi: "क्रेडिट कार्ड"},
	{ID: "netbanking", Name: "Net Banking", NameHi: "नेट बैंकिंग"},
	{ID: "wallet", Name: "Mobile Wallet", NameHi: "मोबाइल वॉलेट"},
}

// Registry is a static lookup table of categories and payment methods.
type Registry struct {
	categories map[string]CategoryInfo
	ordered    []CategoryInfo
	methods    map[string]PaymentMethodInfo
	fallback   PaymentMethodInfo
}

var (
	_ CategoryResolver      = (*Registry)(nil)
	_ PaymentMethodResolver = (*Registry)(nil)
)

// DefaultRegistry returns the built-in category and payment method tables.
func DefaultRegistry() *Registry {
	return NewRegistry(expenseCategories, paymentMethods)
}

// NewRegistry builds a registry. The category list must contain OtherCategory
// and the method list must not be empty.
func NewRegistry(categories []CategoryInfo, methods []PaymentMethodInfo) *Registry {
	r := &Registry{
		categories: make(map[string]CategoryInfo, len(categories)),
		ordered:    append([]CategoryInfo{}, categories...),
		methods:    make(map[string]PaymentMethodInfo, len(methods)),
	}
	for _, c := range categories {
		r.categories[c.ID] = c
	}
	for _, m := range methods {
		r.methods[m.ID] = m
	}
	if len(methods) > 0 {
		r.fallback = methods[0]
	}
	return r
}

func (r *Registry) Resolve(id string) CategoryInfo {
	if c, ok := r.categories[id]; ok {
		return c
	}
	if c, ok := r.categories[OtherCategory]; ok {
		return c
	}
	return CategoryInfo{ID: OtherCategory, Name: "Other"}
}

func (r *Registry) ResolvePaymentMethod(id string) PaymentMethodInfo {
	if m, ok := r.methods[id]; ok {
		return m
	}
	return r.fallback
}

// Categories lists the registered categories in display order.
func (r *Registry) Categories() []CategoryInfo {
	return append([]CategoryInfo{}, r.ordered...)
}

// IsKnownCategory reports whether id is registered.
func (r *Registry) IsKnownCategory(id string) bool {
	_, ok := r.categories[id]
	return ok
}
