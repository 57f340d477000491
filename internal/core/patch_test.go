package core

import "testing"

func TestExpensePatchApply(t *testing.T) {
	orig := Expense{
		ID:            "e1",
		Amount:        amt("100"),
		Category:      "food",
		Description:   "dinner",
		Date:          NewDate(2025, 2, 1),
		PaymentMethod: "cash",
		Tags:          []string{"friends"},
	}
	newAmount := amt("150")
	desc := "team dinner"
	got := ExpensePatch{Amount: &newAmount, Description: &desc}.Apply(orig)

	if got.ID != "e1" || got.Category != "food" || got.PaymentMethod != "cash" {
		t.Fatalf("untouched fields changed: %+v", got)
	}
	if !got.Amount.Equal(newAmount) || got.Description != desc {
		t.Fatalf("patched fields not applied: %+v", got)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "friends" {
		t.Fatalf("nil tags must keep existing tags, got %v", got.Tags)
	}

	cleared := ExpensePatch{Tags: []string{}}.Apply(orig)
	if len(cleared.Tags) != 0 {
		t.Fatalf("empty tags should clear, got %v", cleared.Tags)
	}
}

func TestBudgetPatchClearsEndDate(t *testing.T) {
	orig := Budget{ID: "b1", Category: "food", Amount: amt("1000"), Period: Monthly,
		StartDate: NewDate(2025, 1, 1), EndDate: NewDate(2025, 1, 31)}
	zero := Date{}
	got := BudgetPatch{EndDate: &zero}.Apply(orig)
	if !got.EndDate.IsEmpty() {
		t.Fatalf("expected open-ended budget, got %v", got.EndDate)
	}
}

func TestProfilePatchApply(t *testing.T) {
	email := "asha@example.com"
	got := UserProfilePatch{Email: &email}.Apply(DefaultProfile())
	if got.Name != "Guest User" || got.Email != email {
		t.Fatalf("unexpected profile %+v", got)
	}
}

func TestStateCloneDoesNotAlias(t *testing.T) {
	s := NewState()
	s.Expenses = append(s.Expenses, Expense{ID: "e1", Tags: []string{"a"}})
	c := s.Clone()
	c.Expenses[0].Tags[0] = "b"
	c.Expenses[0].ID = "changed"
	if s.Expenses[0].Tags[0] != "a" || s.Expenses[0].ID != "e1" {
		t.Fatalf("clone aliases original: %+v", s.Expenses[0])
	}
}

func TestStateNormalize(t *testing.T) {
	var s State
	s.Normalize()
	if s.Expenses == nil || s.BillReminders == nil {
		t.Fatalf("nil collections not replaced")
	}
	if s.Settings.Language != English || s.Settings.Currency != Rupee || s.Profile.Name != "Guest User" {
		t.Fatalf("defaults not applied: %+v %+v", s.Settings, s.Profile)
	}
}

func TestRegistryFallbacks(t *testing.T) {
	r := DefaultRegistry()
	if got := r.Resolve("food").Name; got != "Food & Dining" {
		t.Fatalf("food resolved to %q", got)
	}
	if got := r.Resolve("crypto").ID; got != OtherCategory {
		t.Fatalf("unknown category should fall back to other, got %q", got)
	}
	if got := r.ResolvePaymentMethod("upi").Name; got != "UPI" {
		t.Fatalf("upi resolved to %q", got)
	}
	if got := r.ResolvePaymentMethod("barter").ID; got != "cash" {
		t.Fatalf("unknown method should fall back to cash, got %q", got)
	}
	if !r.IsKnownCategory("utilities") || r.IsKnownCategory("crypto") {
		t.Fatalf("IsKnownCategory wrong")
	}
	if n := len(r.Categories()); n != 23 {
		t.Fatalf("expected 23 categories, got %d", n)
	}
}
