package core

// State is the complete persisted record: every collection plus settings and profile.
// Collections are ordered most-recent-first.
type State struct {
	Expenses      []Expense      `json:"expenses"`
	Incomes       []Income       `json:"incomes"`
	Budgets       []Budget       `json:"budgets"`
	SavingsGoals  []SavingsGoal  `json:"savingsGoals"`
	BillReminders []BillReminder `json:"billReminders"`
	Settings      Settings       `json:"settings"`
	Profile       UserProfile    `json:"userProfile"`
}

// NewState returns empty collections with default settings and profile.
func NewState() State {
	return State{
		Expenses:      []Expense{},
		Incomes:       []Income{},
		Budgets:       []Budget{},
		SavingsGoals:  []SavingsGoal{},
		BillReminders: []BillReminder{},
		Settings:      DefaultSettings(),
		Profile:       DefaultProfile(),
	}
}

// Clone returns a deep copy so callers can never alias store-owned slices.
func (s State) Clone() State {
	out := State{
		Expenses:      make([]Expense, len(s.Expenses)),
		Incomes:       append([]Income{}, s.Incomes...),
		Budgets:       append([]Budget{}, s.Budgets...),
		SavingsGoals:  append([]SavingsGoal{}, s.SavingsGoals...),
		BillReminders: append([]BillReminder{}, s.BillReminders...),
		Settings:      s.Settings,
		Profile:       s.Profile,
	}
	for i, e := range s.Expenses {
		out.Expenses[i] = e.Clone()
	}
	return out
}

// Normalize replaces nil collections and missing enum values with defaults.
func (s *State) Normalize() {
	if s.Expenses == nil {
		s.Expenses = []Expense{}
	}
	if s.Incomes == nil {
		s.Incomes = []Income{}
	}
	if s.Budgets == nil {
		s.Budgets = []Budget{}
	}
	if s.SavingsGoals == nil {
		s.SavingsGoals = []SavingsGoal{}
	}
	if s.BillReminders == nil {
		s.BillReminders = []BillReminder{}
	}
	if !s.Settings.Language.IsValid() {
		s.Settings.Language = English
	}
	if !s.Settings.Currency.IsValid() {
		s.Settings.Currency = Rupee
	}
	if s.Profile.Name == "" {
		s.Profile.Name = DefaultProfile().Name
	}
}

// Clone returns a copy of e that shares no slices with it.
func (e Expense) Clone() Expense {
	if e.Tags != nil {
		e.Tags = append([]string{}, e.Tags...)
	}
	return e
}
