package core

// Default category vocabularies, one per kind. They seed each session's
// selectable category list; users extend the list at runtime but the seeds
// themselves are fixed.

func DefaultExpenseCategories() []string {
	return []string{
		"grocery", "internet", "misc", "transport", "AI", "petrol", "rent",
		"charity", "college", "doctor & medicines", "food & entertainment",
		"mobile", "pet care", "salary", "electricity", "water", "gas",
		"personal care", "car maintenance", "house maintenance",
		"clothes & accessories", "health & fitness", "shanthi-expense",
		"vacation expenses", "other",
	}
}

func DefaultIncomeCategories() []string {
	return []string{
		"rent received", "interest", "annuity", "salary",
		"stock profit", "stock loss", "stock dividend",
		"corporate fd", "bond interest", "SWP", "other",
	}
}

// DefaultCategories returns the seed vocabulary for a kind.
func DefaultCategories(kind Kind) []string {
	if kind == Income {
		return DefaultIncomeCategories()
	}
	return DefaultExpenseCategories()
}
