// Package catalog holds static suggestion lists served to clients building
// a chart of accounts or tagging transactions.
package catalog

// AccountNames returns the predefined account-name suggestions
func AccountNames() []string {
	return []string{
		"Cash", "Accounts Receivable", "Inventory", "Equipment",
		"Accounts Payable", "Loans Payable", "Common Stock",
		"Retained Earnings", "Sales Revenue", "Cost of Goods Sold",
		"Rent Expense", "Salaries Expense", "Utilities Expense",
	}
}

// Reasons returns the predefined transaction-reason suggestions
func Reasons() []string {
	return []string{
		"Sale", "Purchase", "Payment", "Receipt",
		"Adjustment", "Depreciation", "Salary Payment",
	}
}
