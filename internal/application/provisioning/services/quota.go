package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/itsyosefali/saas-package-management/internal/domain/catalog"
	"github.com/itsyosefali/saas-package-management/internal/shared/biztime"
)

const (
	defaultUsersLimit    = 5
	defaultInvoicesLimit = 10
	defaultExpensesLimit = 10

	quotaValidityDays = 365

	periodDaily   = "Daily"
	periodMonthly = "Monthly"
)

// DocumentRule caps how many documents of one type a tenant may create
// per period.
type DocumentRule struct {
	Limit  int    `json:"limit"`
	Period string `json:"period"`
}

// QuotaDocument is the usage-limit block written into a tenant site's
// configuration under the "quota" key.
type QuotaDocument struct {
	ActiveUsers    int                     `json:"active_users"`
	DocumentLimits map[string]DocumentRule `json:"document_limits"`
	ValidTill      string                  `json:"valid_till"`
}

// BuildQuotaDocument derives the quota block from the package's numeric
// limits. Missing limits fall back to conservative defaults so a
// misconfigured package never grants unlimited usage.
func BuildQuotaDocument(pkg *catalog.Package, now time.Time) QuotaDocument {
	users := pkg.UsersLimit()
	if users <= 0 {
		users = defaultUsersLimit
	}
	invoices := pkg.InvoicesLimit()
	if invoices <= 0 {
		invoices = defaultInvoicesLimit
	}
	expenses := pkg.ExpensesLimit()
	if expenses <= 0 {
		expenses = defaultExpensesLimit
	}

	return QuotaDocument{
		ActiveUsers: users,
		DocumentLimits: map[string]DocumentRule{
			"Sales Invoice":    {Limit: invoices, Period: periodDaily},
			"Purchase Invoice": {Limit: invoices, Period: periodDaily},
			"Journal Entry":    {Limit: invoices, Period: periodMonthly},
			"Payment Entry":    {Limit: invoices, Period: periodMonthly},
			"Expense Claim":    {Limit: expenses, Period: periodMonthly},
			"Employee Advance": {Limit: expenses, Period: periodMonthly},
			"Employee":         {Limit: users, Period: periodMonthly},
			"User":             {Limit: users, Period: periodMonthly},
		},
		ValidTill: biztime.FormatDate(biztime.AddDays(now, quotaValidityDays)),
	}
}

// MergeQuotaIntoConfig merges the quota document into an existing site
// configuration blob, preserving every pre-existing key. An empty blob is
// treated as an empty object.
func MergeQuotaIntoConfig(configJSON string, quota QuotaDocument) (string, error) {
	config := map[string]any{}
	if configJSON != "" {
		if err := json.Unmarshal([]byte(configJSON), &config); err != nil {
			return "", fmt.Errorf("site configuration is not valid JSON: %w", err)
		}
	}

	config["quota"] = quota

	merged, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize site configuration: %w", err)
	}
	return string(merged), nil
}
