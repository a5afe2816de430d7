package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsyosefali/saas-package-management/internal/domain/catalog"
)

func testPackage(t *testing.T, users, invoices, expenses int) *catalog.Package {
	t.Helper()
	pkg, err := catalog.NewPackage("Standard", 100, users, invoices, expenses, "- features")
	require.NoError(t, err)
	return pkg
}

func TestBuildQuotaDocument(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	quota := BuildQuotaDocument(testPackage(t, 10, 1000, 500), now)

	assert.Equal(t, 10, quota.ActiveUsers)
	assert.Equal(t, DocumentRule{Limit: 1000, Period: "Daily"}, quota.DocumentLimits["Sales Invoice"])
	assert.Equal(t, DocumentRule{Limit: 1000, Period: "Daily"}, quota.DocumentLimits["Purchase Invoice"])
	assert.Equal(t, DocumentRule{Limit: 1000, Period: "Monthly"}, quota.DocumentLimits["Journal Entry"])
	assert.Equal(t, DocumentRule{Limit: 1000, Period: "Monthly"}, quota.DocumentLimits["Payment Entry"])
	assert.Equal(t, DocumentRule{Limit: 500, Period: "Monthly"}, quota.DocumentLimits["Expense Claim"])
	assert.Equal(t, DocumentRule{Limit: 500, Period: "Monthly"}, quota.DocumentLimits["Employee Advance"])
	assert.Equal(t, DocumentRule{Limit: 10, Period: "Monthly"}, quota.DocumentLimits["Employee"])
	assert.Equal(t, DocumentRule{Limit: 10, Period: "Monthly"}, quota.DocumentLimits["User"])
	assert.Equal(t, "2027-09-01", quota.ValidTill)
}

func TestBuildQuotaDocument_Defaults(t *testing.T) {
	quota := BuildQuotaDocument(testPackage(t, 0, 0, 0), time.Now())

	assert.Equal(t, 5, quota.ActiveUsers)
	assert.Equal(t, 10, quota.DocumentLimits["Sales Invoice"].Limit)
	assert.Equal(t, 10, quota.DocumentLimits["Expense Claim"].Limit)
	assert.Equal(t, 5, quota.DocumentLimits["User"].Limit)
}

func TestMergeQuotaIntoConfig_PreservesExistingKeys(t *testing.T) {
	existing := `{
		"db_name": "_abc123",
		"db_password": "redacted",
		"developer_mode": 0,
		"nested": {"keep": ["me", 1, true]}
	}`

	quota := BuildQuotaDocument(testPackage(t, 10, 1000, 500), time.Now())
	merged, err := MergeQuotaIntoConfig(existing, quota)
	require.NoError(t, err)

	var roundTrip map[string]any
	require.NoError(t, json.Unmarshal([]byte(merged), &roundTrip))

	assert.Equal(t, "_abc123", roundTrip["db_name"])
	assert.Equal(t, "redacted", roundTrip["db_password"])
	assert.Equal(t, float64(0), roundTrip["developer_mode"])
	assert.Contains(t, roundTrip, "nested")

	quotaBlock, ok := roundTrip["quota"].(map[string]any)
	require.True(t, ok, "quota key missing after merge")
	assert.Equal(t, float64(10), quotaBlock["active_users"])

	limits, ok := quotaBlock["document_limits"].(map[string]any)
	require.True(t, ok)
	salesInvoice := limits["Sales Invoice"].(map[string]any)
	assert.Equal(t, float64(1000), salesInvoice["limit"])
	assert.Equal(t, "Daily", salesInvoice["period"])
}

func TestMergeQuotaIntoConfig_EmptyConfig(t *testing.T) {
	merged, err := MergeQuotaIntoConfig("", BuildQuotaDocument(testPackage(t, 10, 1000, 500), time.Now()))
	require.NoError(t, err)

	var roundTrip map[string]any
	require.NoError(t, json.Unmarshal([]byte(merged), &roundTrip))
	assert.Contains(t, roundTrip, "quota")
}

func TestMergeQuotaIntoConfig_InvalidJSON(t *testing.T) {
	_, err := MergeQuotaIntoConfig("not json", BuildQuotaDocument(testPackage(t, 1, 1, 1), time.Now()))
	assert.Error(t, err)
}
