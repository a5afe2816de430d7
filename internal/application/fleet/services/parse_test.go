package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSystemMetrics(t *testing.T) {
	output := ` 14:02:11 up 42 days,  3:17,  1 user,  load average: 0.31, 0.24, 0.19
              total        used        free      shared  buff/cache   available
Mem:           15Gi       8.2Gi       1.1Gi       312Mi       6.1Gi       6.8Gi
Swap:         4.0Gi       1.2Gi       2.8Gi
Filesystem      Size  Used Avail Use% Mounted on
tmpfs           1.6G  2.1M  1.6G   1% /run
/dev/vda1        78G   41G   34G  55% /
/dev/vda15      105M  6.1M   99M   6% /boot/efi`

	metrics := parseSystemMetrics(output)
	assert.Contains(t, metrics.Uptime, "up 42 days")
	assert.Contains(t, metrics.Memory, "15Gi")
	assert.Equal(t, "/dev/vda1        78G   41G   34G  55% /", metrics.Disk)
}

func TestParseAppStatus(t *testing.T) {
	output := `erpnext 15.23.0
frappe 15.28.1
quota 1.0.4
frappe-bench-web:frappe-bench-frappe-web   RUNNING   pid 1182, uptime 12:01:44
frappe-bench-workers:frappe-bench-frappe-worker   STOPPED   Sep 01 10:02 AM`

	status := parseAppStatus(output)
	assert.False(t, status.BenchError)
	assert.False(t, status.SupervisorError)
	assert.Contains(t, status.BenchVersion, "erpnext 15.23.0")
	assert.Contains(t, status.BenchVersion, "quota 1.0.4")
	assert.Contains(t, status.SupervisorStatus, "RUNNING")
	assert.Contains(t, status.SupervisorStatus, "STOPPED")
}

func TestParseAppStatus_ErrorMarkers(t *testing.T) {
	status := parseAppStatus("BENCH_ERROR\nSUPERVISOR_ERROR\n")
	assert.True(t, status.BenchError)
	assert.True(t, status.SupervisorError)
	assert.Empty(t, status.BenchVersion)
	assert.Empty(t, status.SupervisorStatus)
}

func TestParseDiscoveredSites(t *testing.T) {
	output := `BENCH_PATH:/home/frappe/frappe-bench
SITE:acme.spm.cloud
STATUS:acme.spm.cloud:Active
SITE:beta.spm.cloud
STATUS:beta.spm.cloud:Unknown`

	benchPath, sites := parseDiscoveredSites(output)
	assert.Equal(t, "/home/frappe/frappe-bench", benchPath)
	require.Len(t, sites, 2)
	assert.Equal(t, DiscoveredSite{Name: "acme.spm.cloud", Status: "Active"}, sites[0])
	assert.Equal(t, DiscoveredSite{Name: "beta.spm.cloud", Status: "Unknown"}, sites[1])
}

func TestParseDiscoveredSites_SiteLineWithoutStatusDefaultsUnknown(t *testing.T) {
	_, sites := parseDiscoveredSites("SITE:gamma.spm.cloud\n")
	require.Len(t, sites, 1)
	assert.Equal(t, "Unknown", sites[0].Status)
}

func TestParseDiscoveredSites_IgnoresNoise(t *testing.T) {
	output := `Last login: Mon Sep  1 12:00:01 2026
BENCH_PATH:/home/frappe/frappe-bench
apps.txt
random noise
STATUS:acme.spm.cloud:Active`

	_, sites := parseDiscoveredSites(output)
	require.Len(t, sites, 1)
	assert.Equal(t, "acme.spm.cloud", sites[0].Name)
}
