package services

import (
	"strings"
)

// SystemMetrics is the parsed output of the combined
// "uptime && free -h && df -h" invocation.
type SystemMetrics struct {
	Uptime string `json:"uptime"`
	Memory string `json:"memory"`
	Disk   string `json:"disk"`
}

// AppStatus is the parsed output of the combined bench-version and
// process-supervisor invocation.
type AppStatus struct {
	BenchVersion     string `json:"bench_version"`
	SupervisorStatus string `json:"supervisor_status"`
	BenchError       bool   `json:"bench_error"`
	SupervisorError  bool   `json:"supervisor_error"`
}

// DiscoveredSite is one site directory found under the bench sites path.
type DiscoveredSite struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

const (
	benchErrorMarker      = "BENCH_ERROR"
	supervisorErrorMarker = "SUPERVISOR_ERROR"

	benchPathPrefix  = "BENCH_PATH:"
	sitePrefix       = "SITE:"
	siteStatusPrefix = "STATUS:"
)

// parseSystemMetrics extracts the uptime line, the memory summary line
// and the root filesystem line from the combined system query output.
func parseSystemMetrics(output string) SystemMetrics {
	metrics := SystemMetrics{}
	var diskLines []string

	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.Contains(trimmed, "load average"):
			metrics.Uptime = trimmed
		case strings.HasPrefix(trimmed, "Mem:"):
			metrics.Memory = trimmed
		case strings.HasPrefix(trimmed, "/dev/"):
			diskLines = append(diskLines, trimmed)
		}
	}

	for _, line := range diskLines {
		if strings.HasSuffix(line, " /") {
			metrics.Disk = line
			return metrics
		}
	}
	if len(diskLines) > 0 {
		metrics.Disk = diskLines[0]
	}
	return metrics
}

// parseAppStatus splits the combined invocation output into the bench
// version block and the supervisor status block. Either block may be an
// error marker when the underlying tool is unavailable.
func parseAppStatus(output string) AppStatus {
	status := AppStatus{}
	var benchLines, supervisorLines []string

	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		switch {
		case strings.Contains(trimmed, benchErrorMarker):
			status.BenchError = true
		case strings.Contains(trimmed, supervisorErrorMarker):
			status.SupervisorError = true
		case isSupervisorLine(trimmed):
			supervisorLines = append(supervisorLines, trimmed)
		case isBenchVersionLine(trimmed):
			benchLines = append(benchLines, trimmed)
		}
	}

	status.BenchVersion = strings.Join(benchLines, "\n")
	status.SupervisorStatus = strings.Join(supervisorLines, "\n")
	return status
}

// supervisorctl status lines carry a process state keyword in the second
// column.
func isSupervisorLine(line string) bool {
	for _, state := range []string{"RUNNING", "STOPPED", "STARTING", "FATAL", "BACKOFF", "EXITED"} {
		if strings.Contains(line, state) {
			return true
		}
	}
	return false
}

// bench version prints "app x.y.z" pairs.
func isBenchVersionLine(line string) bool {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return false
	}
	return strings.ContainsAny(fields[1], "0123456789")
}

// parseDiscoveredSites reads the marker lines emitted by the discovery
// script: a BENCH_PATH line, then SITE and STATUS lines per directory
// that looks like a site identifier.
func parseDiscoveredSites(output string) (benchPath string, sites []DiscoveredSite) {
	statuses := map[string]string{}
	var order []string

	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, benchPathPrefix):
			benchPath = strings.TrimPrefix(trimmed, benchPathPrefix)
		case strings.HasPrefix(trimmed, siteStatusPrefix):
			parts := strings.SplitN(strings.TrimPrefix(trimmed, siteStatusPrefix), ":", 2)
			if len(parts) == 2 && parts[0] != "" {
				if _, seen := statuses[parts[0]]; !seen {
					order = append(order, parts[0])
				}
				statuses[parts[0]] = parts[1]
			}
		case strings.HasPrefix(trimmed, sitePrefix):
			name := strings.TrimPrefix(trimmed, sitePrefix)
			if name != "" {
				if _, seen := statuses[name]; !seen {
					order = append(order, name)
					statuses[name] = "Unknown"
				}
			}
		}
	}

	for _, name := range order {
		sites = append(sites, DiscoveredSite{Name: name, Status: statuses[name]})
	}
	return benchPath, sites
}
