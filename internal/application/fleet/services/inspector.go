package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/itsyosefali/saas-package-management/internal/domain/instance"
	"github.com/itsyosefali/saas-package-management/internal/domain/site"
	"github.com/itsyosefali/saas-package-management/internal/infrastructure/sshexec"
	"github.com/itsyosefali/saas-package-management/internal/shared/config"
	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
)

const (
	connectionConnected = "Connected"
	connectionFailed    = "Failed to connect"
)

// SiteReport is one discovered site cross-referenced against the known
// site records.
type SiteReport struct {
	Name         string `json:"name"`
	Status       string `json:"status"`
	IsKnown      bool   `json:"is_known"`
	SiteID       uint   `json:"site_id,omitempty"`
	CustomerName string `json:"customer_name,omitempty"`
}

// HealthReport aggregates one inspection of one instance. Callers must
// check ConnectionStatus: a probe failure yields a degraded report, not
// an error.
type HealthReport struct {
	InstanceID       uint           `json:"instance_id"`
	InstanceName     string         `json:"instance_name"`
	ConnectionStatus string         `json:"connection_status"`
	ConnectionError  string         `json:"connection_error,omitempty"`
	System           SystemMetrics  `json:"system"`
	SystemError      string         `json:"system_error,omitempty"`
	App              AppStatus      `json:"app"`
	AppError         string         `json:"app_error,omitempty"`
	Sites            []SiteReport   `json:"sites"`
	SitesError       string         `json:"sites_error,omitempty"`
	TotalSites       int            `json:"total_sites"`
	ActiveSites      int            `json:"active_sites"`
	InactiveSites    int            `json:"inactive_sites"`
	CollectedAt      time.Time      `json:"collected_at"`
}

// KnownSiteResolver resolves observed site directory names against the
// site records in one bulk query.
type KnownSiteResolver interface {
	GetByCustomDomains(ctx context.Context, domains []string) (map[string]*site.Site, error)
}

// CustomerNameResolver maps a site's originating request to the customer
// it belongs to.
type CustomerNameResolver interface {
	CustomerNameForRequest(ctx context.Context, requestID uint) (string, error)
}

// Inspector polls one instance's health over SSH: system metrics,
// application runtime status and site discovery run as three concurrent
// remote queries. A failed query degrades its own report section only.
//
// Inspection also reconciles maintenance mode on discovered sites as a
// deliberate side effect: observed Inactive or Stopped sites get the
// maintenance flag set, observed Active or Running sites get it cleared.
// Operators rely on a sweep leaving the fleet in that state rather than
// on a separate reconciliation pass.
type Inspector struct {
	executor     sshexec.Executor
	secrets      instance.SecretResolver
	instanceRepo instance.Repository
	knownSites   KnownSiteResolver
	customers    CustomerNameResolver
	ssh          *config.SSHConfig
	logger       logger.Interface
}

func NewInspector(
	executor sshexec.Executor,
	secrets instance.SecretResolver,
	instanceRepo instance.Repository,
	knownSites KnownSiteResolver,
	customers CustomerNameResolver,
	ssh *config.SSHConfig,
	logger logger.Interface,
) *Inspector {
	return &Inspector{
		executor:     executor,
		secrets:      secrets,
		instanceRepo: instanceRepo,
		knownSites:   knownSites,
		customers:    customers,
		ssh:          ssh,
		logger:       logger,
	}
}

// Inspect collects a health report for the instance and persists the
// resulting deployment status transition. It never returns a report
// error for remote failures; those land in the report itself.
func (ins *Inspector) Inspect(ctx context.Context, inst *instance.Instance) *HealthReport {
	report := &HealthReport{
		InstanceID:   inst.ID(),
		InstanceName: inst.Name(),
		CollectedAt:  time.Now(),
	}

	target, err := ins.resolveTarget(inst)
	if err != nil {
		report.ConnectionStatus = connectionFailed
		report.ConnectionError = err.Error()
		ins.transition(ctx, inst, false)
		return report
	}

	if err := ins.executor.Probe(ctx, target); err != nil {
		report.ConnectionStatus = connectionFailed
		report.ConnectionError = err.Error()
		ins.transition(ctx, inst, false)
		return report
	}
	report.ConnectionStatus = connectionConnected

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		out, err := ins.executor.Run(ctx, target, "uptime && free -h && df -h", ins.ssh.DefaultCommandTimeout())
		if err != nil {
			report.SystemError = err.Error()
			return
		}
		report.System = parseSystemMetrics(out.Output)
	}()

	go func() {
		defer wg.Done()
		cmd := fmt.Sprintf(`cd %s && bench version 2>/dev/null || echo "%s"; supervisorctl status 2>/dev/null || echo "%s"`,
			inst.BenchPath(), benchErrorMarker, supervisorErrorMarker)
		out, err := ins.executor.Run(ctx, target, cmd, ins.ssh.DefaultCommandTimeout())
		if err != nil {
			report.AppError = err.Error()
			return
		}
		report.App = parseAppStatus(out.Output)
	}()

	var discovered []DiscoveredSite
	go func() {
		defer wg.Done()
		out, err := ins.executor.Run(ctx, target, discoverSitesScript(inst.BenchPath()), ins.ssh.DefaultCommandTimeout())
		if err != nil {
			report.SitesError = err.Error()
			return
		}
		_, discovered = parseDiscoveredSites(out.Output)
	}()

	wg.Wait()

	if report.SitesError == "" {
		report.Sites = ins.crossReference(ctx, discovered)
		ins.reconcileMaintenance(ctx, target, inst.BenchPath(), discovered)
	}

	report.TotalSites = len(report.Sites)
	for _, s := range report.Sites {
		if s.Status == "Active" || s.Status == "Running" {
			report.ActiveSites++
		} else {
			report.InactiveSites++
		}
	}

	ins.transition(ctx, inst, true)
	return report
}

func (ins *Inspector) resolveTarget(inst *instance.Instance) (sshexec.Target, error) {
	creds := inst.Credentials()
	password, err := ins.secrets.Resolve(creds.EncryptedPassword())
	if err != nil {
		return sshexec.Target{}, err
	}
	return sshexec.Target{
		Host:     creds.Host(),
		Port:     creds.Port(),
		Username: creds.Username(),
		Password: password,
	}, nil
}

// crossReference bulk-resolves discovered site directory names against
// the known site records by custom domain.
func (ins *Inspector) crossReference(ctx context.Context, discovered []DiscoveredSite) []SiteReport {
	reports := make([]SiteReport, 0, len(discovered))
	if len(discovered) == 0 {
		return reports
	}

	domains := make([]string, 0, len(discovered))
	for _, d := range discovered {
		domains = append(domains, d.Name)
	}

	known, err := ins.knownSites.GetByCustomDomains(ctx, domains)
	if err != nil {
		ins.logger.Warnw("failed to cross-reference discovered sites", "error", err)
		known = map[string]*site.Site{}
	}

	for _, d := range discovered {
		report := SiteReport{Name: d.Name, Status: d.Status}
		if record, ok := known[d.Name]; ok {
			report.IsKnown = true
			report.SiteID = record.ID()
			if name, err := ins.customers.CustomerNameForRequest(ctx, record.RequestID()); err == nil {
				report.CustomerName = name
			}
		}
		reports = append(reports, report)
	}
	return reports
}

// reconcileMaintenance pushes the maintenance flag on each discovered
// site to match its observed status.
func (ins *Inspector) reconcileMaintenance(ctx context.Context, target sshexec.Target, benchPath string, discovered []DiscoveredSite) {
	for _, d := range discovered {
		var enable bool
		switch d.Status {
		case "Inactive", "Stopped":
			enable = true
		case "Active", "Running":
			enable = false
		default:
			continue
		}
		if err := ins.SetMaintenanceMode(ctx, target, benchPath, d.Name, enable); err != nil {
			ins.logger.Warnw("maintenance reconciliation failed", "site", d.Name, "enable", enable, "error", err)
		}
	}
}

// ToggleSiteMaintenance flips the maintenance flag for a named site on
// the given instance. Secret resolution or connection failures surface
// as remote errors to the caller.
func (ins *Inspector) ToggleSiteMaintenance(ctx context.Context, instanceID uint, siteName string, enable bool) error {
	inst, err := ins.instanceRepo.GetByID(ctx, instanceID)
	if err != nil {
		return err
	}
	if inst == nil {
		return errors.NewNotFoundError("Instance not found")
	}

	target, err := ins.resolveTarget(inst)
	if err != nil {
		return err
	}
	return ins.SetMaintenanceMode(ctx, target, inst.BenchPath(), siteName, enable)
}

// SetMaintenanceMode rewrites the site's remote configuration with the
// maintenance flag set or cleared, preserving every other key.
func (ins *Inspector) SetMaintenanceMode(ctx context.Context, target sshexec.Target, benchPath, siteName string, enable bool) error {
	configPath := fmt.Sprintf("sites/%s/site_config.json", siteName)

	readCmd := fmt.Sprintf("cd %s && cat %s", benchPath, configPath)
	out, err := ins.executor.Run(ctx, target, readCmd, ins.ssh.DefaultCommandTimeout())
	if err != nil {
		return fmt.Errorf("reading site configuration: %w", err)
	}

	config := map[string]any{}
	raw := extractConfigJSON(out.Output)
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &config); err != nil {
			return fmt.Errorf("site configuration is not valid JSON: %w", err)
		}
	}

	if enable {
		config["maintenance_mode"] = 1
	} else {
		config["maintenance_mode"] = 0
	}

	updated, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize site configuration: %w", err)
	}

	writeCmd := fmt.Sprintf("cd %s && cat > %s << 'EOF'\n%s\nEOF", benchPath, configPath, string(updated))
	if _, err := ins.executor.Run(ctx, target, writeCmd, ins.ssh.DefaultCommandTimeout()); err != nil {
		return fmt.Errorf("writing site configuration: %w", err)
	}
	return nil
}

// transition records the inspection outcome on the instance row. A
// concurrent allocation may win the version race; the next sweep
// converges, so conflicts are logged and skipped.
func (ins *Inspector) transition(ctx context.Context, inst *instance.Instance, healthy bool) {
	if healthy {
		inst.MarkRunning()
	} else {
		inst.MarkFailed()
	}
	if err := ins.instanceRepo.Update(ctx, inst); err != nil {
		if errors.IsConflictError(err) {
			ins.logger.Infow("instance status update lost version race", "instance_id", inst.ID())
			return
		}
		ins.logger.Errorw("failed to persist instance status", "instance_id", inst.ID(), "error", err)
	}
}

// discoverSitesScript enumerates site directories under the bench sites
// path. Only names containing a dot count as site identifiers; presence
// of the site-local configuration file is the liveness proxy.
func discoverSitesScript(benchPath string) string {
	return fmt.Sprintf(`cd %s && echo "BENCH_PATH:$(pwd)" && ls sites/ | grep -v '^apps\|^assets\|^common_site_config\|^apps.json\|^apps.txt' | while read site; do
	if echo "$site" | grep -q '\.'; then
		echo "SITE:$site"
		if [ -f "sites/$site/site_config.json" ]; then
			echo "STATUS:$site:Active"
		else
			echo "STATUS:$site:Unknown"
		fi
	fi
done`, benchPath)
}

// extractConfigJSON trims PTY noise around the JSON object printed by
// cat.
func extractConfigJSON(output string) string {
	start := strings.Index(output, "{")
	end := strings.LastIndex(output, "}")
	if start < 0 || end < start {
		return ""
	}
	return output[start : end+1]
}
