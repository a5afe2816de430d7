package services

import (
	"context"
	std_errors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/itsyosefali/saas-package-management/internal/domain/catalog"
	"github.com/itsyosefali/saas-package-management/internal/domain/instance"
	"github.com/itsyosefali/saas-package-management/internal/domain/site"
	"github.com/itsyosefali/saas-package-management/internal/infrastructure/sshexec"
	"github.com/itsyosefali/saas-package-management/internal/shared/config"
	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
)

// ProgressEvent is one step of a provisioning run, reported at fixed
// checkpoints from 0 to 100.
type ProgressEvent struct {
	Percent int    `json:"percent"`
	Message string `json:"message"`
}

// ProgressReporter consumes provisioning progress. Implementations must
// be fast; the workflow calls them inline between remote commands.
type ProgressReporter func(siteID uint, event ProgressEvent)

// SiteNotifier informs the customer and operators about provisioning
// outcomes.
type SiteNotifier interface {
	NotifySiteReady(to, customerName, siteURL string)
	NotifyProvisioningFailed(siteName string, requestID uint)
}

// Workflow drives the multi-step remote provisioning of one tenant site:
// create the site, install the base application and the quota extension,
// write the quota configuration, then attempt TLS. Every step before TLS
// is fatal on failure; TLS failure only degrades to plain HTTP.
type Workflow struct {
	siteRepo  site.Repository
	executor  sshexec.Executor
	secrets   instance.SecretResolver
	notifier  SiteNotifier
	reporter  ProgressReporter
	provision *config.ProvisionConfig
	ssh       *config.SSHConfig
	logger    logger.Interface
}

func NewWorkflow(
	siteRepo site.Repository,
	executor sshexec.Executor,
	secrets instance.SecretResolver,
	notifier SiteNotifier,
	reporter ProgressReporter,
	provision *config.ProvisionConfig,
	ssh *config.SSHConfig,
	logger logger.Interface,
) *Workflow {
	return &Workflow{
		siteRepo:  siteRepo,
		executor:  executor,
		secrets:   secrets,
		notifier:  notifier,
		reporter:  reporter,
		provision: provision,
		ssh:       ssh,
		logger:    logger,
	}
}

// Run executes the provisioning workflow for a freshly created site
// record. It is meant to run on its own goroutine; the terminal outcome
// is written back to the site record, never returned to the trigger.
func (w *Workflow) Run(ctx context.Context, s *site.Site, inst *instance.Instance, pkg *catalog.Package, customerName, customerEmail string) {
	var log strings.Builder
	domain := s.CustomDomain().String()

	w.report(s, &log, 0, "Starting site provisioning")

	w.report(s, &log, 5, "Resolving instance credentials")
	target, dbPassword, err := w.resolveTarget(inst)
	if err != nil {
		w.fail(ctx, s, &log, fmt.Sprintf("credential resolution failed: %v", err))
		return
	}

	w.report(s, &log, 10, "Creating site "+domain)
	createCmd := fmt.Sprintf(
		"cd %s && bench new-site %s --mariadb-root-password %s --admin-password %s --no-mariadb-socket",
		inst.BenchPath(), domain, shellQuote(dbPassword), shellQuote(w.provision.AdminPassword),
	)
	if _, err := w.executor.Run(ctx, target, createCmd, w.ssh.DefaultCommandTimeout()); err != nil {
		w.fail(ctx, s, &log, "site creation failed: "+describeStepError(err))
		return
	}
	w.report(s, &log, 30, "Site created")

	w.report(s, &log, 40, "Installing base application")
	installCmd := fmt.Sprintf("cd %s && bench --site %s install-app %s", inst.BenchPath(), domain, w.provision.BaseApp)
	if _, err := w.executor.Run(ctx, target, installCmd, w.ssh.DefaultCommandTimeout()); err != nil {
		w.fail(ctx, s, &log, "base application install failed: "+describeStepError(err))
		return
	}
	w.report(s, &log, 60, "Base application installed")

	w.report(s, &log, 70, "Installing quota extension")
	quotaCmd := fmt.Sprintf("cd %s && bench --site %s install-app %s", inst.BenchPath(), domain, w.provision.QuotaApp)
	if _, err := w.executor.Run(ctx, target, quotaCmd, w.ssh.DefaultCommandTimeout()); err != nil {
		w.fail(ctx, s, &log, "quota extension install failed: "+describeStepError(err))
		return
	}
	w.report(s, &log, 80, "Quota extension installed")

	w.report(s, &log, 85, "Configuring quota")
	if err := w.configureQuota(ctx, target, inst.BenchPath(), domain, pkg); err != nil {
		w.fail(ctx, s, &log, "quota configuration failed: "+describeStepError(err))
		return
	}

	w.report(s, &log, 90, "Requesting TLS certificate")
	if err := w.attemptTLS(ctx, target, inst.BenchPath(), domain); err != nil {
		// TLS failure does not fail the site; it stays reachable over
		// plain HTTP until an operator reruns the setup.
		w.logger.Warnw("TLS setup failed, continuing without certificate", "site", domain, "error", err)
		log.WriteString(fmt.Sprintf("[%s] TLS setup failed (non-fatal): %v\n", time.Now().Format(time.RFC3339), err))
	}

	w.report(s, &log, 100, "Site provisioning complete")

	summary := w.buildSummary(s, inst, pkg)
	log.WriteString("\n" + summary)

	if err := s.MarkActive(log.String()); err != nil {
		w.logger.Errorw("failed to mark site active", "site_id", s.ID(), "error", err)
		return
	}
	if err := w.siteRepo.Update(ctx, s); err != nil {
		w.logger.Errorw("failed to persist active site", "site_id", s.ID(), "error", err)
		return
	}

	w.notifier.NotifySiteReady(customerEmail, customerName, s.URL())
	w.logger.Infow("site provisioned", "site_id", s.ID(), "site", domain)
}

func (w *Workflow) resolveTarget(inst *instance.Instance) (sshexec.Target, string, error) {
	creds := inst.Credentials()

	sshPassword, err := w.secrets.Resolve(creds.EncryptedPassword())
	if err != nil {
		return sshexec.Target{}, "", err
	}
	dbPassword, err := w.secrets.Resolve(creds.EncryptedDBPassword())
	if err != nil {
		return sshexec.Target{}, "", err
	}

	return sshexec.Target{
		Host:     creds.Host(),
		Port:     creds.Port(),
		Username: creds.Username(),
		Password: sshPassword,
	}, dbPassword, nil
}

func (w *Workflow) configureQuota(ctx context.Context, target sshexec.Target, benchPath, domain string, pkg *catalog.Package) error {
	configPath := fmt.Sprintf("sites/%s/site_config.json", domain)

	readCmd := fmt.Sprintf("cd %s && cat %s", benchPath, configPath)
	result, err := w.executor.Run(ctx, target, readCmd, w.ssh.DefaultCommandTimeout())
	if err != nil {
		return fmt.Errorf("reading site configuration: %w", err)
	}

	merged, err := MergeQuotaIntoConfig(extractJSON(result.Output), BuildQuotaDocument(pkg, time.Now()))
	if err != nil {
		return err
	}

	backupCmd := fmt.Sprintf("cd %s && cp %s %s.bak.%d", benchPath, configPath, configPath, time.Now().Unix())
	if _, err := w.executor.Run(ctx, target, backupCmd, w.ssh.DefaultCommandTimeout()); err != nil {
		return fmt.Errorf("backing up site configuration: %w", err)
	}

	writeCmd := fmt.Sprintf("cd %s && cat > %s << 'EOF'\n%s\nEOF", benchPath, configPath, merged)
	if _, err := w.executor.Run(ctx, target, writeCmd, w.ssh.DefaultCommandTimeout()); err != nil {
		return fmt.Errorf("writing site configuration: %w", err)
	}

	verifyCmd := fmt.Sprintf("cd %s && grep -q '\"quota\"' %s && echo QUOTA_OK || echo QUOTA_MISSING", benchPath, configPath)
	verify, err := w.executor.Run(ctx, target, verifyCmd, w.ssh.DefaultCommandTimeout())
	if err != nil {
		return fmt.Errorf("verifying site configuration: %w", err)
	}
	if !strings.Contains(verify.Output, "QUOTA_OK") {
		return errors.NewCommandFailedError(verify.ExitCode, "quota key missing after configuration write")
	}
	return nil
}

func (w *Workflow) attemptTLS(ctx context.Context, target sshexec.Target, benchPath, domain string) error {
	tlsCmd := fmt.Sprintf("cd %s && sudo bench setup lets-encrypt %s && sudo service nginx reload", benchPath, domain)
	_, err := w.executor.Run(ctx, target, tlsCmd, w.ssh.DefaultCommandTimeout())
	return err
}

func (w *Workflow) report(s *site.Site, log *strings.Builder, percent int, message string) {
	log.WriteString(fmt.Sprintf("[%s] %3d%% %s\n", time.Now().Format(time.RFC3339), percent, message))
	if w.reporter != nil {
		w.reporter(s.ID(), ProgressEvent{Percent: percent, Message: message})
	}
	w.logger.Infow("provisioning progress", "site_id", s.ID(), "percent", percent, "message", message)
}

func (w *Workflow) fail(ctx context.Context, s *site.Site, log *strings.Builder, reason string) {
	w.logger.Errorw("site provisioning failed", "site_id", s.ID(), "reason", reason)
	log.WriteString(fmt.Sprintf("[%s] FAILED: %s\n", time.Now().Format(time.RFC3339), reason))

	if err := s.MarkFailed(log.String()); err != nil {
		w.logger.Errorw("failed to mark site failed", "site_id", s.ID(), "error", err)
		return
	}
	if err := w.siteRepo.Update(ctx, s); err != nil {
		w.logger.Errorw("failed to persist failed site", "site_id", s.ID(), "error", err)
	}

	w.notifier.NotifyProvisioningFailed(s.SiteName().String(), s.RequestID())
}

func (w *Workflow) buildSummary(s *site.Site, inst *instance.Instance, pkg *catalog.Package) string {
	var b strings.Builder
	b.WriteString("=== SITE PROVISIONED ===\n")
	b.WriteString(fmt.Sprintf("Site URL: %s\n", s.URL()))
	b.WriteString(fmt.Sprintf("Site Name: %s\n", s.SiteName()))
	b.WriteString("Admin User: Administrator\n")
	b.WriteString(fmt.Sprintf("Admin Password: %s\n", w.provision.AdminPassword))
	b.WriteString(fmt.Sprintf("Instance: %s (#%d)\n", inst.Name(), inst.ID()))
	b.WriteString(fmt.Sprintf("Package: %s (#%d)\n", pkg.Name(), pkg.ID()))
	b.WriteString(fmt.Sprintf("Expiry Date: %s\n", s.ExpiryDate().Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Provisioned At: %s\n", time.Now().Format(time.RFC3339)))
	return b.String()
}

// describeStepError renders a fatal step error for the provision log,
// appending the captured remote output when the failure carries one.
func describeStepError(err error) string {
	var cmdErr *errors.CommandError
	if std_errors.As(err, &cmdErr) && cmdErr.Output != "" {
		return fmt.Sprintf("%v\n--- captured output ---\n%s", err, cmdErr.Output)
	}
	return err.Error()
}

// shellQuote single-quotes a value for safe inlining into a remote shell
// command.
func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", `'\''`) + "'"
}

// extractJSON trims PTY noise around a JSON object printed by cat: the
// echoed command line, the shell prompt, and trailing whitespace.
func extractJSON(output string) string {
	start := strings.Index(output, "{")
	end := strings.LastIndex(output, "}")
	if start < 0 || end < start {
		return ""
	}
	return output[start : end+1]
}
