package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/itsyosefali/saas-package-management/internal/domain/action"
	"github.com/itsyosefali/saas-package-management/internal/domain/instance"
	"github.com/itsyosefali/saas-package-management/internal/infrastructure/sshexec"
	"github.com/itsyosefali/saas-package-management/internal/shared/config"
	"github.com/itsyosefali/saas-package-management/internal/shared/id"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
)

// ActionRunner executes operator-triggered fleet actions against a
// single instance: process control, backups, updates, monitoring and
// per-site management. Each run is recorded as an InstanceAction with
// its combined remote output.
type ActionRunner struct {
	actionRepo   action.Repository
	instanceRepo instance.Repository
	inspector    *Inspector
	executor     sshexec.Executor
	secrets      instance.SecretResolver
	ssh          *config.SSHConfig
	logger       logger.Interface
}

func NewActionRunner(
	actionRepo action.Repository,
	instanceRepo instance.Repository,
	inspector *Inspector,
	executor sshexec.Executor,
	secrets instance.SecretResolver,
	ssh *config.SSHConfig,
	logger logger.Interface,
) *ActionRunner {
	return &ActionRunner{
		actionRepo:   actionRepo,
		instanceRepo: instanceRepo,
		inspector:    inspector,
		executor:     executor,
		secrets:      secrets,
		ssh:          ssh,
		logger:       logger,
	}
}

// Submit records a new pending action for the instance and returns it.
// Site Management actions carry the per-site verb to run; every other
// type takes an empty verb. Execution happens separately via Execute so
// callers can run actions in the background.
func (r *ActionRunner) Submit(ctx context.Context, instanceID uint, actionType action.Type, siteVerb action.SiteVerb) (*action.InstanceAction, error) {
	if _, err := r.instanceRepo.GetByID(ctx, instanceID); err != nil {
		return nil, err
	}

	actionID, err := id.GenerateWithPrefix(id.PrefixAction, 12)
	if err != nil {
		return nil, err
	}

	act, err := action.NewInstanceAction(actionID, instanceID, actionType, siteVerb)
	if err != nil {
		return nil, err
	}
	if err := r.actionRepo.Create(ctx, act); err != nil {
		return nil, err
	}

	r.logger.Infow("instance action submitted", "action_id", act.ID(), "instance_id", instanceID, "type", actionType)
	return act, nil
}

// Execute runs a previously submitted action to its terminal status.
func (r *ActionRunner) Execute(ctx context.Context, actionID string) error {
	act, err := r.actionRepo.GetByID(ctx, actionID)
	if err != nil {
		return err
	}

	inst, err := r.instanceRepo.GetByID(ctx, act.InstanceID())
	if err != nil {
		return err
	}

	if err := act.Begin(); err != nil {
		return err
	}
	if err := r.actionRepo.Update(ctx, act); err != nil {
		return err
	}

	execLog, execInfo, runErr := r.run(ctx, act, inst)
	if runErr != nil {
		r.logger.Errorw("instance action failed", "action_id", act.ID(), "type", act.ActionType(), "error", runErr)
		if err := act.Fail(fmt.Sprintf("%s\n%v", execLog, runErr)); err != nil {
			return err
		}
		if err := r.actionRepo.Update(ctx, act); err != nil {
			return err
		}
		return runErr
	}

	if err := act.Complete(execLog, execInfo); err != nil {
		return err
	}
	if err := r.actionRepo.Update(ctx, act); err != nil {
		return err
	}

	r.logger.Infow("instance action completed", "action_id", act.ID(), "type", act.ActionType(), "duration", act.Duration())
	return nil
}

func (r *ActionRunner) run(ctx context.Context, act *action.InstanceAction, inst *instance.Instance) (execLog, execInfo string, err error) {
	target, err := r.resolveTarget(inst)
	if err != nil {
		return "", "", err
	}

	switch act.ActionType() {
	case action.TypeStartInstance:
		return r.supervisorctl(ctx, target, inst, "start")
	case action.TypeStopInstance:
		return r.supervisorctl(ctx, target, inst, "stop")
	case action.TypeRestartInstance:
		return r.supervisorctl(ctx, target, inst, "restart")
	case action.TypeBackupInstance:
		return r.backup(ctx, target, inst)
	case action.TypeUpdateInstance:
		cmd := fmt.Sprintf("cd %s && bench update --no-interactive", inst.BenchPath())
		out, err := r.executor.Run(ctx, target, cmd, r.ssh.DefaultCommandTimeout())
		return out.Output, "", err
	case action.TypeMonitorInstance:
		return r.monitor(ctx, inst)
	case action.TypeMaintenanceMode:
		return r.maintenanceSweep(ctx, target, act, inst)
	case action.TypeSiteManagement:
		return r.siteManagement(ctx, target, act, inst)
	default:
		return "", "", fmt.Errorf("unsupported action type: %s", act.ActionType())
	}
}

func (r *ActionRunner) resolveTarget(inst *instance.Instance) (sshexec.Target, error) {
	creds := inst.Credentials()
	password, err := r.secrets.Resolve(creds.EncryptedPassword())
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

func (r *ActionRunner) supervisorctl(ctx context.Context, target sshexec.Target, inst *instance.Instance, verb string) (string, string, error) {
	cmd := fmt.Sprintf("cd %s && sudo supervisorctl %s all", inst.BenchPath(), verb)
	out, err := r.executor.Run(ctx, target, cmd, r.ssh.DefaultCommandTimeout())
	return out.Output, "", err
}

func (r *ActionRunner) backup(ctx context.Context, target sshexec.Target, inst *instance.Instance) (string, string, error) {
	cmd := fmt.Sprintf("cd %s && bench --site all backup", inst.BenchPath())
	out, err := r.executor.Run(ctx, target, cmd, r.ssh.DefaultCommandTimeout())
	if err != nil {
		return out.Output, "", err
	}

	inst.RecordBackup(time.Now())
	if err := r.instanceRepo.Update(ctx, inst); err != nil {
		r.logger.Warnw("failed to record backup time", "instance_id", inst.ID(), "error", err)
	}
	return out.Output, "", nil
}

// monitor runs a full inspection and formats the operator-facing status
// report; the structured report goes into execution info.
func (r *ActionRunner) monitor(ctx context.Context, inst *instance.Instance) (string, string, error) {
	report := r.inspector.Inspect(ctx, inst)

	var b strings.Builder
	b.WriteString("=== INSTANCE STATUS REPORT ===\n")
	b.WriteString(fmt.Sprintf("Timestamp: %s\n", report.CollectedAt.Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf("Instance: %s\n", inst.Name()))
	b.WriteString(fmt.Sprintf("Server URL: %s\n", inst.ServerURL()))
	b.WriteString(fmt.Sprintf("Deployment Status: %s\n", inst.DeploymentStatus()))
	b.WriteString(fmt.Sprintf("Connection Status: %s\n", report.ConnectionStatus))
	if last := inst.LastBackupAt(); last != nil {
		b.WriteString(fmt.Sprintf("Last Backup: %s\n", last.Format(time.RFC3339)))
	} else {
		b.WriteString("Last Backup: Never\n")
	}
	b.WriteString("\n=== SYSTEM STATUS ===\n")
	b.WriteString(fmt.Sprintf("Uptime: %s\n", report.System.Uptime))
	b.WriteString(fmt.Sprintf("Memory: %s\n", report.System.Memory))
	b.WriteString(fmt.Sprintf("Disk: %s\n", report.System.Disk))

	info, err := json.Marshal(report)
	if err != nil {
		return b.String(), "", err
	}
	return b.String(), string(info), nil
}

// maintenanceSweep toggles maintenance mode per hosted site based on its
// observed status and records a per-site outcome on the action.
func (r *ActionRunner) maintenanceSweep(ctx context.Context, target sshexec.Target, act *action.InstanceAction, inst *instance.Instance) (string, string, error) {
	out, err := r.executor.Run(ctx, target, discoverSitesScript(inst.BenchPath()), r.ssh.DefaultCommandTimeout())
	if err != nil {
		return out.Output, "", err
	}
	_, discovered := parseDiscoveredSites(out.Output)

	var b strings.Builder
	for _, d := range discovered {
		var enable bool
		switch d.Status {
		case "Inactive", "Stopped":
			enable = true
		case "Active", "Running":
			enable = false
		default:
			act.AddSiteAction(d.Name, "maintenance", action.StatusCancelled, "status unknown, skipped")
			continue
		}

		if err := r.inspector.SetMaintenanceMode(ctx, target, inst.BenchPath(), d.Name, enable); err != nil {
			act.AddSiteAction(d.Name, "maintenance", action.StatusFailed, err.Error())
			b.WriteString(fmt.Sprintf("%s: maintenance toggle failed: %v\n", d.Name, err))
			continue
		}
		detail := "maintenance mode disabled"
		if enable {
			detail = "maintenance mode enabled"
		}
		act.AddSiteAction(d.Name, "maintenance", action.StatusCompleted, detail)
		b.WriteString(fmt.Sprintf("%s: %s\n", d.Name, detail))
	}
	return b.String(), "", nil
}

// siteManagement discovers the sites hosted on the instance and runs the
// requested bench command against each one, recording a per-site
// outcome. One failing site does not stop the rest; the action completes
// with mixed child statuses.
func (r *ActionRunner) siteManagement(ctx context.Context, target sshexec.Target, act *action.InstanceAction, inst *instance.Instance) (string, string, error) {
	out, err := r.executor.Run(ctx, target, discoverSitesScript(inst.BenchPath()), r.ssh.DefaultCommandTimeout())
	if err != nil {
		return out.Output, "", err
	}
	benchPath, discovered := parseDiscoveredSites(out.Output)
	if benchPath == "" {
		benchPath = inst.BenchPath()
	}

	verb := act.SiteVerb()
	var b strings.Builder
	for _, d := range discovered {
		cmd := fmt.Sprintf("cd %s && bench --site %s %s", benchPath, d.Name, benchSiteCommand(verb))
		siteOut, runErr := r.executor.Run(ctx, target, cmd, r.ssh.DefaultCommandTimeout())
		if runErr != nil {
			act.AddSiteAction(d.Name, string(verb), action.StatusFailed, runErr.Error())
			b.WriteString(fmt.Sprintf("%s: %s failed: %v\n", d.Name, verb, runErr))
			continue
		}
		act.AddSiteAction(d.Name, string(verb), action.StatusCompleted, strings.TrimSpace(siteOut.Output))
		b.WriteString(fmt.Sprintf("%s: %s completed\n", d.Name, verb))
	}

	info, err := json.Marshal(map[string]any{
		"bench_path":  benchPath,
		"site_action": verb,
		"sites":       discovered,
	})
	if err != nil {
		return b.String(), "", err
	}
	return b.String(), string(info), nil
}

// benchSiteCommand maps a site verb to the bench subcommand it runs.
// Updating a site is a schema migrate; the other verbs pass through.
func benchSiteCommand(verb action.SiteVerb) string {
	if verb == action.SiteVerbUpdate {
		return "migrate"
	}
	return string(verb)
}
