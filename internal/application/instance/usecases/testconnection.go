package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/itsyosefali/saas-package-management/internal/domain/instance"
	"github.com/itsyosefali/saas-package-management/internal/infrastructure/sshexec"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
)

type TestConnectionResult struct {
	Reachable     bool   `json:"reachable"`
	Authenticated bool   `json:"authenticated"`
	Error         string `json:"error,omitempty"`
}

// TestConnectionUseCase verifies that an instance's stored credentials
// still work: the secret decrypts, the host answers on the SSH port, and
// a trivial command runs.
type TestConnectionUseCase struct {
	instanceRepo instance.Repository
	executor     sshexec.Executor
	secrets      instance.SecretResolver
	logger       logger.Interface
}

func NewTestConnectionUseCase(
	instanceRepo instance.Repository,
	executor sshexec.Executor,
	secrets instance.SecretResolver,
	logger logger.Interface,
) *TestConnectionUseCase {
	return &TestConnectionUseCase{
		instanceRepo: instanceRepo,
		executor:     executor,
		secrets:      secrets,
		logger:       logger,
	}
}

func (uc *TestConnectionUseCase) Execute(ctx context.Context, instanceID uint) (*TestConnectionResult, error) {
	inst, err := uc.instanceRepo.GetByID(ctx, instanceID)
	if err != nil {
		return nil, err
	}

	creds := inst.Credentials()
	password, err := uc.secrets.Resolve(creds.EncryptedPassword())
	if err != nil {
		// Decryption failure is reported, never masked as an empty
		// password that would fail downstream in confusing ways.
		return &TestConnectionResult{Error: err.Error()}, nil
	}

	target := sshexec.Target{
		Host:     creds.Host(),
		Port:     creds.Port(),
		Username: creds.Username(),
		Password: password,
	}

	if err := uc.executor.Probe(ctx, target); err != nil {
		return &TestConnectionResult{Error: err.Error()}, nil
	}

	result, err := uc.executor.Run(ctx, target, "whoami", 15*time.Second)
	if err != nil {
		return &TestConnectionResult{Reachable: true, Error: err.Error()}, nil
	}

	uc.logger.Infow("instance connection verified", "instance_id", instanceID, "user", strings.TrimSpace(result.Output))
	return &TestConnectionResult{Reachable: true, Authenticated: true}, nil
}
