package usecases

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/itsyosefali/saas-package-management/internal/domain/instance"
	"github.com/itsyosefali/saas-package-management/internal/infrastructure/sshexec"
	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
)

// In-memory fakes shared by the tests in this package.

type memInstanceRepo struct {
	mu            sync.Mutex
	instances     map[uint]*instance.Instance
	conflictsLeft int
	seq           uint
}

func newMemInstanceRepo() *memInstanceRepo {
	return &memInstanceRepo{instances: make(map[uint]*instance.Instance)}
}

func (r *memInstanceRepo) Create(ctx context.Context, inst *instance.Instance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if err := inst.SetID(r.seq); err != nil {
		return err
	}
	r.instances[inst.ID()] = inst
	return nil
}

func (r *memInstanceRepo) GetByID(ctx context.Context, id uint) (*instance.Instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.instances[id]
	if !ok {
		return nil, errors.NewNotFoundError("instance not found")
	}
	return inst, nil
}

func (r *memInstanceRepo) Update(ctx context.Context, inst *instance.Instance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conflictsLeft > 0 {
		r.conflictsLeft--
		return errors.NewConflictError("instance was modified concurrently")
	}
	r.instances[inst.ID()] = inst
	return nil
}

func (r *memInstanceRepo) List(ctx context.Context) ([]*instance.Instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*instance.Instance, 0, len(r.instances))
	for _, inst := range r.instances {
		out = append(out, inst)
	}
	return out, nil
}

func (r *memInstanceRepo) ListEligible(ctx context.Context, packageID uint) ([]*instance.Instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*instance.Instance
	for _, inst := range r.instances {
		if inst.IsEligibleFor(packageID) {
			out = append(out, inst)
		}
	}
	return out, nil
}

type memGroupRepo struct {
	mu     sync.Mutex
	groups map[uint]*instance.Group
	seq    uint
}

func newMemGroupRepo() *memGroupRepo {
	return &memGroupRepo{groups: make(map[uint]*instance.Group)}
}

func (r *memGroupRepo) Create(ctx context.Context, group *instance.Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if err := group.SetID(r.seq); err != nil {
		return err
	}
	r.groups[group.ID()] = group
	return nil
}

func (r *memGroupRepo) GetByID(ctx context.Context, id uint) (*instance.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	group, ok := r.groups[id]
	if !ok {
		return nil, errors.NewNotFoundError("instance group not found")
	}
	return group, nil
}

func (r *memGroupRepo) List(ctx context.Context) ([]*instance.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*instance.Group, 0, len(r.groups))
	for _, group := range r.groups {
		out = append(out, group)
	}
	return out, nil
}

// fakeCipher encrypts by prefixing and resolves by stripping the prefix.
type fakeCipher struct {
	failEncrypt bool
	failResolve bool
}

func (c *fakeCipher) Encrypt(plaintext string) (string, error) {
	if c.failEncrypt {
		return "", errors.NewInternalError("encryption failed")
	}
	return "enc:" + plaintext, nil
}

func (c *fakeCipher) Resolve(encrypted string) (string, error) {
	if c.failResolve || !strings.HasPrefix(encrypted, "enc:") {
		return "", errors.NewSecretUnavailableError("failed to decrypt stored secret")
	}
	return strings.TrimPrefix(encrypted, "enc:"), nil
}

type fakeExecutor struct {
	mu         sync.Mutex
	probeErr   error
	runErr     error
	output     string
	commandRun string
}

func (e *fakeExecutor) Probe(ctx context.Context, target sshexec.Target) error {
	return e.probeErr
}

func (e *fakeExecutor) Run(ctx context.Context, target sshexec.Target, command string, timeout time.Duration) (sshexec.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.commandRun = command
	if e.runErr != nil {
		return sshexec.Result{}, e.runErr
	}
	return sshexec.Result{Output: e.output, ExitCode: 0}, nil
}
