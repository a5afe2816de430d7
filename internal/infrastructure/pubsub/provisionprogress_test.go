package pubsub

import (
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	provisioningservices "github.com/itsyosefali/saas-package-management/internal/application/provisioning/services"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
)

// The bus feeds the provisioning workflow through an adapter closure.
// This pins the adapter to both signatures so a drift in either breaks
// at compile time.
func TestBusAdaptsToProgressReporter(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer client.Close()
	bus := NewRedisProvisionProgressBus(client, logger.NewLogger())

	var reporter provisioningservices.ProgressReporter = func(siteID uint, event provisioningservices.ProgressEvent) {
		bus.Publish(siteID, event.Percent, event.Message)
	}

	// Publish swallows transport failures, so reporting against an
	// unreachable Redis must not panic or return anything.
	assert.NotPanics(t, func() {
		reporter(42, provisioningservices.ProgressEvent{Percent: 30, Message: "Installing base app"})
	})
}
