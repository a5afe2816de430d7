package usecases

import "context"

// RequestNotifier informs operators and customers about request
// lifecycle events. Delivery failures are logged by the implementation,
// never escalated to the triggering workflow.
type RequestNotifier interface {
	NotifyRequestReceived(customerName, packageName string, requestID uint)
}

// SiteProvisioner creates a tenant site from an approved request. The
// returned site name identifies the created record; the provisioning
// workflow itself runs out of band.
type SiteProvisioner interface {
	CreateSiteFromRequest(ctx context.Context, requestID uint) (siteName string, err error)
}
