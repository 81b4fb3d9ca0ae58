// Package telephony places vendor missed-call alerts: short reject-style
// calls whose only purpose is showing up as a missed call on the vendor's
// phone.
package telephony

import (
	"context"
	"sort"

	"github.com/foodles-shop/order-notify-service/internal/config"
	"github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// rejectURL answers the call with an immediate reject, so no audio content is
// ever played and the callee is never billed for pickup.
const rejectURL = "http://twimlets.com/reject"

type tenant struct {
	client *twilio.RestClient
	from   string
}

// TwilioDialer holds one REST client per configured tenant. Built once at
// startup and read-only afterwards.
type TwilioDialer struct {
	tenants     map[string]*tenant
	order       []string
	ringTimeout int
	log         *zap.Logger
}

func NewTwilioDialer(creds map[string]config.TenantCredentials, ringTimeout int, log *zap.Logger) *TwilioDialer {
	d := &TwilioDialer{
		tenants:     make(map[string]*tenant, len(creds)),
		ringTimeout: ringTimeout,
		log:         log,
	}
	if d.ringTimeout <= 0 {
		d.ringTimeout = 30
	}
	for id, c := range creds {
		d.tenants[id] = &tenant{
			client: twilio.NewRestClientWithParams(twilio.ClientParams{
				Username: c.AccountSID,
				Password: c.AuthToken,
			}),
			from: c.CallerNumber,
		}
		d.order = append(d.order, id)
	}
	sort.Strings(d.order)
	log.Info("telephony tenants configured", zap.Strings("tenants", d.order))
	return d
}

// Call places a reject-call to phone through the tenant's config. Absent
// credentials fail immediately without network I/O; transport errors are
// logged and converted to a boolean failure.
func (d *TwilioDialer) Call(ctx context.Context, tenantID, phone string) bool {
	t, ok := d.tenants[tenantID]
	if !ok {
		d.log.Warn("no telephony config for tenant", zap.String("tenant", tenantID))
		return false
	}

	params := &api.CreateCallParams{}
	params.SetUrl(rejectURL)
	params.SetFrom(t.from)
	params.SetTo(phone)
	params.SetTimeout(d.ringTimeout)

	call, err := t.client.Api.CreateCall(params)
	if err != nil {
		d.log.Error("missed call failed",
			zap.String("tenant", tenantID),
			zap.String("to", phone),
			zap.Error(err),
		)
		return false
	}

	sid := ""
	if call.Sid != nil {
		sid = *call.Sid
	}
	d.log.Info("missed call placed",
		zap.String("tenant", tenantID),
		zap.String("to", phone),
		zap.String("sid", sid),
	)
	return true
}

// Tenants returns configured tenant ids in stable order.
func (d *TwilioDialer) Tenants() []string {
	return d.order
}
