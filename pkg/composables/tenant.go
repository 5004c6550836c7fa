package composables

import (
	"context"
	"errors"
	"strings"

	"github.com/transmedic-it-sg/tm-case-booking/pkg/constants"
)

var ErrNoTenant = errors.New("no country found in context")

// Cases are partitioned by country. The country code doubles as the tenant
// key in every repository filter.
func WithCountry(ctx context.Context, country string) context.Context {
	return context.WithValue(ctx, constants.TenantKey, strings.ToUpper(strings.TrimSpace(country)))
}

func UseCountry(ctx context.Context) (string, error) {
	country, ok := ctx.Value(constants.TenantKey).(string)
	if !ok || country == "" {
		return "", ErrNoTenant
	}
	return country, nil
}
