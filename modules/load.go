package modules

import (
	"slices"

	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking"
	"github.com/transmedic-it-sg/tm-case-booking/modules/notification"
	"github.com/transmedic-it-sg/tm-case-booking/pkg/application"
)

var (
	BuiltInModules = []application.Module{
		casebooking.NewModule(),
		notification.NewModule(),
	}

	NavLinks = slices.Concat(
		casebooking.NavItems,
	)
)

func Load(app application.Application, externalModules ...application.Module) error {
	for _, module := range externalModules {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
