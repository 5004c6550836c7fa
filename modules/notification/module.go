package notification

import (
	"embed"

	"github.com/transmedic-it-sg/tm-case-booking/modules/notification/handlers"
	"github.com/transmedic-it-sg/tm-case-booking/modules/notification/infrastructure/persistence"
	"github.com/transmedic-it-sg/tm-case-booking/modules/notification/presentation/controllers"
	"github.com/transmedic-it-sg/tm-case-booking/modules/notification/services"
	"github.com/transmedic-it-sg/tm-case-booking/pkg/application"
)

//go:embed infrastructure/persistence/schema/*.sql
var migrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct {
}

func (m *Module) Register(app application.Application) error {
	app.RegisterSchema(&migrationFiles)
	app.RegisterServices(
		services.NewNotificationService(persistence.NewNotificationRepository()),
	)
	app.RegisterControllers(
		controllers.NewNotificationAPIController(app),
	)
	handlers.RegisterCaseEventHandlers(app)
	return nil
}

func (m *Module) Name() string {
	return "notification"
}
