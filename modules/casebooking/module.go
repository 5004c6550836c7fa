package casebooking

import (
	"embed"

	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/workflow"
	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/infrastructure/authz"
	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/infrastructure/persistence"
	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/presentation/controllers"
	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/services"
	"github.com/transmedic-it-sg/tm-case-booking/pkg/application"
	"github.com/transmedic-it-sg/tm-case-booking/pkg/configuration"
)

//go:embed infrastructure/persistence/schema/*.sql
var migrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct {
}

func (m *Module) Register(app application.Application) error {
	conf := configuration.Use()
	caseRepo := persistence.NewCaseRepository()

	oracle, err := permissionOracle(conf.PermissionBackend)
	if err != nil {
		return err
	}
	engine := workflow.NewEngine(oracle)

	app.RegisterSchema(&migrationFiles)
	app.RegisterServices(
		services.NewCaseService(
			caseRepo,
			persistence.NewStatusHistoryRepository(),
			persistence.NewAmendmentRepository(),
			engine,
			app.EventPublisher(),
			int64(conf.Attachments.MaxBytes),
		),
		services.NewExportService(caseRepo),
	)
	app.RegisterControllers(
		controllers.NewCaseAPIController(app),
	)
	app.RegisterNavItems(NavItems...)
	return nil
}

func (m *Module) Name() string {
	return "casebooking"
}

func permissionOracle(backend string) (workflow.PermissionOracle, error) {
	switch backend {
	case "casbin":
		return authz.NewCasbinOracle()
	default:
		return workflow.NewTableOracle(), nil
	}
}
