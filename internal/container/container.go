package container

import (
	"github.com/sirupsen/logrus"

	app "produce-inspector/internal/application"
	"produce-inspector/internal/domain/entity"
	"produce-inspector/internal/domain/port"
)

type Container struct {
	Log               *logrus.Logger
	UserService       *app.UserService
	InspectionService *app.InspectionService
}

// New собирает сервисы приложения. annotator и describer могут быть nil.
func New(
	log *logrus.Logger,
	userRepo port.UserRepository,
	vision port.Vision,
	annotator port.Annotator,
	describer port.ReportDescriber,
	params entity.PipelineParams,
) *Container {
	userService := app.NewUserService(userRepo)
	inspectionService := app.NewInspectionService(vision, annotator, describer, params, log)

	return &Container{
		Log:               log,
		UserService:       userService,
		InspectionService: inspectionService,
	}
}
