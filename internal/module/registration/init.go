package registration

import (
	"log/slog"

	"sports-activity-platform/internal/global/logger"
)

var log *slog.Logger

type ModuleRegistration struct{}

func (m *ModuleRegistration) GetName() string {
	return "Registration"
}

func (m *ModuleRegistration) Init() {
	log = logger.New("Registration")
}
