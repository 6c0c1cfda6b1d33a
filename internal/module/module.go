package module

import (
	"sports-activity-platform/internal/module/activity"
	"sports-activity-platform/internal/module/comment"
	"sports-activity-platform/internal/module/ping"
	"sports-activity-platform/internal/module/registration"
	"sports-activity-platform/internal/module/user"

	"github.com/gin-gonic/gin"
)

type Module interface {
	GetName() string
	Init()
	InitRouter(r *gin.RouterGroup)
}

var Modules []Module

func registerModule(m []Module) {
	Modules = append(Modules, m...)
}

func init() {
	// Register your module here
	registerModule([]Module{
		&ping.ModulePing{},
		&user.ModuleUser{},
		&activity.ModuleActivity{},
		&registration.ModuleRegistration{},
		&comment.ModuleComment{},
	})
}
