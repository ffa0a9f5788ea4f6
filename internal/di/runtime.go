package di

import (
	"cpd/internal/providers"
	"cpd/internal/services"
	"cpd/internal/storage/interfaces"
	"cpd/internal/structures"
)

// Runtime is the service graph without the web layer, used by the
// command-line tools.
type Runtime struct {
	Conf     *structures.Config
	Logger   providers.Logger
	Store    interfaces.StoreInterface
	Profiles services.ProfileServiceInterface
	Board    services.DashboardServiceInterface
}

func (r *Runtime) Close() {
	r.Board.Close()
	if err := r.Store.Close(); err != nil {
		r.Logger.Errorf(providers.TypeApp, "Close store: %s", err)
	}
	r.Logger.Close()
}
