package internal

import (
	"net/http"

	"cpd/internal/controllers"
	"cpd/internal/providers"
)

func InitRoutes(pageController *controllers.PageController, apiController *controllers.ApiController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/", http.HandlerFunc(pageController.Landing))
	routers.Get("/onboarding", http.HandlerFunc(pageController.OnboardingForm))
	routers.Post("/onboarding", http.HandlerFunc(pageController.OnboardingSubmit))
	routers.Get("/dashboard", http.HandlerFunc(pageController.Dashboard))
	routers.Post("/dashboard/retry", http.HandlerFunc(pageController.Retry))
	routers.Get("/achievements", http.HandlerFunc(pageController.Achievements))

	routers.Get("/api/dashboard", http.HandlerFunc(apiController.GetDashboard))
	routers.Post("/api/dashboard/refresh", http.HandlerFunc(apiController.RefreshDashboard))
	routers.Post("/api/dashboard/retry", http.HandlerFunc(apiController.Retry))
	routers.Get("/api/profile", http.HandlerFunc(apiController.GetProfile))
	routers.Post("/api/profile", http.HandlerFunc(apiController.SaveProfile))
	routers.Get("/api/achievements", http.HandlerFunc(apiController.GetAchievements))
	return routers
}
