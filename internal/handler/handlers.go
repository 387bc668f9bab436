package handler

// Handlers groups every HTTP handler the servers mount.
type Handlers struct {
	Health   *HealthHandler
	Auth     *AuthHandler
	Wellness *WellnessHandler
}
