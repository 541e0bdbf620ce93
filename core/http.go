package core

// HTTPAdapter mounts the App's endpoints on a web framework
type HTTPAdapter interface {
	RegisterRoutes(app *App) error
}
