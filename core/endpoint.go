package core

// EndpointProvider provides a list of endpoints to register dynamically
type EndpointProvider interface {
	GetEndpoints() []Endpoint
}

type Endpoint struct {
	Path      string
	Method    string
	Protected bool // requires a valid session
	Limited   bool // subject to per-client rate limiting
	Handler   func(ctx *RequestContext) error
	Metadata  EndpointMetadata
}

type EndpointMetadata struct {
	OperationID string
	Description string
	Responses   map[int]string
}

type RequestContext struct {
	// Framework-agnostic context
	Request interface{} // could be *http.Request, fiber.Ctx, etc
	App     *App
	Auth    *AuthContext // set by the auth gate on protected endpoints
}

// ErrorResponse represents an error response structure
type ErrorResponse struct {
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}
