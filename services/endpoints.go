package services

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/lborres/linguachat/core"
)

// BaseEndpoints returns framework-agnostic endpoint descriptions
// for every route of the backend, relative to the base path.
//
// Each endpoint is a template:
// - Path and Method are set
// - Protected and Limited tell the adapter which middleware to apply
// - Handler is nil (provided by adapters)
// - Metadata contains OpenAPI information
func BaseEndpoints() []core.Endpoint {
	return []core.Endpoint{
		{
			Path:    "/auth/signup",
			Method:  http.MethodPost,
			Limited: true,
			Metadata: core.EndpointMetadata{
				OperationID: "signUp",
				Description: "Create an account and start a session",
				Responses:   map[int]string{201: "created", 400: "validation error or email taken", 500: "chat sync failed"},
			},
		},
		{
			Path:    "/auth/login",
			Method:  http.MethodPost,
			Limited: true,
			Metadata: core.EndpointMetadata{
				OperationID: "signIn",
				Description: "Sign in with email and password",
				Responses:   map[int]string{200: "ok", 400: "missing fields", 401: "invalid credentials"},
			},
		},
		{
			Path:   "/auth/logout",
			Method: http.MethodPost,
			Metadata: core.EndpointMetadata{
				OperationID: "signOut",
				Description: "Clear the session cookie",
				Responses:   map[int]string{200: "ok"},
			},
		},
		{
			Path:      "/auth/onboarding",
			Method:    http.MethodPost,
			Protected: true,
			Metadata: core.EndpointMetadata{
				OperationID: "onboard",
				Description: "Complete the current user's profile",
				Responses:   map[int]string{200: "ok", 400: "missing fields", 401: "unauthorized", 404: "user not found"},
			},
		},
		{
			Path:      "/auth/me",
			Method:    http.MethodGet,
			Protected: true,
			Metadata: core.EndpointMetadata{
				OperationID: "getMe",
				Description: "Get the authenticated user",
				Responses:   map[int]string{200: "ok", 401: "unauthorized"},
			},
		},
		{
			Path:      "/auth/password",
			Method:    http.MethodPut,
			Protected: true,
			Limited:   true,
			Metadata: core.EndpointMetadata{
				OperationID: "changePassword",
				Description: "Replace the current user's password",
				Responses:   map[int]string{200: "ok", 400: "validation error or wrong password", 401: "unauthorized"},
			},
		},
		{
			Path:      "/users",
			Method:    http.MethodGet,
			Protected: true,
			Metadata: core.EndpointMetadata{
				OperationID: "getRecommendedUsers",
				Description: "List onboarded users who are neither the caller nor the caller's friends",
				Responses:   map[int]string{200: "ok", 401: "unauthorized"},
			},
		},
		{
			Path:      "/users/friends",
			Method:    http.MethodGet,
			Protected: true,
			Metadata: core.EndpointMetadata{
				OperationID: "getMyFriends",
				Description: "List the caller's friends",
				Responses:   map[int]string{200: "ok", 401: "unauthorized"},
			},
		},
		{
			Path:      "/users/friend-request/:id",
			Method:    http.MethodPost,
			Protected: true,
			Metadata: core.EndpointMetadata{
				OperationID: "sendFriendRequest",
				Description: "Send a friend request to the user with the given id",
				Responses:   map[int]string{201: "created", 400: "self, duplicate or already friends", 404: "recipient not found"},
			},
		},
		{
			Path:      "/users/friend-request/:id/accept",
			Method:    http.MethodPut,
			Protected: true,
			Metadata: core.EndpointMetadata{
				OperationID: "acceptFriendRequest",
				Description: "Accept a friend request addressed to the caller",
				Responses:   map[int]string{200: "ok", 400: "already accepted", 403: "not the recipient", 404: "request not found"},
			},
		},
		{
			Path:      "/users/friend-request",
			Method:    http.MethodGet,
			Protected: true,
			Metadata: core.EndpointMetadata{
				OperationID: "getFriendRequests",
				Description: "List pending incoming requests and accepted outgoing requests",
				Responses:   map[int]string{200: "ok", 401: "unauthorized"},
			},
		},
		{
			Path:      "/users/outgoing-friend-request",
			Method:    http.MethodGet,
			Protected: true,
			Metadata: core.EndpointMetadata{
				OperationID: "getOutgoingFriendRequests",
				Description: "List pending requests sent by the caller",
				Responses:   map[int]string{200: "ok", 401: "unauthorized"},
			},
		},
		{
			Path:      "/chat/token",
			Method:    http.MethodGet,
			Protected: true,
			Metadata: core.EndpointMetadata{
				OperationID: "getChatToken",
				Description: "Issue a chat provider token for the caller",
				Responses:   map[int]string{200: "ok", 401: "unauthorized", 500: "chat unavailable"},
			},
		},
	}
}

// EndpointRegistry manages a collection of framework-agnostic endpoints
// and handles conflict detection for duplicate METHOD:PATH combinations.
//
// It starts with the base endpoints and supports registration of
// additional plugin endpoints with automatic conflict detection.
type EndpointRegistry struct {
	// endpoints stores all registered endpoints keyed by "METHOD:PATH"
	endpoints map[string]*core.Endpoint
}

// NewEndpointRegistry creates a new registry with all base endpoints
// pre-registered.
func NewEndpointRegistry() *EndpointRegistry {
	reg := &EndpointRegistry{
		endpoints: make(map[string]*core.Endpoint),
	}

	// Register all base endpoints
	base := BaseEndpoints()
	for i := range base {
		_ = reg.register(&base[i])
	}

	return reg
}

// register adds a single endpoint to the registry with conflict detection.
// Returns error if an endpoint with the same METHOD:PATH already exists.
func (r *EndpointRegistry) register(ep *core.Endpoint) error {
	key := fmt.Sprintf("%s:%s", ep.Method, ep.Path)

	if _, exists := r.endpoints[key]; exists {
		return fmt.Errorf("endpoint conflict: %s %s already registered", ep.Method, ep.Path)
	}

	r.endpoints[key] = ep
	return nil
}

// RegisterPlugin registers additional plugin endpoints to the registry.
// Returns error if any plugin endpoint conflicts with existing endpoints
// or with other plugin endpoints in the same batch.
//
// If an error occurs, no endpoints from the plugin are registered.
func (r *EndpointRegistry) RegisterPlugin(endpoints []core.Endpoint) error {
	// First, check for conflicts with existing endpoints
	for i := range endpoints {
		ep := &endpoints[i]
		key := fmt.Sprintf("%s:%s", ep.Method, ep.Path)

		if _, exists := r.endpoints[key]; exists {
			return fmt.Errorf("plugin endpoint conflict: %s %s already registered", ep.Method, ep.Path)
		}
	}

	// Check for conflicts within the plugin set itself
	seen := make(map[string]bool)
	for i := range endpoints {
		ep := &endpoints[i]
		key := fmt.Sprintf("%s:%s", ep.Method, ep.Path)

		if seen[key] {
			return fmt.Errorf("plugin contains duplicate endpoint: %s %s", ep.Method, ep.Path)
		}
		seen[key] = true
	}

	// No conflicts found, register all plugin endpoints
	for i := range endpoints {
		ep := &endpoints[i]
		r.endpoints[fmt.Sprintf("%s:%s", ep.Method, ep.Path)] = ep
	}

	return nil
}

// Endpoints returns all registered endpoints (both base and plugin
// endpoints) ordered by path, then method.
func (r *EndpointRegistry) Endpoints() []*core.Endpoint {
	result := make([]*core.Endpoint, 0, len(r.endpoints))
	for _, ep := range r.endpoints {
		result = append(result, ep)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Path == result[j].Path {
			return result[i].Method < result[j].Method
		}
		return result[i].Path < result[j].Path
	})
	return result
}
