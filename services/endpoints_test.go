package services

import (
	"net/http"
	"testing"

	"github.com/lborres/linguachat/core"
)

// Requirement: BaseEndpoints returns framework-agnostic endpoint descriptions
// with paths, methods, gate flags and nil handlers (templates).
func TestBaseEndpoints(t *testing.T) {
	tests := []struct {
		name          string
		wantMethod    string
		wantPath      string
		wantOpID      string
		wantProtected bool
		wantLimited   bool
	}{
		{name: "signup", wantMethod: http.MethodPost, wantPath: "/auth/signup", wantOpID: "signUp", wantLimited: true},
		{name: "login", wantMethod: http.MethodPost, wantPath: "/auth/login", wantOpID: "signIn", wantLimited: true},
		{name: "logout", wantMethod: http.MethodPost, wantPath: "/auth/logout", wantOpID: "signOut"},
		{name: "onboarding", wantMethod: http.MethodPost, wantPath: "/auth/onboarding", wantOpID: "onboard", wantProtected: true},
		{name: "me", wantMethod: http.MethodGet, wantPath: "/auth/me", wantOpID: "getMe", wantProtected: true},
		{name: "change password", wantMethod: http.MethodPut, wantPath: "/auth/password", wantOpID: "changePassword", wantProtected: true, wantLimited: true},
		{name: "recommendations", wantMethod: http.MethodGet, wantPath: "/users", wantOpID: "getRecommendedUsers", wantProtected: true},
		{name: "friends", wantMethod: http.MethodGet, wantPath: "/users/friends", wantOpID: "getMyFriends", wantProtected: true},
		{name: "send request", wantMethod: http.MethodPost, wantPath: "/users/friend-request/:id", wantOpID: "sendFriendRequest", wantProtected: true},
		{name: "accept request", wantMethod: http.MethodPut, wantPath: "/users/friend-request/:id/accept", wantOpID: "acceptFriendRequest", wantProtected: true},
		{name: "request feed", wantMethod: http.MethodGet, wantPath: "/users/friend-request", wantOpID: "getFriendRequests", wantProtected: true},
		{name: "outgoing feed", wantMethod: http.MethodGet, wantPath: "/users/outgoing-friend-request", wantOpID: "getOutgoingFriendRequests", wantProtected: true},
		{name: "chat token", wantMethod: http.MethodGet, wantPath: "/chat/token", wantOpID: "getChatToken", wantProtected: true},
	}

	// Arrange
	endpoints := BaseEndpoints()

	if len(endpoints) != len(tests) {
		t.Fatalf("BaseEndpoints should return %d endpoints, got %d", len(tests), len(endpoints))
	}

	byKey := make(map[string]core.Endpoint)
	for _, ep := range endpoints {
		byKey[ep.Method+":"+ep.Path] = ep
	}

	// Act & Assert
	for _, test := range tests {
		test := test // capture range variable
		t.Run(test.name, func(t *testing.T) {
			ep, found := byKey[test.wantMethod+":"+test.wantPath]
			if !found {
				t.Fatalf("BaseEndpoints should include %s %s", test.wantMethod, test.wantPath)
			}
			if ep.Metadata.OperationID != test.wantOpID {
				t.Errorf("OperationID = %q, want %q", ep.Metadata.OperationID, test.wantOpID)
			}
			if ep.Protected != test.wantProtected {
				t.Errorf("Protected = %v, want %v", ep.Protected, test.wantProtected)
			}
			if ep.Limited != test.wantLimited {
				t.Errorf("Limited = %v, want %v", ep.Limited, test.wantLimited)
			}
			if ep.Handler != nil {
				t.Errorf("endpoint %q handler should be nil", test.wantPath)
			}
			if ep.Metadata.Description == "" {
				t.Errorf("endpoint %q should have a description", test.wantPath)
			}
		})
	}
}

// Requirement: All endpoints must have unique OperationIDs.
func TestBaseEndpoints_OperationIDsAreUnique(t *testing.T) {
	operationIDs := make(map[string]bool)
	for _, ep := range BaseEndpoints() {
		if operationIDs[ep.Metadata.OperationID] {
			t.Errorf("BaseEndpoints contains duplicate OperationID: %q", ep.Metadata.OperationID)
		}
		operationIDs[ep.Metadata.OperationID] = true
	}
}

// Requirement: Endpoints() lists every base endpoint in a stable order.
func TestEndpointRegistry_RegistersBaseEndpoints(t *testing.T) {
	// Arrange & Act
	registry := NewEndpointRegistry()

	// Assert
	endpoints := registry.Endpoints()
	if len(endpoints) != len(BaseEndpoints()) {
		t.Fatalf("EndpointRegistry should register %d base endpoints; got %d", len(BaseEndpoints()), len(endpoints))
	}
	for i := 1; i < len(endpoints); i++ {
		prev, cur := endpoints[i-1], endpoints[i]
		if prev.Path > cur.Path || (prev.Path == cur.Path && prev.Method > cur.Method) {
			t.Errorf("Endpoints() not ordered: %s %s before %s %s", prev.Method, prev.Path, cur.Method, cur.Path)
		}
	}
}

// Requirement: EndpointRegistry rejects a second registration of the same METHOD:PATH.
func TestEndpointRegistry_DetectsConflicts(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		path    string
		wantErr bool
	}{
		{name: "rejects duplicate POST /auth/signup", method: http.MethodPost, path: "/auth/signup", wantErr: true},
		{name: "rejects duplicate GET /users", method: http.MethodGet, path: "/users", wantErr: true},
		{name: "allows different path same method", method: http.MethodPost, path: "/custom", wantErr: false},
		{name: "allows same path different method", method: http.MethodDelete, path: "/users/friend-request/:id", wantErr: false},
	}

	for _, test := range tests {
		test := test // capture range variable
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			registry := NewEndpointRegistry()
			plugin := []core.Endpoint{pluginEndpoint(test.method, test.path, "customOp")}

			// Act
			err := registry.RegisterPlugin(plugin)

			// Assert
			if (err != nil) != test.wantErr {
				t.Errorf("RegisterPlugin should error=%v; got %v", test.wantErr, err)
			}
		})
	}
}

// Requirement: a plugin batch is registered atomically.
func TestEndpointRegistry_RegistersPluginEndpoints(t *testing.T) {
	base := len(BaseEndpoints())

	tests := []struct {
		name      string
		plugins   []core.Endpoint
		wantTotal int
		wantErr   bool
	}{
		{
			name:      "registers single plugin endpoint",
			plugins:   []core.Endpoint{pluginEndpoint(http.MethodPost, "/auth/reset-password", "resetPassword")},
			wantTotal: base + 1,
		},
		{
			name: "registers multiple plugin endpoints",
			plugins: []core.Endpoint{
				pluginEndpoint(http.MethodPost, "/auth/reset-password", "resetPassword"),
				pluginEndpoint(http.MethodPut, "/users/friend-request/:id/reject", "rejectFriendRequest"),
			},
			wantTotal: base + 2,
		},
		{
			name: "rejects plugins with conflicts within plugin set",
			plugins: []core.Endpoint{
				pluginEndpoint(http.MethodPost, "/auth/reset-password", "resetPassword"),
				pluginEndpoint(http.MethodPost, "/auth/reset-password", "resetPasswordAgain"),
			},
			wantTotal: base, // unchanged, registration failed
			wantErr:   true,
		},
	}

	for _, test := range tests {
		test := test // capture range variable
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			registry := NewEndpointRegistry()

			// Act
			err := registry.RegisterPlugin(test.plugins)

			// Assert
			if (err != nil) != test.wantErr {
				t.Errorf("RegisterPlugin should error=%v; got %v", test.wantErr, err)
			}
			if got := len(registry.Endpoints()); got != test.wantTotal {
				t.Errorf("Endpoints() = %d endpoints; want %d", got, test.wantTotal)
			}
		})
	}
}

func pluginEndpoint(method, path, opID string) core.Endpoint {
	return core.Endpoint{
		Path:   path,
		Method: method,
		Metadata: core.EndpointMetadata{
			OperationID: opID,
			Description: "Plugin endpoint",
		},
	}
}
