// Package provider adapts the identity service's own plugin registry
// (RegisterProvider/GetProvider/...) plus the whole Clean-Architecture
// wiring the teacher used to do by hand in main() into a single
// app.Provider: Register builds the dependency graph and stores the
// pieces other code may need into the DI container, Boot declares every
// route through the router DSL.
package provider

import (
	"fmt"
	"net/http"
	"time"

	httphandler "github.com/aras-services/corefw/internal/delivery/http"
	authmiddleware "github.com/aras-services/corefw/internal/middleware"
	"github.com/aras-services/corefw/internal/provider/local"
	"github.com/aras-services/corefw/internal/repository/postgres"
	"github.com/aras-services/corefw/internal/service"
	"github.com/aras-services/corefw/internal/usecase"
	"github.com/aras-services/corefw/pkg/app"
	"github.com/aras-services/corefw/pkg/kernel"
	"github.com/aras-services/corefw/pkg/query"
	"github.com/aras-services/corefw/pkg/router"
)

// IdentityConfig is the slice of settings the identity example app needs
// beyond the generic bootstrap.Profile: an already-opened Executor (pgx or
// database/sql, the caller picks the driver and owns the pool's lifetime),
// the dialect grammar it compiles queries against, and JWT secret/expiries.
type IdentityConfig struct {
	Exec         query.Executor
	Grammar      query.Grammar
	JWTSecretKey string
	JWTAccess    time.Duration
	JWTRefresh   time.Duration
}

// IdentityProvider is the single app.Provider the example identity service
// registers with the Application. It shares its name with
// domain.IdentityProvider, the interface this package's ProviderRegistry
// stores, which means something unrelated (a pluggable authentication
// backend).
type IdentityProvider struct {
	cfg IdentityConfig

	authHandler  *httphandler.AuthHandler
	userHandler  *httphandler.UserHandler
	groupHandler *httphandler.GroupHandler
	authzHandler *httphandler.AuthzHandler
	authMW       *authmiddleware.AuthMiddleware
	rbacMW       *authmiddleware.RBACMiddleware

	bridgeSeq int
}

func NewIdentityProvider(cfg IdentityConfig) *IdentityProvider {
	return &IdentityProvider{cfg: cfg}
}

// Register builds every repository/service/usecase/handler. It
// deliberately resolves nothing back out of the container — the
// register-before-boot discipline (§4.9) generalized from the teacher's
// single-pass main().
func (p *IdentityProvider) Register(a *app.Application) error {
	exec := p.cfg.Exec

	userRepo := postgres.NewUserRepository(exec, p.cfg.Grammar)
	groupRepo := postgres.NewGroupRepository(exec, p.cfg.Grammar)
	roleRepo := postgres.NewRoleRepository(exec, p.cfg.Grammar)
	permissionRepo := postgres.NewPermissionRepository(exec, p.cfg.Grammar)
	tokenRepo := postgres.NewTokenRepository(exec, p.cfg.Grammar)

	tokenService := service.NewJWTService(p.cfg.JWTSecretKey, p.cfg.JWTAccess, p.cfg.JWTRefresh, tokenRepo)

	registry := NewProviderRegistry()
	if err := registry.RegisterProvider(local.NewLocalProvider(userRepo)); err != nil {
		return fmt.Errorf("identity provider: register local identity provider: %w", err)
	}

	authUseCase := usecase.NewAuthUseCase(registry, tokenService, userRepo)
	userUseCase := usecase.NewUserUseCase(userRepo)
	groupUseCase := usecase.NewGroupUseCase(groupRepo)
	authzUseCase := usecase.NewAuthzUseCase(roleRepo, permissionRepo)

	p.authHandler = httphandler.NewAuthHandler(authUseCase)
	p.userHandler = httphandler.NewUserHandler(userUseCase)
	p.groupHandler = httphandler.NewGroupHandler(groupUseCase)
	p.authzHandler = httphandler.NewAuthzHandler(authzUseCase)
	p.authMW = authmiddleware.NewAuthMiddleware(tokenService)
	p.rbacMW = authmiddleware.NewRBACMiddleware(permissionRepo)

	c := a.Container()
	c.Register(kernel.NewDefinition("identity.user_repository", kernel.Singleton).WithInstance(userRepo))
	c.Register(kernel.NewDefinition("identity.token_service", kernel.Singleton).WithInstance(tokenService))
	c.Register(kernel.NewDefinition("identity.auth_handler", kernel.Singleton).WithInstance(p.authHandler))
	c.Register(kernel.NewDefinition("identity.user_handler", kernel.Singleton).WithInstance(p.userHandler))
	c.Register(kernel.NewDefinition("identity.group_handler", kernel.Singleton).WithInstance(p.groupHandler))
	c.Register(kernel.NewDefinition("identity.authz_handler", kernel.Singleton).WithInstance(p.authzHandler))
	return nil
}

// Boot declares every identity route through the router DSL, composing
// each action with whatever chi middleware chain the teacher's main()
// wrapped it in, and handing the result to a Bridge so the framework
// router can dispatch to unmodified net/http handler code. Authorization
// strings are attached for introspection/export even though enforcement
// already happened inside the wrapped chain.
func (p *IdentityProvider) Boot(a *app.Application) error {
	dsl := a.Routes()

	bridge := func(h http.Handler) router.HandlerRef {
		p.bridgeSeq++
		id := fmt.Sprintf("identity.bridge.%d", p.bridgeSeq)
		a.Container().Register(kernel.NewDefinition(id, kernel.Singleton).WithInstance(httphandler.Bridge{Inner: h}))
		return router.HandlerRef{Action: id}
	}

	auth := func(h http.HandlerFunc) http.Handler { return p.authMW.RequireAuth(h) }
	perm := func(resource, action string, h http.HandlerFunc) http.Handler {
		return p.authMW.RequireAuth(p.rbacMW.RequirePermission(resource, action)(h))
	}

	dsl.Group(router.GroupContext{Prefix: "/api/v1"}, func(dsl *router.Dsl) {
		dsl.Post("/auth/register", bridge(http.HandlerFunc(p.authHandler.Register)))
		dsl.Post("/auth/login", bridge(http.HandlerFunc(p.authHandler.Login)))
		dsl.Post("/auth/refresh", bridge(http.HandlerFunc(p.authHandler.RefreshToken)))
		dsl.Post("/auth/logout", bridge(http.HandlerFunc(p.authHandler.Logout)))
		dsl.Post("/auth/verify-email", bridge(http.HandlerFunc(p.authHandler.VerifyEmail)))
		dsl.Post("/auth/forgot-password", bridge(http.HandlerFunc(p.authHandler.ForgotPassword)))
		dsl.Post("/auth/reset-password", bridge(http.HandlerFunc(p.authHandler.ResetPassword)))
		dsl.Post("/auth/change-password", bridge(auth(p.authHandler.ChangePassword))).Authorization("auth")
		dsl.Post("/auth/introspect", bridge(http.HandlerFunc(p.authHandler.IntrospectToken)))

		dsl.Get("/users", bridge(auth(p.userHandler.ListUsers))).Authorization("auth")
		dsl.Get("/users/me", bridge(auth(p.userHandler.GetCurrentUser))).Authorization("auth")
		dsl.Get("/users/{id}", bridge(auth(p.userHandler.GetUser))).Authorization("auth")
		dsl.Put("/users/{id}", bridge(auth(p.userHandler.UpdateUser))).Authorization("auth")
		dsl.Delete("/users/{id}", bridge(auth(p.userHandler.DeleteUser))).Authorization("auth")

		dsl.Post("/groups", bridge(perm("groups", "read", p.groupHandler.CreateGroup))).Authorization("perm:groups:read")
		dsl.Get("/groups", bridge(perm("groups", "read", p.groupHandler.ListGroups))).Authorization("perm:groups:read")
		dsl.Get("/groups/{id}", bridge(perm("groups", "read", p.groupHandler.GetGroup))).Authorization("perm:groups:read")
		dsl.Put("/groups/{id}", bridge(perm("groups", "read", p.groupHandler.UpdateGroup))).Authorization("perm:groups:read")
		dsl.Delete("/groups/{id}", bridge(perm("groups", "read", p.groupHandler.DeleteGroup))).Authorization("perm:groups:read")
		dsl.Post("/groups/{id}/members", bridge(perm("groups", "read", p.groupHandler.AddMember))).Authorization("perm:groups:read")
		dsl.Delete("/groups/{id}/members/{userId}", bridge(perm("groups", "read", p.groupHandler.RemoveMember))).Authorization("perm:groups:read")
		dsl.Get("/groups/{id}/members", bridge(perm("groups", "read", p.groupHandler.GetMembers))).Authorization("perm:groups:read")

		dsl.Post("/roles", bridge(perm("roles", "read", p.authzHandler.CreateRole))).Authorization("perm:roles:read")
		dsl.Get("/roles", bridge(perm("roles", "read", p.authzHandler.ListRoles))).Authorization("perm:roles:read")
		dsl.Get("/roles/{id}", bridge(perm("roles", "read", p.authzHandler.GetRole))).Authorization("perm:roles:read")
		dsl.Put("/roles/{id}", bridge(perm("roles", "read", p.authzHandler.UpdateRole))).Authorization("perm:roles:read")
		dsl.Delete("/roles/{id}", bridge(perm("roles", "read", p.authzHandler.DeleteRole))).Authorization("perm:roles:read")
		dsl.Post("/roles/{id}/permissions", bridge(perm("roles", "read", p.authzHandler.AssignPermissionToRole))).Authorization("perm:roles:read")
		dsl.Delete("/roles/{id}/permissions/{permissionId}", bridge(perm("roles", "read", p.authzHandler.RemovePermissionFromRole))).Authorization("perm:roles:read")
		dsl.Get("/roles/{id}/permissions", bridge(perm("roles", "read", p.authzHandler.GetRolePermissions))).Authorization("perm:roles:read")

		dsl.Post("/permissions", bridge(perm("roles", "read", p.authzHandler.CreatePermission))).Authorization("perm:roles:read")
		dsl.Get("/permissions", bridge(perm("roles", "read", p.authzHandler.ListPermissions))).Authorization("perm:roles:read")
		dsl.Get("/permissions/{id}", bridge(perm("roles", "read", p.authzHandler.GetPermission))).Authorization("perm:roles:read")
		dsl.Put("/permissions/{id}", bridge(perm("roles", "read", p.authzHandler.UpdatePermission))).Authorization("perm:roles:read")
		dsl.Delete("/permissions/{id}", bridge(perm("roles", "read", p.authzHandler.DeletePermission))).Authorization("perm:roles:read")

		dsl.Post("/authz/check", bridge(auth(p.authzHandler.CheckPermission))).Authorization("auth")

		dsl.Post("/users/{userId}/roles", bridge(perm("roles", "read", p.authzHandler.AssignRoleToUser))).Authorization("perm:roles:read")
		dsl.Delete("/users/{userId}/roles/{roleId}", bridge(perm("roles", "read", p.authzHandler.RemoveRoleFromUser))).Authorization("perm:roles:read")
		dsl.Get("/users/{userId}/roles", bridge(perm("roles", "read", p.authzHandler.GetUserRoles))).Authorization("perm:roles:read")

		dsl.Post("/groups/{groupId}/roles", bridge(perm("roles", "read", p.authzHandler.AssignRoleToGroup))).Authorization("perm:roles:read")
		dsl.Delete("/groups/{groupId}/roles/{roleId}", bridge(perm("roles", "read", p.authzHandler.RemoveRoleFromGroup))).Authorization("perm:roles:read")
		dsl.Get("/groups/{groupId}/roles", bridge(perm("roles", "read", p.authzHandler.GetGroupRoles))).Authorization("perm:roles:read")
	})

	return nil
}
