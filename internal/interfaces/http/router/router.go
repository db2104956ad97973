package router

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
)

// RouteRegistrar mounts a set of routes onto a gin group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup) []RouteInfo
}

// RouteInfo describes one mounted route
type RouteInfo struct {
	Resource string
	Method   string
	Path     string
}

// Router collects resource groups and mounts them under a shared prefix and
// middleware chain. Routes added directly on the engine (health) bypass it.
type Router struct {
	engine     *gin.Engine
	prefix     string
	middleware []gin.HandlerFunc
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithPrefix mounts every group under prefix (e.g. "/api/v1")
func WithPrefix(prefix string) RouterOption {
	return func(r *Router) {
		r.prefix = prefix
	}
}

// NewRouter mounts at the root unless WithPrefix is given.
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{engine: engine}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Use appends middleware run ahead of every registered group
func (r *Router) Use(middleware ...gin.HandlerFunc) *Router {
	r.middleware = append(r.middleware, middleware...)
	return r
}

// Register queues a registrar for Setup
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup mounts every queued registrar and reports what was mounted.
func (r *Router) Setup() []RouteInfo {
	api := r.engine.Group(r.prefix, r.middleware...)

	var mounted []RouteInfo
	for _, registrar := range r.registrars {
		mounted = append(mounted, registrar.RegisterRoutes(api)...)
	}
	return mounted
}

// ResourceGroup is the route table of one REST resource such as /products.
type ResourceGroup struct {
	resource   string
	basePath   string
	routes     []route
	middleware []gin.HandlerFunc
}

type route struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewResourceGroup starts an empty route table for resource mounted at basePath.
func NewResourceGroup(resource, basePath string) *ResourceGroup {
	return &ResourceGroup{resource: resource, basePath: basePath}
}

// Use adds middleware to this group only
func (g *ResourceGroup) Use(middleware ...gin.HandlerFunc) *ResourceGroup {
	g.middleware = append(g.middleware, middleware...)
	return g
}

func (g *ResourceGroup) add(method, relativePath string, handlers []gin.HandlerFunc) *ResourceGroup {
	g.routes = append(g.routes, route{method: method, path: relativePath, handlers: handlers})
	return g
}

func (g *ResourceGroup) GET(relativePath string, handlers ...gin.HandlerFunc) *ResourceGroup {
	return g.add(http.MethodGet, relativePath, handlers)
}

func (g *ResourceGroup) POST(relativePath string, handlers ...gin.HandlerFunc) *ResourceGroup {
	return g.add(http.MethodPost, relativePath, handlers)
}

func (g *ResourceGroup) PATCH(relativePath string, handlers ...gin.HandlerFunc) *ResourceGroup {
	return g.add(http.MethodPatch, relativePath, handlers)
}

func (g *ResourceGroup) DELETE(relativePath string, handlers ...gin.HandlerFunc) *ResourceGroup {
	return g.add(http.MethodDelete, relativePath, handlers)
}

// RegisterRoutes implements RouteRegistrar
func (g *ResourceGroup) RegisterRoutes(rg *gin.RouterGroup) []RouteInfo {
	group := rg.Group(g.basePath, g.middleware...)

	mounted := make([]RouteInfo, 0, len(g.routes))
	for _, rt := range g.routes {
		group.Handle(rt.method, rt.path, rt.handlers...)
		mounted = append(mounted, RouteInfo{
			Resource: g.resource,
			Method:   rt.method,
			Path:     joinPath(group.BasePath(), rt.path),
		})
	}
	return mounted
}

// Resource returns the resource name used in route listings
func (g *ResourceGroup) Resource() string {
	return g.resource
}

// BasePath returns the path the group is mounted at, relative to the router
func (g *ResourceGroup) BasePath() string {
	return g.basePath
}

func joinPath(base, rel string) string {
	if rel == "" {
		return base
	}
	return path.Join(base, rel)
}
