package web

import (
	"os"

	"github.com/iris-contrib/middleware/cors"
	"github.com/kataras/iris/v12"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

type Router struct {
	App    *iris.Application
	DB     *mongo.Database
	Routes []*Route
}

func NewRouter(mongoDB *mongo.Database) *Router {
	router := &Router{
		App: iris.New(),
		DB:  mongoDB,
	}
	return router
}

func (r *Router) Init() {
	if os.Getenv("DEBUG") == "true" {
		log.Warn("Cross Origin requests allowed (ENV::DEBUG)")
		r.App.UseRouter(cors.New(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowCredentials: true,
		}))
	}

	r.App.Use(ProxyIPMiddleware)

	r.Routes = append(r.Routes, addRouteUsers(r)...)

	log.Info("Loading all routes...")
	log.Infof("Found %d route(s).", len(r.Routes))
	if len(r.Routes) > 0 {
		log.Info("Skipping routes that require JWT...")
		r.LoadRoutes(false)

		log.Info("Enabling JWT Middleware...")
		r.App.Use(VerifySession())

		log.Info("Loading JWT routes...")
		r.LoadRoutes(true)
	} else {
		log.Error("Failed to load JWT routes. No routes found.")
	}
}

func (r *Router) LoadRoutes(JWT bool) {
	for n := range r.Routes {
		v := r.Routes[n]

		if !v.JWT && JWT {
			continue
		}

		if v.JWT && !JWT {
			continue
		}

		log.Infof("Loaded route: %s (%s) - %s", v.Name, v.Type, v.Path)

		handler := func(ctx iris.Context) {
			err := v.Func(ctx)
			if err != nil {
				log.Error(err)
				return
			}
		}

		switch v.Type {
		case RouteType_GET:
			r.App.Get(v.Path, handler)
		case RouteType_POST:
			r.App.Post(v.Path, handler)
		case RouteType_PUT:
			r.App.Put(v.Path, handler)
		case RouteType_DELETE:
			r.App.Delete(v.Path, handler)
		}
	}
}

func (r *Router) Listen(host string) {
	err := r.App.Listen(host)
	if err != nil {
		log.Error(err)
		return
	}
}
