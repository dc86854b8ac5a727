package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"starwars-api/confs"
	"starwars-api/db"
	"starwars-api/entities"
	"starwars-api/handlers"
	httpHandler "starwars-api/handlers/http"
	"starwars-api/metrics"
	"starwars-api/repositories"
	"starwars-api/usecases"
	"starwars-api/ws"
)

// Repositories is the storage the routes are served from.
type Repositories struct {
	Users      repositories.UserRepository
	Characters repositories.CharacterRepository
	Planets    repositories.PlanetRepository
	Favourites repositories.FavouriteRepository
}

// PgRepositories builds the postgres backed repositories.
func PgRepositories(database db.Database) Repositories {
	return Repositories{
		Users:      repositories.NewUserPgRepository(database),
		Characters: repositories.NewCharacterPgRepository(database),
		Planets:    repositories.NewPlanetPgRepository(database),
		Favourites: repositories.NewFavouritePgRepository(database),
	}
}

type Server struct {
	app     *gin.Engine
	cfg     confs.ServerConfig
	manager *ws.Manager
}

func NewServer(cfg confs.ServerConfig, database db.Database) *Server {
	manager := ws.NewManager()
	health := func(ctx context.Context) error { return db.Ping(ctx, database) }
	return &Server{
		app:     NewRouter(cfg, PgRepositories(database), manager, health),
		cfg:     cfg,
		manager: manager,
	}
}

// NewRouter builds the gin engine with every route. health may be nil.
func NewRouter(cfg confs.ServerConfig, repos Repositories, manager *ws.Manager, health func(context.Context) error) *gin.Engine {
	app := gin.New()
	app.Use(gin.Recovery(), requestID(), accessLog())

	// Setup CORS middleware
	config := cors.DefaultConfig()
	origins := cfg.Origins()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", httpHandler.UserIDHeader, requestIDHeader}
	config.ExposeHeaders = []string{requestIDHeader}
	app.Use(cors.New(config))

	// Initialize use cases
	userUseCase := usecases.NewUserUseCase(repos.Users)
	characterUseCase := usecases.NewCharacterUseCase(repos.Characters)
	planetUseCase := usecases.NewPlanetUseCase(repos.Planets)
	favouritesUseCase := usecases.NewFavouritesUseCase(repos.Users, repos.Characters, repos.Planets, repos.Favourites, manager)

	// Initialize handlers
	userHandler := httpHandler.NewUserHandler(userUseCase)
	characterHandler := httpHandler.NewCharacterHandler(characterUseCase)
	planetHandler := httpHandler.NewPlanetHandler(planetUseCase)
	favouriteHandler := httpHandler.NewFavouriteHandler(favouritesUseCase)
	wsHandler := handlers.NewWSHandler(manager, userUseCase)

	app.GET("/", sitemap(app))
	app.GET("/health", func(c *gin.Context) {
		if health != nil {
			if err := health(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "UNAVAILABLE", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	app.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Users
	app.POST("/user", userHandler.CreateUser)
	app.PUT("/user/:id", userHandler.UpdateUser)
	app.DELETE("/user/:id", userHandler.DeleteUser)
	app.GET("/users", userHandler.GetAllUsers)
	app.GET("/users/favourites", favouriteHandler.GetFavourites)
	app.GET("/users/:id", userHandler.GetUser)

	// Characters
	app.POST("/people", characterHandler.CreateCharacter)
	app.GET("/people", characterHandler.GetAllCharacters)
	app.GET("/people/:id", characterHandler.GetCharacter)
	app.PUT("/people/:id", characterHandler.UpdateCharacter)
	app.DELETE("/people/:id", characterHandler.DeleteCharacter)

	// Planets
	app.POST("/planet", planetHandler.CreatePlanet)
	app.PUT("/planet/:id", planetHandler.UpdatePlanet)
	app.DELETE("/planet/:id", planetHandler.DeletePlanet)
	app.GET("/planets", planetHandler.GetAllPlanets)
	app.GET("/planets/:id", planetHandler.GetPlanet)

	// Favourites of the active user
	favourite := app.Group("/favourite")
	{
		favourite.POST("/planet/:id", favouriteHandler.AddFavourite(entities.FavouritePlanet))
		favourite.POST("/people/:id", favouriteHandler.AddFavourite(entities.FavouriteCharacter))
		favourite.DELETE("/planet/:id", favouriteHandler.RemoveFavourite(entities.FavouritePlanet))
		favourite.DELETE("/people/:id", favouriteHandler.RemoveFavourite(entities.FavouriteCharacter))
	}

	app.GET("/ws", wsHandler.HandleFavouritesWS)
	app.GET("/ws/connected", wsHandler.GetConnectedUsers)

	return app
}

type route struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

// sitemap lists every registered route, sorted by path.
func sitemap(app *gin.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		infos := app.Routes()
		routes := make([]route, 0, len(infos))
		for _, r := range infos {
			routes = append(routes, route{Method: r.Method, Path: r.Path})
		}
		sort.Slice(routes, func(i, j int) bool {
			if routes[i].Path != routes[j].Path {
				return routes[i].Path < routes[j].Path
			}
			return routes[i].Method < routes[j].Method
		})
		c.JSON(http.StatusOK, routes)
	}
}

// Start serves until SIGINT or SIGTERM, then drains in-flight requests.
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:              s.cfg.Address(),
		Handler:           s.app,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	s.manager.CloseAll()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}
