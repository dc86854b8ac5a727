package httpHandler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"starwars-api/usecases"
)

type PlanetHandler struct {
	useCase *usecases.PlanetUseCase
}

func NewPlanetHandler(useCase *usecases.PlanetUseCase) *PlanetHandler {
	return &PlanetHandler{useCase: useCase}
}

// CreatePlanet handles POST /planet
func (h *PlanetHandler) CreatePlanet(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}
	planet, err := h.useCase.CreatePlanet(c.Request.Context(), payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, planet)
}

// GetPlanet handles GET /planets/:id
func (h *PlanetHandler) GetPlanet(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	planet, err := h.useCase.GetPlanet(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, planet)
}

// GetAllPlanets handles GET /planets
func (h *PlanetHandler) GetAllPlanets(c *gin.Context) {
	planets, err := h.useCase.GetAllPlanets(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, planets)
}

// UpdatePlanet handles PUT /planet/:id
func (h *PlanetHandler) UpdatePlanet(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	payload, ok := bindPayload(c)
	if !ok {
		return
	}
	planet, err := h.useCase.UpdatePlanet(c.Request.Context(), id, payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, planet)
}

// DeletePlanet handles DELETE /planet/:id
func (h *PlanetHandler) DeletePlanet(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	planet, err := h.useCase.DeletePlanet(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, planet)
}
