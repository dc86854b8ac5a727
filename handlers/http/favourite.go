package httpHandler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"starwars-api/apperror"
	"starwars-api/entities"
	"starwars-api/usecases"
)

// UserIDHeader lets a caller name the user a favourites request acts for.
const UserIDHeader = "X-User-ID"

type FavouriteHandler struct {
	useCase *usecases.FavouritesUseCase
}

func NewFavouriteHandler(useCase *usecases.FavouritesUseCase) *FavouriteHandler {
	return &FavouriteHandler{useCase: useCase}
}

// GetFavourites handles GET /users/favourites
func (h *FavouriteHandler) GetFavourites(c *gin.Context) {
	user, ok := h.resolveUser(c)
	if !ok {
		return
	}

	favs, err := h.useCase.ListFavourites(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, favs)
}

// AddFavourite returns the handler for POST /favourite/<kind>/:id
func (h *FavouriteHandler) AddFavourite(kind entities.FavouriteKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		targetID, ok := parseID(c, "id")
		if !ok {
			return
		}
		user, ok := h.resolveUser(c)
		if !ok {
			return
		}

		fav, err := h.useCase.AddFavourite(c.Request.Context(), user, kind, targetID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, fav)
	}
}

// RemoveFavourite returns the handler for DELETE /favourite/<kind>/:id
func (h *FavouriteHandler) RemoveFavourite(kind entities.FavouriteKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		targetID, ok := parseID(c, "id")
		if !ok {
			return
		}
		user, ok := h.resolveUser(c)
		if !ok {
			return
		}

		fav, err := h.useCase.RemoveFavourite(c.Request.Context(), user, kind, targetID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, fav)
	}
}

func (h *FavouriteHandler) resolveUser(c *gin.Context) (*entities.User, bool) {
	var explicit *uint
	if raw := c.GetHeader(UserIDHeader); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 0)
		if err != nil || id == 0 {
			respondError(c, apperror.NewBadRequestError(UserIDHeader+" must be a positive integer", err))
			return nil, false
		}
		uid := uint(id)
		explicit = &uid
	}

	user, err := h.useCase.ResolveUser(c.Request.Context(), explicit)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return user, true
}
