package httpHandler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"starwars-api/usecases"
)

type CharacterHandler struct {
	useCase *usecases.CharacterUseCase
}

func NewCharacterHandler(useCase *usecases.CharacterUseCase) *CharacterHandler {
	return &CharacterHandler{
		useCase: useCase,
	}
}

// CreateCharacter handles POST /people
func (h *CharacterHandler) CreateCharacter(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}

	character, err := h.useCase.CreateCharacter(c.Request.Context(), payload)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, character)
}

// GetCharacter handles GET /people/:id
func (h *CharacterHandler) GetCharacter(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	character, err := h.useCase.GetCharacter(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, character)
}

// GetAllCharacters handles GET /people
func (h *CharacterHandler) GetAllCharacters(c *gin.Context) {
	characters, err := h.useCase.GetAllCharacters(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, characters)
}

// UpdateCharacter handles PUT /people/:id
func (h *CharacterHandler) UpdateCharacter(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	payload, ok := bindPayload(c)
	if !ok {
		return
	}

	character, err := h.useCase.UpdateCharacter(c.Request.Context(), id, payload)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, character)
}

// DeleteCharacter handles DELETE /people/:id and echoes the removed row.
func (h *CharacterHandler) DeleteCharacter(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	character, err := h.useCase.DeleteCharacter(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, character)
}
