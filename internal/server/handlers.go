package server

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/rcliao/sutra-power/internal/app"
	"github.com/rcliao/sutra-power/internal/catalog"
)

type handler struct {
	catalog *catalog.Service
	status  func() app.Status
}

func paramID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("invalid " + name)
	}
	return id, nil
}

func (h *handler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, h.status())
}

func (h *handler) listCharacters(c echo.Context) error {
	ctx := c.Request().Context()
	if q := c.QueryParam("q"); q != "" {
		limit, _ := strconv.Atoi(c.QueryParam("limit"))
		chars, err := h.catalog.Search(ctx, q, limit)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, chars)
	}

	chars, err := h.catalog.Characters(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, chars)
}

func (h *handler) retrieveCharacter(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	ch, err := h.catalog.Character(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if ch == nil {
		return notFound("character", id)
	}
	return c.JSON(http.StatusOK, ch)
}

func (h *handler) createCharacter(c echo.Context) error {
	var in catalog.NewCharacter
	if err := c.Bind(&in); err != nil {
		return badRequest("invalid character payload")
	}
	ch, err := h.catalog.CreateCharacter(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, ch)
}

func (h *handler) updateCharacter(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var patch catalog.CharacterPatch
	if err := c.Bind(&patch); err != nil {
		return badRequest("invalid character payload")
	}
	ch, err := h.catalog.UpdateCharacter(c.Request().Context(), id, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ch)
}

func (h *handler) addImage(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in catalog.NewImage
	if err := c.Bind(&in); err != nil {
		return badRequest("invalid image payload")
	}
	if in.URL == "" {
		return badRequest("url is required")
	}
	ch, err := h.catalog.AddCharacterImage(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ch)
}

func (h *handler) removeImage(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	imageID, err := paramID(c, "imageId")
	if err != nil {
		return err
	}
	ch, err := h.catalog.RemoveCharacterImage(c.Request().Context(), id, imageID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ch)
}

func (h *handler) listChapters(c echo.Context) error {
	chapters, err := h.catalog.Chapters(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, chapters)
}

func (h *handler) retrieveChapter(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	ch, err := h.catalog.Chapter(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if ch == nil {
		return notFound("chapter", id)
	}
	return c.JSON(http.StatusOK, ch)
}

func (h *handler) listModels(c echo.Context) error {
	models, err := h.catalog.Models(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models)
}

func (h *handler) retrieveModel(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	m, err := h.catalog.Model(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if m == nil {
		return notFound("model", id)
	}
	return c.JSON(http.StatusOK, m)
}
