// Package countries отдаёт список стран формы быстрого старта.
package countries

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/fastvisa/internal/catalog"
	"github.com/magabrotheeeer/fastvisa/internal/http/response"
)

// Item — страна в выпадающем списке.
type Item struct {
	Code      string         `json:"code"`
	Name      string         `json:"name"`
	HasCities bool           `json:"has_cities"`
	Cities    []catalog.City `json:"cities"`
}

// Handler отдаёт список стран.
type Handler struct {
	log *slog.Logger
}

// New создает новый Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Страны быстрого старта
// @Description Для стран без городов учётные данные AIS не требуются.
// @Tags QuickStart
// @Produce  json
// @Success 200 {object} response.Response{data=[]Item}
// @Router /quickstart/countries [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	all := catalog.All()
	items := make([]Item, 0, len(all))
	for _, c := range all {
		cities := c.Cities
		if cities == nil {
			cities = []catalog.City{}
		}
		items = append(items, Item{Code: c.Code, Name: c.Name, HasCities: c.HasCities(), Cities: cities})
	}
	render.JSON(w, r, response.StatusOKWithData(items))
}
