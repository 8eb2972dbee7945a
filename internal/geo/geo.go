// Package geo определяет страну посетителя по IP для предзаполнения формы быстрого старта.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/magabrotheeeer/fastvisa/internal/catalog"
)

// IPPlaceholder заменяется в шаблоне адреса на IP посетителя.
const IPPlaceholder = "{ip}"

// Locator обращается к внешнему сервису геолокации.
type Locator struct {
	template   string
	httpClient *http.Client
}

// NewLocator создаёт Locator по шаблону адреса вида https://ipapi.co/{ip}/json/.
// Таймаут всего запроса ограничен timeout.
func NewLocator(template string, timeout time.Duration) *Locator {
	return &Locator{
		template:   template,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// lookupURL подставляет ip в шаблон. Без ip сегмент убирается, и сервис
// определяет адрес того, кто к нему обратился.
func (l *Locator) lookupURL(ip string) string {
	if ip == "" {
		return strings.Replace(l.template, IPPlaceholder+"/", "", 1)
	}
	return strings.Replace(l.template, IPPlaceholder, url.PathEscape(ip), 1)
}

type lookupResponse struct {
	CountryCode string `json:"country_code"`
}

// Country возвращает страну каталога для IP посетителя.
func (l *Locator) Country(ctx context.Context, ip string) (catalog.Country, error) {
	const op = "geo.Country"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.lookupURL(ip), nil)
	if err != nil {
		return catalog.Country{}, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return catalog.Country{}, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return catalog.Country{}, fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode)
	}

	var payload lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return catalog.Country{}, fmt.Errorf("%s: %w", op, err)
	}
	country, ok := catalog.ByISO(payload.CountryCode)
	if !ok {
		return catalog.Country{}, fmt.Errorf("%s: country %q is not supported", op, payload.CountryCode)
	}
	return country, nil
}
