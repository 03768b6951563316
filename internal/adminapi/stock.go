package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/wildfireconsulting/quantix/internal/domain"
	"github.com/wildfireconsulting/quantix/internal/i18n"
	"github.com/wildfireconsulting/quantix/internal/store"
	"github.com/wildfireconsulting/quantix/internal/webserver"
)

type stockPayload struct {
	ProductID string `json:"product_id" form:"product_id"`
	Action    string `json:"action" form:"action"`
	Amount    int    `json:"amount" form:"amount"`
}

func registerStockRoutes() {
	webserver.ApiPOST("/inventory/stock", applyStock)
	webserver.ApiGET("/inventory/history", listHistory)
}

func applyStock(c echo.Context) error {
	lang := reqLang(c)

	var payload stockPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse stock request", err.Error())
	}

	action := domain.Action(strings.ToUpper(strings.TrimSpace(payload.Action)))
	id := store.CanonicalID(payload.ProductID)

	res, err := GetApp(c).Stock().Apply(c.Request().Context(), id, action, payload.Amount)
	if err != nil {
		if res != nil {
			// the stock change committed, only the ledger write failed
			return fail(c, http.StatusInternalServerError, "LEDGER_WRITE_FAILED",
				"Stock updated but the transaction log could not be written", res)
		}
		return failFromDomain(c, lang, err)
	}

	msg := i18n.T(lang, actionMessageKey(action))
	if res.LowStock {
		msg = msg + " " + i18n.T(lang, "low_stock")
	}
	return okMsg(c, msg, res)
}

func actionMessageKey(action domain.Action) string {
	switch action {
	case domain.ActionAdd:
		return "added"
	case domain.ActionRemove:
		return "removed"
	default:
		return "sold"
	}
}

// listHistory returns ledger entries newest first, optionally narrowed to
// one product.
func listHistory(c echo.Context) error {
	page, pageSize := parsePagination(c)
	productID := store.CanonicalID(c.QueryParam("product_id"))

	entries, err := GetApp(c).Ledger().ReadAll()
	if err != nil {
		return fail(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to read history", err.Error())
	}

	if productID != "" {
		filtered := entries[:0]
		for _, e := range entries {
			if e.ProductID == productID {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	// ledger is append-only, reversing gives newest first
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}

	total := len(entries)
	lo, hi := pageBounds(total, page, pageSize)
	return paged(c, entries[lo:hi], total, page, pageSize)
}
